package session

import (
	"context"
	"sync"
	"time"

	"trip-route-planner/internal/domain"
)

type CameraStatus string

const (
	CameraIdle        CameraStatus = "idle"
	CameraAnimating   CameraStatus = "animating"
	CameraSettled     CameraStatus = "settled"
	CameraInterrupted CameraStatus = "interrupted"
)

type CameraState struct {
	Target    *domain.CameraTarget
	Status    CameraStatus
	StartedAt time.Time
}

// CameraRecorder stands in for the client's map camera: it holds the
// latest command so the client can replay it, and runs for the
// animation's duration.
type CameraRecorder struct {
	mu    sync.Mutex
	seq   uint64
	state CameraState
}

func NewCameraRecorder() *CameraRecorder {
	return &CameraRecorder{state: CameraState{Status: CameraIdle}}
}

func (c *CameraRecorder) Animate(ctx context.Context, target domain.CameraTarget) error {
	c.mu.Lock()
	c.seq++
	n := c.seq
	t := target
	c.state = CameraState{Target: &t, Status: CameraAnimating, StartedAt: time.Now()}
	c.mu.Unlock()

	timer := time.NewTimer(target.Duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		c.finish(n, CameraSettled)
		return nil
	case <-ctx.Done():
		c.finish(n, CameraInterrupted)
		return ctx.Err()
	}
}

func (c *CameraRecorder) finish(n uint64, status CameraStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.seq == n {
		c.state.Status = status
	}
}

func (c *CameraRecorder) State() CameraState {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.state
	if st.Target != nil {
		t := *st.Target
		st.Target = &t
	}
	return st
}
