package services

import (
	"context"
	"errors"
	"sync"

	"trip-route-planner/internal/domain"
	"trip-route-planner/internal/ports"

	"go.uber.org/zap"
)

// cameraDriver runs at most one camera animation at a time. A new
// animation cancels the one still running.
type cameraDriver struct {
	camera ports.Camera
	log    *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newCameraDriver(camera ports.Camera, log *zap.Logger) *cameraDriver {
	return &cameraDriver{camera: camera, log: log}
}

// animate starts target in the background and returns immediately.
// The animation outlives ctx's cancellation but keeps its values.
func (d *cameraDriver) animate(ctx context.Context, target domain.CameraTarget) {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
	}
	actx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	d.cancel = cancel
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		defer cancel()

		err := d.camera.Animate(actx, target)
		if err != nil && !errors.Is(err, context.Canceled) {
			d.log.Warn("camera animation failed", zap.Stringer("center", target.Center), zap.Error(err))
		}
	}()
}

// stop cancels the running animation and waits for it to return.
func (d *cameraDriver) stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}
