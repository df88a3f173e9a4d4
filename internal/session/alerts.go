package session

import (
	"context"
	"sync"

	"trip-route-planner/internal/domain"
	"trip-route-planner/internal/platform/obs"

	"go.uber.org/zap"
)

// AlertQueue keeps raised alerts until the client acknowledges them,
// oldest first.
type AlertQueue struct {
	log *zap.Logger

	mu     sync.Mutex
	alerts []domain.Alert
}

func NewAlertQueue(log *zap.Logger) *AlertQueue {
	if log == nil {
		log = zap.NewNop()
	}
	return &AlertQueue{log: log}
}

func (q *AlertQueue) Alert(ctx context.Context, a domain.Alert) {
	q.mu.Lock()
	q.alerts = append(q.alerts, a)
	q.mu.Unlock()

	q.log.Info("alert raised",
		zap.String("req_id", obs.RequestID(ctx)),
		zap.String("kind", string(a.Kind)),
		zap.String("title", a.Title),
	)
}

func (q *AlertQueue) Pending() []domain.Alert {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]domain.Alert{}, q.alerts...)
}

// Ack dismisses the oldest alert.
func (q *AlertQueue) Ack() (domain.Alert, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.alerts) == 0 {
		return domain.Alert{}, false
	}
	a := q.alerts[0]
	q.alerts = q.alerts[1:]
	return a, true
}
