package ports

import (
	"context"

	"trip-route-planner/internal/domain"
)

// Alerter shows a blocking alert with a single acknowledgement action.
type Alerter interface {
	Alert(ctx context.Context, a domain.Alert)
}

// Camera drives the imperative map camera. Animate returns once the
// animation finished or ctx was cancelled by a newer animation.
type Camera interface {
	Animate(ctx context.Context, target domain.CameraTarget) error
}
