package ports

import (
	"context"
	"fmt"

	"fieldservice/internal/core/domain/model/kernel"
)

// PositionErrorCause classifies why a position source failed.
type PositionErrorCause string

const (
	PositionPermissionDenied PositionErrorCause = "PERMISSION_DENIED"
	PositionUnavailable      PositionErrorCause = "UNAVAILABLE"
	PositionTimeout          PositionErrorCause = "TIMEOUT"
)

// ParsePositionErrorCause maps a device reported cause, anything unknown is Unavailable.
func ParsePositionErrorCause(s string) PositionErrorCause {
	switch PositionErrorCause(s) {
	case PositionPermissionDenied, PositionTimeout:
		return PositionErrorCause(s)
	default:
		return PositionUnavailable
	}
}

// PositionError is a classified failure of a position source. It never ends a
// tracking session.
type PositionError struct {
	Cause   PositionErrorCause
	Message string
}

func NewPositionError(cause PositionErrorCause, message string) *PositionError {
	return &PositionError{Cause: cause, Message: message}
}

func (e *PositionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("position source: %s", e.Cause)
	}
	return fmt.Sprintf("position source: %s: %s", e.Cause, e.Message)
}

// PositionSource streams raw device positions of the worker on a job.
type PositionSource interface {
	// Subscribe registers callbacks for samples and errors of jobID until the
	// returned unsubscribe func is called or ctx ends.
	Subscribe(
		ctx context.Context,
		jobID kernel.UUID,
		onSample func(kernel.PositionSample),
		onError func(*PositionError),
	) (unsubscribe func(), err error)

	// CurrentPosition returns one recent sample, waiting at most until ctx ends.
	// Fails with a *PositionError.
	CurrentPosition(ctx context.Context, jobID kernel.UUID) (kernel.PositionSample, error)
}
