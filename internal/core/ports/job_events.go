package ports

import (
	"context"

	"fieldservice/internal/core/domain/model/job"
)

// JobEventPublisher hands committed job events to registered listeners.
type JobEventPublisher interface {
	Publish(ctx context.Context, events ...job.Event)
}

// JobEventListener reacts to a committed job event. Listeners must not block.
type JobEventListener interface {
	OnJobEvent(ctx context.Context, event job.Event)
}

// JobEventListenerFunc adapts a function to JobEventListener.
type JobEventListenerFunc func(ctx context.Context, event job.Event)

func (f JobEventListenerFunc) OnJobEvent(ctx context.Context, event job.Event) {
	f(ctx, event)
}
