// Package events fans committed job events out to in-process listeners.
//
// The unit of work publishes the events of every aggregate it committed to a
// Bus. Listeners registered on the Bus then react: the telemetry supervisor
// starts and stops sessions, the JobChangedNotifier pushes job.changed to the
// realtime channel and the Kafka publisher forwards events to other services.
package events

import (
	"context"
	"log/slog"
	"sync"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/ports"
)

var _ ports.JobEventPublisher = (*Bus)(nil)

// Bus delivers events synchronously to every subscribed listener in the order
// they subscribed. A panicking listener is logged and does not stop delivery.
type Bus struct {
	mu        sync.RWMutex
	listeners []ports.JobEventListener
	logger    *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{logger: logger.With("component", "job_events")}
}

// Subscribe registers listeners for every later Publish.
func (b *Bus) Subscribe(listeners ...ports.JobEventListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, listeners...)
}

func (b *Bus) Publish(ctx context.Context, events ...job.Event) {
	b.mu.RLock()
	listeners := make([]ports.JobEventListener, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.RUnlock()

	for _, event := range events {
		for _, listener := range listeners {
			b.deliver(ctx, listener, event)
		}
	}
}

func (b *Bus) deliver(ctx context.Context, listener ports.JobEventListener, event job.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.ErrorContext(ctx, "job event listener panicked",
				"job_id", event.JobID.String(), "kind", string(event.Kind), "panic", r)
		}
	}()
	listener.OnJobEvent(ctx, event)
}
