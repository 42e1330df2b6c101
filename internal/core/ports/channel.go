package ports

import (
	"context"

	"fieldservice/internal/core/domain/model/kernel"
)

const (
	EventLocationUpdate = "location.update"
	EventTelemetryError = "telemetry.error"
	EventJobChanged     = "job.changed"
)

// ChannelEvent is one outbound real-time message about a job.
type ChannelEvent struct {
	Name    string
	Payload any
}

// Channel pushes events to the observers of a job. Send never blocks on slow
// observers and reports nothing; undeliverable events are dropped.
type Channel interface {
	Send(ctx context.Context, jobID kernel.UUID, event ChannelEvent)
}
