package events

import (
	"context"
	"time"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/ports"
)

// JobChanged is the payload of a job.changed realtime event.
type JobChanged struct {
	JobID      string    `json:"jobId"`
	Kind       string    `json:"kind"`
	From       string    `json:"from,omitempty"`
	To         string    `json:"to,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewJobChanged(event job.Event) JobChanged {
	changed := JobChanged{
		JobID:      event.JobID.String(),
		Kind:       string(event.Kind),
		OccurredAt: event.OccurredAt,
	}
	if event.IsStatusChange() {
		if event.Kind == job.EventStatusChanged {
			changed.From = event.From.String()
		}
		changed.To = event.To.String()
	}
	return changed
}

// JobChangedNotifier tells the observers of a job that it changed.
type JobChangedNotifier struct {
	channel ports.Channel
}

func NewJobChangedNotifier(channel ports.Channel) *JobChangedNotifier {
	return &JobChangedNotifier{channel: channel}
}

func (n *JobChangedNotifier) OnJobEvent(ctx context.Context, event job.Event) {
	n.channel.Send(ctx, event.JobID, ports.ChannelEvent{
		Name:    ports.EventJobChanged,
		Payload: NewJobChanged(event),
	})
}
