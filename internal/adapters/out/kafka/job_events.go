package kafka

import (
	"context"
	"time"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/ports"
)

// JobEventMessage is the wire form of a committed job event.
type JobEventMessage struct {
	JobID      string    `json:"jobId"`
	WorkerID   string    `json:"workerId"`
	Kind       string    `json:"kind"`
	Action     string    `json:"action,omitempty"`
	From       string    `json:"from,omitempty"`
	To         string    `json:"to,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

var _ ports.JobEventListener = (*JobEventForwarder)(nil)

// JobEventForwarder forwards committed job events to other services.
type JobEventForwarder struct {
	producer *Producer
	topic    string
}

func NewJobEventForwarder(producer *Producer, topic string) *JobEventForwarder {
	return &JobEventForwarder{producer: producer, topic: topic}
}

func (f *JobEventForwarder) OnJobEvent(ctx context.Context, event job.Event) {
	msg := JobEventMessage{
		JobID:      event.JobID.String(),
		WorkerID:   event.WorkerID.String(),
		Kind:       string(event.Kind),
		Action:     string(event.Action),
		OccurredAt: event.OccurredAt,
	}
	if event.IsStatusChange() {
		if event.Kind == job.EventStatusChanged {
			msg.From = event.From.String()
		}
		msg.To = event.To.String()
	}

	if err := f.producer.publish(ctx, f.topic, msg.JobID, msg); err != nil {
		f.producer.logger.WarnContext(ctx, "forwarding job event failed",
			"job_id", msg.JobID, "kind", msg.Kind, "error", err)
	}
}
