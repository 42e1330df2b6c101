package kafka

import (
	"context"
	"time"

	"fieldservice/internal/core/ports"
)

// PayoutRequestMessage asks the payer to pay the worker of a job.
type PayoutRequestMessage struct {
	JobID       string    `json:"jobId"`
	WorkerID    string    `json:"workerId"`
	Amount      int64     `json:"amount"`
	CashHeld    bool      `json:"cashHeld"`
	RequestedAt time.Time `json:"requestedAt"`
}

var _ ports.PayoutNotifier = (*PayoutNotifier)(nil)

type PayoutNotifier struct {
	producer *Producer
	topic    string
}

func NewPayoutNotifier(producer *Producer, topic string) *PayoutNotifier {
	return &PayoutNotifier{producer: producer, topic: topic}
}

func (n *PayoutNotifier) NotifyPayoutRequested(ctx context.Context, request ports.PayoutRequest) error {
	msg := PayoutRequestMessage{
		JobID:       request.JobID.String(),
		WorkerID:    request.WorkerID.String(),
		Amount:      request.Amount,
		CashHeld:    request.CashHeld,
		RequestedAt: request.RequestedAt,
	}
	return n.producer.publish(ctx, n.topic, msg.JobID, msg)
}
