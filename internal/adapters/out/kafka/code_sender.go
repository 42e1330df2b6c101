package kafka

import (
	"context"

	"fieldservice/internal/core/ports"
)

// CodeMessage asks the notification service to show a code to the customer.
type CodeMessage struct {
	JobID   string `json:"jobId"`
	Purpose string `json:"purpose"`
	Code    string `json:"code"`
	Amount  int64  `json:"amount,omitempty"`
}

var _ ports.CodeSender = (*CodeSender)(nil)

type CodeSender struct {
	producer *Producer
	topic    string
}

func NewCodeSender(producer *Producer, topic string) *CodeSender {
	return &CodeSender{producer: producer, topic: topic}
}

func (s *CodeSender) SendCode(ctx context.Context, delivery ports.CodeDelivery) error {
	msg := CodeMessage{
		JobID:   delivery.JobID.String(),
		Purpose: string(delivery.Purpose),
		Code:    delivery.Code.Value(),
		Amount:  delivery.Amount,
	}
	return s.producer.publish(ctx, s.topic, msg.JobID, msg)
}
