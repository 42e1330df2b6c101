package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fieldservice/internal/core/application/usecases/commands"
	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/domain/model/kernel"

	kafkago "github.com/segmentio/kafka-go"
)

// JobCreator creates jobs.
type JobCreator interface {
	Handle(ctx context.Context, cmd commands.CreateJobCommand) (job.Snapshot, error)
}

// JobTransitioner attempts lifecycle transitions.
type JobTransitioner interface {
	Handle(ctx context.Context, cmd commands.AttemptTransitionCommand) (job.Snapshot, error)
}

// JobAssignedMessage announces a job the marketplace assigned to a worker.
type JobAssignedMessage struct {
	JobID          string    `json:"jobId"`
	WorkerID       string    `json:"workerId"`
	ScheduledAt    time.Time `json:"scheduledAt"`
	PaymentMode    string    `json:"paymentMode"`
	BaseAmount     int64     `json:"baseAmount"`
	TaxAmount      int64     `json:"taxAmount"`
	FeeAmount      int64     `json:"feeAmount"`
	DiscountAmount int64     `json:"discountAmount"`
}

// JobCancelledMessage announces an external cancellation.
type JobCancelledMessage struct {
	JobID  string `json:"jobId"`
	Reason string `json:"reason"`
}

type JobAssignedHandler struct {
	creator JobCreator
	logger  *slog.Logger
}

func NewJobAssignedHandler(creator JobCreator, logger *slog.Logger) *JobAssignedHandler {
	return &JobAssignedHandler{creator: creator, logger: logger.With("component", "job_assigned_consumer")}
}

func (h *JobAssignedHandler) HandleMessage(ctx context.Context, msg kafkago.Message) error {
	var in JobAssignedMessage
	if err := json.Unmarshal(msg.Value, &in); err != nil {
		return fmt.Errorf("decode job assigned: %w", err)
	}

	jobID, err := kernel.UUIDFromString(in.JobID)
	if err != nil {
		return err
	}
	workerID, err := kernel.UUIDFromString(in.WorkerID)
	if err != nil {
		return err
	}
	mode, err := job.ParsePaymentMode(in.PaymentMode)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateJobCommand(jobID, job.Booking{
		WorkerID:       workerID,
		ScheduledAt:    in.ScheduledAt,
		PaymentMode:    mode,
		BaseAmount:     in.BaseAmount,
		TaxAmount:      in.TaxAmount,
		FeeAmount:      in.FeeAmount,
		DiscountAmount: in.DiscountAmount,
	})
	if err != nil {
		return err
	}

	if _, err = h.creator.Handle(ctx, cmd); err != nil {
		if errors.Is(err, commands.ErrJobAlreadyExists) {
			h.logger.InfoContext(ctx, "duplicate job assignment ignored", "job_id", in.JobID)
			return nil
		}
		return err
	}

	h.logger.InfoContext(ctx, "job assigned", "job_id", in.JobID, "worker_id", in.WorkerID)
	return nil
}

type JobCancelledHandler struct {
	transitioner JobTransitioner
	logger       *slog.Logger
}

func NewJobCancelledHandler(transitioner JobTransitioner, logger *slog.Logger) *JobCancelledHandler {
	return &JobCancelledHandler{
		transitioner: transitioner,
		logger:       logger.With("component", "job_cancelled_consumer"),
	}
}

func (h *JobCancelledHandler) HandleMessage(ctx context.Context, msg kafkago.Message) error {
	var in JobCancelledMessage
	if err := json.Unmarshal(msg.Value, &in); err != nil {
		return fmt.Errorf("decode job cancelled: %w", err)
	}

	jobID, err := kernel.UUIDFromString(in.JobID)
	if err != nil {
		return err
	}
	cmd, err := commands.NewAttemptTransitionCommand(jobID, commands.TransitionRequest{
		Action: job.ActionCancel,
		Reason: in.Reason,
	})
	if err != nil {
		return err
	}

	if _, err = h.transitioner.Handle(ctx, cmd); err != nil {
		if errors.Is(err, job.ErrInvalidTransition) {
			h.logger.InfoContext(ctx, "cancellation of a finished job ignored", "job_id", in.JobID, "error", err)
			return nil
		}
		return err
	}

	h.logger.InfoContext(ctx, "job cancelled", "job_id", in.JobID)
	return nil
}
