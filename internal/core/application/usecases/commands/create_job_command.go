package commands

import (
	"errors"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/guard"
)

var ErrCreateJobCommandIsNotConstructed = errors.New(
	"CreateJobCommand must be created via NewCreateJobCommand constructor",
)

// CreateJobCommand registers a job that the marketplace already assigned to a worker.
//
// Example:
//
//	cmd, err := NewCreateJobCommand(jobID, job.Booking{
//	    WorkerID:    workerID,
//	    ScheduledAt: slot,
//	    PaymentMode: job.PaymentModeCash,
//	    BaseAmount:  50_000,
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid booking: %w", err)
//	}
//	snapshot, err := handler.Handle(ctx, cmd)
type CreateJobCommand struct { //nolint:recvcheck //using for validation
	jobID   kernel.UUID
	booking job.Booking

	guard guard.ConstructorGuard
}

// NewCreateJobCommand validates the job id and the worker id. The booking
// amounts are validated by the aggregate.
func NewCreateJobCommand(jobID kernel.UUID, booking job.Booking) (CreateJobCommand, error) {
	cmd := CreateJobCommand{
		booking: booking,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setJobID(jobID),
		booking.WorkerID.Validate(),
	); err != nil {
		return CreateJobCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateJobCommand) Validate() error {
	return c.guard.Validate(ErrCreateJobCommandIsNotConstructed)
}

func (c CreateJobCommand) JobID() kernel.UUID {
	return c.jobID
}

func (c CreateJobCommand) Booking() job.Booking {
	return c.booking
}

func (c *CreateJobCommand) setJobID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.jobID = id
	return nil
}
