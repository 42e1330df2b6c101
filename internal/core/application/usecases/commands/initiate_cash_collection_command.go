package commands

import (
	"errors"
	"slices"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"
	"fieldservice/internal/pkg/guard"
)

var ErrInitiateCashCollectionCommandIsNotConstructed = errors.New(
	"InitiateCashCollectionCommand must be created via NewInitiateCashCollectionCommand constructor",
)

// InitiateCashCollectionCommand starts, or restarts, collecting cash for a job.
// A nil base amount means the job's payable amount.
type InitiateCashCollectionCommand struct { //nolint:recvcheck //using for validation
	jobID      kernel.UUID
	baseAmount *int64
	charges    []job.ExtraCharge

	guard guard.ConstructorGuard
}

func NewInitiateCashCollectionCommand(
	jobID kernel.UUID,
	baseAmount *int64,
	charges []job.ExtraCharge,
) (InitiateCashCollectionCommand, error) {
	cmd := InitiateCashCollectionCommand{
		charges: slices.Clone(charges),
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setJobID(jobID),
		cmd.setBaseAmount(baseAmount),
	); err != nil {
		return InitiateCashCollectionCommand{}, err
	}

	return cmd, nil
}

func (c InitiateCashCollectionCommand) Validate() error {
	return c.guard.Validate(ErrInitiateCashCollectionCommandIsNotConstructed)
}

func (c InitiateCashCollectionCommand) JobID() kernel.UUID {
	return c.jobID
}

func (c InitiateCashCollectionCommand) BaseAmount() *int64 {
	return c.baseAmount
}

func (c InitiateCashCollectionCommand) Charges() []job.ExtraCharge {
	return slices.Clone(c.charges)
}

func (c *InitiateCashCollectionCommand) setJobID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.jobID = id
	return nil
}

func (c *InitiateCashCollectionCommand) setBaseAmount(amount *int64) error {
	if amount == nil {
		return nil
	}
	if *amount < 0 {
		return errs.NewValueIsOutOfRangeError("baseAmount", *amount, 0, "unbounded")
	}

	v := *amount
	c.baseAmount = &v
	return nil
}
