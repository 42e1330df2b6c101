package commands

import (
	"errors"
	"slices"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"
	"fieldservice/internal/pkg/guard"
)

var ErrConfirmCashCollectionCommandIsNotConstructed = errors.New(
	"ConfirmCashCollectionCommand must be created via NewConfirmCashCollectionCommand constructor",
)

// ConfirmCashCollectionCommand records the cash handover with the customer's
// code and the amount the worker's device displayed.
type ConfirmCashCollectionCommand struct { //nolint:recvcheck //using for validation
	jobID       kernel.UUID
	code        job.OneTimeCode
	totalAmount int64
	charges     []job.ExtraCharge

	guard guard.ConstructorGuard
}

func NewConfirmCashCollectionCommand(
	jobID kernel.UUID,
	code string,
	totalAmount int64,
	charges []job.ExtraCharge,
) (ConfirmCashCollectionCommand, error) {
	cmd := ConfirmCashCollectionCommand{
		charges: slices.Clone(charges),
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setJobID(jobID),
		cmd.setCode(code),
		cmd.setTotalAmount(totalAmount),
	); err != nil {
		return ConfirmCashCollectionCommand{}, err
	}

	return cmd, nil
}

func (c ConfirmCashCollectionCommand) Validate() error {
	return c.guard.Validate(ErrConfirmCashCollectionCommandIsNotConstructed)
}

func (c ConfirmCashCollectionCommand) JobID() kernel.UUID {
	return c.jobID
}

func (c ConfirmCashCollectionCommand) Code() job.OneTimeCode {
	return c.code
}

func (c ConfirmCashCollectionCommand) TotalAmount() int64 {
	return c.totalAmount
}

func (c ConfirmCashCollectionCommand) Charges() []job.ExtraCharge {
	return slices.Clone(c.charges)
}

func (c *ConfirmCashCollectionCommand) setJobID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.jobID = id
	return nil
}

func (c *ConfirmCashCollectionCommand) setCode(value string) error {
	code, err := job.NewOneTimeCode(value)
	if err != nil {
		return err
	}

	c.code = code
	return nil
}

func (c *ConfirmCashCollectionCommand) setTotalAmount(amount int64) error {
	if amount < 0 {
		return errs.NewValueIsOutOfRangeError("totalAmount", amount, 0, "unbounded")
	}

	c.totalAmount = amount
	return nil
}
