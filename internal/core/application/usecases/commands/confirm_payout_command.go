package commands

import (
	"errors"
	"strings"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"
	"fieldservice/internal/pkg/guard"
)

// PayoutReferenceMaxLength bounds the payer's transfer reference.
const PayoutReferenceMaxLength = 128

var ErrConfirmPayoutCommandIsNotConstructed = errors.New(
	"ConfirmPayoutCommand must be created via NewConfirmPayoutCommand constructor",
)

// ConfirmPayoutCommand is the payer's callback: the worker of the job was paid.
type ConfirmPayoutCommand struct { //nolint:recvcheck //using for validation
	jobID     kernel.UUID
	reference string

	guard guard.ConstructorGuard
}

func NewConfirmPayoutCommand(jobID kernel.UUID, reference string) (ConfirmPayoutCommand, error) {
	cmd := ConfirmPayoutCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setJobID(jobID),
		cmd.setReference(reference),
	); err != nil {
		return ConfirmPayoutCommand{}, err
	}

	return cmd, nil
}

func (c ConfirmPayoutCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPayoutCommandIsNotConstructed)
}

func (c ConfirmPayoutCommand) JobID() kernel.UUID {
	return c.jobID
}

// Reference returns the payer's transfer reference, possibly empty.
func (c ConfirmPayoutCommand) Reference() string {
	return c.reference
}

func (c *ConfirmPayoutCommand) setJobID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.jobID = id
	return nil
}

func (c *ConfirmPayoutCommand) setReference(reference string) error {
	reference = strings.TrimSpace(reference)
	if len(reference) > PayoutReferenceMaxLength {
		return errs.NewValueIsOutOfRangeError("reference length", len(reference), 0, PayoutReferenceMaxLength)
	}

	c.reference = reference
	return nil
}
