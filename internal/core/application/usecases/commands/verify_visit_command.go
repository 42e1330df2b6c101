package commands

import (
	"errors"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/guard"
)

var ErrVerifyVisitCommandIsNotConstructed = errors.New(
	"VerifyVisitCommand must be created via NewVerifyVisitCommand constructor",
)

// VerifyVisitCommand proves the worker arrived by echoing the customer's code.
// Position is optional.
type VerifyVisitCommand struct { //nolint:recvcheck //using for validation
	jobID    kernel.UUID
	code     job.OneTimeCode
	position *kernel.PositionSample

	guard guard.ConstructorGuard
}

// NewVerifyVisitCommand validates the job id and the code format.
func NewVerifyVisitCommand(jobID kernel.UUID, code string, position *kernel.PositionSample) (VerifyVisitCommand, error) {
	cmd := VerifyVisitCommand{
		position: position,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setJobID(jobID),
		cmd.setCode(code),
	); err != nil {
		return VerifyVisitCommand{}, err
	}

	return cmd, nil
}

func (c VerifyVisitCommand) Validate() error {
	return c.guard.Validate(ErrVerifyVisitCommandIsNotConstructed)
}

func (c VerifyVisitCommand) JobID() kernel.UUID {
	return c.jobID
}

func (c VerifyVisitCommand) Code() job.OneTimeCode {
	return c.code
}

// Position returns the position reported with the request, nil if none.
func (c VerifyVisitCommand) Position() *kernel.PositionSample {
	return c.position
}

func (c *VerifyVisitCommand) setJobID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.jobID = id
	return nil
}

func (c *VerifyVisitCommand) setCode(value string) error {
	code, err := job.NewOneTimeCode(value)
	if err != nil {
		return err
	}

	c.code = code
	return nil
}
