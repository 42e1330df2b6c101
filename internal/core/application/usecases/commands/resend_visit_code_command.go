package commands

import (
	"errors"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/guard"
)

var ErrResendVisitCodeCommandIsNotConstructed = errors.New(
	"ResendVisitCodeCommand must be created via NewResendVisitCodeCommand constructor",
)

// ResendVisitCodeCommand sends the current visit code to the customer again.
type ResendVisitCodeCommand struct { //nolint:recvcheck //using for validation
	jobID kernel.UUID

	guard guard.ConstructorGuard
}

func NewResendVisitCodeCommand(jobID kernel.UUID) (ResendVisitCodeCommand, error) {
	if err := jobID.Validate(); err != nil {
		return ResendVisitCodeCommand{}, err
	}

	return ResendVisitCodeCommand{
		jobID: jobID,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c ResendVisitCodeCommand) Validate() error {
	return c.guard.Validate(ErrResendVisitCodeCommandIsNotConstructed)
}

func (c ResendVisitCodeCommand) JobID() kernel.UUID {
	return c.jobID
}
