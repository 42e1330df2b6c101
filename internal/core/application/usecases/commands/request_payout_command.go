package commands

import (
	"errors"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/guard"
)

var ErrRequestPayoutCommandIsNotConstructed = errors.New(
	"RequestPayoutCommand must be created via NewRequestPayoutCommand constructor",
)

// RequestPayoutCommand asks the external payer to pay the worker of a completed job.
type RequestPayoutCommand struct { //nolint:recvcheck //using for validation
	jobID kernel.UUID

	guard guard.ConstructorGuard
}

func NewRequestPayoutCommand(jobID kernel.UUID) (RequestPayoutCommand, error) {
	if err := jobID.Validate(); err != nil {
		return RequestPayoutCommand{}, err
	}

	return RequestPayoutCommand{
		jobID: jobID,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c RequestPayoutCommand) Validate() error {
	return c.guard.Validate(ErrRequestPayoutCommandIsNotConstructed)
}

func (c RequestPayoutCommand) JobID() kernel.UUID {
	return c.jobID
}
