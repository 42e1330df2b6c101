package commands

import (
	"errors"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/guard"
)

var ErrConfirmFinalSettlementCommandIsNotConstructed = errors.New(
	"ConfirmFinalSettlementCommand must be created via NewConfirmFinalSettlementCommand constructor",
)

// ConfirmFinalSettlementCommand closes the books of a paid job. The job becomes immutable.
type ConfirmFinalSettlementCommand struct { //nolint:recvcheck //using for validation
	jobID kernel.UUID

	guard guard.ConstructorGuard
}

func NewConfirmFinalSettlementCommand(jobID kernel.UUID) (ConfirmFinalSettlementCommand, error) {
	if err := jobID.Validate(); err != nil {
		return ConfirmFinalSettlementCommand{}, err
	}

	return ConfirmFinalSettlementCommand{
		jobID: jobID,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmFinalSettlementCommand) Validate() error {
	return c.guard.Validate(ErrConfirmFinalSettlementCommandIsNotConstructed)
}

func (c ConfirmFinalSettlementCommand) JobID() kernel.UUID {
	return c.jobID
}
