package commands

import (
	"errors"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/guard"
)

var ErrAttemptTransitionCommandIsNotConstructed = errors.New(
	"AttemptTransitionCommand must be created via NewAttemptTransitionCommand constructor",
)

// TransitionRequest is what a client asks the lifecycle controller to do.
// Only the fields of the chosen action are read:
//   - VERIFY_VISIT: Code, Position (optional)
//   - SUBMIT_WORK: Evidence
//   - CANCEL: Reason (optional)
type TransitionRequest struct {
	Action   job.Action
	Code     string
	Position *kernel.PositionSample
	Evidence []string
	Reason   string
}

// AttemptTransitionCommand asks for one lifecycle transition of a job.
//
// Example:
//
//	cmd, err := NewAttemptTransitionCommand(jobID, TransitionRequest{
//	    Action:   job.ActionSubmitWork,
//	    Evidence: []string{"s3://evidence/42/after.jpg"},
//	})
type AttemptTransitionCommand struct { //nolint:recvcheck //using for validation
	jobID   kernel.UUID
	request TransitionRequest

	guard guard.ConstructorGuard
}

// NewAttemptTransitionCommand validates the job id and the action. Action
// specific payload rules are enforced by the aggregate.
func NewAttemptTransitionCommand(jobID kernel.UUID, request TransitionRequest) (AttemptTransitionCommand, error) {
	cmd := AttemptTransitionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setJobID(jobID),
		cmd.setRequest(request),
	); err != nil {
		return AttemptTransitionCommand{}, err
	}

	return cmd, nil
}

func (c AttemptTransitionCommand) Validate() error {
	return c.guard.Validate(ErrAttemptTransitionCommandIsNotConstructed)
}

func (c AttemptTransitionCommand) JobID() kernel.UUID {
	return c.jobID
}

func (c AttemptTransitionCommand) Request() TransitionRequest {
	return c.request
}

func (c *AttemptTransitionCommand) setJobID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.jobID = id
	return nil
}

func (c *AttemptTransitionCommand) setRequest(request TransitionRequest) error {
	action, err := job.ParseTransitionAction(string(request.Action))
	if err != nil {
		return err
	}
	if action == job.ActionVerifyVisit {
		if _, err = job.NewOneTimeCode(request.Code); err != nil {
			return err
		}
	}

	c.request = request
	return nil
}
