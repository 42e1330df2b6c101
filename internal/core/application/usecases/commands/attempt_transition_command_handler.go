package commands

import (
	"context"
	"log/slog"
	"time"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/ports"
)

// AttemptTransitionCommandHandler is the lifecycle controller. It checks the
// requested action against the job's state machine and applies it, delegating
// VERIFY_VISIT to the visit verification handler.
//
// Guarantees:
//   - A second attempt while one is in flight fails fast with ports.ErrJobBusy
//   - A successful attempt performs exactly one repository write
//   - A failed attempt writes nothing and releases the job's lock
//
// Entering JourneyStarted issues a visit code and sends it to the customer
// after the commit. A failed delivery is logged and does not fail the attempt.
//
// Example:
//
//	cmd, _ := NewAttemptTransitionCommand(jobID, TransitionRequest{Action: job.ActionAccept})
//	snapshot, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, job.ErrInvalidTransition):
//	    // refresh the screen, the job moved on
//	case errors.Is(err, ports.ErrJobBusy):
//	    // a duplicate click, ignore
//	}
type AttemptTransitionCommandHandler struct {
	mutator jobMutator
	codes   ports.CodeGenerator
	sender  ports.CodeSender
	visits  VerifyVisitCommandHandler
	logger  *slog.Logger
}

func NewAttemptTransitionCommandHandler(
	uowFactory JobUoWFactory,
	locker ports.JobLocker,
	codes ports.CodeGenerator,
	sender ports.CodeSender,
	visits VerifyVisitCommandHandler,
	logger *slog.Logger,
) AttemptTransitionCommandHandler {
	return AttemptTransitionCommandHandler{
		mutator: newJobMutator(uowFactory, locker),
		codes:   codes,
		sender:  sender,
		visits:  visits,
		logger:  logger.With("component", "lifecycle_controller"),
	}
}

func (h AttemptTransitionCommandHandler) Handle(ctx context.Context, cmd AttemptTransitionCommand) (job.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return job.Snapshot{}, err
	}

	request := cmd.Request()
	switch request.Action {
	case job.ActionVerifyVisit:
		visitCmd, err := NewVerifyVisitCommand(cmd.JobID(), request.Code, request.Position)
		if err != nil {
			return job.Snapshot{}, err
		}
		return h.visits.Handle(ctx, visitCmd)

	case job.ActionStartJourney:
		return h.startJourney(ctx, cmd)

	default:
		aggregate, err := h.mutator.mutate(ctx, cmd.JobID(), func(j *job.Job, at time.Time) error {
			return apply(j, request, at)
		})
		if err != nil {
			return job.Snapshot{}, err
		}
		h.logTransition(ctx, aggregate, request.Action)
		return aggregate.Snapshot(), nil
	}
}

func (h AttemptTransitionCommandHandler) startJourney(ctx context.Context, cmd AttemptTransitionCommand) (job.Snapshot, error) {
	code, err := h.codes.Generate()
	if err != nil {
		return job.Snapshot{}, err
	}

	aggregate, err := h.mutator.mutate(ctx, cmd.JobID(), func(j *job.Job, at time.Time) error {
		return j.StartJourney(code, at)
	})
	if err != nil {
		return job.Snapshot{}, err
	}
	h.logTransition(ctx, aggregate, job.ActionStartJourney)

	deliverCode(ctx, h.sender, h.logger, ports.CodeDelivery{
		JobID:   aggregate.ID(),
		Purpose: ports.CodePurposeVisit,
		Code:    code,
	})

	return aggregate.Snapshot(), nil
}

func (h AttemptTransitionCommandHandler) logTransition(ctx context.Context, aggregate *job.Job, action job.Action) {
	h.logger.InfoContext(ctx, "job transitioned",
		"job_id", aggregate.ID().String(),
		"action", action.String(),
		"status", aggregate.Status().String())
}

func apply(j *job.Job, request TransitionRequest, at time.Time) error {
	switch request.Action {
	case job.ActionAccept:
		return j.Accept(at)
	case job.ActionReject:
		return j.Reject(at)
	case job.ActionSubmitWork:
		return j.SubmitWork(request.Evidence, at)
	case job.ActionComplete:
		return j.Complete(at)
	case job.ActionCancel:
		return j.Cancel(request.Reason, at)
	default:
		return job.NewTransitionError(j.Status(), request.Action)
	}
}
