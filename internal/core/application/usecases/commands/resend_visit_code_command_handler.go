package commands

import (
	"context"
	"fmt"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/ports"
)

// ResendVisitCodeCommandHandler re-delivers the visit code of a travelling
// job. It changes nothing, so it neither locks the job nor writes it.
type ResendVisitCodeCommandHandler struct {
	uowFactory JobUoWFactory
	sender     ports.CodeSender
}

func NewResendVisitCodeCommandHandler(uowFactory JobUoWFactory, sender ports.CodeSender) ResendVisitCodeCommandHandler {
	return ResendVisitCodeCommandHandler{
		uowFactory: uowFactory,
		sender:     sender,
	}
}

// Handle returns a TransitionError unless the job is JourneyStarted and
// ErrCodeNotDelivered when the sender fails.
func (h ResendVisitCodeCommandHandler) Handle(ctx context.Context, cmd ResendVisitCodeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.JobRepository().Get(ctx, cmd.JobID())
	if err != nil {
		return err
	}

	if aggregate.Status() != job.JourneyStarted {
		return job.NewTransitionError(aggregate.Status(), job.ActionResendVisitCode)
	}
	code := aggregate.VisitCode()
	if code == nil {
		return job.ErrVisitCodeMissing
	}

	if err = h.sender.SendCode(ctx, ports.CodeDelivery{
		JobID:   aggregate.ID(),
		Purpose: ports.CodePurposeVisit,
		Code:    *code,
	}); err != nil {
		return fmt.Errorf("%w: %w", ErrCodeNotDelivered, err)
	}

	return nil
}
