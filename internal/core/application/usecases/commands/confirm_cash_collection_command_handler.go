package commands

import (
	"context"
	"log/slog"
	"time"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/ports"
)

// ConfirmCashCollectionCommandHandler completes a cash job once the code and
// the amount match the latest initiation.
type ConfirmCashCollectionCommandHandler struct {
	mutator jobMutator
	logger  *slog.Logger
}

func NewConfirmCashCollectionCommandHandler(
	uowFactory JobUoWFactory,
	locker ports.JobLocker,
	logger *slog.Logger,
) ConfirmCashCollectionCommandHandler {
	return ConfirmCashCollectionCommandHandler{
		mutator: newJobMutator(uowFactory, locker),
		logger:  logger.With("component", "cash_collection"),
	}
}

func (h ConfirmCashCollectionCommandHandler) Handle(
	ctx context.Context,
	cmd ConfirmCashCollectionCommand,
) (job.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return job.Snapshot{}, err
	}

	aggregate, err := h.mutator.mutate(ctx, cmd.JobID(), func(j *job.Job, at time.Time) error {
		return j.ConfirmCashCollection(cmd.Code(), cmd.TotalAmount(), cmd.Charges(), at)
	})
	if err != nil {
		return job.Snapshot{}, err
	}

	h.logger.InfoContext(ctx, "cash collected", "job_id", aggregate.ID().String(), "amount", cmd.TotalAmount())
	return aggregate.Snapshot(), nil
}
