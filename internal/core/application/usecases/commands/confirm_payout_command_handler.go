package commands

import (
	"context"
	"log/slog"
	"time"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/ports"
)

// ConfirmPayoutCommandHandler marks the worker of a completed job as paid.
type ConfirmPayoutCommandHandler struct {
	mutator jobMutator
	logger  *slog.Logger
}

func NewConfirmPayoutCommandHandler(
	uowFactory JobUoWFactory,
	locker ports.JobLocker,
	logger *slog.Logger,
) ConfirmPayoutCommandHandler {
	return ConfirmPayoutCommandHandler{
		mutator: newJobMutator(uowFactory, locker),
		logger:  logger.With("component", "settlement"),
	}
}

func (h ConfirmPayoutCommandHandler) Handle(ctx context.Context, cmd ConfirmPayoutCommand) (job.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return job.Snapshot{}, err
	}

	aggregate, err := h.mutator.mutate(ctx, cmd.JobID(), func(j *job.Job, at time.Time) error {
		return j.ConfirmPayout(cmd.Reference(), at)
	})
	if err != nil {
		return job.Snapshot{}, err
	}

	h.logger.InfoContext(ctx, "worker paid", "job_id", aggregate.ID().String(), "reference", cmd.Reference())
	return aggregate.Snapshot(), nil
}
