package commands

import (
	"context"
	"log/slog"
	"time"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/ports"
)

// ConfirmFinalSettlementCommandHandler closes a job whose worker was paid.
// It fails with job.ErrPayoutNotConfirmed before the payout is confirmed and
// with job.ErrJobIsImmutable once the job is settled.
type ConfirmFinalSettlementCommandHandler struct {
	mutator jobMutator
	logger  *slog.Logger
}

func NewConfirmFinalSettlementCommandHandler(
	uowFactory JobUoWFactory,
	locker ports.JobLocker,
	logger *slog.Logger,
) ConfirmFinalSettlementCommandHandler {
	return ConfirmFinalSettlementCommandHandler{
		mutator: newJobMutator(uowFactory, locker),
		logger:  logger.With("component", "settlement"),
	}
}

func (h ConfirmFinalSettlementCommandHandler) Handle(
	ctx context.Context,
	cmd ConfirmFinalSettlementCommand,
) (job.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return job.Snapshot{}, err
	}

	aggregate, err := h.mutator.mutate(ctx, cmd.JobID(), func(j *job.Job, at time.Time) error {
		return j.ConfirmFinalSettlement(at)
	})
	if err != nil {
		return job.Snapshot{}, err
	}

	h.logger.InfoContext(ctx, "job settled", "job_id", aggregate.ID().String())
	return aggregate.Snapshot(), nil
}
