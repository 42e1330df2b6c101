package commands

import (
	"context"
	"log/slog"
	"time"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/ports"
)

// DefaultPositionCaptureTimeout bounds the one-shot position read made when
// a visit is verified without a position.
const DefaultPositionCaptureTimeout = 2 * time.Second

// VerifyVisitCommandHandler checks the visit code and moves the job to Visited.
//
// Position capture never blocks verification: when the request carries no
// position the handler asks the position source once, and any failure is
// recorded as an unknown position.
//
// Example:
//
//	cmd, _ := NewVerifyVisitCommand(jobID, "1234", nil)
//	snapshot, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, job.ErrCodeMismatch):
//	    // ask the worker to re-enter the code
//	case errors.Is(err, job.ErrAlreadyVerified):
//	    // nothing to do
//	}
type VerifyVisitCommandHandler struct {
	mutator        jobMutator
	positions      ports.PositionSource
	captureTimeout time.Duration
	logger         *slog.Logger
}

// NewVerifyVisitCommandHandler creates the handler. positions may be nil, in
// which case requests without a position record none.
func NewVerifyVisitCommandHandler(
	uowFactory JobUoWFactory,
	locker ports.JobLocker,
	positions ports.PositionSource,
	logger *slog.Logger,
) VerifyVisitCommandHandler {
	return VerifyVisitCommandHandler{
		mutator:        newJobMutator(uowFactory, locker),
		positions:      positions,
		captureTimeout: DefaultPositionCaptureTimeout,
		logger:         logger.With("component", "verify_visit"),
	}
}

func (h VerifyVisitCommandHandler) Handle(ctx context.Context, cmd VerifyVisitCommand) (job.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return job.Snapshot{}, err
	}

	position := cmd.Position()
	if position == nil {
		position = h.capturePosition(ctx, cmd.JobID())
	}

	aggregate, err := h.mutator.mutate(ctx, cmd.JobID(), func(j *job.Job, at time.Time) error {
		return j.VerifyVisit(cmd.Code(), position, at)
	})
	if err != nil {
		return job.Snapshot{}, err
	}

	return aggregate.Snapshot(), nil
}

func (h VerifyVisitCommandHandler) capturePosition(ctx context.Context, jobID kernel.UUID) *kernel.PositionSample {
	if h.positions == nil {
		return nil
	}

	captureCtx, cancel := context.WithTimeout(ctx, h.captureTimeout)
	defer cancel()

	sample, err := h.positions.CurrentPosition(captureCtx, jobID)
	if err != nil {
		h.logger.InfoContext(ctx, "verifying visit without position", "job_id", jobID.String(), "error", err)
		return nil
	}

	return &sample
}
