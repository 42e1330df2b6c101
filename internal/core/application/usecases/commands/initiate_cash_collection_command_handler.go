package commands

import (
	"context"
	"log/slog"
	"time"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/ports"
)

// InitiateCashCollectionResult is the computed amount due and the updated job.
type InitiateCashCollectionResult struct {
	TotalDue int64
	Job      job.Snapshot
}

// InitiateCashCollectionCommandHandler computes the total due for a cash job,
// issues a fresh cash code and sends it to the customer after the commit.
// Any code from an earlier initiation stops being accepted.
type InitiateCashCollectionCommandHandler struct {
	mutator jobMutator
	codes   ports.CodeGenerator
	sender  ports.CodeSender
	logger  *slog.Logger
}

func NewInitiateCashCollectionCommandHandler(
	uowFactory JobUoWFactory,
	locker ports.JobLocker,
	codes ports.CodeGenerator,
	sender ports.CodeSender,
	logger *slog.Logger,
) InitiateCashCollectionCommandHandler {
	return InitiateCashCollectionCommandHandler{
		mutator: newJobMutator(uowFactory, locker),
		codes:   codes,
		sender:  sender,
		logger:  logger.With("component", "cash_collection"),
	}
}

func (h InitiateCashCollectionCommandHandler) Handle(
	ctx context.Context,
	cmd InitiateCashCollectionCommand,
) (InitiateCashCollectionResult, error) {
	if err := cmd.Validate(); err != nil {
		return InitiateCashCollectionResult{}, err
	}

	code, err := h.codes.Generate()
	if err != nil {
		return InitiateCashCollectionResult{}, err
	}

	var total int64
	aggregate, err := h.mutator.mutate(ctx, cmd.JobID(), func(j *job.Job, at time.Time) error {
		var initErr error
		total, initErr = j.InitiateCashCollection(cmd.BaseAmount(), cmd.Charges(), code, at)
		return initErr
	})
	if err != nil {
		return InitiateCashCollectionResult{}, err
	}

	h.logger.InfoContext(ctx, "cash collection initiated", "job_id", aggregate.ID().String(), "total_due", total)
	deliverCode(ctx, h.sender, h.logger, ports.CodeDelivery{
		JobID:   aggregate.ID(),
		Purpose: ports.CodePurposeCash,
		Code:    code,
		Amount:  total,
	})

	return InitiateCashCollectionResult{TotalDue: total, Job: aggregate.Snapshot()}, nil
}
