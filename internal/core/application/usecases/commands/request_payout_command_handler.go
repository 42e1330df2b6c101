package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/ports"
)

// RequestPayoutCommandHandler records a payout request and notifies the payer.
//
// The notification is fire-and-forget. When it fails the request stays
// recorded and Handle returns the snapshot together with an error wrapping
// ErrPayoutNotDelivered, so the caller can tell the worker to retry.
type RequestPayoutCommandHandler struct {
	mutator  jobMutator
	notifier ports.PayoutNotifier
	logger   *slog.Logger
}

func NewRequestPayoutCommandHandler(
	uowFactory JobUoWFactory,
	locker ports.JobLocker,
	notifier ports.PayoutNotifier,
	logger *slog.Logger,
) RequestPayoutCommandHandler {
	return RequestPayoutCommandHandler{
		mutator:  newJobMutator(uowFactory, locker),
		notifier: notifier,
		logger:   logger.With("component", "settlement"),
	}
}

func (h RequestPayoutCommandHandler) Handle(ctx context.Context, cmd RequestPayoutCommand) (job.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return job.Snapshot{}, err
	}

	var requestedAt time.Time
	aggregate, err := h.mutator.mutate(ctx, cmd.JobID(), func(j *job.Job, at time.Time) error {
		requestedAt = at
		return j.RequestPayout(at)
	})
	if err != nil {
		return job.Snapshot{}, err
	}

	snapshot := aggregate.Snapshot()
	if err = h.notifier.NotifyPayoutRequested(ctx, payoutRequest(snapshot, requestedAt)); err != nil {
		h.logger.WarnContext(ctx, "payout notification failed", "job_id", snapshot.ID.String(), "error", err)
		return snapshot, fmt.Errorf("%w: %w", ErrPayoutNotDelivered, err)
	}

	h.logger.InfoContext(ctx, "payout requested", "job_id", snapshot.ID.String())
	return snapshot, nil
}

// payoutRequest owes the worker the collected cash total for cash jobs and
// the payable amount otherwise.
func payoutRequest(s job.Snapshot, at time.Time) ports.PayoutRequest {
	amount := s.BaseAmount + s.TaxAmount + s.FeeAmount - s.DiscountAmount
	if s.CashCollection != nil && s.CashCollected {
		amount = s.CashCollection.TotalDue()
	}

	return ports.PayoutRequest{
		JobID:       s.ID,
		WorkerID:    s.WorkerID,
		Amount:      amount,
		CashHeld:    s.CashCollected,
		RequestedAt: at,
	}
}
