package ports

import (
	"context"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
)

// PayoutRequest asks the external payer to pay the worker of a job.
type PayoutRequest struct {
	JobID       kernel.UUID
	WorkerID    kernel.UUID
	Amount      int64
	CashHeld    bool
	RequestedAt time.Time
}

// PayoutNotifier sends payout requests to the external payer.
type PayoutNotifier interface {
	NotifyPayoutRequested(ctx context.Context, request PayoutRequest) error
}
