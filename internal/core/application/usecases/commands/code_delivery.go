package commands

import (
	"context"
	"log/slog"

	"fieldservice/internal/core/ports"
)

// deliverCode sends a code after the change that issued it was committed.
// Failures are logged only; the customer can ask for the code again.
func deliverCode(ctx context.Context, sender ports.CodeSender, logger *slog.Logger, delivery ports.CodeDelivery) {
	if sender == nil {
		return
	}
	if err := sender.SendCode(ctx, delivery); err != nil {
		logger.WarnContext(ctx, "code delivery failed",
			"job_id", delivery.JobID.String(),
			"purpose", string(delivery.Purpose),
			"error", err)
	}
}
