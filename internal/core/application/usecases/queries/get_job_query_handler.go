package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetJobQueryHandler reads a job's read model straight from the jobs table.
type GetJobQueryHandler struct {
	db *gorm.DB
}

func NewGetJobQueryHandler(db *gorm.DB) GetJobQueryHandler {
	return GetJobQueryHandler{db: db}
}

// Handle returns errs.ObjectNotFoundError when the job does not exist.
func (h GetJobQueryHandler) Handle(ctx context.Context, query GetJobQuery) (GetJobQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetJobQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			worker_id,
			status,
			payment_mode,
			scheduled_at,
			base_amount + tax_amount + fee_amount - discount_amount,
			CASE WHEN cash_code IS NULL THEN NULL ELSE cash_total_due END,
			cash_collected,
			worker_payment_status,
			final_settlement_status,
			visited_at,
			completed_at,
			closed_at,
			position_lat,
			position_lng,
			position_heading,
			position_captured_at,
			version
		FROM jobs
		WHERE id = ?
	`, query.JobID().Bytes()).Row()

	var (
		resp                              GetJobQueryResponse
		id, workerID                      uuid.UUID
		status, mode, payment, settlement int
		cashTotal                         sql.NullInt64
		visitedAt, completedAt, closedAt  sql.NullTime
		lat, lng, heading                 sql.NullFloat64
		capturedAt                        sql.NullTime
	)
	err := row.Scan(
		&id,
		&workerID,
		&status,
		&mode,
		&resp.ScheduledAt,
		&resp.PayableAmount,
		&cashTotal,
		&resp.CashCollected,
		&payment,
		&settlement,
		&visitedAt,
		&completedAt,
		&closedAt,
		&lat,
		&lng,
		&heading,
		&capturedAt,
		&resp.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetJobQueryResponse{}, errs.NewObjectNotFoundError("job", query.JobID().String())
		}
		return GetJobQueryResponse{}, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetJobQueryResponse{}, err
	}
	if resp.WorkerID, err = kernel.UUIDFromBytes(workerID[:]); err != nil {
		return GetJobQueryResponse{}, err
	}

	resp.Status = job.Status(status).String()
	resp.PaymentMode = job.PaymentMode(mode).String()
	resp.WorkerPaymentStatus = job.WorkerPaymentStatus(payment).String()
	resp.FinalSettlementStatus = job.SettlementStatus(settlement).String()
	resp.ScheduledAt = resp.ScheduledAt.UTC()
	if cashTotal.Valid {
		resp.CashTotalDue = &cashTotal.Int64
	}
	resp.VisitedAt = nullTime(visitedAt)
	resp.CompletedAt = nullTime(completedAt)
	resp.ClosedAt = nullTime(closedAt)
	if lat.Valid && lng.Valid && capturedAt.Valid {
		resp.LastKnownPosition = &PositionView{
			Lat:        lat.Float64,
			Lng:        lng.Float64,
			Heading:    heading.Float64,
			CapturedAt: capturedAt.Time.UTC(),
		}
	}

	return resp, nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
