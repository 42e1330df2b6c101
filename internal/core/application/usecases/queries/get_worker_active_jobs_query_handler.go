package queries

import (
	"context"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetWorkerActiveJobsQueryHandler reads a worker's open jobs from the jobs table.
type GetWorkerActiveJobsQueryHandler struct {
	db *gorm.DB
}

func NewGetWorkerActiveJobsQueryHandler(db *gorm.DB) GetWorkerActiveJobsQueryHandler {
	return GetWorkerActiveJobsQueryHandler{db: db}
}

// Handle returns an empty slice, never nil, when the worker has no open job.
func (h GetWorkerActiveJobsQueryHandler) Handle(
	ctx context.Context,
	query GetWorkerActiveJobsQuery,
) ([]GetWorkerActiveJobsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	terminal := make([]int, 0, len(job.TerminalStatuses()))
	for _, s := range job.TerminalStatuses() {
		terminal = append(terminal, int(s))
	}

	filter := "status NOT IN ?"
	args := []any{query.WorkerID().Bytes(), terminal}
	if statuses := query.Statuses(); len(statuses) > 0 {
		wanted := make([]int, 0, len(statuses))
		for _, s := range statuses {
			wanted = append(wanted, int(s))
		}
		filter += " AND status IN ?"
		args = append(args, wanted)
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			payment_mode,
			scheduled_at,
			base_amount + tax_amount + fee_amount - discount_amount
		FROM jobs
		WHERE worker_id = ? AND `+filter+`
		ORDER BY scheduled_at, id
	`, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]GetWorkerActiveJobsQueryResponse, 0)
	for rows.Next() {
		var item GetWorkerActiveJobsQueryResponse
		var id uuid.UUID
		var status, mode int

		if err = rows.Scan(&id, &status, &mode, &item.ScheduledAt, &item.PayableAmount); err != nil {
			return nil, err
		}

		jobID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		item.ID = jobID
		item.Status = job.Status(status).String()
		item.PaymentMode = job.PaymentMode(mode).String()
		item.ScheduledAt = item.ScheduledAt.UTC()
		jobs = append(jobs, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}
