// Package queries contains read operations over the jobs tables.
// Queries bypass the aggregate and return read models built with plain SQL.
package queries

import (
	"errors"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/guard"
)

var ErrGetJobQueryIsNotConstructed = errors.New("GetJobQuery must be created via NewGetJobQuery constructor")

// GetJobQuery reads one job.
//
// Example:
//
//	query, err := NewGetJobQuery(jobID)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // 404
//	}
type GetJobQuery struct { //nolint:recvcheck //using for validation
	jobID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetJobQuery(jobID kernel.UUID) (GetJobQuery, error) {
	if err := jobID.Validate(); err != nil {
		return GetJobQuery{}, err
	}

	return GetJobQuery{jobID: jobID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetJobQuery) Validate() error {
	return q.guard.Validate(ErrGetJobQueryIsNotConstructed)
}

func (q GetJobQuery) JobID() kernel.UUID {
	return q.jobID
}

// PositionView is the last known position of a job.
type PositionView struct {
	Lat        float64
	Lng        float64
	Heading    float64
	CapturedAt time.Time
}

// GetJobQueryResponse is the read model of a single job. Enumerations are
// rendered with their wire names. Codes are never exposed.
type GetJobQueryResponse struct {
	ID                    kernel.UUID
	WorkerID              kernel.UUID
	Status                string
	PaymentMode           string
	ScheduledAt           time.Time
	PayableAmount         int64
	CashTotalDue          *int64
	CashCollected         bool
	WorkerPaymentStatus   string
	FinalSettlementStatus string
	VisitedAt             *time.Time
	CompletedAt           *time.Time
	ClosedAt              *time.Time
	LastKnownPosition     *PositionView
	Version               int64
}
