package queries

import (
	"errors"
	"time"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/guard"
)

var ErrGetWorkerActiveJobsQueryIsNotConstructed = errors.New(
	"GetWorkerActiveJobsQuery must be created via NewGetWorkerActiveJobsQuery constructor",
)

// GetWorkerActiveJobsQuery lists the jobs of a worker that are not terminal,
// earliest schedule first. A non-empty status list narrows the result.
type GetWorkerActiveJobsQuery struct { //nolint:recvcheck //using for validation
	workerID kernel.UUID
	statuses []job.Status

	guard guard.ConstructorGuard
}

func NewGetWorkerActiveJobsQuery(workerID kernel.UUID, statuses ...job.Status) (GetWorkerActiveJobsQuery, error) {
	if err := workerID.Validate(); err != nil {
		return GetWorkerActiveJobsQuery{}, err
	}
	for _, s := range statuses {
		if err := s.Validate(); err != nil {
			return GetWorkerActiveJobsQuery{}, err
		}
	}

	return GetWorkerActiveJobsQuery{
		workerID: workerID,
		statuses: append([]job.Status(nil), statuses...),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q GetWorkerActiveJobsQuery) Validate() error {
	return q.guard.Validate(ErrGetWorkerActiveJobsQueryIsNotConstructed)
}

func (q GetWorkerActiveJobsQuery) WorkerID() kernel.UUID {
	return q.workerID
}

func (q GetWorkerActiveJobsQuery) Statuses() []job.Status {
	return q.statuses
}

// GetWorkerActiveJobsQueryResponse is one row of a worker's job list.
type GetWorkerActiveJobsQueryResponse struct {
	ID            kernel.UUID
	Status        string
	PaymentMode   string
	ScheduledAt   time.Time
	PayableAmount int64
}
