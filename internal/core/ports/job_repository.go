package ports

import (
	"context"
	"errors"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/domain/model/kernel"
)

var (
	// ErrConcurrentModification is returned by Update when the stored version
	// no longer matches the aggregate's version.
	ErrConcurrentModification = errors.New("job was modified concurrently")

	// ErrPositionRejected is returned by UpdatePosition when the job is not in
	// one of the accepted statuses.
	ErrPositionRejected = errors.New("position rejected")

	// ErrPositionOutdated is returned by UpdatePosition when a newer sample is
	// already stored.
	ErrPositionOutdated = errors.New("position outdated")
)

// JobRepository defines the persistence contract for job aggregates.
type JobRepository interface {
	// Add persists a new job aggregate.
	Add(ctx context.Context, aggregate *job.Job) error

	// Update persists the aggregate if the stored version equals aggregate.Version(),
	// then increments the version. Returns ErrConcurrentModification otherwise.
	Update(ctx context.Context, aggregate *job.Job) error

	// Get retrieves a job by identifier.
	// Returns errs.ObjectNotFoundError when it does not exist.
	Get(ctx context.Context, id kernel.UUID) (*job.Job, error)

	// UpdatePosition stores sample as the job's last known position without
	// touching status or version. The write happens only while the job is in
	// one of statuses (ErrPositionRejected otherwise) and sample is not older
	// than the stored one (ErrPositionOutdated otherwise).
	UpdatePosition(ctx context.Context, id kernel.UUID, sample kernel.PositionSample, statuses []job.Status) error

	// GetAllInStatuses retrieves every job whose status is one of statuses.
	GetAllInStatuses(ctx context.Context, statuses ...job.Status) ([]*job.Job, error)
}
