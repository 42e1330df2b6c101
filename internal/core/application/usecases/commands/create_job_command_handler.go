package commands

import (
	"context"
	"errors"
	"time"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/pkg/errs"
)

// ErrJobAlreadyExists is returned when a job with the same id is already stored.
// Redelivered assignment messages hit it and can be acknowledged.
var ErrJobAlreadyExists = errors.New("job already exists")

// CreateJobCommandHandler stores a new job in PendingResponse.
type CreateJobCommandHandler struct {
	uowFactory JobUoWFactory
}

func NewCreateJobCommandHandler(uowFactory JobUoWFactory) CreateJobCommandHandler {
	return CreateJobCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle creates the job and returns its snapshot.
// Returns ErrJobAlreadyExists if the id is taken.
func (h CreateJobCommandHandler) Handle(ctx context.Context, cmd CreateJobCommand) (job.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return job.Snapshot{}, err
	}

	aggregate, err := job.NewJob(cmd.JobID(), cmd.Booking(), time.Now().UTC())
	if err != nil {
		return job.Snapshot{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return job.Snapshot{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.JobRepository()
	_, err = repo.Get(ctx, cmd.JobID())
	if err == nil {
		return job.Snapshot{}, ErrJobAlreadyExists
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return job.Snapshot{}, err
	}

	if err = repo.Add(ctx, aggregate); err != nil {
		return job.Snapshot{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return job.Snapshot{}, err
	}

	return aggregate.Snapshot(), nil
}
