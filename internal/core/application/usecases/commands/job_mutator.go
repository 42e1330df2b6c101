package commands

import (
	"context"
	"time"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/ports"
)

// jobMutator runs one domain operation against a stored job.
//
// The job's lock is held from before the read until after the commit and is
// released on every exit path. Exactly one repository write happens, and only
// when the operation succeeds.
type jobMutator struct {
	uowFactory JobUoWFactory
	locker     ports.JobLocker
	now        func() time.Time
}

func newJobMutator(uowFactory JobUoWFactory, locker ports.JobLocker) jobMutator {
	return jobMutator{
		uowFactory: uowFactory,
		locker:     locker,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (m jobMutator) mutate(
	ctx context.Context,
	jobID kernel.UUID,
	operation func(aggregate *job.Job, at time.Time) error,
) (*job.Job, error) {
	release, err := m.locker.TryLock(ctx, jobID)
	if err != nil {
		return nil, err
	}
	defer release()

	uow := m.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.JobRepository()
	aggregate, err := repo.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if err = operation(aggregate, m.now()); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}
