// Package memory holds in-process adapters for single-instance deployments.
package memory

import (
	"context"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/ports"
	"fieldservice/internal/pkg/keylock"
)

var _ ports.JobLocker = (*JobLocker)(nil)

// JobLocker guards jobs of this process only.
type JobLocker struct {
	locks *keylock.KeyedMutex
}

func NewJobLocker() *JobLocker {
	return &JobLocker{locks: keylock.New()}
}

func (l *JobLocker) TryLock(ctx context.Context, jobID kernel.UUID) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	release, ok := l.locks.TryLock(jobID.String())
	if !ok {
		return nil, ports.ErrJobBusy
	}
	return release, nil
}
