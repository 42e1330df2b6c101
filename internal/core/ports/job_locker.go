package ports

import (
	"context"
	"errors"

	"fieldservice/internal/core/domain/model/kernel"
)

// ErrJobBusy is returned when another operation holds the job's lock.
var ErrJobBusy = errors.New("job is busy")

// JobLocker serialises operations on one job. It never waits: a held lock
// fails fast with ErrJobBusy so a duplicate request is rejected, not queued.
type JobLocker interface {
	// TryLock acquires the lock of jobID. The returned release func is safe
	// to call more than once and must be called on every exit path.
	TryLock(ctx context.Context, jobID kernel.UUID) (release func(), err error)
}
