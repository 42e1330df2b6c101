// Package redis implements the job lock for deployments running more than one
// instance of the service.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/ports"

	gonanoid "github.com/matoous/go-nanoid/v2"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "fieldservice:job-lock:"

// DefaultLockTTL bounds how long a crashed holder keeps a job locked.
const DefaultLockTTL = 30 * time.Second

// releaseScript deletes the lock only while it still carries our token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var _ ports.JobLocker = (*JobLocker)(nil)

// JobLocker is a SET NX PX lock with a random token per holder.
type JobLocker struct {
	client goredis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

func NewJobLocker(client goredis.UniversalClient, ttl time.Duration, logger *slog.Logger) *JobLocker {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &JobLocker{
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "redis_job_locker"),
	}
}

func lockKey(jobID kernel.UUID) string {
	return keyPrefix + jobID.String()
}

func (l *JobLocker) TryLock(ctx context.Context, jobID kernel.UUID) (func(), error) {
	token, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("redis lock: token: %w", err)
	}

	key := lockKey(jobID)
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lock: setnx: %w", err)
	}
	if !ok {
		return nil, ports.ErrJobBusy
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// the caller's context may already be done
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
				l.logger.Warn("releasing job lock failed", "job_id", jobID.String(), "error", err)
			}
		})
	}, nil
}
