package http

import (
	"sync"
	"time"

	"fieldservice/internal/core/domain/model/kernel"

	"golang.org/x/time/rate"
)

const (
	// DefaultCodeAttemptsBurst is how many code guesses a job gets at once.
	DefaultCodeAttemptsBurst = 5
	// DefaultCodeAttemptsEvery refills one guess.
	DefaultCodeAttemptsEvery = 30 * time.Second

	limiterIdleTTL = 10 * time.Minute
)

// AttemptLimiter is a token bucket per job for one-time code submissions,
// so a four digit code cannot be brute forced.
type AttemptLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[kernel.UUID]*attemptBucket
	now      func() time.Time
}

type attemptBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewAttemptLimiter(every time.Duration, burst int) *AttemptLimiter {
	return &AttemptLimiter{
		limit:    rate.Every(every),
		burst:    burst,
		limiters: make(map[kernel.UUID]*attemptBucket),
		now:      time.Now,
	}
}

// Allow consumes one attempt of jobID.
func (l *AttemptLimiter) Allow(jobID kernel.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for id, b := range l.limiters {
		if now.Sub(b.lastSeen) > limiterIdleTTL {
			delete(l.limiters, id)
		}
	}

	b, ok := l.limiters[jobID]
	if !ok {
		b = &attemptBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[jobID] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}
