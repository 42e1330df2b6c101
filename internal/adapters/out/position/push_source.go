// Package position turns device reports pushed over HTTP into a
// ports.PositionSource.
package position

import (
	"context"
	"sync"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/ports"
)

const (
	// DefaultMaxAge is how old the latest report may be to answer
	// CurrentPosition without waiting.
	DefaultMaxAge = 30 * time.Second

	// DefaultWait bounds how long CurrentPosition waits for a fresh report.
	DefaultWait = 5 * time.Second
)

var _ ports.PositionSource = (*PushSource)(nil)

type listener struct {
	onSample func(kernel.PositionSample)
	onError  func(*ports.PositionError)
}

// PushSource fans pushed reports out to the subscribers of a job. Callbacks
// run on the pushing goroutine, outside of the source's lock.
type PushSource struct {
	mu        sync.Mutex
	listeners map[kernel.UUID]map[*listener]struct{}
	latest    map[kernel.UUID]kernel.PositionSample
	waiters   map[kernel.UUID][]chan kernel.PositionSample
	maxAge    time.Duration
	wait      time.Duration
	now       func() time.Time
}

func NewPushSource() *PushSource {
	return &PushSource{
		listeners: make(map[kernel.UUID]map[*listener]struct{}),
		latest:    make(map[kernel.UUID]kernel.PositionSample),
		waiters:   make(map[kernel.UUID][]chan kernel.PositionSample),
		maxAge:    DefaultMaxAge,
		wait:      DefaultWait,
		now:       time.Now,
	}
}

func (s *PushSource) Subscribe(
	ctx context.Context,
	jobID kernel.UUID,
	onSample func(kernel.PositionSample),
	onError func(*ports.PositionError),
) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := &listener{onSample: onSample, onError: onError}
	s.mu.Lock()
	set, ok := s.listeners[jobID]
	if !ok {
		set = make(map[*listener]struct{})
		s.listeners[jobID] = set
	}
	set[l] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	stop := make(chan struct{})
	unsubscribe := func() {
		once.Do(func() {
			close(stop)
			s.mu.Lock()
			defer s.mu.Unlock()
			if set, ok := s.listeners[jobID]; ok {
				delete(set, l)
				if len(set) == 0 {
					delete(s.listeners, jobID)
					delete(s.latest, jobID)
				}
			}
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			unsubscribe()
		case <-stop:
		}
	}()

	return unsubscribe, nil
}

func (s *PushSource) CurrentPosition(ctx context.Context, jobID kernel.UUID) (kernel.PositionSample, error) {
	s.mu.Lock()
	if sample, ok := s.latest[jobID]; ok && s.now().Sub(sample.CapturedAt()) <= s.maxAge {
		s.mu.Unlock()
		return sample, nil
	}
	ch := make(chan kernel.PositionSample, 1)
	s.waiters[jobID] = append(s.waiters[jobID], ch)
	s.mu.Unlock()

	timer := time.NewTimer(s.wait)
	defer timer.Stop()
	select {
	case sample := <-ch:
		return sample, nil
	case <-ctx.Done():
		s.dropWaiter(jobID, ch)
		return kernel.PositionSample{}, ports.NewPositionError(ports.PositionTimeout, ctx.Err().Error())
	case <-timer.C:
		s.dropWaiter(jobID, ch)
		return kernel.PositionSample{}, ports.NewPositionError(ports.PositionTimeout, "no fresh position reported")
	}
}

func (s *PushSource) dropWaiter(jobID kernel.UUID, ch chan kernel.PositionSample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	waiters := s.waiters[jobID]
	for i, w := range waiters {
		if w == ch {
			s.waiters[jobID] = append(waiters[:i], waiters[i+1:]...)
			break
		}
	}
	if len(s.waiters[jobID]) == 0 {
		delete(s.waiters, jobID)
	}
}

// Push delivers a device report to the subscribers of jobID and to pending
// CurrentPosition calls.
func (s *PushSource) Push(jobID kernel.UUID, sample kernel.PositionSample) {
	s.mu.Lock()
	if _, ok := s.listeners[jobID]; ok {
		s.latest[jobID] = sample
	}
	for _, ch := range s.waiters[jobID] {
		ch <- sample
	}
	delete(s.waiters, jobID)
	listeners := s.snapshot(jobID)
	s.mu.Unlock()

	for _, l := range listeners {
		l.onSample(sample)
	}
}

// PushError delivers a device reported failure to the subscribers of jobID.
func (s *PushSource) PushError(jobID kernel.UUID, err *ports.PositionError) {
	s.mu.Lock()
	listeners := s.snapshot(jobID)
	s.mu.Unlock()

	for _, l := range listeners {
		l.onError(err)
	}
}

// snapshot copies the listeners of jobID. Callers hold mu.
func (s *PushSource) snapshot(jobID kernel.UUID) []*listener {
	set := s.listeners[jobID]
	out := make([]*listener, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	return out
}
