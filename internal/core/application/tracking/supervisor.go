package tracking

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"fieldservice/internal/core/domain/model/job"
	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/core/domain/services"
	"fieldservice/internal/core/ports"
)

// ErrSessionNotRunning is returned for operations on a job without a session.
var ErrSessionNotRunning = errors.New("telemetry session is not running")

// Supervisor owns the telemetry sessions of this process: one per job whose
// status is travel-eligible. It reacts to committed job events and is
// reconciled with the database by Sweep.
//
// Example:
//
//	supervisor := tracking.NewSupervisor(throttler, source, hub, repo, tracking.NewMetrics(), logger)
//	bus.Subscribe(supervisor)
//	defer supervisor.StopAll()
type Supervisor struct {
	throttler services.TelemetryThrottler
	source    ports.PositionSource
	channel   ports.Channel
	positions JobPositions
	metrics   *Metrics
	logger    *slog.Logger
	now       func() time.Time
	seed      bool

	mu       sync.Mutex
	sessions map[kernel.UUID]*Session
}

// SupervisorOption customizes a Supervisor.
type SupervisorOption func(*Supervisor)

// WithSeed controls whether a new session forwards the current position of
// the job right away instead of waiting for the first device report.
// Enabled by default.
func WithSeed(enabled bool) SupervisorOption {
	return func(s *Supervisor) {
		s.seed = enabled
	}
}

// WithClock replaces time.Now as the receipt time of samples.
func WithClock(now func() time.Time) SupervisorOption {
	return func(s *Supervisor) {
		s.now = now
	}
}

func NewSupervisor(
	throttler services.TelemetryThrottler,
	source ports.PositionSource,
	channel ports.Channel,
	positions JobPositions,
	metrics *Metrics,
	logger *slog.Logger,
	opts ...SupervisorOption,
) *Supervisor {
	if metrics == nil {
		metrics = NewMetrics()
	}

	s := &Supervisor{
		throttler: throttler,
		source:    source,
		channel:   channel,
		positions: positions,
		metrics:   metrics,
		logger:    logger.With("component", "telemetry"),
		now:       time.Now,
		seed:      true,
		sessions:  make(map[kernel.UUID]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start runs a session for jobID unless one is already running.
func (s *Supervisor) Start(ctx context.Context, jobID kernel.UUID) error {
	s.mu.Lock()
	if _, ok := s.sessions[jobID]; ok {
		s.mu.Unlock()
		return nil
	}

	sessionCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	session := &Session{
		jobID:     jobID,
		throttler: s.throttler,
		source:    s.source,
		channel:   s.channel,
		positions: s.positions,
		metrics:   s.metrics,
		logger:    s.logger.With("job_id", jobID.String()),
		now:       s.now,
		ctx:       sessionCtx,
		cancel:    cancel,
		done:      make(chan struct{}),
		onStop:    s.forget,
	}
	s.sessions[jobID] = session
	s.mu.Unlock()
	s.metrics.sessionStarted(sessionCtx)

	if err := session.start(); err != nil {
		session.Stop()
		return err
	}
	if s.seed {
		go session.seedPosition()
	}

	return nil
}

// Stop ends the session of jobID, if any.
func (s *Supervisor) Stop(jobID kernel.UUID) {
	s.mu.Lock()
	session, ok := s.sessions[jobID]
	delete(s.sessions, jobID)
	s.mu.Unlock()

	if ok {
		session.Stop()
	}
}

// StopAll ends every session. Used on shutdown.
func (s *Supervisor) StopAll() {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.sessions = make(map[kernel.UUID]*Session)
	s.mu.Unlock()

	for _, session := range sessions {
		session.Stop()
	}
}

// ForceEmit forwards the latest sample of jobID immediately.
func (s *Supervisor) ForceEmit(ctx context.Context, jobID kernel.UUID) error {
	s.mu.Lock()
	session, ok := s.sessions[jobID]
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotRunning
	}
	return session.ForceEmit(ctx)
}

// Running reports whether a session for jobID is running.
func (s *Supervisor) Running(jobID kernel.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[jobID]
	return ok
}

// Count returns the number of running sessions.
func (s *Supervisor) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// OnJobEvent starts a session when a job enters a travel-eligible status and
// stops it when the job leaves one.
func (s *Supervisor) OnJobEvent(ctx context.Context, event job.Event) {
	if !event.IsStatusChange() {
		return
	}

	if event.To.IsTravelEligible() {
		if err := s.Start(ctx, event.JobID); err != nil {
			s.logger.WarnContext(ctx, "starting telemetry session failed",
				"job_id", event.JobID.String(), "error", err)
		}
		return
	}

	s.Stop(event.JobID)
}

// Sweep reconciles the sessions with the stored statuses: sessions of jobs
// that are no longer travelling are stopped and travelling jobs without a
// session are resumed. Changes made by other instances are picked up here.
func (s *Supervisor) Sweep(ctx context.Context) (started, stopped int, err error) {
	travelling, err := s.positions.GetAllInStatuses(ctx, job.TravelEligibleStatuses()...)
	if err != nil {
		return 0, 0, err
	}

	eligible := make(map[kernel.UUID]struct{}, len(travelling))
	for _, j := range travelling {
		eligible[j.ID()] = struct{}{}
	}

	s.mu.Lock()
	stale := make([]kernel.UUID, 0)
	for id := range s.sessions {
		if _, ok := eligible[id]; !ok {
			stale = append(stale, id)
		}
	}
	missing := make([]kernel.UUID, 0)
	for id := range eligible {
		if _, ok := s.sessions[id]; !ok {
			missing = append(missing, id)
		}
	}
	s.mu.Unlock()

	for _, id := range stale {
		s.Stop(id)
		stopped++
	}
	for _, id := range missing {
		if startErr := s.Start(ctx, id); startErr != nil {
			err = errors.Join(err, startErr)
			continue
		}
		started++
	}

	return started, stopped, err
}

// forget drops session from the registry if it is still the registered one.
func (s *Supervisor) forget(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.sessions[session.jobID]; ok && current == session {
		delete(s.sessions, session.jobID)
	}
}
