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

// ErrNoPosition is returned by ForceEmit when no sample is known and the
// source cannot provide one.
var ErrNoPosition = errors.New("no position available")

// LocationUpdate is the payload of a location.update event.
type LocationUpdate struct {
	JobID      string    `json:"jobId"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Heading    float64   `json:"heading"`
	CapturedAt time.Time `json:"capturedAt"`
}

// TelemetryError is the payload of a telemetry.error event.
type TelemetryError struct {
	JobID   string `json:"jobId"`
	Cause   string `json:"cause"`
	Message string `json:"message,omitempty"`
}

// JobPositions is the slice of the job store tracking needs.
type JobPositions interface {
	UpdatePosition(ctx context.Context, id kernel.UUID, sample kernel.PositionSample, statuses []job.Status) error
	GetAllInStatuses(ctx context.Context, statuses ...job.Status) ([]*job.Job, error)
}

// Session throttles the raw positions of one travelling job and forwards the
// accepted ones. Samples are handled one at a time in arrival order.
type Session struct {
	jobID     kernel.UUID
	throttler services.TelemetryThrottler
	source    ports.PositionSource
	channel   ports.Channel
	positions JobPositions
	metrics   *Metrics
	logger    *slog.Logger
	now       func() time.Time

	mu     sync.Mutex
	state  services.ThrottleState
	latest *kernel.PositionSample

	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	stopOnce    sync.Once
	done        chan struct{}
	onStop      func(*Session)
}

func (s *Session) JobID() kernel.UUID {
	return s.jobID
}

// Done is closed once the session stopped.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) start() error {
	unsubscribe, err := s.source.Subscribe(s.ctx, s.jobID, s.onSample, s.onError)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.stopped() {
		s.mu.Unlock()
		unsubscribe()
		return nil
	}
	s.unsubscribe = unsubscribe
	s.mu.Unlock()

	s.logger.InfoContext(s.ctx, "telemetry session started")
	return nil
}

func (s *Session) stopped() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Stop ends the session. It is idempotent and safe to call from a callback.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		unsubscribe := s.unsubscribe
		s.unsubscribe = nil
		close(s.done)
		s.mu.Unlock()

		if unsubscribe != nil {
			unsubscribe()
		}
		s.metrics.sessionStopped(s.ctx)
		s.cancel()

		if s.onStop != nil {
			s.onStop(s)
		}
		s.logger.Info("telemetry session stopped")
	})
}

// ForceEmit forwards the latest known sample, bypassing both gates once. The
// forced sample becomes the gating reference. Without any sample it asks the
// source for the current position.
func (s *Session) ForceEmit(ctx context.Context) error {
	s.mu.Lock()
	latest := s.latest
	s.mu.Unlock()

	if latest == nil {
		sample, err := s.source.CurrentPosition(ctx, s.jobID)
		if err != nil {
			return errors.Join(ErrNoPosition, err)
		}
		latest = &sample
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped() {
		return ErrSessionNotRunning
	}
	s.latest = latest
	s.state = s.throttler.Force(*latest, s.now())
	s.metrics.sample(ctx, "forced")
	s.forward(ctx, *latest)
	return nil
}

// seedPosition force emits the current position unless a device report
// already arrived.
func (s *Session) seedPosition() {
	s.mu.Lock()
	reported := s.latest != nil
	s.mu.Unlock()
	if reported {
		return
	}

	err := s.ForceEmit(s.ctx)
	if err != nil && s.ctx.Err() == nil && !errors.Is(err, ErrSessionNotRunning) {
		s.logger.DebugContext(s.ctx, "no position to seed the session", "error", err)
	}
}

func (s *Session) onSample(sample kernel.PositionSample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped() {
		return
	}

	s.latest = &sample
	decision, next := s.throttler.Decide(s.state, sample, s.now())
	s.metrics.decision(s.ctx, decision)
	if decision != services.ThrottleAccept {
		s.logger.Debug("sample dropped", "reason", decision.String())
		return
	}

	s.state = next
	s.forward(s.ctx, sample)
}

// forward stores the sample as the job's last known position and sends it to
// observers. A rejected write means the job left the travel statuses; the
// sample is dropped and the session ends. Callers hold mu.
func (s *Session) forward(ctx context.Context, sample kernel.PositionSample) {
	err := s.positions.UpdatePosition(ctx, s.jobID, sample, job.TravelEligibleStatuses())
	switch {
	case errors.Is(err, ports.ErrPositionRejected):
		s.metrics.sample(ctx, "stale")
		s.logger.Info("stale sample dropped, job is no longer travelling")
		go s.Stop()
		return
	case errors.Is(err, ports.ErrPositionOutdated):
		s.metrics.sample(ctx, "outdated")
		return
	case err != nil:
		s.logger.Warn("storing last known position failed", "error", err)
	}

	s.channel.Send(ctx, s.jobID, ports.ChannelEvent{
		Name: ports.EventLocationUpdate,
		Payload: LocationUpdate{
			JobID:      s.jobID.String(),
			Lat:        sample.Position().Lat(),
			Lng:        sample.Position().Lng(),
			Heading:    sample.Heading(),
			CapturedAt: sample.CapturedAt(),
		},
	})
}

func (s *Session) onError(positionErr *ports.PositionError) {
	if positionErr == nil || s.stopped() {
		return
	}

	s.metrics.sourceError(s.ctx, string(positionErr.Cause))
	s.logger.Warn("position source error", "cause", positionErr.Cause, "message", positionErr.Message)
	s.channel.Send(s.ctx, s.jobID, ports.ChannelEvent{
		Name: ports.EventTelemetryError,
		Payload: TelemetryError{
			JobID:   s.jobID.String(),
			Cause:   string(positionErr.Cause),
			Message: positionErr.Message,
		},
	})
}
