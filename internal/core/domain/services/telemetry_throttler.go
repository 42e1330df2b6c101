package services

import (
	"errors"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"
)

const (
	// DefaultMinInterval is the shortest gap between two forwarded samples.
	DefaultMinInterval = 3 * time.Second

	// DefaultMinDistanceMeters is the smallest movement worth forwarding.
	DefaultMinDistanceMeters = 10.0
)

// ThrottleDecision is the outcome of offering one sample to the throttler.
type ThrottleDecision int

const (
	// ThrottleAccept means the sample is forwarded and becomes the new reference.
	ThrottleAccept ThrottleDecision = iota

	// ThrottleDropTooSoon means less than the minimum interval passed since the last accepted sample.
	ThrottleDropTooSoon

	// ThrottleDropTooClose means the device moved less than the minimum distance.
	ThrottleDropTooClose
)

func (d ThrottleDecision) String() string {
	switch d {
	case ThrottleAccept:
		return "accepted"
	case ThrottleDropTooSoon:
		return "too_soon"
	case ThrottleDropTooClose:
		return "too_close"
	default:
		return "unknown"
	}
}

// ThrottleState is the gating reference: when and where the last sample was
// accepted. The zero value means nothing was accepted yet.
type ThrottleState struct {
	LastAcceptedAt       time.Time
	LastAcceptedPosition *kernel.Position
}

// IsEmpty reports whether no sample was accepted yet.
func (s ThrottleState) IsEmpty() bool {
	return s.LastAcceptedPosition == nil
}

// TelemetryThrottler is a domain service that decides which raw device
// samples are worth forwarding to observers. It holds no state; callers keep
// a ThrottleState per session and pass it in.
//
// Business rules:
//   - The first sample of a session is always accepted
//   - A sample arriving sooner than MinInterval after the last accepted one is dropped
//   - Otherwise a sample closer than MinDistance to the last accepted position is dropped
//   - Force accepts a sample regardless of both gates and still moves the reference
//
// Example usage:
//
//	throttler := services.NewDefaultTelemetryThrottler()
//	decision, state := throttler.Decide(state, sample, time.Now())
//	if decision == services.ThrottleAccept {
//	    // forward sample
//	}
type TelemetryThrottler struct {
	minInterval time.Duration
	minDistance float64
}

// NewTelemetryThrottler creates a throttler with custom gates.
//
// Parameters:
//   - minInterval: non-negative time gate
//   - minDistanceMeters: non-negative distance gate
func NewTelemetryThrottler(minInterval time.Duration, minDistanceMeters float64) (TelemetryThrottler, error) {
	var intervalErr, distanceErr error
	if minInterval < 0 {
		intervalErr = errs.NewValueIsOutOfRangeError("minInterval", minInterval, 0, "unbounded")
	}
	if minDistanceMeters < 0 {
		distanceErr = errs.NewValueIsOutOfRangeError("minDistanceMeters", minDistanceMeters, 0, "unbounded")
	}
	if err := errors.Join(intervalErr, distanceErr); err != nil {
		return TelemetryThrottler{}, err
	}

	return TelemetryThrottler{minInterval: minInterval, minDistance: minDistanceMeters}, nil
}

// NewDefaultTelemetryThrottler returns a throttler with a 3 s interval and a 10 m distance gate.
func NewDefaultTelemetryThrottler() TelemetryThrottler {
	return TelemetryThrottler{minInterval: DefaultMinInterval, minDistance: DefaultMinDistanceMeters}
}

func (t TelemetryThrottler) MinInterval() time.Duration {
	return t.minInterval
}

func (t TelemetryThrottler) MinDistance() float64 {
	return t.minDistance
}

// Decide applies the time gate, then the distance gate. The decision depends
// only on its arguments.
//
// Returns:
//   - ThrottleDecision: accept or the reason for dropping
//   - ThrottleState: the new reference when accepted, state unchanged otherwise
func (t TelemetryThrottler) Decide(
	state ThrottleState,
	sample kernel.PositionSample,
	now time.Time,
) (ThrottleDecision, ThrottleState) {
	if state.IsEmpty() {
		return ThrottleAccept, t.Force(sample, now)
	}

	if now.Sub(state.LastAcceptedAt) < t.minInterval {
		return ThrottleDropTooSoon, state
	}

	distance, err := state.LastAcceptedPosition.DistanceTo(sample.Position())
	if err == nil && distance < t.minDistance {
		return ThrottleDropTooClose, state
	}

	return ThrottleAccept, t.Force(sample, now)
}

// Force returns the state after accepting sample unconditionally at now.
func (t TelemetryThrottler) Force(sample kernel.PositionSample, now time.Time) ThrottleState {
	position := sample.Position()
	return ThrottleState{LastAcceptedAt: now, LastAcceptedPosition: &position}
}
