package tracking

import (
	"context"

	"fieldservice/internal/core/domain/services"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "fieldservice/tracking"

// Metrics counts telemetry decisions and source errors.
//
// Instruments:
//   - fieldservice.telemetry.samples (Int64Counter): offered samples by decision
//     ("accepted", "too_soon", "too_close", "forced", "stale", "outdated")
//   - fieldservice.telemetry.errors (Int64Counter): position source errors by cause
//   - fieldservice.telemetry.sessions (Int64UpDownCounter): running sessions
type Metrics struct {
	samples  metric.Int64Counter
	errors   metric.Int64Counter
	sessions metric.Int64UpDownCounter
}

// NewMetrics uses the global MeterProvider; with none configured every
// instrument is a noop.
func NewMetrics() *Metrics {
	return NewMetricsWithMeter(otel.Meter(meterName))
}

func NewMetricsWithMeter(meter metric.Meter) *Metrics {
	samples, _ := meter.Int64Counter(
		"fieldservice.telemetry.samples",
		metric.WithDescription("Position samples offered to the telemetry throttler"),
		metric.WithUnit("{sample}"),
	)
	errs, _ := meter.Int64Counter(
		"fieldservice.telemetry.errors",
		metric.WithDescription("Position source errors"),
		metric.WithUnit("{error}"),
	)
	sessions, _ := meter.Int64UpDownCounter(
		"fieldservice.telemetry.sessions",
		metric.WithDescription("Running telemetry sessions"),
		metric.WithUnit("{session}"),
	)

	return &Metrics{samples: samples, errors: errs, sessions: sessions}
}

func (m *Metrics) sample(ctx context.Context, decision string) {
	m.samples.Add(ctx, 1, metric.WithAttributes(attribute.String("decision", decision)))
}

func (m *Metrics) decision(ctx context.Context, d services.ThrottleDecision) {
	m.sample(ctx, d.String())
}

func (m *Metrics) sourceError(ctx context.Context, cause string) {
	m.errors.Add(ctx, 1, metric.WithAttributes(attribute.String("cause", cause)))
}

func (m *Metrics) sessionStarted(ctx context.Context) {
	m.sessions.Add(ctx, 1)
}

func (m *Metrics) sessionStopped(ctx context.Context) {
	m.sessions.Add(ctx, -1)
}
