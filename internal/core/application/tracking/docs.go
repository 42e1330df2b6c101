// Package tracking runs live location telemetry for travelling jobs.
//
// A Session subscribes to a job's PositionSource, passes every raw sample
// through services.TelemetryThrottler and forwards the accepted ones to the
// real-time Channel as location.update events. Accepted samples are also
// stored as the job's last known position with a write that only succeeds
// while the job is still travel-eligible, so a sample racing a status change
// is dropped. Source errors become telemetry.error events and never end a
// session.
//
// The Supervisor keeps one Session per travelling job. It listens to
// committed job events, and Sweep reconciles it with the database.
package tracking
