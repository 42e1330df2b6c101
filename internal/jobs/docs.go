// Package jobs provides scheduled background tasks for the field-service system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// TelemetrySweepJob runs every second by default. It stops telemetry sessions
// of jobs that left the travelling statuses and resumes sessions for
// travelling jobs that have none, e.g. after a restart.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewTelemetrySweepJob(supervisor, jobs.EverySecond, logger),
//	)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules use the six-field cron syntax with seconds. A sweep still running
// when the next tick fires is not started twice.
//
// # Error Handling
//
// Sweep failures are logged and retried on the next tick. A failed job start
// stops the jobs already running.
package jobs
