package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// EverySecond is the default schedule of the sweep, in six-field cron syntax.
const EverySecond = "* * * * * *"

// Sweeper reconciles running telemetry sessions with the stored job statuses.
type Sweeper interface {
	Sweep(ctx context.Context) (started, stopped int, err error)
}

// TelemetrySweepJob periodically reconciles telemetry sessions. It picks up
// status changes made outside this process, e.g. by another instance or by
// the Kafka consumer.
type TelemetrySweepJob struct {
	sweeper  Sweeper
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewTelemetrySweepJob creates the sweep job. An empty schedule means every second.
func NewTelemetrySweepJob(sweeper Sweeper, schedule string, logger *slog.Logger) *TelemetrySweepJob {
	if schedule == "" {
		schedule = EverySecond
	}
	return &TelemetrySweepJob{
		sweeper:  sweeper,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "telemetry_sweep_job"),
	}
}

// Start schedules the sweep.
func (j *TelemetrySweepJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()

		started, stopped, err := j.sweeper.Sweep(ctx)
		if err != nil {
			j.logger.ErrorContext(ctx, "Telemetry sweep failed", "error", err)
		}
		if started > 0 || stopped > 0 {
			j.logger.InfoContext(ctx, "Telemetry sessions reconciled", "started", started, "stopped", stopped)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Telemetry sweep job started", "schedule", j.schedule)
	return nil
}

// Stop stops the schedule and waits for a running sweep to finish.
func (j *TelemetrySweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Telemetry sweep job stopped")
}
