package jobs

import (
	"fmt"
	"log/slog"

	"marketplace/internal/core/domain/model/kernel"
)

// Schedules holds the cron expressions (standard five fields) of the jobs.
type Schedules struct {
	ScheduledOrderStart string `yaml:"scheduled_order_start"`
	AbandonedOrders     string `yaml:"abandoned_orders"`
	PointsExpiry        string `yaml:"points_expiry"`
}

// DefaultSchedules runs the scheduled-order start every minute, the abandoned
// order sweep hourly and points expiry daily at midnight.
func DefaultSchedules() Schedules {
	return Schedules{
		ScheduledOrderStart: "* * * * *",
		AbandonedOrders:     "0 * * * *",
		PointsExpiry:        "0 0 * * *",
	}
}

// WithDefaults fills empty expressions from DefaultSchedules.
func (s Schedules) WithDefaults() Schedules {
	d := DefaultSchedules()
	if s.ScheduledOrderStart == "" {
		s.ScheduledOrderStart = d.ScheduledOrderStart
	}
	if s.AbandonedOrders == "" {
		s.AbandonedOrders = d.AbandonedOrders
	}
	if s.PointsExpiry == "" {
		s.PointsExpiry = d.PointsExpiry
	}
	return s
}

type job interface {
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	jobs []namedJob
}

type namedJob struct {
	name string
	job  job
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	startScheduled ScheduledOrderStarter,
	cancelAbandoned AbandonedOrderCanceller,
	expirePoints PointsExpirer,
	schedules Schedules,
	clock kernel.Clock,
	logger *slog.Logger,
) *JobManager {
	schedules = schedules.WithDefaults()
	return &JobManager{jobs: []namedJob{
		{"scheduled order start", NewScheduledOrderStartJob(startScheduled, schedules.ScheduledOrderStart, clock, logger)},
		{"abandoned order cancel", NewAbandonedOrderCancelJob(cancelAbandoned, schedules.AbandonedOrders, clock, logger)},
		{"points expiry", NewPointsExpiryJob(expirePoints, schedules.PointsExpiry, 0, clock, logger)},
	}}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start; jobs already started are stopped.
func (jm *JobManager) StartAll() error {
	for i, nj := range jm.jobs {
		if err := nj.job.Start(); err != nil {
			for _, started := range jm.jobs[:i] {
				started.job.Stop()
			}
			return fmt.Errorf("failed to start %s job: %w", nj.name, err)
		}
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	for _, nj := range jm.jobs {
		nj.job.Stop()
	}
}
