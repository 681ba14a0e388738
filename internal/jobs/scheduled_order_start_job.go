package jobs

import (
	"context"
	"log/slog"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
)

// ScheduledOrderStartJob moves paid scheduled orders into preparation once they
// are within the lead time of their delivery slot.
type ScheduledOrderStartJob struct {
	handler  ScheduledOrderStarter
	schedule string
	clock    kernel.Clock
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewScheduledOrderStartJob(
	handler ScheduledOrderStarter,
	schedule string,
	clock kernel.Clock,
	logger *slog.Logger,
) *ScheduledOrderStartJob {
	return &ScheduledOrderStartJob{
		handler:  handler,
		schedule: schedule,
		clock:    clock,
		cron:     cron.New(),
		logger:   logger.With("component", "scheduled_order_start_job"),
	}
}

// Run performs one pass.
func (j *ScheduledOrderStartJob) Run(ctx context.Context) {
	cmd, err := commands.NewStartScheduledOrdersCommand(j.clock())
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to build command", "error", err)
		return
	}

	started, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Scheduled order start failed", "error", err, "started", started)
		return
	}
	if started > 0 {
		j.logger.InfoContext(ctx, "Scheduled orders started", "count", started)
	}
}

func (j *ScheduledOrderStartJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Scheduled order start job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running pass to finish.
func (j *ScheduledOrderStartJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Scheduled order start job stopped")
}
