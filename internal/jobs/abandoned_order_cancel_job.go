package jobs

import (
	"context"
	"log/slog"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
)

// AbandonedOrderCancelJob cancels orders left unpaid for longer than the
// abandonment window.
type AbandonedOrderCancelJob struct {
	handler  AbandonedOrderCanceller
	schedule string
	clock    kernel.Clock
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewAbandonedOrderCancelJob(
	handler AbandonedOrderCanceller,
	schedule string,
	clock kernel.Clock,
	logger *slog.Logger,
) *AbandonedOrderCancelJob {
	return &AbandonedOrderCancelJob{
		handler:  handler,
		schedule: schedule,
		clock:    clock,
		cron:     cron.New(),
		logger:   logger.With("component", "abandoned_order_cancel_job"),
	}
}

func (j *AbandonedOrderCancelJob) Run(ctx context.Context) {
	cmd, err := commands.NewCancelAbandonedOrdersCommand(j.clock())
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to build command", "error", err)
		return
	}

	cancelled, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Abandoned order cancel failed", "error", err, "cancelled", cancelled)
		return
	}
	if cancelled > 0 {
		j.logger.InfoContext(ctx, "Abandoned orders cancelled", "count", cancelled)
	}
}

func (j *AbandonedOrderCancelJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Abandoned order cancel job started", "schedule", j.schedule)
	return nil
}

func (j *AbandonedOrderCancelJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Abandoned order cancel job stopped")
}
