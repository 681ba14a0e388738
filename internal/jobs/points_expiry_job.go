package jobs

import (
	"context"
	"log/slog"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
)

// PointsExpiryJob expires loyalty points whose earn or bonus row is past due.
type PointsExpiryJob struct {
	handler   PointsExpirer
	schedule  string
	batchSize int
	clock     kernel.Clock
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewPointsExpiryJob(
	handler PointsExpirer,
	schedule string,
	batchSize int,
	clock kernel.Clock,
	logger *slog.Logger,
) *PointsExpiryJob {
	return &PointsExpiryJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		clock:     clock,
		cron:      cron.New(),
		logger:    logger.With("component", "points_expiry_job"),
	}
}

// Run expires everything due at the current time. Rows that fail are left for
// the next run.
func (j *PointsExpiryJob) Run(ctx context.Context) {
	cmd, err := commands.NewExpirePointsCommand(j.clock(), j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to build command", "error", err)
		return
	}

	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Points expiry failed", "error", err)
		return
	}
	level := slog.LevelInfo
	if result.Failed > 0 {
		level = slog.LevelWarn
	}
	j.logger.Log(ctx, level, "Points expiry finished",
		"processed", result.Processed,
		"failed", result.Failed,
		"points_expired", result.PointsExpired,
	)
}

func (j *PointsExpiryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Points expiry job started", "schedule", j.schedule)
	return nil
}

func (j *PointsExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Points expiry job stopped")
}
