package jobs

import (
	"context"

	"marketplace/internal/core/application/usecases/commands"
)

// The jobs depend on the command handlers through these interfaces.
type (
	ScheduledOrderStarter interface {
		Handle(ctx context.Context, command commands.StartScheduledOrdersCommand) (int, error)
	}

	AbandonedOrderCanceller interface {
		Handle(ctx context.Context, command commands.CancelAbandonedOrdersCommand) (int, error)
	}

	PointsExpirer interface {
		Handle(ctx context.Context, command commands.ExpirePointsCommand) (commands.ExpiryResult, error)
	}
)
