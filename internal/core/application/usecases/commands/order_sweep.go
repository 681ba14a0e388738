package commands

import (
	"context"
	"log/slog"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/metrics"
)

// orderSweep applies one mutation to each listed order in its own transaction.
// The mutation re-checks the locked order and may skip it. An order that fails
// is logged and left for the next run.
type orderSweep struct {
	uowFactory OrderUoWFactory
	notifier   ports.EventNotifier
	logger     *slog.Logger
}

func (s orderSweep) run(
	ctx context.Context,
	list func(ctx context.Context, repo ports.OrderRepository) ([]*order.Order, error),
	mutate func(o *order.Order) (bool, error),
) (int, error) {
	candidates, err := s.list(ctx, list)
	if err != nil {
		return 0, err
	}

	var done int
	for _, candidate := range candidates {
		changed, applyErr := s.apply(ctx, candidate.ID(), mutate)
		if applyErr != nil {
			s.logger.ErrorContext(ctx, "failed to update order", "order_id", candidate.ID().String(), "error", applyErr)
			continue
		}
		if changed {
			done++
		}
	}
	return done, nil
}

func (s orderSweep) list(
	ctx context.Context,
	list func(ctx context.Context, repo ports.OrderRepository) ([]*order.Order, error),
) ([]*order.Order, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return list(ctx, uow.OrderRepository())
}

func (s orderSweep) apply(ctx context.Context, id kernel.UUID, mutate func(o *order.Order) (bool, error)) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, id)
	if err != nil {
		return false, err
	}

	from := o.Status()
	changed, err := mutate(o)
	if err != nil || !changed {
		return false, err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	metrics.OrderTransitions.WithLabelValues(from.String(), o.Status().String()).Inc()
	s.notifier.Notify(ctx, drainEvents(o)...)
	return true, nil
}

type StartScheduledOrdersCommandHandler struct {
	sweep orderSweep
}

func NewStartScheduledOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.EventNotifier,
	logger *slog.Logger,
) StartScheduledOrdersCommandHandler {
	return StartScheduledOrdersCommandHandler{sweep: orderSweep{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     logger.With("component", "start_scheduled_orders"),
	}}
}

// Handle returns the number of orders moved to preparing.
func (h StartScheduledOrdersCommandHandler) Handle(ctx context.Context, command StartScheduledOrdersCommand) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	return h.sweep.run(ctx,
		func(ctx context.Context, repo ports.OrderRepository) ([]*order.Order, error) {
			return repo.ListScheduledDue(ctx, command.DueBefore())
		},
		func(o *order.Order) (bool, error) {
			if o.Status() != order.Paid {
				return false, nil
			}
			return true, o.StartScheduled(command.Now())
		},
	)
}

type CancelAbandonedOrdersCommandHandler struct {
	sweep orderSweep
}

func NewCancelAbandonedOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	notifier ports.EventNotifier,
	logger *slog.Logger,
) CancelAbandonedOrdersCommandHandler {
	return CancelAbandonedOrdersCommandHandler{sweep: orderSweep{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     logger.With("component", "cancel_abandoned_orders"),
	}}
}

// Handle returns the number of orders cancelled.
func (h CancelAbandonedOrdersCommandHandler) Handle(ctx context.Context, command CancelAbandonedOrdersCommand) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	cutoff := command.CreatedBefore()
	return h.sweep.run(ctx,
		func(ctx context.Context, repo ports.OrderRepository) ([]*order.Order, error) {
			return repo.ListPendingCreatedBefore(ctx, cutoff)
		},
		func(o *order.Order) (bool, error) {
			// The order may have been paid since it was listed.
			if o.Status() != order.Pending || !o.CreatedAt().Before(cutoff) {
				return false, nil
			}
			return true, o.Cancel(command.Now())
		},
	)
}
