package commands

import (
	"context"

	"marketplace/internal/core/application/ledgers"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/metrics"
)

// UpdateDeliveryStatusCommandHandler applies a driver's status report. A delivered
// report also completes the paired order, credits loyalty points and bumps the
// driver's delivery counter, all in the same transaction.
type UpdateDeliveryStatusCommandHandler struct {
	uowFactory UoWFactory
	loyalty    *ledgers.LoyaltyLedger
	notifier   ports.EventNotifier
	clock      kernel.Clock
}

func NewUpdateDeliveryStatusCommandHandler(
	uowFactory UoWFactory,
	loyalty *ledgers.LoyaltyLedger,
	notifier ports.EventNotifier,
	clock kernel.Clock,
) UpdateDeliveryStatusCommandHandler {
	return UpdateDeliveryStatusCommandHandler{
		uowFactory: uowFactory,
		loyalty:    loyalty,
		notifier:   notifier,
		clock:      clock,
	}
}

func (h UpdateDeliveryStatusCommandHandler) Handle(ctx context.Context, command UpdateDeliveryStatusCommand) (*delivery.Delivery, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	d, err := uow.DeliveryRepository().GetForUpdate(ctx, command.DeliveryID())
	if err != nil {
		return nil, err
	}

	now := h.clock()
	if err = d.Advance(command.DriverID(), command.Target(), now); err != nil {
		return nil, err
	}
	d.Annotate(command.Notes(), now)

	sources := []eventSource{d}
	var extra []kernel.DomainEvent
	var completed *order.Order

	if d.Status() == delivery.Delivered {
		o, getErr := uow.OrderRepository().GetForUpdate(ctx, d.OrderID())
		if getErr != nil {
			return nil, getErr
		}
		if err = o.Transition(order.Delivered, now); err != nil {
			return nil, err
		}
		if extra, err = earnForDelivery(ctx, h.loyalty, uow.LoyaltyRepository(), o); err != nil {
			return nil, err
		}
		if err = uow.OrderRepository().Update(ctx, o); err != nil {
			return nil, err
		}
		if err = uow.CatalogRepository().IncrementDriverDeliveries(ctx, command.DriverID()); err != nil {
			return nil, err
		}
		sources = append(sources, o)
		completed = o
	}

	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if completed != nil {
		metrics.OrderTransitions.WithLabelValues(order.OutForDelivery.String(), order.Delivered.String()).Inc()
		metrics.Points.WithLabelValues("earned").Add(float64(completed.LoyaltyPointsEarned()))
	}
	h.notifier.Notify(ctx, append(drainEvents(sources...), extra...)...)

	return d, nil
}
