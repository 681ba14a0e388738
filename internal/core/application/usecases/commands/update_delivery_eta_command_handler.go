package commands

import (
	"context"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
)

type UpdateDeliveryETACommandHandler struct {
	uowFactory DeliveryUoWFactory
	notifier   ports.EventNotifier
	clock      kernel.Clock
}

func NewUpdateDeliveryETACommandHandler(
	uowFactory DeliveryUoWFactory,
	notifier ports.EventNotifier,
	clock kernel.Clock,
) UpdateDeliveryETACommandHandler {
	return UpdateDeliveryETACommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clock,
	}
}

func (h UpdateDeliveryETACommandHandler) Handle(ctx context.Context, command UpdateDeliveryETACommand) (*delivery.Delivery, error) {
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

	if err = d.SetEstimatedArrival(command.DriverID(), command.Minutes(), command.Distance(), h.clock()); err != nil {
		return nil, err
	}

	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.notifier.Notify(ctx, drainEvents(d)...)

	return d, nil
}
