package commands

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/metrics"
)

type RecordPaymentCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.EventNotifier
	clock      kernel.Clock
}

func NewRecordPaymentCommandHandler(uowFactory OrderUoWFactory, notifier ports.EventNotifier, clock kernel.Clock) RecordPaymentCommandHandler {
	return RecordPaymentCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clock,
	}
}

// Handle applies the payment outcome. A completed payment moves a pending order to paid.
func (h RecordPaymentCommandHandler) Handle(ctx context.Context, command RecordPaymentCommand) (*order.Order, error) {
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

	o, err := uow.OrderRepository().GetForUpdate(ctx, command.OrderID())
	if err != nil {
		return nil, err
	}

	from := o.Status()
	if err = o.SettlePayment(command.Outcome(), command.Reference(), h.clock()); err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if from != o.Status() {
		metrics.OrderTransitions.WithLabelValues(from.String(), o.Status().String()).Inc()
	}
	h.notifier.Notify(ctx, drainEvents(o)...)

	return o, nil
}
