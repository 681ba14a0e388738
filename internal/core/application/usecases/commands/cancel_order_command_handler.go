package commands

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/metrics"
)

type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   ports.EventNotifier
	clock      kernel.Clock
}

func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory, notifier ports.EventNotifier, clock kernel.Clock) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clock,
	}
}

// Handle cancels the order. Customers may only cancel their own orders; admins may cancel any.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, command CancelOrderCommand) (*order.Order, error) {
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

	actor := command.Actor()
	if !actor.IsAdmin() && !o.IsOwnedBy(actor.UserID()) {
		return nil, errs.NewForbiddenError("cancel order", "not the owner of the order")
	}

	from := o.Status()
	if err = o.Cancel(h.clock()); err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.OrderTransitions.WithLabelValues(from.String(), o.Status().String()).Inc()
	h.notifier.Notify(ctx, drainEvents(o)...)

	return o, nil
}
