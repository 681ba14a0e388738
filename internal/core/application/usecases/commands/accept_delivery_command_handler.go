package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/metrics"
	"marketplace/internal/pkg/tracing"
)

// AcceptDeliveryCommandHandler resolves the claim race on a pending delivery.
//
// The claim is the conditional update of the delivery row from pending to
// assigned. When two drivers race, the second update matches no row and the
// repository reports a conflict with the status it found. The paired order
// moves to out_for_delivery in the same transaction.
type AcceptDeliveryCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.EventNotifier
	clock      kernel.Clock
	logger     *slog.Logger
}

func NewAcceptDeliveryCommandHandler(
	uowFactory UoWFactory,
	notifier ports.EventNotifier,
	clock kernel.Clock,
	logger *slog.Logger,
) AcceptDeliveryCommandHandler {
	return AcceptDeliveryCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clock,
		logger:     logger.With("component", "accept_delivery"),
	}
}

func (h AcceptDeliveryCommandHandler) Handle(ctx context.Context, command AcceptDeliveryCommand) (_ *delivery.Delivery, err error) {
	if err = command.Validate(); err != nil {
		return nil, err
	}

	ctx, span := tracing.Start(ctx, "commands.AcceptDelivery")
	defer func() { tracing.End(span, err) }()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	d, err := uow.DeliveryRepository().Get(ctx, command.DeliveryID())
	if err != nil {
		return nil, err
	}

	now := h.clock()
	if err = h.claim(ctx, uow.DeliveryRepository(), d, command.DriverID(), now); err != nil {
		return nil, err
	}

	o, err := uow.OrderRepository().GetForUpdate(ctx, d.OrderID())
	if err != nil {
		return nil, err
	}
	if err = o.Transition(order.OutForDelivery, now); err != nil {
		return nil, err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.DeliveryClaims.WithLabelValues(metrics.ClaimWon).Inc()
	metrics.OrderTransitions.WithLabelValues(order.Ready.String(), order.OutForDelivery.String()).Inc()
	h.logger.InfoContext(ctx, "delivery accepted",
		"delivery_id", d.ID().String(), "order_id", o.ID().String(), "driver_id", command.DriverID().String())
	h.notifier.Notify(ctx, drainEvents(d, o)...)

	return d, nil
}

func (h AcceptDeliveryCommandHandler) claim(
	ctx context.Context,
	repo ports.DeliveryRepository,
	d *delivery.Delivery,
	driverID kernel.UUID,
	now time.Time,
) error {
	err := d.Accept(driverID, now)
	if err == nil {
		err = repo.Update(ctx, d)
	}
	if errors.Is(err, errs.ErrConflict) {
		metrics.DeliveryClaims.WithLabelValues(metrics.ClaimLost).Inc()
		h.logger.InfoContext(ctx, "delivery claim lost", "delivery_id", d.ID().String(), "driver_id", driverID.String())
	}
	return err
}
