package commands

import (
	"context"
	"log/slog"

	"marketplace/internal/core/application/ledgers"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/metrics"
	"marketplace/internal/pkg/tracing"
)

// TransitionOrderCommandHandler applies a status change with its side effects:
//   - out_for_delivery assigns a still pending delivery without a driver
//   - delivered credits loyalty points for the order total
//
// The order row is locked for the whole transaction and written with a
// compare-and-set on the status it was read with.
type TransitionOrderCommandHandler struct {
	uowFactory UoWFactory
	loyalty    *ledgers.LoyaltyLedger
	notifier   ports.EventNotifier
	clock      kernel.Clock
	logger     *slog.Logger
}

func NewTransitionOrderCommandHandler(
	uowFactory UoWFactory,
	loyalty *ledgers.LoyaltyLedger,
	notifier ports.EventNotifier,
	clock kernel.Clock,
	logger *slog.Logger,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		loyalty:    loyalty,
		notifier:   notifier,
		clock:      clock,
		logger:     logger.With("component", "transition_order"),
	}
}

func (h TransitionOrderCommandHandler) Handle(ctx context.Context, command TransitionOrderCommand) (_ *order.Order, err error) {
	if err = command.Validate(); err != nil {
		return nil, err
	}

	ctx, span := tracing.Start(ctx, "commands.TransitionOrder")
	defer func() { tracing.End(span, err) }()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
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
	now := h.clock()
	if err = o.Transition(command.Target(), now); err != nil {
		return nil, err
	}

	sources := []eventSource{o}
	var extra []kernel.DomainEvent

	switch o.Status() {
	case order.OutForDelivery:
		d, getErr := uow.DeliveryRepository().GetByOrderID(ctx, o.ID())
		if getErr != nil {
			return nil, getErr
		}
		if d.AssignWithoutDriver(now) {
			if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
				return nil, err
			}
		}
		sources = append(sources, d)
	case order.Delivered:
		if extra, err = earnForDelivery(ctx, h.loyalty, uow.LoyaltyRepository(), o); err != nil {
			return nil, err
		}
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order status changed",
		"order_id", o.ID().String(), "from", from.String(), "to", o.Status().String(),
		"actor_id", command.Actor().UserID().String(), "actor_role", string(command.Actor().Role()))
	metrics.OrderTransitions.WithLabelValues(from.String(), o.Status().String()).Inc()
	if o.Status() == order.Delivered {
		metrics.Points.WithLabelValues("earned").Add(float64(o.LoyaltyPointsEarned()))
	}
	h.notifier.Notify(ctx, append(drainEvents(sources...), extra...)...)

	return o, nil
}

// earnForDelivery credits the customer for a delivered order and stores the
// points on it. It returns the loyalty events to notify after commit.
func earnForDelivery(
	ctx context.Context,
	loyalty *ledgers.LoyaltyLedger,
	repo ports.LoyaltyRepository,
	o *order.Order,
) ([]kernel.DomainEvent, error) {
	outcome, err := loyalty.Earn(ctx, repo, o.CustomerID(), o.ID(), o.TotalAmount())
	if err != nil {
		return nil, err
	}
	if err = o.RecordLoyaltyEarned(outcome.Points); err != nil {
		return nil, err
	}
	return outcome.Events, nil
}
