package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"marketplace/internal/core/application/ledgers"
	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/promo"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/metrics"
	"marketplace/internal/pkg/tracing"
)

// UnavailableItemsError lists menu items that exist but cannot be ordered right now.
type UnavailableItemsError struct {
	Names []string
}

func (e *UnavailableItemsError) Error() string {
	return fmt.Sprintf("%s: some items are not available: %s", errs.ErrValueIsInvalid, strings.Join(e.Names, ", "))
}

func (e *UnavailableItemsError) Unwrap() error {
	return errs.ErrValueIsInvalid
}

// CreateOrderCommandHandler places orders.
//
// Within one transaction it resolves the catalog, prices the order, applies the
// promo code and loyalty points, and stores the order with its pending delivery.
// Promo and loyalty problems are soft failures: the order is placed without that
// discount. Any other failure rolls everything back.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	pricing    services.PricingEngine
	promos     *ledgers.PromoLedger
	loyalty    *ledgers.LoyaltyLedger
	notifier   ports.EventNotifier
	clock      kernel.Clock
	logger     *slog.Logger
}

func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	pricing services.PricingEngine,
	promos *ledgers.PromoLedger,
	loyalty *ledgers.LoyaltyLedger,
	notifier ports.EventNotifier,
	clock kernel.Clock,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		pricing:    pricing,
		promos:     promos,
		loyalty:    loyalty,
		notifier:   notifier,
		clock:      clock,
		logger:     logger.With("component", "create_order"),
	}
}

func (h CreateOrderCommandHandler) Handle(ctx context.Context, command CreateOrderCommand) (_ *order.Order, err error) {
	if err = command.Validate(); err != nil {
		return nil, err
	}

	ctx, span := tracing.Start(ctx, "commands.CreateOrder")
	defer func() { tracing.End(span, err) }()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := h.clock()
	customerID := command.CustomerID()
	opts := command.Options()

	lines, err := h.resolveLines(ctx, uow.CatalogRepository(), command)
	if err != nil {
		return nil, err
	}

	subtotal, err := h.pricing.Subtotal(lines)
	if err != nil {
		return nil, err
	}

	var restaurant *catalog.Restaurant
	if opts.RestaurantID != nil {
		if restaurant, err = uow.CatalogRepository().GetRestaurant(ctx, *opts.RestaurantID); err != nil {
			return nil, err
		}
	}
	fee := h.pricing.DeliveryFee(restaurant)
	running := subtotal.Add(fee)
	orderID := kernel.NewUUID()

	promoDiscount := kernel.ZeroMoney()
	var promoCodeID *kernel.UUID
	if opts.PromoCode != "" {
		quote, applyErr := h.promos.Apply(ctx, uow.PromoRepository(), opts.PromoCode, orderID, promo.Request{
			OrderAmount:  running,
			DeliveryFee:  fee,
			CustomerID:   customerID,
			RestaurantID: opts.RestaurantID,
			CategoryIDs:  categoryIDs(lines),
			Now:          now,
		})
		switch {
		case applyErr == nil:
			promoDiscount = quote.Discount.Min(running)
			id := quote.Code.ID()
			promoCodeID = &id
		case isSoftFailure(applyErr):
			h.logger.InfoContext(ctx, "promo code not applied", "customer_id", customerID.String(), "code", opts.PromoCode, "reason", applyErr.Error())
		default:
			return nil, applyErr
		}
	}

	var pointsUsed int64
	loyaltyDiscount := kernel.ZeroMoney()
	if opts.LoyaltyPointsToUse > 0 {
		pointsUsed, loyaltyDiscount, err = h.loyalty.Reserve(
			ctx, uow.LoyaltyRepository(), customerID, opts.LoyaltyPointsToUse, running.Sub(promoDiscount).ClampZero(), orderID,
		)
		if err != nil {
			return nil, err
		}
		if pointsUsed == 0 {
			h.logger.InfoContext(ctx, "loyalty points not applied", "customer_id", customerID.String(), "requested", opts.LoyaltyPointsToUse)
		}
	}

	quote, err := h.pricing.Quote(lines, fee, promoDiscount, loyaltyDiscount)
	if err != nil {
		return nil, err
	}

	items, err := orderItems(command.Lines(), lines)
	if err != nil {
		return nil, err
	}

	o, err := order.NewOrder(order.Draft{
		ID:                    orderID,
		CustomerID:            customerID,
		RestaurantID:          opts.RestaurantID,
		Items:                 items,
		DeliveryAddress:       command.DeliveryAddress(),
		CustomerPhone:         command.CustomerPhone(),
		DeliveryInstructions:  opts.DeliveryInstructions,
		PromoCodeID:           promoCodeID,
		LoyaltyPointsUsed:     pointsUsed,
		EstimatedDeliveryTime: h.pricing.EstimatedDelivery(lines, now),
		ScheduledDeliveryTime: opts.ScheduledDeliveryTime,
	}, quote.Pricing(), now)
	if err != nil {
		return nil, err
	}

	d, err := delivery.NewDelivery(kernel.NewUUID(), o.ID(), customerID, now)
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}
	if err = uow.DeliveryRepository().Add(ctx, d); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	if pointsUsed > 0 {
		metrics.Points.WithLabelValues("redeemed").Add(float64(pointsUsed))
	}
	h.notifier.Notify(ctx, drainEvents(o)...)

	return o, nil
}

// resolveLines loads every requested menu item. Unknown ids are not found;
// unavailable items are reported together by name.
func (h CreateOrderCommandHandler) resolveLines(ctx context.Context, repo ports.CatalogRepository, command CreateOrderCommand) ([]services.Line, error) {
	found, err := repo.GetMenuItems(ctx, command.MenuItemIDs())
	if err != nil {
		return nil, err
	}

	byID := make(map[kernel.UUID]catalog.MenuItem, len(found))
	for _, item := range found {
		byID[item.ID] = item
	}

	var unavailable []string
	for _, id := range command.MenuItemIDs() {
		item, ok := byID[id]
		if !ok {
			return nil, errs.NewObjectNotFoundError("menu item", id.String())
		}
		if !item.IsAvailable {
			unavailable = append(unavailable, item.Name)
		}
	}
	if len(unavailable) > 0 {
		return nil, &UnavailableItemsError{Names: unavailable}
	}

	lines := make([]services.Line, 0, len(command.Lines()))
	for _, l := range command.Lines() {
		lines = append(lines, services.Line{Item: byID[l.MenuItemID], Quantity: l.Quantity})
	}
	return lines, nil
}

func orderItems(requested []OrderLine, lines []services.Line) ([]order.Item, error) {
	items := make([]order.Item, 0, len(lines))
	for i, l := range lines {
		item, err := order.NewItem(l.Item.ID, l.Item.Name, l.Quantity, l.Item.Price, requested[i].SpecialInstructions)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func categoryIDs(lines []services.Line) []kernel.UUID {
	var ids []kernel.UUID
	for _, l := range lines {
		if l.Item.CategoryID != nil {
			ids = append(ids, *l.Item.CategoryID)
		}
	}
	return ids
}

// isSoftFailure reports whether a promo error degrades to "not applied".
func isSoftFailure(err error) bool {
	return errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrObjectNotFound) ||
		errors.Is(err, errs.ErrConflict)
}
