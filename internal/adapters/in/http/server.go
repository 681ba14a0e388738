package http

import (
	"log/slog"
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Server implements ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler            commands.CreateOrderCommandHandler
	transitionOrderHandler        commands.TransitionOrderCommandHandler
	cancelOrderHandler            commands.CancelOrderCommandHandler
	recordPaymentHandler          commands.RecordPaymentCommandHandler
	acceptDeliveryHandler         commands.AcceptDeliveryCommandHandler
	updateDeliveryStatusHandler   commands.UpdateDeliveryStatusCommandHandler
	updateDeliveryLocationHandler commands.UpdateDeliveryLocationCommandHandler
	updateDeliveryETAHandler      commands.UpdateDeliveryETACommandHandler
	redeemPointsHandler           commands.RedeemPointsCommandHandler
	addBonusPointsHandler         commands.AddBonusPointsCommandHandler

	// Query handlers
	getOrderHandler                queries.GetOrderQueryHandler
	listAvailableDeliveriesHandler queries.ListAvailableDeliveriesQueryHandler
	listDriverDeliveriesHandler    queries.ListDriverDeliveriesQueryHandler
	getDeliveryTrackingHandler     queries.GetDeliveryTrackingQueryHandler
	validatePromoCodeHandler       queries.ValidatePromoCodeQueryHandler
	getLoyaltyProgramHandler       queries.GetLoyaltyProgramQueryHandler

	logger *slog.Logger
}

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	CreateOrder            commands.CreateOrderCommandHandler
	TransitionOrder        commands.TransitionOrderCommandHandler
	CancelOrder            commands.CancelOrderCommandHandler
	RecordPayment          commands.RecordPaymentCommandHandler
	AcceptDelivery         commands.AcceptDeliveryCommandHandler
	UpdateDeliveryStatus   commands.UpdateDeliveryStatusCommandHandler
	UpdateDeliveryLocation commands.UpdateDeliveryLocationCommandHandler
	UpdateDeliveryETA      commands.UpdateDeliveryETACommandHandler
	RedeemPoints           commands.RedeemPointsCommandHandler
	AddBonusPoints         commands.AddBonusPointsCommandHandler

	GetOrder                queries.GetOrderQueryHandler
	ListAvailableDeliveries queries.ListAvailableDeliveriesQueryHandler
	ListDriverDeliveries    queries.ListDriverDeliveriesQueryHandler
	GetDeliveryTracking     queries.GetDeliveryTrackingQueryHandler
	ValidatePromoCode       queries.ValidatePromoCodeQueryHandler
	GetLoyaltyProgram       queries.GetLoyaltyProgramQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(h Handlers, logger *slog.Logger) *Server {
	return &Server{
		createOrderHandler:             h.CreateOrder,
		transitionOrderHandler:         h.TransitionOrder,
		cancelOrderHandler:             h.CancelOrder,
		recordPaymentHandler:           h.RecordPayment,
		acceptDeliveryHandler:          h.AcceptDelivery,
		updateDeliveryStatusHandler:    h.UpdateDeliveryStatus,
		updateDeliveryLocationHandler:  h.UpdateDeliveryLocation,
		updateDeliveryETAHandler:       h.UpdateDeliveryETA,
		redeemPointsHandler:            h.RedeemPoints,
		addBonusPointsHandler:          h.AddBonusPoints,
		getOrderHandler:                h.GetOrder,
		listAvailableDeliveriesHandler: h.ListAvailableDeliveries,
		listDriverDeliveriesHandler:    h.ListDriverDeliveries,
		getDeliveryTrackingHandler:     h.GetDeliveryTracking,
		validatePromoCodeHandler:       h.ValidatePromoCode,
		getLoyaltyProgramHandler:       h.GetLoyaltyProgram,
		logger:                         logger,
	}
}

var _ ServerInterface = (*Server)(nil)

// CreateOrder handles POST /api/v1/orders - places an order for the calling customer.
func (s *Server) CreateOrder(ctx echo.Context) error {
	actor := actorFrom(ctx)
	if actor.Role() != kernel.RoleCustomer {
		return s.fail(ctx, "create order", errs.NewForbiddenError("create order", "only customers place orders"))
	}

	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	lines := make([]commands.OrderLine, 0, len(body.Items))
	for _, item := range body.Items {
		menuItemID, err := toUUID(item.MenuItemId)
		if err != nil {
			return s.fail(ctx, "create order", err)
		}
		lines = append(lines, commands.OrderLine{
			MenuItemID:          menuItemID,
			Quantity:            item.Quantity,
			SpecialInstructions: deref(item.SpecialInstructions),
		})
	}

	restaurantID, err := toUUIDPtr(body.RestaurantId)
	if err != nil {
		return s.fail(ctx, "create order", err)
	}
	options := commands.CreateOrderOptions{
		PromoCode:             deref(body.PromoCode),
		ScheduledDeliveryTime: body.ScheduledDeliveryTime,
		RestaurantID:          restaurantID,
		DeliveryInstructions:  deref(body.DeliveryInstructions),
	}
	if body.LoyaltyPointsToUse != nil {
		options.LoyaltyPointsToUse = *body.LoyaltyPointsToUse
	}

	cmd, err := commands.NewCreateOrderCommand(actor.UserID(), lines, body.DeliveryAddress, body.CustomerPhone, options)
	if err != nil {
		return s.fail(ctx, "create order", err)
	}
	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, "create order", err)
	}
	return ctx.JSON(http.StatusCreated, orderFromDomain(created))
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	id, err := toUUID(orderId)
	if err != nil {
		return s.fail(ctx, "get order", err)
	}
	query, err := queries.NewGetOrderQuery(id, actorFrom(ctx))
	if err != nil {
		return s.fail(ctx, "get order", err)
	}
	view, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, "get order", err)
	}
	return ctx.JSON(http.StatusOK, orderFromQuery(view))
}

// TransitionOrder handles PATCH /api/v1/orders/{orderId}/status. Only admins
// move orders through the lifecycle; customers cancel through CancelOrder.
func (s *Server) TransitionOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	if !actorFrom(ctx).IsAdmin() {
		return s.fail(ctx, "transition order", errs.NewForbiddenError("transition order", "only admins change order status"))
	}

	var body OrderStatusChange
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	id, err := toUUID(orderId)
	if err != nil {
		return s.fail(ctx, "transition order", err)
	}
	cmd, err := commands.NewTransitionOrderCommand(id, body.Status, actorFrom(ctx))
	if err != nil {
		return s.fail(ctx, "transition order", err)
	}
	updated, err := s.transitionOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, "transition order", err)
	}
	return ctx.JSON(http.StatusOK, orderFromDomain(updated))
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancel.
func (s *Server) CancelOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	id, err := toUUID(orderId)
	if err != nil {
		return s.fail(ctx, "cancel order", err)
	}
	cmd, err := commands.NewCancelOrderCommand(id, actorFrom(ctx))
	if err != nil {
		return s.fail(ctx, "cancel order", err)
	}
	cancelled, err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, "cancel order", err)
	}
	return ctx.JSON(http.StatusOK, orderFromDomain(cancelled))
}

// RecordPayment handles POST /api/v1/orders/{orderId}/payment. Payment outcomes
// come from the payment provider integration, which calls with an admin identity.
func (s *Server) RecordPayment(ctx echo.Context, orderId openapi_types.UUID) error {
	if !actorFrom(ctx).IsAdmin() {
		return s.fail(ctx, "record payment", errs.NewForbiddenError("record payment", "only admins record payments"))
	}

	var body PaymentOutcome
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	id, err := toUUID(orderId)
	if err != nil {
		return s.fail(ctx, "record payment", err)
	}
	cmd, err := commands.NewRecordPaymentCommand(id, body.Outcome, deref(body.Reference))
	if err != nil {
		return s.fail(ctx, "record payment", err)
	}
	updated, err := s.recordPaymentHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, "record payment", err)
	}
	return ctx.JSON(http.StatusOK, orderFromDomain(updated))
}

// ListAvailableDeliveries handles GET /api/v1/deliveries/available.
func (s *Server) ListAvailableDeliveries(ctx echo.Context) error {
	query, err := queries.NewListAvailableDeliveriesQuery(actorFrom(ctx))
	if err != nil {
		return s.fail(ctx, "list available deliveries", err)
	}
	items, err := s.listAvailableDeliveriesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, "list available deliveries", err)
	}
	return ctx.JSON(http.StatusOK, deliveryListFromQuery(items))
}

// ListDriverDeliveries handles GET /api/v1/deliveries/mine.
func (s *Server) ListDriverDeliveries(ctx echo.Context) error {
	query, err := queries.NewListDriverDeliveriesQuery(actorFrom(ctx))
	if err != nil {
		return s.fail(ctx, "list driver deliveries", err)
	}
	items, err := s.listDriverDeliveriesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, "list driver deliveries", err)
	}
	return ctx.JSON(http.StatusOK, deliveryListFromQuery(items))
}

// AcceptDelivery handles POST /api/v1/deliveries/{deliveryId}/accept.
func (s *Server) AcceptDelivery(ctx echo.Context, deliveryId openapi_types.UUID) error {
	driverID, err := s.driver(ctx, "accept delivery")
	if err != nil {
		return s.fail(ctx, "accept delivery", err)
	}
	id, err := toUUID(deliveryId)
	if err != nil {
		return s.fail(ctx, "accept delivery", err)
	}
	cmd, err := commands.NewAcceptDeliveryCommand(id, driverID)
	if err != nil {
		return s.fail(ctx, "accept delivery", err)
	}
	accepted, err := s.acceptDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, "accept delivery", err)
	}
	return ctx.JSON(http.StatusOK, deliveryFromDomain(accepted))
}

// UpdateDeliveryStatus handles PATCH /api/v1/deliveries/{deliveryId}/status.
func (s *Server) UpdateDeliveryStatus(ctx echo.Context, deliveryId openapi_types.UUID) error {
	driverID, err := s.driver(ctx, "update delivery status")
	if err != nil {
		return s.fail(ctx, "update delivery status", err)
	}
	var body DeliveryStatusChange
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	id, err := toUUID(deliveryId)
	if err != nil {
		return s.fail(ctx, "update delivery status", err)
	}
	cmd, err := commands.NewUpdateDeliveryStatusCommand(id, driverID, body.Status, deref(body.Notes))
	if err != nil {
		return s.fail(ctx, "update delivery status", err)
	}
	updated, err := s.updateDeliveryStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, "update delivery status", err)
	}
	return ctx.JSON(http.StatusOK, deliveryFromDomain(updated))
}

// UpdateDeliveryLocation handles POST /api/v1/deliveries/{deliveryId}/location.
func (s *Server) UpdateDeliveryLocation(ctx echo.Context, deliveryId openapi_types.UUID) error {
	driverID, err := s.driver(ctx, "update delivery location")
	if err != nil {
		return s.fail(ctx, "update delivery location", err)
	}
	var body Location
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	id, err := toUUID(deliveryId)
	if err != nil {
		return s.fail(ctx, "update delivery location", err)
	}
	cmd, err := commands.NewUpdateDeliveryLocationCommand(id, driverID, body.Lat, body.Lng)
	if err != nil {
		return s.fail(ctx, "update delivery location", err)
	}
	updated, err := s.updateDeliveryLocationHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, "update delivery location", err)
	}
	return ctx.JSON(http.StatusOK, deliveryFromDomain(updated))
}

// UpdateDeliveryEta handles POST /api/v1/deliveries/{deliveryId}/eta.
func (s *Server) UpdateDeliveryEta(ctx echo.Context, deliveryId openapi_types.UUID) error {
	driverID, err := s.driver(ctx, "update delivery eta")
	if err != nil {
		return s.fail(ctx, "update delivery eta", err)
	}
	var body EtaUpdate
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	id, err := toUUID(deliveryId)
	if err != nil {
		return s.fail(ctx, "update delivery eta", err)
	}
	cmd, err := commands.NewUpdateDeliveryETACommand(id, driverID, body.Minutes, body.DistanceKm)
	if err != nil {
		return s.fail(ctx, "update delivery eta", err)
	}
	updated, err := s.updateDeliveryETAHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, "update delivery eta", err)
	}
	return ctx.JSON(http.StatusOK, deliveryFromDomain(updated))
}

// GetDeliveryTracking handles GET /api/v1/deliveries/{deliveryId}/tracking.
func (s *Server) GetDeliveryTracking(ctx echo.Context, deliveryId openapi_types.UUID) error {
	id, err := toUUID(deliveryId)
	if err != nil {
		return s.fail(ctx, "get delivery tracking", err)
	}
	query, err := queries.NewGetDeliveryTrackingQuery(id, actorFrom(ctx))
	if err != nil {
		return s.fail(ctx, "get delivery tracking", err)
	}
	view, err := s.getDeliveryTrackingHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, "get delivery tracking", err)
	}
	return ctx.JSON(http.StatusOK, trackingFromQuery(view))
}

// ValidatePromoCode handles POST /api/v1/promo-codes/validate. The caller is
// evaluated as the customer; nothing is recorded.
func (s *Server) ValidatePromoCode(ctx echo.Context) error {
	var body PromoValidationRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	orderAmount, err := kernel.NewMoney(body.OrderAmount)
	if err != nil {
		return s.fail(ctx, "validate promo code", err)
	}
	var fee *kernel.Money
	if body.DeliveryFee != nil {
		parsed, err := kernel.NewMoney(*body.DeliveryFee)
		if err != nil {
			return s.fail(ctx, "validate promo code", err)
		}
		fee = &parsed
	}
	restaurantID, err := toUUIDPtr(body.RestaurantId)
	if err != nil {
		return s.fail(ctx, "validate promo code", err)
	}

	query, err := queries.NewValidatePromoCodeQuery(body.Code, orderAmount, fee, actorFrom(ctx).UserID(), restaurantID)
	if err != nil {
		return s.fail(ctx, "validate promo code", err)
	}
	result, err := s.validatePromoCodeHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, "validate promo code", err)
	}
	return ctx.JSON(http.StatusOK, PromoValidation{
		Valid:          result.Valid,
		Code:           result.Code,
		Description:    result.Description,
		DiscountType:   result.DiscountType,
		DiscountAmount: result.DiscountAmount.String(),
	})
}

// GetLoyaltyProgram handles GET /api/v1/loyalty for the calling customer.
func (s *Server) GetLoyaltyProgram(ctx echo.Context) error {
	query, err := queries.NewGetLoyaltyProgramQuery(actorFrom(ctx).UserID())
	if err != nil {
		return s.fail(ctx, "get loyalty program", err)
	}
	view, err := s.getLoyaltyProgramHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, "get loyalty program", err)
	}
	return ctx.JSON(http.StatusOK, loyaltyFromQuery(view))
}

// RedeemPoints handles POST /api/v1/loyalty/redeem for the calling customer.
func (s *Server) RedeemPoints(ctx echo.Context) error {
	var body RedeemRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	orderID, err := toUUIDPtr(body.OrderId)
	if err != nil {
		return s.fail(ctx, "redeem points", err)
	}
	cmd, err := commands.NewRedeemPointsCommand(actorFrom(ctx).UserID(), body.Points, orderID)
	if err != nil {
		return s.fail(ctx, "redeem points", err)
	}
	outcome, err := s.redeemPointsHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, "redeem points", err)
	}
	return ctx.JSON(http.StatusOK, RedeemResult{
		Points:   outcome.Points,
		Discount: outcome.Discount.String(),
		Balance:  outcome.Balance,
	})
}

// AddBonusPoints handles POST /api/v1/loyalty/bonus. Admin only.
func (s *Server) AddBonusPoints(ctx echo.Context) error {
	if !actorFrom(ctx).IsAdmin() {
		return s.fail(ctx, "add bonus points", errs.NewForbiddenError("add bonus points", "only admins grant bonus points"))
	}

	var body BonusRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	customerID, err := toUUID(body.CustomerId)
	if err != nil {
		return s.fail(ctx, "add bonus points", err)
	}
	cmd, err := commands.NewAddBonusPointsCommand(customerID, body.Points, deref(body.Description))
	if err != nil {
		return s.fail(ctx, "add bonus points", err)
	}
	outcome, err := s.addBonusPointsHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, "add bonus points", err)
	}
	return ctx.JSON(http.StatusOK, BonusResult{
		Points:      outcome.Points,
		Balance:     outcome.Balance,
		Tier:        outcome.Tier.String(),
		TierChanged: outcome.TierChanged,
	})
}

// driver returns the caller id when the caller is a driver.
func (s *Server) driver(ctx echo.Context, action string) (kernel.UUID, error) {
	actor := actorFrom(ctx)
	if actor.Role() != kernel.RoleDriver {
		return kernel.UUID{}, errs.NewForbiddenError(action, "only drivers may do this")
	}
	return actor.UserID(), nil
}

func toUUID(id openapi_types.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(id[:])
}

func toUUIDPtr(id *openapi_types.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	parsed, err := toUUID(*id)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
