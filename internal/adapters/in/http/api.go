package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

// Request and response bodies of api/openapi.yaml.

type NewOrderItem struct {
	MenuItemId          openapi_types.UUID `json:"menuItemId"`
	Quantity            int                `json:"quantity"`
	SpecialInstructions *string            `json:"specialInstructions,omitempty"`
}

type NewOrder struct {
	Items                 []NewOrderItem      `json:"items"`
	DeliveryAddress       string              `json:"deliveryAddress"`
	CustomerPhone         string              `json:"customerPhone"`
	DeliveryInstructions  *string             `json:"deliveryInstructions,omitempty"`
	PromoCode             *string             `json:"promoCode,omitempty"`
	LoyaltyPointsToUse    *int64              `json:"loyaltyPointsToUse,omitempty"`
	ScheduledDeliveryTime *time.Time          `json:"scheduledDeliveryTime,omitempty"`
	RestaurantId          *openapi_types.UUID `json:"restaurantId,omitempty"`
}

type OrderStatusChange struct {
	Status string `json:"status"`
}

type PaymentOutcome struct {
	Outcome   string  `json:"outcome"`
	Reference *string `json:"reference,omitempty"`
}

type DeliveryStatusChange struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type EtaUpdate struct {
	Minutes    int              `json:"minutes"`
	DistanceKm *decimal.Decimal `json:"distanceKm,omitempty"`
}

type PromoValidationRequest struct {
	Code         string              `json:"code"`
	OrderAmount  decimal.Decimal     `json:"orderAmount"`
	DeliveryFee  *decimal.Decimal    `json:"deliveryFee,omitempty"`
	RestaurantId *openapi_types.UUID `json:"restaurantId,omitempty"`
}

type RedeemRequest struct {
	Points  int64               `json:"points"`
	OrderId *openapi_types.UUID `json:"orderId,omitempty"`
}

type BonusRequest struct {
	CustomerId  openapi_types.UUID `json:"customerId"`
	Points      int64              `json:"points"`
	Description *string            `json:"description,omitempty"`
}

type Order struct {
	Id                    openapi_types.UUID  `json:"id"`
	CustomerId            openapi_types.UUID  `json:"customerId"`
	RestaurantId          *openapi_types.UUID `json:"restaurantId,omitempty"`
	Status                string              `json:"status"`
	PaymentStatus         string              `json:"paymentStatus"`
	PaymentReference      string              `json:"paymentReference,omitempty"`
	Subtotal              string              `json:"subtotal"`
	DeliveryFee           string              `json:"deliveryFee"`
	DiscountAmount        string              `json:"discountAmount"`
	TotalAmount           string              `json:"totalAmount"`
	PromoCodeId           *openapi_types.UUID `json:"promoCodeId,omitempty"`
	LoyaltyPointsUsed     int64               `json:"loyaltyPointsUsed"`
	LoyaltyPointsEarned   int64               `json:"loyaltyPointsEarned"`
	DeliveryAddress       string              `json:"deliveryAddress"`
	CustomerPhone         string              `json:"customerPhone"`
	DeliveryInstructions  string              `json:"deliveryInstructions,omitempty"`
	EstimatedDeliveryTime time.Time           `json:"estimatedDeliveryTime"`
	ScheduledDeliveryTime *time.Time          `json:"scheduledDeliveryTime,omitempty"`
	ActualDeliveryTime    *time.Time          `json:"actualDeliveryTime,omitempty"`
	CreatedAt             time.Time           `json:"createdAt"`
	UpdatedAt             time.Time           `json:"updatedAt"`
	Items                 []OrderItem         `json:"items"`
	Customer              *Customer           `json:"customer,omitempty"`
	Delivery              *OrderDelivery      `json:"delivery,omitempty"`
}

type OrderItem struct {
	Id                  openapi_types.UUID `json:"id"`
	MenuItemId          openapi_types.UUID `json:"menuItemId"`
	Name                string             `json:"name"`
	Quantity            int                `json:"quantity"`
	UnitPrice           string             `json:"unitPrice"`
	LineTotal           string             `json:"lineTotal"`
	SpecialInstructions string             `json:"specialInstructions,omitempty"`
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type OrderDelivery struct {
	Id       openapi_types.UUID  `json:"id"`
	Status   string              `json:"status"`
	DriverId *openapi_types.UUID `json:"driverId,omitempty"`
}

type LocationFix struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	RecordedAt time.Time `json:"recordedAt"`
}

type Delivery struct {
	Id               openapi_types.UUID  `json:"id"`
	OrderId          openapi_types.UUID  `json:"orderId"`
	CustomerId       openapi_types.UUID  `json:"customerId"`
	DriverId         *openapi_types.UUID `json:"driverId,omitempty"`
	Status           string              `json:"status"`
	PickupTime       *time.Time          `json:"pickupTime,omitempty"`
	DeliveryTime     *time.Time          `json:"deliveryTime,omitempty"`
	CurrentLocation  *LocationFix        `json:"currentLocation,omitempty"`
	EstimatedArrival *time.Time          `json:"estimatedArrival,omitempty"`
	DistanceKm       string              `json:"distanceKm,omitempty"`
	Notes            string              `json:"notes,omitempty"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

type DeliveryListItem struct {
	Id                    openapi_types.UUID  `json:"id"`
	OrderId               openapi_types.UUID  `json:"orderId"`
	CustomerId            openapi_types.UUID  `json:"customerId"`
	DriverId              *openapi_types.UUID `json:"driverId,omitempty"`
	Status                string              `json:"status"`
	OrderStatus           string              `json:"orderStatus"`
	DeliveryAddress       string              `json:"deliveryAddress"`
	DeliveryInstructions  string              `json:"deliveryInstructions,omitempty"`
	CustomerPhone         string              `json:"customerPhone"`
	TotalAmount           string              `json:"totalAmount"`
	ItemCount             int64               `json:"itemCount"`
	EstimatedDeliveryTime time.Time           `json:"estimatedDeliveryTime"`
	EstimatedArrival      *time.Time          `json:"estimatedArrival,omitempty"`
	PickupTime            *time.Time          `json:"pickupTime,omitempty"`
	DeliveryTime          *time.Time          `json:"deliveryTime,omitempty"`
	CreatedAt             time.Time           `json:"createdAt"`
	UpdatedAt             time.Time           `json:"updatedAt"`
}

type Tracking struct {
	DeliveryId       openapi_types.UUID  `json:"deliveryId"`
	OrderId          openapi_types.UUID  `json:"orderId"`
	Status           string              `json:"status"`
	OrderStatus      string              `json:"orderStatus"`
	DriverId         *openapi_types.UUID `json:"driverId,omitempty"`
	DriverName       string              `json:"driverName,omitempty"`
	DeliveryAddress  string              `json:"deliveryAddress"`
	CurrentLocation  *LocationFix        `json:"currentLocation,omitempty"`
	LocationHistory  []LocationFix       `json:"locationHistory"`
	EstimatedArrival *time.Time          `json:"estimatedArrival,omitempty"`
	DistanceKm       string              `json:"distanceKm,omitempty"`
	PickupTime       *time.Time          `json:"pickupTime,omitempty"`
	DeliveryTime     *time.Time          `json:"deliveryTime,omitempty"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

type PromoValidation struct {
	Valid          bool   `json:"valid"`
	Code           string `json:"code"`
	Description    string `json:"description,omitempty"`
	DiscountType   string `json:"discountType"`
	DiscountAmount string `json:"discountAmount"`
}

type LoyaltyProgram struct {
	Id                   openapi_types.UUID   `json:"id"`
	CustomerId           openapi_types.UUID   `json:"customerId"`
	Points               int64                `json:"points"`
	PointsValue          string               `json:"pointsValue"`
	TotalPointsEarned    int64                `json:"totalPointsEarned"`
	TotalPointsRedeemed  int64                `json:"totalPointsRedeemed"`
	Tier                 string               `json:"tier"`
	LastPointsEarnedAt   *time.Time           `json:"lastPointsEarnedAt,omitempty"`
	LastPointsRedeemedAt *time.Time           `json:"lastPointsRedeemedAt,omitempty"`
	CreatedAt            time.Time            `json:"createdAt"`
	Transactions         []LoyaltyTransaction `json:"transactions"`
}

type LoyaltyTransaction struct {
	Id          openapi_types.UUID  `json:"id"`
	OrderId     *openapi_types.UUID `json:"orderId,omitempty"`
	Type        string              `json:"type"`
	Points      int64               `json:"points"`
	Description string              `json:"description,omitempty"`
	ExpiresAt   *time.Time          `json:"expiresAt,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
}

type RedeemResult struct {
	Points   int64  `json:"points"`
	Discount string `json:"discount"`
	Balance  int64  `json:"balance"`
}

type BonusResult struct {
	Points      int64  `json:"points"`
	Balance     int64  `json:"balance"`
	Tier        string `json:"tier"`
	TierChanged bool   `json:"tierChanged"`
}

type Error struct {
	Code            int      `json:"code"`
	Message         string   `json:"message"`
	CurrentStatus   *string  `json:"currentStatus,omitempty"`
	AllowedStatuses []string `json:"allowedStatuses,omitempty"`
	Available       *int64   `json:"available,omitempty"`
	Minimum         *int64   `json:"minimum,omitempty"`
}

// ServerInterface lists the operations of api/openapi.yaml.
type ServerInterface interface {
	CreateOrder(ctx echo.Context) error
	GetOrder(ctx echo.Context, orderId openapi_types.UUID) error
	TransitionOrder(ctx echo.Context, orderId openapi_types.UUID) error
	CancelOrder(ctx echo.Context, orderId openapi_types.UUID) error
	RecordPayment(ctx echo.Context, orderId openapi_types.UUID) error
	ListAvailableDeliveries(ctx echo.Context) error
	ListDriverDeliveries(ctx echo.Context) error
	AcceptDelivery(ctx echo.Context, deliveryId openapi_types.UUID) error
	UpdateDeliveryStatus(ctx echo.Context, deliveryId openapi_types.UUID) error
	UpdateDeliveryLocation(ctx echo.Context, deliveryId openapi_types.UUID) error
	UpdateDeliveryEta(ctx echo.Context, deliveryId openapi_types.UUID) error
	GetDeliveryTracking(ctx echo.Context, deliveryId openapi_types.UUID) error
	ValidatePromoCode(ctx echo.Context) error
	GetLoyaltyProgram(ctx echo.Context) error
	RedeemPoints(ctx echo.Context) error
	AddBonusPoints(ctx echo.Context) error
}

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers mounts the operations under baseURL.
func RegisterHandlers(router EchoRouter, si ServerInterface, baseURL string) {
	router.POST(baseURL+"/orders", si.CreateOrder)
	router.GET(baseURL+"/orders/:orderId", withUUID("orderId", si.GetOrder))
	router.PATCH(baseURL+"/orders/:orderId/status", withUUID("orderId", si.TransitionOrder))
	router.POST(baseURL+"/orders/:orderId/cancel", withUUID("orderId", si.CancelOrder))
	router.POST(baseURL+"/orders/:orderId/payment", withUUID("orderId", si.RecordPayment))
	router.GET(baseURL+"/deliveries/available", si.ListAvailableDeliveries)
	router.GET(baseURL+"/deliveries/mine", si.ListDriverDeliveries)
	router.POST(baseURL+"/deliveries/:deliveryId/accept", withUUID("deliveryId", si.AcceptDelivery))
	router.PATCH(baseURL+"/deliveries/:deliveryId/status", withUUID("deliveryId", si.UpdateDeliveryStatus))
	router.POST(baseURL+"/deliveries/:deliveryId/location", withUUID("deliveryId", si.UpdateDeliveryLocation))
	router.POST(baseURL+"/deliveries/:deliveryId/eta", withUUID("deliveryId", si.UpdateDeliveryEta))
	router.GET(baseURL+"/deliveries/:deliveryId/tracking", withUUID("deliveryId", si.GetDeliveryTracking))
	router.POST(baseURL+"/promo-codes/validate", si.ValidatePromoCode)
	router.GET(baseURL+"/loyalty", si.GetLoyaltyProgram)
	router.POST(baseURL+"/loyalty/redeem", si.RedeemPoints)
	router.POST(baseURL+"/loyalty/bonus", si.AddBonusPoints)
}

// withUUID binds a uuid path parameter before calling the operation.
func withUUID(name string, op func(echo.Context, openapi_types.UUID) error) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		var id openapi_types.UUID
		err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
			runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
		if err != nil {
			return ctx.JSON(http.StatusBadRequest, Error{
				Code:    http.StatusBadRequest,
				Message: fmt.Sprintf("Invalid format for parameter %s: %s", name, err),
			})
		}
		return op(ctx, id)
	}
}
