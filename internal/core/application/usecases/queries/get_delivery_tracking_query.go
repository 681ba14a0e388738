package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetDeliveryTrackingQueryIsNotConstructed = errors.New(
	"GetDeliveryTrackingQuery must be created via NewGetDeliveryTrackingQuery constructor",
)

// GetDeliveryTrackingQuery reads the live position of a delivery. Admins, the
// assigned driver and the ordering customer may track it.
type GetDeliveryTrackingQuery struct {
	deliveryID kernel.UUID
	actor      kernel.Actor

	guard guard.ConstructorGuard
}

func NewGetDeliveryTrackingQuery(deliveryID kernel.UUID, actor kernel.Actor) (GetDeliveryTrackingQuery, error) {
	if err := errors.Join(deliveryID.Validate(), actor.Validate()); err != nil {
		return GetDeliveryTrackingQuery{}, err
	}
	return GetDeliveryTrackingQuery{deliveryID: deliveryID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDeliveryTrackingQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryTrackingQueryIsNotConstructed)
}

func (q GetDeliveryTrackingQuery) DeliveryID() kernel.UUID {
	return q.deliveryID
}

func (q GetDeliveryTrackingQuery) Actor() kernel.Actor {
	return q.actor
}

type LocationResponse struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	RecordedAt time.Time `json:"recordedAt"`
}

// GetDeliveryTrackingQueryResponse carries the current position, the bounded
// history oldest first, and the driver's latest ETA.
type GetDeliveryTrackingQueryResponse struct {
	DeliveryID       kernel.UUID
	OrderID          kernel.UUID
	Status           string
	OrderStatus      string
	DriverID         *kernel.UUID
	DriverName       string
	DeliveryAddress  string
	CurrentLocation  *LocationResponse
	LocationHistory  []LocationResponse
	EstimatedArrival *time.Time
	Distance         *decimal.Decimal
	PickupTime       *time.Time
	DeliveryTime     *time.Time
	UpdatedAt        time.Time
}
