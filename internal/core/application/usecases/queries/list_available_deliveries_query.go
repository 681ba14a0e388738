package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrListAvailableDeliveriesQueryIsNotConstructed = errors.New(
	"ListAvailableDeliveriesQuery must be created via NewListAvailableDeliveriesQuery constructor",
)

// ListAvailableDeliveriesQuery lists the deliveries a driver may claim: pending
// deliveries whose order is ready. Only drivers and admins may ask.
type ListAvailableDeliveriesQuery struct {
	actor kernel.Actor

	guard guard.ConstructorGuard
}

func NewListAvailableDeliveriesQuery(actor kernel.Actor) (ListAvailableDeliveriesQuery, error) {
	if err := actor.Validate(); err != nil {
		return ListAvailableDeliveriesQuery{}, err
	}
	if !actor.IsAdmin() && actor.Role() != kernel.RoleDriver {
		return ListAvailableDeliveriesQuery{}, errs.NewForbiddenError("list available deliveries", "only drivers may claim deliveries")
	}
	return ListAvailableDeliveriesQuery{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q ListAvailableDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrListAvailableDeliveriesQueryIsNotConstructed)
}

// DeliveryListItem is one row of a delivery listing with the order fields a
// driver needs to decide on and perform the trip.
type DeliveryListItem struct {
	ID                    kernel.UUID
	OrderID               kernel.UUID
	CustomerID            kernel.UUID
	DriverID              *kernel.UUID
	Status                string
	OrderStatus           string
	DeliveryAddress       string
	DeliveryInstructions  string
	CustomerPhone         string
	TotalAmount           kernel.Money
	ItemCount             int64
	EstimatedDeliveryTime time.Time
	EstimatedArrival      *time.Time
	PickupTime            *time.Time
	DeliveryTime          *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
