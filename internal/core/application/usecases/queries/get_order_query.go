// Package queries contains the read side of the marketplace. Handlers read the
// tables directly with SQL and return flat response structs; they never load
// aggregates and never write, with the exception of the lazily created loyalty
// program.
package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New("GetOrderQuery must be created via NewGetOrderQuery constructor")

// GetOrderQuery reads one order for its owner, an admin or the driver assigned
// to its delivery.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID, actor)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
type GetOrderQuery struct {
	orderID kernel.UUID
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID, actor kernel.Actor) (GetOrderQuery, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetOrderQuery) Actor() kernel.Actor {
	return q.actor
}

// GetOrderQueryResponse is the materialized order: amounts, items, the customer
// summary and the paired delivery.
//
// Subtotal is the sum of the item line totals, independent of discounts.
type GetOrderQueryResponse struct {
	ID                    kernel.UUID
	CustomerID            kernel.UUID
	RestaurantID          *kernel.UUID
	Status                string
	PaymentStatus         string
	PaymentReference      string
	Subtotal              kernel.Money
	DeliveryFee           kernel.Money
	DiscountAmount        kernel.Money
	TotalAmount           kernel.Money
	PromoCodeID           *kernel.UUID
	LoyaltyPointsUsed     int64
	LoyaltyPointsEarned   int64
	DeliveryAddress       string
	CustomerPhone         string
	DeliveryInstructions  string
	EstimatedDeliveryTime time.Time
	ScheduledDeliveryTime *time.Time
	ActualDeliveryTime    *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
	Items                 []OrderItemResponse
	Customer              *CustomerResponse
	Delivery              *OrderDeliveryResponse
}

type OrderItemResponse struct {
	ID                  kernel.UUID
	MenuItemID          kernel.UUID
	Name                string
	Quantity            int
	UnitPrice           kernel.Money
	LineTotal           kernel.Money
	SpecialInstructions string
}

type CustomerResponse struct {
	Name  string
	Email string
	Phone string
}

type OrderDeliveryResponse struct {
	ID       kernel.UUID
	Status   string
	DriverID *kernel.UUID
}
