// Package catalog holds read-only projections of menu, restaurant, customer and
// driver data that order placement and fulfillment depend on. The records are
// owned by the menu and account services; this module never mutates them except
// for the driver delivery counter.
package catalog

import (
	"marketplace/internal/core/domain/model/kernel"
)

// DefaultPreparationMinutes is assumed for menu items without a preparation time.
const DefaultPreparationMinutes = 15

type MenuItem struct {
	ID                 kernel.UUID
	Name               string
	Price              kernel.Money
	IsAvailable        bool
	PreparationMinutes int
	CategoryID         *kernel.UUID
	RestaurantID       *kernel.UUID
}

// PrepMinutes returns the preparation time, falling back to the default.
func (m MenuItem) PrepMinutes() int {
	if m.PreparationMinutes <= 0 {
		return DefaultPreparationMinutes
	}
	return m.PreparationMinutes
}

type Restaurant struct {
	ID          kernel.UUID
	Name        string
	IsActive    bool
	DeliveryFee *kernel.Money
}

// Customer is the summary returned alongside an order.
type Customer struct {
	ID    kernel.UUID
	Name  string
	Email string
	Phone string
}

type Driver struct {
	ID              kernel.UUID
	Name            string
	TotalDeliveries int64
}
