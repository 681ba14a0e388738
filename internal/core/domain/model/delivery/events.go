package delivery

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

type Accepted struct {
	DeliveryID kernel.UUID
	OrderID    kernel.UUID
	CustomerID kernel.UUID
	DriverID   kernel.UUID
	At         time.Time
}

func (e Accepted) EventName() string     { return "accepted" }
func (e Accepted) OccurredAt() time.Time { return e.At }

// StatusChanged is raised for every driver-requested status update.
type StatusChanged struct {
	DeliveryID kernel.UUID
	OrderID    kernel.UUID
	CustomerID kernel.UUID
	DriverID   kernel.UUID
	From       Status
	To         Status
	At         time.Time
}

func (e StatusChanged) EventName() string     { return "status_" + e.To.String() }
func (e StatusChanged) OccurredAt() time.Time { return e.At }

type LocationUpdated struct {
	DeliveryID kernel.UUID
	OrderID    kernel.UUID
	CustomerID kernel.UUID
	DriverID   kernel.UUID
	Lat        float64
	Lng        float64
	At         time.Time
}

func (e LocationUpdated) EventName() string     { return "location" }
func (e LocationUpdated) OccurredAt() time.Time { return e.At }

type ETAUpdated struct {
	DeliveryID       kernel.UUID
	OrderID          kernel.UUID
	CustomerID       kernel.UUID
	EstimatedArrival time.Time
	Distance         *decimal.Decimal
	At               time.Time
}

func (e ETAUpdated) EventName() string     { return "eta" }
func (e ETAUpdated) OccurredAt() time.Time { return e.At }
