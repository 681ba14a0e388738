package order

import (
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// Created is raised once when an order is placed.
type Created struct {
	OrderID    kernel.UUID
	CustomerID kernel.UUID
	Status     Status
	Total      kernel.Money
	At         time.Time
}

func (e Created) EventName() string     { return "created" }
func (e Created) OccurredAt() time.Time { return e.At }

// StatusChanged is raised for every explicit transition.
type StatusChanged struct {
	OrderID    kernel.UUID
	CustomerID kernel.UUID
	From       Status
	To         Status
	At         time.Time
}

func (e StatusChanged) EventName() string {
	return fmt.Sprintf("status_%s_to_%s", e.From, e.To)
}
func (e StatusChanged) OccurredAt() time.Time { return e.At }

// OrderCancelled is raised by Cancel, whether requested by a customer or by the
// abandoned-order sweep.
type OrderCancelled struct {
	OrderID    kernel.UUID
	CustomerID kernel.UUID
	From       Status
	At         time.Time
}

func (e OrderCancelled) EventName() string     { return "cancelled" }
func (e OrderCancelled) OccurredAt() time.Time { return e.At }

// ScheduledStarted is raised when a scheduled order enters preparation.
type ScheduledStarted struct {
	OrderID    kernel.UUID
	CustomerID kernel.UUID
	At         time.Time
}

func (e ScheduledStarted) EventName() string     { return "scheduled_order_started" }
func (e ScheduledStarted) OccurredAt() time.Time { return e.At }

// PaymentUpdated is raised on every settlement step. Its name is the new payment status.
type PaymentUpdated struct {
	OrderID       kernel.UUID
	CustomerID    kernel.UUID
	PaymentStatus PaymentStatus
	Reference     string
	At            time.Time
}

func (e PaymentUpdated) EventName() string     { return e.PaymentStatus.String() }
func (e PaymentUpdated) OccurredAt() time.Time { return e.At }
