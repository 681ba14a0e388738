// Package ports defines the contracts between the marketplace core and its
// infrastructure: repositories, the unit of work, realtime publishing, outbound
// notification channels and promo rule evaluation.
package ports

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order together with its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order. The write is conditional on
	// the stored status still being aggregate.PersistedStatus(); when another
	// request moved the order first it fails with errs.ConflictError.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its items. Returns errs.ObjectNotFoundError when absent.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate is Get holding a row lock until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListScheduledDue returns paid orders whose scheduled delivery time is at or before the given time.
	ListScheduledDue(ctx context.Context, before time.Time) ([]*order.Order, error)

	// ListPendingCreatedBefore returns orders still pending that were created before the given time.
	ListPendingCreatedBefore(ctx context.Context, before time.Time) ([]*order.Order, error)
}
