package ports

import (
	"context"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
)

// DeliveryRepository defines the persistence contract for delivery aggregates.
type DeliveryRepository interface {
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update writes the delivery only when the stored status equals
	// aggregate.PersistedStatus(). This is the claim for Accept:
	//
	//   UPDATE deliveries SET status='assigned', driver_id=? WHERE id=? AND status='pending'
	//
	// Zero affected rows yield errs.ConflictError carrying the status found in storage.
	Update(ctx context.Context, aggregate *delivery.Delivery) error

	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetForUpdate loads the delivery with a row lock held until the transaction
	// ends, so concurrent driver updates are applied one after another.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetByOrderID returns the delivery paired with an order.
	GetByOrderID(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error)
}
