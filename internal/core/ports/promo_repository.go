package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/promo"
)

// PromoRepository defines the persistence contract for promo codes and their usage facts.
type PromoRepository interface {
	// GetByCode looks a code up case-insensitively. Returns errs.ObjectNotFoundError when absent.
	GetByCode(ctx context.Context, code string) (*promo.PromoCode, error)

	// LockByCode is GetByCode holding a row lock, which serializes concurrent
	// applications of the same code for the rest of the transaction.
	LockByCode(ctx context.Context, code string) (*promo.PromoCode, error)

	// CountCustomerUsages counts the usage rows of a customer for a code.
	CountCustomerUsages(ctx context.Context, promoCodeID, customerID kernel.UUID) (int64, error)

	// RecordUsage increments the usage counter, guarded by the global cap, and
	// appends the usage row in the same transaction. When the cap was reached in
	// the meantime it fails with errs.ConflictError and nothing is written.
	RecordUsage(ctx context.Context, usage promo.Usage) error
}
