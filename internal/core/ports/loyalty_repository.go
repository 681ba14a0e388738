package ports

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/loyalty"
)

// LoyaltyRepository defines the persistence contract for loyalty programs and their ledger.
type LoyaltyRepository interface {
	// GetOrCreate returns the customer's program, creating an empty bronze one on
	// first use. The row stays locked until the transaction ends.
	GetOrCreate(ctx context.Context, customerID kernel.UUID) (*loyalty.Program, error)

	// GetForUpdate loads a program by its own id with a row lock.
	GetForUpdate(ctx context.Context, programID kernel.UUID) (*loyalty.Program, error)

	// Save writes the balance fields and appends the pending ledger rows atomically,
	// then clears them from the aggregate.
	Save(ctx context.Context, program *loyalty.Program) error

	// ListDueTransactions returns unprocessed earned and bonus rows expired at now, oldest first.
	ListDueTransactions(ctx context.Context, now time.Time, limit int) ([]loyalty.Transaction, error)

	// MarkProcessed flags an earned or bonus row as handled by the expiry run.
	MarkProcessed(ctx context.Context, transactionID kernel.UUID) error
}
