package loyalty

import (
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

type TransactionType string

const (
	Earned   TransactionType = "earned"
	Redeemed TransactionType = "redeemed"
	Expired  TransactionType = "expired"
	Bonus    TransactionType = "bonus"
)

func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	switch t {
	case Earned, Redeemed, Expired, Bonus:
		return t, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("transaction type", fmt.Errorf("%q is not a valid transaction type", s))
	}
}

func (t TransactionType) String() string {
	return string(t)
}

// Expiring reports whether rows of this type carry an expiry date.
func (t TransactionType) Expiring() bool {
	return t == Earned || t == Bonus
}

// Transaction is one ledger row. Points are negative for redeemed and expired rows.
// Processed marks an earned or bonus row that the expiry run has already handled.
type Transaction struct {
	ID          kernel.UUID
	ProgramID   kernel.UUID
	OrderID     *kernel.UUID
	Type        TransactionType
	Points      int64
	Description string
	ExpiresAt   *time.Time
	Processed   bool
	CreatedAt   time.Time
}

// IsDue reports whether an unprocessed earned or bonus row has passed its expiry date.
func (t Transaction) IsDue(now time.Time) bool {
	return t.Type.Expiring() && !t.Processed && t.ExpiresAt != nil && !t.ExpiresAt.After(now)
}
