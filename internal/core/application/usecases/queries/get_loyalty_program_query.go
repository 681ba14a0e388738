package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

// RecentTransactionsLimit caps the ledger rows returned with a program.
const RecentTransactionsLimit = 20

var ErrGetLoyaltyProgramQueryIsNotConstructed = errors.New(
	"GetLoyaltyProgramQuery must be created via NewGetLoyaltyProgramQuery constructor",
)

// GetLoyaltyProgramQuery reads a customer's program, creating an empty bronze
// program on first access.
type GetLoyaltyProgramQuery struct {
	customerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetLoyaltyProgramQuery(customerID kernel.UUID) (GetLoyaltyProgramQuery, error) {
	if err := customerID.Validate(); err != nil {
		return GetLoyaltyProgramQuery{}, err
	}
	return GetLoyaltyProgramQuery{customerID: customerID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetLoyaltyProgramQuery) Validate() error {
	return q.guard.Validate(ErrGetLoyaltyProgramQueryIsNotConstructed)
}

func (q GetLoyaltyProgramQuery) CustomerID() kernel.UUID {
	return q.customerID
}

type GetLoyaltyProgramQueryResponse struct {
	ID                   kernel.UUID
	CustomerID           kernel.UUID
	Points               int64
	PointsValue          kernel.Money
	TotalPointsEarned    int64
	TotalPointsRedeemed  int64
	Tier                 string
	LastPointsEarnedAt   *time.Time
	LastPointsRedeemedAt *time.Time
	CreatedAt            time.Time
	Transactions         []LoyaltyTransactionResponse
}

type LoyaltyTransactionResponse struct {
	ID          kernel.UUID
	OrderID     *kernel.UUID
	Type        string
	Points      int64
	Description string
	ExpiresAt   *time.Time
	CreatedAt   time.Time
}
