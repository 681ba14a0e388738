package queries

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/loyalty"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetLoyaltyProgramQueryHandler struct {
	db    *gorm.DB
	clock kernel.Clock
}

func NewGetLoyaltyProgramQueryHandler(db *gorm.DB, clock kernel.Clock) GetLoyaltyProgramQueryHandler {
	if clock == nil {
		clock = kernel.SystemClock
	}
	return GetLoyaltyProgramQueryHandler{db: db, clock: clock}
}

// Handle inserts the program when missing, then returns it with its latest
// transactions, newest first.
func (h GetLoyaltyProgramQueryHandler) Handle(
	ctx context.Context,
	query GetLoyaltyProgramQuery,
) (*GetLoyaltyProgramQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	now := h.clock()
	err := h.db.WithContext(ctx).Exec(`
		INSERT INTO loyalty_programs
			(id, customer_id, points, total_points_earned, total_points_redeemed, tier, created_at, updated_at)
		VALUES (?, ?, 0, 0, 0, ?, ?, ?)
		ON CONFLICT (customer_id) DO NOTHING
	`, kernel.NewUUID().Bytes(), query.CustomerID().Bytes(), loyalty.Bronze.String(), now, now).Error
	if err != nil {
		return nil, err
	}

	resp, err := h.program(ctx, query.CustomerID())
	if err != nil {
		return nil, err
	}

	if resp.Transactions, err = h.transactions(ctx, resp.ID); err != nil {
		return nil, err
	}
	return resp, nil
}

func (h GetLoyaltyProgramQueryHandler) program(ctx context.Context, customerID kernel.UUID) (*GetLoyaltyProgramQueryResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			points,
			total_points_earned,
			total_points_redeemed,
			tier,
			last_points_earned_at,
			last_points_redeemed_at,
			created_at
		FROM loyalty_programs
		WHERE customer_id = ?
	`, customerID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, err
		}
		return nil, errs.NewObjectNotFoundError("loyalty program", customerID.String())
	}

	resp := GetLoyaltyProgramQueryResponse{CustomerID: customerID}
	var id uuid.UUID
	err = rows.Scan(
		&id,
		&resp.Points,
		&resp.TotalPointsEarned,
		&resp.TotalPointsRedeemed,
		&resp.Tier,
		&resp.LastPointsEarnedAt,
		&resp.LastPointsRedeemedAt,
		&resp.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return nil, err
	}
	resp.PointsValue = loyalty.PointsValue(resp.Points)

	return &resp, rows.Err()
}

func (h GetLoyaltyProgramQueryHandler) transactions(ctx context.Context, programID kernel.UUID) ([]LoyaltyTransactionResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			type,
			points,
			description,
			expires_at,
			created_at
		FROM loyalty_transactions
		WHERE program_id = ?
		ORDER BY created_at DESC, id
		LIMIT ?
	`, programID.Bytes(), RecentTransactionsLimit).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LoyaltyTransactionResponse, 0)
	for rows.Next() {
		var (
			t           LoyaltyTransactionResponse
			id          uuid.UUID
			orderID     *uuid.UUID
			description *string
		)
		if err = rows.Scan(&id, &orderID, &t.Type, &t.Points, &description, &t.ExpiresAt, &t.CreatedAt); err != nil {
			return nil, err
		}
		if t.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if t.OrderID, err = kernel.UUIDPtrFromBytes(orderID); err != nil {
			return nil, err
		}
		t.Description = deref(description)
		out = append(out, t)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
