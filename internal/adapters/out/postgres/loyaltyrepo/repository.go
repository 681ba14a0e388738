package loyaltyrepo

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/loyalty"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLoyaltyRepository implements ports.LoyaltyRepository using GORM.
type GormLoyaltyRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormLoyaltyRepository(db *gorm.DB) *GormLoyaltyRepository {
	return &GormLoyaltyRepository{db: db, now: time.Now}
}

// GetOrCreate inserts an empty program unless the customer already has one, then
// reads it back with a row lock. Concurrent first uses resolve on the unique
// customer index.
func (r *GormLoyaltyRepository) GetOrCreate(ctx context.Context, customerID kernel.UUID) (*loyalty.Program, error) {
	fresh, err := loyalty.NewProgram(customerID, r.now().UTC())
	if err != nil {
		return nil, err
	}

	dto := fromDomain(fresh)
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "customer_id"}}, DoNothing: true}).
		Create(&dto).Error
	if err != nil {
		return nil, err
	}

	return r.lock(ctx, "customer "+customerID.String(), "customer_id = ?", customerID.Bytes())
}

func (r *GormLoyaltyRepository) GetForUpdate(ctx context.Context, programID kernel.UUID) (*loyalty.Program, error) {
	if err := programID.Validate(); err != nil {
		return nil, err
	}
	return r.lock(ctx, programID.String(), "id = ?", programID.Bytes())
}

func (r *GormLoyaltyRepository) lock(ctx context.Context, label, query string, args ...any) (*loyalty.Program, error) {
	var dto ProgramDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(query, args...).
		Take(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("loyalty program", label)
		}
		return nil, err
	}
	return toDomain(dto)
}

// Save writes the balance columns and appends the pending ledger rows.
func (r *GormLoyaltyRepository) Save(ctx context.Context, program *loyalty.Program) error {
	if err := program.Validate(); err != nil {
		return err
	}

	dto := fromDomain(program)
	result := r.db.WithContext(ctx).
		Model(&ProgramDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"points":                  dto.Points,
			"total_points_earned":     dto.TotalPointsEarned,
			"total_points_redeemed":   dto.TotalPointsRedeemed,
			"tier":                    dto.Tier,
			"last_points_earned_at":   dto.LastPointsEarnedAt,
			"last_points_redeemed_at": dto.LastPointsRedeemedAt,
			"updated_at":              dto.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("loyalty program", program.ID().String())
	}

	pending := program.PendingTransactions()
	if len(pending) > 0 {
		rows := make([]TransactionDTO, 0, len(pending))
		for _, t := range pending {
			rows = append(rows, transactionFromDomain(t))
		}
		if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
			return err
		}
	}

	program.MarkPersisted()
	return nil
}

func (r *GormLoyaltyRepository) ListDueTransactions(ctx context.Context, now time.Time, limit int) ([]loyalty.Transaction, error) {
	var dtos []TransactionDTO
	err := r.db.WithContext(ctx).
		Where("type IN ? AND processed = ? AND expires_at IS NOT NULL AND expires_at <= ?",
			[]string{loyalty.Earned.String(), loyalty.Bonus.String()}, false, now).
		Order("expires_at, created_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	out := make([]loyalty.Transaction, 0, len(dtos))
	for _, dto := range dtos {
		t, convErr := transactionToDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *GormLoyaltyRepository) MarkProcessed(ctx context.Context, transactionID kernel.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&TransactionDTO{}).
		Where("id = ?", transactionID.Bytes()).
		Update("processed", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("loyalty transaction", transactionID.String())
	}
	return nil
}
