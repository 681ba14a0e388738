package promorepo

import (
	"context"
	"errors"

	"marketplace/internal/adapters/out/postgres/pgerr"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/promo"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPromoRepository implements ports.PromoRepository using GORM.
type GormPromoRepository struct {
	db *gorm.DB
}

func NewGormPromoRepository(db *gorm.DB) *GormPromoRepository {
	return &GormPromoRepository{db: db}
}

func (r *GormPromoRepository) GetByCode(ctx context.Context, code string) (*promo.PromoCode, error) {
	return r.byCode(r.db.WithContext(ctx), code)
}

// LockByCode reads the code with SELECT ... FOR UPDATE.
func (r *GormPromoRepository) LockByCode(ctx context.Context, code string) (*promo.PromoCode, error) {
	return r.byCode(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), code)
}

func (r *GormPromoRepository) byCode(db *gorm.DB, code string) (*promo.PromoCode, error) {
	normalized := promo.NormalizeCode(code)
	if normalized == "" {
		return nil, errs.NewValueIsRequiredError("code")
	}

	var dto PromoCodeDTO
	if err := db.Where("UPPER(code) = ?", normalized).Take(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("promo code", normalized)
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormPromoRepository) CountCustomerUsages(ctx context.Context, promoCodeID, customerID kernel.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&UsageDTO{}).
		Where("promo_code_id = ? AND customer_id = ?", promoCodeID.Bytes(), customerID.Bytes()).
		Count(&count).Error
	return count, err
}

// RecordUsage bumps current_usage_count only while it is below max_usage_count and
// inserts the usage row. Both statements run on the caller's transaction.
func (r *GormPromoRepository) RecordUsage(ctx context.Context, usage promo.Usage) error {
	result := r.db.WithContext(ctx).
		Model(&PromoCodeDTO{}).
		Where("id = ? AND (max_usage_count IS NULL OR current_usage_count < max_usage_count)", usage.PromoCodeID.Bytes()).
		UpdateColumn("current_usage_count", gorm.Expr("current_usage_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("promo code", "exhausted", "usage limit reached")
	}

	dto := usageFromDomain(usage)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewConflictErrorWithCause("promo code", "used", "already applied to the order", err)
		}
		return err
	}
	return nil
}
