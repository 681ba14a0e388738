// Package promorepo persists promo codes and their usage facts. Allow-lists are
// postgres text[] columns; an empty array means "no restriction".
package promorepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/promo"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PromoCodeDTO struct {
	ID                  uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Code                string           `gorm:"type:varchar(64);not null;uniqueIndex"`
	Description         string           `gorm:"type:text"`
	DiscountType        string           `gorm:"type:varchar(32);not null"`
	DiscountValue       decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	MinOrderAmount      decimal.Decimal  `gorm:"type:numeric(12,2);not null;default:0"`
	MaxDiscountAmount   *decimal.Decimal `gorm:"type:numeric(12,2)"`
	MaxUsageCount       *int64
	CurrentUsageCount   int64          `gorm:"not null;default:0"`
	MaxUsagePerCustomer int64          `gorm:"not null;default:1"`
	ValidFrom           time.Time      `gorm:"not null"`
	ValidUntil          time.Time      `gorm:"not null"`
	IsActive            bool           `gorm:"not null;default:true"`
	RestaurantIDs       pq.StringArray `gorm:"type:text[]"`
	CustomerIDs         pq.StringArray `gorm:"type:text[]"`
	CategoryIDs         pq.StringArray `gorm:"type:text[]"`
	EligibilityRule     string         `gorm:"type:text"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (PromoCodeDTO) TableName() string {
	return "promo_codes"
}

// BeforeSave stores codes upper-cased so lookups by UPPER(code) hit one row.
func (d *PromoCodeDTO) BeforeSave(*gorm.DB) error {
	d.Code = promo.NormalizeCode(d.Code)
	return nil
}

// UsageDTO records one application of a code to one order.
type UsageDTO struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PromoCodeID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_promo_usage_order;index:idx_promo_usage_customer"`
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_promo_usage_order"`
	CustomerID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_promo_usage_customer"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt      time.Time       `gorm:"not null"`
}

func (UsageDTO) TableName() string {
	return "promo_code_usages"
}

// FromSnapshot builds the row for a promo code. It is used by seeding and tests;
// codes are otherwise administered outside this service.
func FromSnapshot(s promo.Snapshot) PromoCodeDTO {
	var maxDiscount *decimal.Decimal
	if s.MaxDiscountAmount != nil {
		d := s.MaxDiscountAmount.Decimal()
		maxDiscount = &d
	}
	return PromoCodeDTO{
		ID:                  s.ID.Bytes(),
		Code:                promo.NormalizeCode(s.Code),
		Description:         s.Description,
		DiscountType:        s.DiscountType.String(),
		DiscountValue:       s.DiscountValue,
		MinOrderAmount:      s.MinOrderAmount.Decimal(),
		MaxDiscountAmount:   maxDiscount,
		MaxUsageCount:       s.MaxUsageCount,
		CurrentUsageCount:   s.CurrentUsageCount,
		MaxUsagePerCustomer: s.MaxUsagePerCustomer,
		ValidFrom:           s.ValidFrom,
		ValidUntil:          s.ValidUntil,
		IsActive:            s.IsActive,
		RestaurantIDs:       idStrings(s.RestaurantIDs),
		CustomerIDs:         idStrings(s.CustomerIDs),
		CategoryIDs:         idStrings(s.CategoryIDs),
		EligibilityRule:     s.EligibilityRule,
	}
}

func idStrings(ids []kernel.UUID) pq.StringArray {
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func parseIDs(values pq.StringArray) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(values))
	for _, v := range values {
		id, err := kernel.UUIDFromString(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func toDomain(dto PromoCodeDTO) (*promo.PromoCode, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	discountType, err := promo.ParseDiscountType(dto.DiscountType)
	if err != nil {
		return nil, err
	}
	restaurantIDs, err := parseIDs(dto.RestaurantIDs)
	if err != nil {
		return nil, err
	}
	customerIDs, err := parseIDs(dto.CustomerIDs)
	if err != nil {
		return nil, err
	}
	categoryIDs, err := parseIDs(dto.CategoryIDs)
	if err != nil {
		return nil, err
	}

	var maxDiscount *kernel.Money
	if dto.MaxDiscountAmount != nil {
		m := kernel.MoneyFromDecimal(*dto.MaxDiscountAmount)
		maxDiscount = &m
	}

	return promo.RestorePromoCode(promo.Snapshot{
		ID:                  id,
		Code:                dto.Code,
		Description:         dto.Description,
		DiscountType:        discountType,
		DiscountValue:       dto.DiscountValue,
		MinOrderAmount:      kernel.MoneyFromDecimal(dto.MinOrderAmount),
		MaxDiscountAmount:   maxDiscount,
		MaxUsageCount:       dto.MaxUsageCount,
		CurrentUsageCount:   dto.CurrentUsageCount,
		MaxUsagePerCustomer: dto.MaxUsagePerCustomer,
		ValidFrom:           dto.ValidFrom,
		ValidUntil:          dto.ValidUntil,
		IsActive:            dto.IsActive,
		RestaurantIDs:       restaurantIDs,
		CustomerIDs:         customerIDs,
		CategoryIDs:         categoryIDs,
		EligibilityRule:     dto.EligibilityRule,
	})
}

func usageFromDomain(u promo.Usage) UsageDTO {
	return UsageDTO{
		ID:             u.ID.Bytes(),
		PromoCodeID:    u.PromoCodeID.Bytes(),
		OrderID:        u.OrderID.Bytes(),
		CustomerID:     u.CustomerID.Bytes(),
		DiscountAmount: u.DiscountAmount.Decimal(),
		CreatedAt:      u.CreatedAt,
	}
}
