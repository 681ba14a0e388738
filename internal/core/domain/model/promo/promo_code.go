package promo

import (
	"errors"
	"slices"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var ErrPromoCodeIsNotConstructed = errors.New("PromoCode must be created via RestorePromoCode")

// NormalizeCode returns the stored form of a code: trimmed and uppercase.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Request describes the order a code is being checked against.
type Request struct {
	// OrderAmount is the running total the discount is computed on (subtotal plus delivery fee).
	OrderAmount  kernel.Money
	DeliveryFee  kernel.Money
	CustomerID   kernel.UUID
	RestaurantID *kernel.UUID
	CategoryIDs  []kernel.UUID
	// CustomerUsages is the number of usage rows already recorded for this customer and code.
	CustomerUsages int64
	Now            time.Time
}

// Snapshot is the persisted form of a promo code.
type Snapshot struct {
	ID                  kernel.UUID
	Code                string
	Description         string
	DiscountType        DiscountType
	DiscountValue       decimal.Decimal
	MinOrderAmount      kernel.Money
	MaxDiscountAmount   *kernel.Money
	MaxUsageCount       *int64
	CurrentUsageCount   int64
	MaxUsagePerCustomer int64
	ValidFrom           time.Time
	ValidUntil          time.Time
	IsActive            bool
	RestaurantIDs       []kernel.UUID
	CustomerIDs         []kernel.UUID
	CategoryIDs         []kernel.UUID
	EligibilityRule     string
}

// PromoCode is a discount definition. Usage counting is owned by storage; the
// aggregate only answers whether a request is eligible and how much it is worth.
type PromoCode struct {
	s             Snapshot
	isConstructed bool
}

func RestorePromoCode(s Snapshot) (*PromoCode, error) {
	var errList []error
	errList = append(errList, s.ID.Validate(), s.DiscountType.Validate())
	if NormalizeCode(s.Code) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("code"))
	}
	if s.DiscountValue.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidError("discount value"))
	}
	if s.DiscountType == Percentage && s.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		errList = append(errList, errs.NewValueIsOutOfRangeError("discount value", s.DiscountValue, 0, 100))
	}
	if s.ValidUntil.Before(s.ValidFrom) {
		errList = append(errList, errs.NewValueIsInvalidError("valid until"))
	}
	if s.MaxUsagePerCustomer < 1 {
		s.MaxUsagePerCustomer = 1
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}
	s.Code = NormalizeCode(s.Code)
	return &PromoCode{s: s, isConstructed: true}, nil
}

func (p *PromoCode) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPromoCodeIsNotConstructed
	}
	return nil
}

func (p *PromoCode) ID() kernel.UUID                  { return p.s.ID }
func (p *PromoCode) Code() string                     { return p.s.Code }
func (p *PromoCode) Description() string              { return p.s.Description }
func (p *PromoCode) DiscountType() DiscountType       { return p.s.DiscountType }
func (p *PromoCode) DiscountValue() decimal.Decimal   { return p.s.DiscountValue }
func (p *PromoCode) MinOrderAmount() kernel.Money     { return p.s.MinOrderAmount }
func (p *PromoCode) MaxDiscountAmount() *kernel.Money { return p.s.MaxDiscountAmount }
func (p *PromoCode) MaxUsageCount() *int64            { return p.s.MaxUsageCount }
func (p *PromoCode) CurrentUsageCount() int64         { return p.s.CurrentUsageCount }
func (p *PromoCode) MaxUsagePerCustomer() int64       { return p.s.MaxUsagePerCustomer }
func (p *PromoCode) ValidFrom() time.Time             { return p.s.ValidFrom }
func (p *PromoCode) ValidUntil() time.Time            { return p.s.ValidUntil }
func (p *PromoCode) IsActive() bool                   { return p.s.IsActive }
func (p *PromoCode) EligibilityRule() string          { return p.s.EligibilityRule }
func (p *PromoCode) RestaurantIDs() []kernel.UUID     { return slices.Clone(p.s.RestaurantIDs) }
func (p *PromoCode) CustomerIDs() []kernel.UUID       { return slices.Clone(p.s.CustomerIDs) }
func (p *PromoCode) CategoryIDs() []kernel.UUID       { return slices.Clone(p.s.CategoryIDs) }

// Check runs the eligibility checks in a fixed order and returns the first failure:
// active, validity window, minimum amount, global cap, per-customer cap,
// restaurant allow-list, customer allow-list, category allow-list.
// The category list is only enforced when the request carries categories.
func (p *PromoCode) Check(req Request) error {
	switch {
	case !p.s.IsActive:
		return NewRejectionError(p.s.Code, ReasonInactive)
	case req.Now.Before(p.s.ValidFrom):
		return NewRejectionError(p.s.Code, ReasonNotYetValid)
	case req.Now.After(p.s.ValidUntil):
		return NewRejectionError(p.s.Code, ReasonExpired)
	case req.OrderAmount.LessThan(p.s.MinOrderAmount):
		return newRejectionErrorWithDetail(p.s.Code, ReasonBelowMinimum, "minimum is "+p.s.MinOrderAmount.String())
	case p.s.MaxUsageCount != nil && p.s.CurrentUsageCount >= *p.s.MaxUsageCount:
		return NewRejectionError(p.s.Code, ReasonUsageLimitReached)
	case req.CustomerUsages >= p.s.MaxUsagePerCustomer:
		return NewRejectionError(p.s.Code, ReasonCustomerLimitReached)
	case len(p.s.RestaurantIDs) > 0 && (req.RestaurantID == nil || !containsID(p.s.RestaurantIDs, *req.RestaurantID)):
		return NewRejectionError(p.s.Code, ReasonRestaurantNotEligible)
	case len(p.s.CustomerIDs) > 0 && !containsID(p.s.CustomerIDs, req.CustomerID):
		return NewRejectionError(p.s.Code, ReasonCustomerNotEligible)
	case len(p.s.CategoryIDs) > 0 && len(req.CategoryIDs) > 0 && !anyID(p.s.CategoryIDs, req.CategoryIDs):
		return NewRejectionError(p.s.Code, ReasonCategoryNotEligible)
	}
	return nil
}

// Discount computes the amount the code takes off an eligible request.
//   - percentage: OrderAmount × value / 100, capped at MaxDiscountAmount when set
//   - fixed_amount: the value, never more than OrderAmount
//   - free_delivery: exactly the delivery fee
func (p *PromoCode) Discount(req Request) kernel.Money {
	var discount kernel.Money
	switch p.s.DiscountType {
	case Percentage:
		discount = req.OrderAmount.Percent(p.s.DiscountValue)
		if p.s.MaxDiscountAmount != nil {
			discount = discount.Min(*p.s.MaxDiscountAmount)
		}
	case FixedAmount:
		discount = kernel.MoneyFromDecimal(p.s.DiscountValue).Min(req.OrderAmount)
	case FreeDelivery:
		discount = req.DeliveryFee
	}
	return discount.ClampZero()
}

// Evaluate is Check followed by Discount.
func (p *PromoCode) Evaluate(req Request) (kernel.Money, error) {
	if err := p.Check(req); err != nil {
		return kernel.ZeroMoney(), err
	}
	return p.Discount(req), nil
}

func containsID(list []kernel.UUID, id kernel.UUID) bool {
	return slices.ContainsFunc(list, id.IsEqual)
}

func anyID(allowed, requested []kernel.UUID) bool {
	for _, id := range requested {
		if containsID(allowed, id) {
			return true
		}
	}
	return false
}
