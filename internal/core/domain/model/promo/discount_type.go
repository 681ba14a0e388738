package promo

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

type DiscountType string

const (
	Percentage   DiscountType = "percentage"
	FixedAmount  DiscountType = "fixed_amount"
	FreeDelivery DiscountType = "free_delivery"
)

func ParseDiscountType(s string) (DiscountType, error) {
	t := DiscountType(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

func (t DiscountType) Validate() error {
	switch t {
	case Percentage, FixedAmount, FreeDelivery:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("discount type", fmt.Errorf("%q is not a valid discount type", string(t)))
	}
}

func (t DiscountType) String() string {
	return string(t)
}
