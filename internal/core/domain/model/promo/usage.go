package promo

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// Usage is the append-only fact that a code was applied to an order.
// There is at most one per (promo code, order).
type Usage struct {
	ID             kernel.UUID
	PromoCodeID    kernel.UUID
	OrderID        kernel.UUID
	CustomerID     kernel.UUID
	DiscountAmount kernel.Money
	CreatedAt      time.Time
}

func NewUsage(promoCodeID, orderID, customerID kernel.UUID, discount kernel.Money, now time.Time) (Usage, error) {
	err := errors.Join(promoCodeID.Validate(), orderID.Validate(), customerID.Validate())
	if discount.IsNegative() {
		err = errors.Join(err, errs.NewValueIsInvalidError("discount amount"))
	}
	if err != nil {
		return Usage{}, err
	}
	return Usage{
		ID:             kernel.NewUUID(),
		PromoCodeID:    promoCodeID,
		OrderID:        orderID,
		CustomerID:     customerID,
		DiscountAmount: discount,
		CreatedAt:      now,
	}, nil
}
