package services

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
)

// DeliveryBuffer is added to the longest preparation time of an order.
const DeliveryBuffer = 30 * time.Minute

// DefaultDeliveryFee is the baseline fee when no restaurant-specific fee applies.
var DefaultDeliveryFee = kernel.MustParseMoney("5.00")

// Line is one requested menu item with its resolved catalog entry.
type Line struct {
	Item     catalog.MenuItem
	Quantity int
}

// Quote is the full breakdown of an order's amounts.
type Quote struct {
	Subtotal        kernel.Money
	DeliveryFee     kernel.Money
	PromoDiscount   kernel.Money
	LoyaltyDiscount kernel.Money
	Total           kernel.Money
}

// Pricing converts the quote into the amounts stored on an order.
func (q Quote) Pricing() order.Pricing {
	return order.Pricing{
		Subtotal:        q.Subtotal,
		DeliveryFee:     q.DeliveryFee,
		PromoDiscount:   q.PromoDiscount,
		LoyaltyDiscount: q.LoyaltyDiscount,
		Total:           q.Total,
	}
}

// PricingEngine computes order totals. It has no side effects and keeps full
// decimal precision; rounding to 2 places happens only when amounts are displayed.
//
// Example usage:
//
//	engine := NewPricingEngine(DefaultDeliveryFee)
//	subtotal, _ := engine.Subtotal(lines)
//	fee := engine.DeliveryFee(restaurant)
//	quote, _ := engine.Quote(lines, fee, promoDiscount, loyaltyDiscount)
//	// quote.Total = subtotal + fee - promoDiscount - loyaltyDiscount, never below 0
type PricingEngine struct {
	baseDeliveryFee kernel.Money
}

// NewPricingEngine creates an engine using baseDeliveryFee for orders without a restaurant fee.
func NewPricingEngine(baseDeliveryFee kernel.Money) PricingEngine {
	return PricingEngine{baseDeliveryFee: baseDeliveryFee}
}

// Subtotal returns Σ(price × quantity) over the lines.
//
// Returns:
//   - kernel.Money: the sum at full precision
//   - error: ValueIsRequired for no lines, ValueIsOutOfRange for a quantity below 1
func (e PricingEngine) Subtotal(lines []Line) (kernel.Money, error) {
	if len(lines) == 0 {
		return kernel.ZeroMoney(), errs.NewValueIsRequiredError("items")
	}

	subtotal := kernel.ZeroMoney()
	var errList []error
	for i, l := range lines {
		if l.Quantity < 1 {
			errList = append(errList, errs.NewValueIsOutOfRangeError(fmt.Sprintf("items[%d].quantity", i), l.Quantity, 1, "unbounded"))
			continue
		}
		subtotal = subtotal.Add(l.Item.Price.MulInt(int64(l.Quantity)))
	}
	if err := errors.Join(errList...); err != nil {
		return kernel.ZeroMoney(), err
	}
	return subtotal, nil
}

// DeliveryFee returns the restaurant's own fee when it has one, else the baseline.
func (e PricingEngine) DeliveryFee(restaurant *catalog.Restaurant) kernel.Money {
	if restaurant != nil && restaurant.DeliveryFee != nil {
		return *restaurant.DeliveryFee
	}
	return e.baseDeliveryFee
}

// Quote assembles the breakdown. Discounts are expected to be capped already;
// the total is still clamped at zero.
func (e PricingEngine) Quote(lines []Line, deliveryFee, promoDiscount, loyaltyDiscount kernel.Money) (Quote, error) {
	subtotal, err := e.Subtotal(lines)
	if err != nil {
		return Quote{}, err
	}

	total := subtotal.Add(deliveryFee).Sub(promoDiscount).Sub(loyaltyDiscount).ClampZero()
	return Quote{
		Subtotal:        subtotal,
		DeliveryFee:     deliveryFee,
		PromoDiscount:   promoDiscount,
		LoyaltyDiscount: loyaltyDiscount,
		Total:           total,
	}, nil
}

// EstimatedDelivery returns now + the longest preparation time + DeliveryBuffer.
func (e PricingEngine) EstimatedDelivery(lines []Line, now time.Time) time.Time {
	longest := 0
	for _, l := range lines {
		longest = max(longest, l.Item.PrepMinutes())
	}
	return now.Add(time.Duration(longest)*time.Minute + DeliveryBuffer)
}
