package order

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Draft carries everything a customer supplied when placing an order, after the
// catalog has been resolved into Items.
type Draft struct {
	ID                    kernel.UUID
	CustomerID            kernel.UUID
	RestaurantID          *kernel.UUID
	Items                 []Item
	DeliveryAddress       string
	CustomerPhone         string
	DeliveryInstructions  string
	PromoCodeID           *kernel.UUID
	LoyaltyPointsUsed     int64
	EstimatedDeliveryTime time.Time
	ScheduledDeliveryTime *time.Time
}

// Pricing is the breakdown produced by the pricing engine for a Draft.
// Discount is the sum of the promo and loyalty discounts actually applied.
type Pricing struct {
	Subtotal        kernel.Money
	DeliveryFee     kernel.Money
	PromoDiscount   kernel.Money
	LoyaltyDiscount kernel.Money
	Total           kernel.Money
}

// Discount returns the combined discount.
func (p Pricing) Discount() kernel.Money {
	return p.PromoDiscount.Add(p.LoyaltyDiscount)
}

// Order is the aggregate root of the order lifecycle. It owns its line items, the
// amounts charged, the fulfillment status and the independent payment status.
//
// Order follows these invariants:
//   - Has at least one item, a customer, a delivery address and a phone number
//   - totalAmount is never negative
//   - status only moves along the edges of the transition table
//   - actualDeliveryTime is stamped exactly once, by the transition to delivered
//
// Order uses private fields and exposes state changes as methods that validate
// first and mutate second, so a failed call leaves the order untouched.
type Order struct {
	id                    kernel.UUID
	customerID            kernel.UUID
	restaurantID          *kernel.UUID
	items                 []Item
	totalAmount           kernel.Money
	deliveryFee           kernel.Money
	discountAmount        kernel.Money
	promoCodeID           *kernel.UUID
	loyaltyPointsUsed     int64
	loyaltyPointsEarned   int64
	status                Status
	paymentStatus         PaymentStatus
	paymentReference      string
	deliveryAddress       string
	customerPhone         string
	deliveryInstructions  string
	estimatedDeliveryTime time.Time
	scheduledDeliveryTime *time.Time
	actualDeliveryTime    *time.Time
	createdAt             time.Time
	updatedAt             time.Time

	// persistedStatus is the status last written to storage. Repositories use it
	// as the compare-and-set guard of conditional updates.
	persistedStatus Status

	events        kernel.EventRecorder
	isConstructed bool
}

// NewOrder creates an order from a resolved draft and its pricing.
//
// Scheduled orders (ScheduledDeliveryTime set) start in Paid and are delivered at
// exactly the scheduled time; all other orders start in Pending. The payment status
// always starts as pending.
//
// Example:
//
//	item, _ := order.NewItem(menuItemID, "Margherita", 2, kernel.MustParseMoney("12.99"), "")
//	quote, err := engine.Quote(lines, fee, promoDiscount, loyaltyDiscount)
//	o, err := order.NewOrder(order.Draft{ID: kernel.NewUUID(), CustomerID: customerID, Items: []order.Item{item}, ...}, quote.Pricing(), now)
func NewOrder(draft Draft, pricing Pricing, now time.Time) (*Order, error) {
	o := &Order{
		id:                    draft.ID,
		customerID:            draft.CustomerID,
		restaurantID:          draft.RestaurantID,
		promoCodeID:           draft.PromoCodeID,
		deliveryInstructions:  draft.DeliveryInstructions,
		estimatedDeliveryTime: draft.EstimatedDeliveryTime,
		scheduledDeliveryTime: draft.ScheduledDeliveryTime,
		status:                Pending,
		paymentStatus:         PaymentPending,
		createdAt:             now,
		updatedAt:             now,
		isConstructed:         true,
	}
	if draft.ScheduledDeliveryTime != nil {
		o.status = Paid
		o.estimatedDeliveryTime = *draft.ScheduledDeliveryTime
	}

	if err := errors.Join(
		o.setID(draft.ID),
		o.setCustomerID(draft.CustomerID),
		o.setItems(draft.Items),
		o.setDeliveryAddress(draft.DeliveryAddress),
		o.setCustomerPhone(draft.CustomerPhone),
		o.setLoyaltyPointsUsed(draft.LoyaltyPointsUsed),
		o.setAmounts(pricing.Total, pricing.DeliveryFee, pricing.Discount()),
	); err != nil {
		return nil, err
	}

	o.events.Raise(Created{
		OrderID:    o.id,
		CustomerID: o.customerID,
		Status:     o.status,
		Total:      o.totalAmount,
		At:         now,
	})
	return o, nil
}

// Snapshot is the persisted form of an order used to rebuild the aggregate.
type Snapshot struct {
	ID                    kernel.UUID
	CustomerID            kernel.UUID
	RestaurantID          *kernel.UUID
	Items                 []Item
	TotalAmount           kernel.Money
	DeliveryFee           kernel.Money
	DiscountAmount        kernel.Money
	PromoCodeID           *kernel.UUID
	LoyaltyPointsUsed     int64
	LoyaltyPointsEarned   int64
	Status                Status
	PaymentStatus         PaymentStatus
	PaymentReference      string
	DeliveryAddress       string
	CustomerPhone         string
	DeliveryInstructions  string
	EstimatedDeliveryTime time.Time
	ScheduledDeliveryTime *time.Time
	ActualDeliveryTime    *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// RestoreOrder rebuilds an order loaded from storage. It validates the same
// invariants as NewOrder but raises no events.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		restaurantID:          s.RestaurantID,
		promoCodeID:           s.PromoCodeID,
		loyaltyPointsEarned:   s.LoyaltyPointsEarned,
		paymentReference:      s.PaymentReference,
		deliveryInstructions:  s.DeliveryInstructions,
		estimatedDeliveryTime: s.EstimatedDeliveryTime,
		scheduledDeliveryTime: s.ScheduledDeliveryTime,
		actualDeliveryTime:    s.ActualDeliveryTime,
		createdAt:             s.CreatedAt,
		updatedAt:             s.UpdatedAt,
		status:                s.Status,
		persistedStatus:       s.Status,
		paymentStatus:         s.PaymentStatus,
		isConstructed:         true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setCustomerID(s.CustomerID),
		o.setItems(s.Items),
		o.setDeliveryAddress(s.DeliveryAddress),
		o.setCustomerPhone(s.CustomerPhone),
		o.setLoyaltyPointsUsed(s.LoyaltyPointsUsed),
		o.setAmounts(s.TotalAmount, s.DeliveryFee, s.DiscountAmount),
		s.Status.Validate(),
		s.PaymentStatus.Validate(),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was created through NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

func (o *Order) RestaurantID() *kernel.UUID {
	return o.restaurantID
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

// Subtotal is the sum of the line totals, before fee and discounts.
func (o *Order) Subtotal() kernel.Money {
	subtotal := kernel.ZeroMoney()
	for _, item := range o.items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return subtotal
}

func (o *Order) TotalAmount() kernel.Money {
	return o.totalAmount
}

func (o *Order) DeliveryFee() kernel.Money {
	return o.deliveryFee
}

func (o *Order) DiscountAmount() kernel.Money {
	return o.discountAmount
}

func (o *Order) PromoCodeID() *kernel.UUID {
	return o.promoCodeID
}

func (o *Order) LoyaltyPointsUsed() int64 {
	return o.loyaltyPointsUsed
}

func (o *Order) LoyaltyPointsEarned() int64 {
	return o.loyaltyPointsEarned
}

func (o *Order) Status() Status {
	return o.status
}

// PersistedStatus is the status this instance was loaded with, or last saved with.
func (o *Order) PersistedStatus() Status {
	return o.persistedStatus
}

func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

func (o *Order) PaymentReference() string {
	return o.paymentReference
}

func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

func (o *Order) CustomerPhone() string {
	return o.customerPhone
}

func (o *Order) DeliveryInstructions() string {
	return o.deliveryInstructions
}

func (o *Order) EstimatedDeliveryTime() time.Time {
	return o.estimatedDeliveryTime
}

func (o *Order) ScheduledDeliveryTime() *time.Time {
	return o.scheduledDeliveryTime
}

func (o *Order) ActualDeliveryTime() *time.Time {
	return o.actualDeliveryTime
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// DomainEvents returns the events raised since the order was created or loaded.
func (o *Order) DomainEvents() []kernel.DomainEvent {
	return o.events.Events()
}

// ClearDomainEvents drops the recorded events once they have been dispatched.
func (o *Order) ClearDomainEvents() {
	o.events.Clear()
}

// MarkPersisted records that the current status has been written to storage.
// Repositories call it after every successful insert or conditional update.
func (o *Order) MarkPersisted() {
	o.persistedStatus = o.status
}

// Transition moves the order one step along the transition table.
//
// Side effects:
//   - delivered stamps actualDeliveryTime with now
//
// Returns *errs.ConflictError (current status + allowed set) when the edge does not
// exist; the order is not modified in that case.
func (o *Order) Transition(target Status, now time.Time) error {
	from := o.status
	next, err := from.TransitionTo(target)
	if err != nil {
		return err
	}

	if next == Delivered {
		o.actualDeliveryTime = &now
	}
	o.status = next
	o.updatedAt = now

	o.events.Raise(StatusChanged{
		OrderID:    o.id,
		CustomerID: o.customerID,
		From:       from,
		To:         next,
		At:         now,
	})
	return nil
}

// Cancel cancels the order while it has not left the kitchen (pending, paid or
// preparing). Any other status yields a conflict carrying the current status.
func (o *Order) Cancel(now time.Time) error {
	if !o.status.IsCancellable() {
		return errs.NewConflictError("order", o.status.String(), "cannot be cancelled at this stage")
	}

	from := o.status
	o.status = Cancelled
	o.updatedAt = now

	o.events.Raise(OrderCancelled{
		OrderID:    o.id,
		CustomerID: o.customerID,
		From:       from,
		At:         now,
	})
	return nil
}

// StartScheduled moves a pre-paid scheduled order into preparation.
func (o *Order) StartScheduled(now time.Time) error {
	if o.scheduledDeliveryTime == nil {
		return errs.NewConflictError("order", o.status.String(), "is not a scheduled order")
	}
	next, err := o.status.TransitionTo(Preparing)
	if err != nil {
		return err
	}

	o.status = next
	o.updatedAt = now
	o.events.Raise(ScheduledStarted{OrderID: o.id, CustomerID: o.customerID, At: now})
	return nil
}

// SettlePayment applies a payment outcome. A completed payment on a pending order
// also moves the order to paid.
func (o *Order) SettlePayment(outcome PaymentStatus, reference string, now time.Time) error {
	next, err := o.paymentStatus.TransitionTo(outcome)
	if err != nil {
		return err
	}

	o.paymentStatus = next
	if reference != "" {
		o.paymentReference = reference
	}
	o.updatedAt = now
	o.events.Raise(PaymentUpdated{
		OrderID:       o.id,
		CustomerID:    o.customerID,
		PaymentStatus: next,
		Reference:     o.paymentReference,
		At:            now,
	})

	if next == PaymentCompleted && o.status == Pending {
		return o.Transition(Paid, now)
	}
	return nil
}

// RecordLoyaltyEarned stores the points credited for this order on delivery.
func (o *Order) RecordLoyaltyEarned(points int64) error {
	if points < 0 {
		return errs.NewValueIsInvalidErrorWithCause("loyalty points earned", fmt.Errorf("%d is negative", points))
	}
	o.loyaltyPointsEarned = points
	return nil
}

// IsOwnedBy reports whether the customer placed this order.
func (o *Order) IsOwnedBy(customerID kernel.UUID) bool {
	return o.customerID.IsEqual(customerID)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer id", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setDeliveryAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("delivery address")
	}
	o.deliveryAddress = address
	return nil
}

func (o *Order) setCustomerPhone(phone string) error {
	if phone == "" {
		return errs.NewValueIsRequiredError("customer phone")
	}
	o.customerPhone = phone
	return nil
}

func (o *Order) setLoyaltyPointsUsed(points int64) error {
	if points < 0 {
		return errs.NewValueIsInvalidErrorWithCause("loyalty points used", fmt.Errorf("%d is negative", points))
	}
	o.loyaltyPointsUsed = points
	return nil
}

func (o *Order) setAmounts(total, fee, discount kernel.Money) error {
	if total.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("total amount", fmt.Errorf("%s is negative", total))
	}
	if fee.IsNegative() || discount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("amounts", fmt.Errorf("fee %s and discount %s must not be negative", fee, discount))
	}
	o.totalAmount = total
	o.deliveryFee = fee
	o.discountAmount = discount
	return nil
}
