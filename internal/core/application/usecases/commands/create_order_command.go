package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrItemsAreRequired          = errs.NewValueIsRequiredError("items")
	ErrDeliveryAddressIsRequired = errs.NewValueIsRequiredError("delivery address")
	ErrCustomerPhoneIsRequired   = errs.NewValueIsRequiredError("customer phone")
	ErrLoyaltyPointsAreNegative  = errs.NewValueIsInvalidError("loyalty points to use")
)

// OrderLine is one requested menu item.
type OrderLine struct {
	MenuItemID          kernel.UUID
	Quantity            int
	SpecialInstructions string
}

// CreateOrderOptions are the optional parts of an order request.
type CreateOrderOptions struct {
	PromoCode             string
	LoyaltyPointsToUse    int64
	ScheduledDeliveryTime *time.Time
	RestaurantID          *kernel.UUID
	DeliveryInstructions  string
}

// CreateOrderCommand places an order for a customer.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(customerID, lines, "12 Abay Ave", "+77010000000",
//	    CreateOrderOptions{PromoCode: "save10", LoyaltyPointsToUse: 200})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	o, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	customerID      kernel.UUID
	lines           []OrderLine
	deliveryAddress string
	customerPhone   string
	options         CreateOrderOptions

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the request shape. Catalog checks happen in the handler.
func NewCreateOrderCommand(
	customerID kernel.UUID,
	lines []OrderLine,
	deliveryAddress, customerPhone string,
	options CreateOrderOptions,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomerID(customerID),
		cmd.setLines(lines),
		cmd.setDeliveryAddress(deliveryAddress),
		cmd.setCustomerPhone(customerPhone),
		cmd.setOptions(options),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

func (c CreateOrderCommand) Lines() []OrderLine {
	out := make([]OrderLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c CreateOrderCommand) DeliveryAddress() string {
	return c.deliveryAddress
}

func (c CreateOrderCommand) CustomerPhone() string {
	return c.customerPhone
}

func (c CreateOrderCommand) Options() CreateOrderOptions {
	return c.options
}

// MenuItemIDs returns the distinct menu item ids in request order.
func (c CreateOrderCommand) MenuItemIDs() []kernel.UUID {
	seen := make(map[kernel.UUID]struct{}, len(c.lines))
	ids := make([]kernel.UUID, 0, len(c.lines))
	for _, l := range c.lines {
		if _, ok := seen[l.MenuItemID]; ok {
			continue
		}
		seen[l.MenuItemID] = struct{}{}
		ids = append(ids, l.MenuItemID)
	}
	return ids
}

func (c *CreateOrderCommand) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.customerID = id
	return nil
}

func (c *CreateOrderCommand) setLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return ErrItemsAreRequired
	}

	var errList []error
	for i, l := range lines {
		if err := l.MenuItemID.Validate(); err != nil {
			errList = append(errList, fmt.Errorf("items[%d].menuItemId: %w", i, err))
		}
		if l.Quantity < 1 {
			errList = append(errList, errs.NewValueIsOutOfRangeError(fmt.Sprintf("items[%d].quantity", i), l.Quantity, 1, "unbounded"))
		}
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	c.lines = append([]OrderLine(nil), lines...)
	return nil
}

func (c *CreateOrderCommand) setDeliveryAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return ErrDeliveryAddressIsRequired
	}
	c.deliveryAddress = address
	return nil
}

func (c *CreateOrderCommand) setCustomerPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ErrCustomerPhoneIsRequired
	}
	c.customerPhone = phone
	return nil
}

func (c *CreateOrderCommand) setOptions(options CreateOrderOptions) error {
	if options.LoyaltyPointsToUse < 0 {
		return ErrLoyaltyPointsAreNegative
	}
	if options.RestaurantID != nil {
		if err := options.RestaurantID.Validate(); err != nil {
			return err
		}
	}
	options.PromoCode = strings.TrimSpace(options.PromoCode)
	c.options = options
	return nil
}
