package order

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is an immutable order line. The unit price is the catalog price captured when
// the order was placed and is never re-derived.
type Item struct { //nolint:recvcheck //using for validation
	id                  kernel.UUID
	menuItemID          kernel.UUID
	name                string
	quantity            int
	unitPrice           kernel.Money
	specialInstructions string
	guard               guard.ConstructorGuard
}

// NewItem snapshots a catalog entry into an order line.
func NewItem(menuItemID kernel.UUID, name string, quantity int, unitPrice kernel.Money, specialInstructions string) (Item, error) {
	return RestoreItem(kernel.NewUUID(), menuItemID, name, quantity, unitPrice, specialInstructions)
}

// RestoreItem rebuilds a persisted order line.
func RestoreItem(
	id, menuItemID kernel.UUID,
	name string,
	quantity int,
	unitPrice kernel.Money,
	specialInstructions string,
) (Item, error) {
	item := Item{
		id:                  id,
		menuItemID:          menuItemID,
		name:                name,
		specialInstructions: specialInstructions,
		guard:               guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		id.Validate(),
		menuItemID.Validate(),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
	); err != nil {
		return Item{}, err
	}

	return item, nil
}

func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

func (i Item) ID() kernel.UUID {
	return i.id
}

func (i Item) MenuItemID() kernel.UUID {
	return i.menuItemID
}

func (i Item) Name() string {
	return i.name
}

func (i Item) Quantity() int {
	return i.quantity
}

func (i Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

func (i Item) SpecialInstructions() string {
	return i.specialInstructions
}

// LineTotal is unit price × quantity at full precision.
func (i Item) LineTotal() kernel.Money {
	return i.unitPrice.MulInt(int64(i.quantity))
}

func (i *Item) setQuantity(quantity int) error {
	if quantity < 1 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is less than 1", quantity))
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setUnitPrice(price kernel.Money) error {
	if price.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%s is negative", price))
	}
	i.unitPrice = price
	return nil
}
