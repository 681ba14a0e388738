package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrUpdateDeliveryETACommandIsNotConstructed = errors.New(
		"UpdateDeliveryETACommand must be created via NewUpdateDeliveryETACommand constructor",
	)
	ErrMinutesMustBePositive = errs.NewValueIsInvalidError("estimated minutes")
)

// UpdateDeliveryETACommand sets the estimated arrival to now + minutes, with an
// optional remaining distance in kilometres.
type UpdateDeliveryETACommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	driverID   kernel.UUID
	minutes    int
	distance   *decimal.Decimal

	guard guard.ConstructorGuard
}

func NewUpdateDeliveryETACommand(
	deliveryID, driverID kernel.UUID,
	minutes int,
	distance *decimal.Decimal,
) (UpdateDeliveryETACommand, error) {
	var minutesErr error
	if minutes <= 0 {
		minutesErr = ErrMinutesMustBePositive
	}
	if err := errors.Join(deliveryID.Validate(), driverID.Validate(), minutesErr); err != nil {
		return UpdateDeliveryETACommand{}, err
	}

	return UpdateDeliveryETACommand{
		deliveryID: deliveryID,
		driverID:   driverID,
		minutes:    minutes,
		distance:   distance,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateDeliveryETACommand) Validate() error {
	return c.guard.Validate(ErrUpdateDeliveryETACommandIsNotConstructed)
}

func (c UpdateDeliveryETACommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

func (c UpdateDeliveryETACommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c UpdateDeliveryETACommand) Minutes() int {
	return c.minutes
}

func (c UpdateDeliveryETACommand) Distance() *decimal.Decimal {
	return c.distance
}
