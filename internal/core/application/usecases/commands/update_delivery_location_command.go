package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrUpdateDeliveryLocationCommandIsNotConstructed = errors.New(
	"UpdateDeliveryLocationCommand must be created via NewUpdateDeliveryLocationCommand constructor",
)

// UpdateDeliveryLocationCommand is a GPS fix reported by the assigned driver.
type UpdateDeliveryLocationCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	driverID   kernel.UUID
	point      kernel.GeoPoint

	guard guard.ConstructorGuard
}

func NewUpdateDeliveryLocationCommand(deliveryID, driverID kernel.UUID, lat, lng float64) (UpdateDeliveryLocationCommand, error) {
	point, err := kernel.NewGeoPoint(lat, lng)
	if err = errors.Join(deliveryID.Validate(), driverID.Validate(), err); err != nil {
		return UpdateDeliveryLocationCommand{}, err
	}

	return UpdateDeliveryLocationCommand{
		deliveryID: deliveryID,
		driverID:   driverID,
		point:      point,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateDeliveryLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDeliveryLocationCommandIsNotConstructed)
}

func (c UpdateDeliveryLocationCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

func (c UpdateDeliveryLocationCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c UpdateDeliveryLocationCommand) Point() kernel.GeoPoint {
	return c.point
}
