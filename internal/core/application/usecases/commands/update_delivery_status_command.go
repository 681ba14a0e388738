package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrUpdateDeliveryStatusCommandIsNotConstructed = errors.New(
	"UpdateDeliveryStatusCommand must be created via NewUpdateDeliveryStatusCommand constructor",
)

// UpdateDeliveryStatusCommand is a status report from the assigned driver.
type UpdateDeliveryStatusCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	driverID   kernel.UUID
	target     delivery.Status
	notes      string

	guard guard.ConstructorGuard
}

func NewUpdateDeliveryStatusCommand(deliveryID, driverID kernel.UUID, target, notes string) (UpdateDeliveryStatusCommand, error) {
	status, err := delivery.ParseStatus(target)
	if err = errors.Join(deliveryID.Validate(), driverID.Validate(), err); err != nil {
		return UpdateDeliveryStatusCommand{}, err
	}

	return UpdateDeliveryStatusCommand{
		deliveryID: deliveryID,
		driverID:   driverID,
		target:     status,
		notes:      strings.TrimSpace(notes),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateDeliveryStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDeliveryStatusCommandIsNotConstructed)
}

func (c UpdateDeliveryStatusCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

func (c UpdateDeliveryStatusCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c UpdateDeliveryStatusCommand) Target() delivery.Status {
	return c.target
}

func (c UpdateDeliveryStatusCommand) Notes() string {
	return c.notes
}
