package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	ErrRedeemPointsCommandIsNotConstructed = errors.New(
		"RedeemPointsCommand must be created via NewRedeemPointsCommand constructor",
	)
	ErrPointsMustBePositive = errs.NewValueIsInvalidError("points")
)

// RedeemPointsCommand spends loyalty points outside of checkout.
type RedeemPointsCommand struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID
	points     int64
	orderID    *kernel.UUID

	guard guard.ConstructorGuard
}

func NewRedeemPointsCommand(customerID kernel.UUID, points int64, orderID *kernel.UUID) (RedeemPointsCommand, error) {
	var pointsErr, orderErr error
	if points <= 0 {
		pointsErr = ErrPointsMustBePositive
	}
	if orderID != nil {
		orderErr = orderID.Validate()
	}
	if err := errors.Join(customerID.Validate(), pointsErr, orderErr); err != nil {
		return RedeemPointsCommand{}, err
	}

	return RedeemPointsCommand{
		customerID: customerID,
		points:     points,
		orderID:    orderID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c RedeemPointsCommand) Validate() error {
	return c.guard.Validate(ErrRedeemPointsCommandIsNotConstructed)
}

func (c RedeemPointsCommand) CustomerID() kernel.UUID {
	return c.customerID
}

func (c RedeemPointsCommand) Points() int64 {
	return c.points
}

func (c RedeemPointsCommand) OrderID() *kernel.UUID {
	return c.orderID
}
