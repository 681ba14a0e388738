package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrRecordPaymentCommandIsNotConstructed = errors.New(
	"RecordPaymentCommand must be created via NewRecordPaymentCommand constructor",
)

// RecordPaymentCommand settles the payment of an order with an outcome reported
// by the payment provider.
type RecordPaymentCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	outcome   order.PaymentStatus
	reference string

	guard guard.ConstructorGuard
}

func NewRecordPaymentCommand(orderID kernel.UUID, outcome, reference string) (RecordPaymentCommand, error) {
	status, err := order.ParsePaymentStatus(outcome)
	if err == nil && status == order.PaymentPending {
		err = errs.NewValueIsInvalidError("payment outcome")
	}
	if err = errors.Join(orderID.Validate(), err); err != nil {
		return RecordPaymentCommand{}, err
	}

	return RecordPaymentCommand{
		orderID:   orderID,
		outcome:   status,
		reference: strings.TrimSpace(reference),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RecordPaymentCommand) Validate() error {
	return c.guard.Validate(ErrRecordPaymentCommandIsNotConstructed)
}

func (c RecordPaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RecordPaymentCommand) Outcome() order.PaymentStatus {
	return c.outcome
}

func (c RecordPaymentCommand) Reference() string {
	return c.reference
}
