package commands

import (
	"errors"
	"time"

	"marketplace/internal/pkg/guard"
)

var ErrCancelAbandonedOrdersCommandIsNotConstructed = errors.New(
	"CancelAbandonedOrdersCommand must be created via NewCancelAbandonedOrdersCommand constructor",
)

// AbandonedAfter is how long an order may stay pending before it is cancelled.
const AbandonedAfter = time.Hour

// CancelAbandonedOrdersCommand cancels orders left pending for longer than AbandonedAfter.
type CancelAbandonedOrdersCommand struct { //nolint:recvcheck //using for validation
	now time.Time

	guard guard.ConstructorGuard
}

func NewCancelAbandonedOrdersCommand(now time.Time) (CancelAbandonedOrdersCommand, error) {
	return CancelAbandonedOrdersCommand{
		now:   now,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c CancelAbandonedOrdersCommand) Validate() error {
	return c.guard.Validate(ErrCancelAbandonedOrdersCommandIsNotConstructed)
}

func (c CancelAbandonedOrdersCommand) Now() time.Time {
	return c.now
}

func (c CancelAbandonedOrdersCommand) CreatedBefore() time.Time {
	return c.now.Add(-AbandonedAfter)
}
