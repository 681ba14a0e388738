package commands

import (
	"errors"
	"time"

	"marketplace/internal/pkg/guard"
)

var ErrStartScheduledOrdersCommandIsNotConstructed = errors.New(
	"StartScheduledOrdersCommand must be created via NewStartScheduledOrdersCommand constructor",
)

// ScheduledLeadTime is how long before its scheduled delivery time a paid order
// enters preparation.
const ScheduledLeadTime = 5 * time.Minute

// StartScheduledOrdersCommand starts preparing paid scheduled orders that are due
// within the lead time.
type StartScheduledOrdersCommand struct { //nolint:recvcheck //using for validation
	now time.Time

	guard guard.ConstructorGuard
}

func NewStartScheduledOrdersCommand(now time.Time) (StartScheduledOrdersCommand, error) {
	return StartScheduledOrdersCommand{
		now:   now,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c StartScheduledOrdersCommand) Validate() error {
	return c.guard.Validate(ErrStartScheduledOrdersCommandIsNotConstructed)
}

func (c StartScheduledOrdersCommand) Now() time.Time {
	return c.now
}

// DueBefore is the latest scheduled delivery time that starts now.
func (c StartScheduledOrdersCommand) DueBefore() time.Time {
	return c.now.Add(ScheduledLeadTime)
}
