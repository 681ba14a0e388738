package loyalty

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// TierChanged is raised when lifetime earnings move a customer to a higher tier.
type TierChanged struct {
	ProgramID  kernel.UUID
	CustomerID kernel.UUID
	From       Tier
	To         Tier
	At         time.Time
}

func (e TierChanged) EventName() string     { return "tier_up" }
func (e TierChanged) OccurredAt() time.Time { return e.At }
