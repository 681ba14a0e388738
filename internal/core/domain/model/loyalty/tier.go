package loyalty

import (
	"fmt"

	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

type Tier string

const (
	Bronze   Tier = "bronze"
	Silver   Tier = "silver"
	Gold     Tier = "gold"
	Platinum Tier = "platinum"
)

const (
	SilverThreshold   int64 = 1000
	GoldThreshold     int64 = 5000
	PlatinumThreshold int64 = 10000
)

// TierFor derives the tier from lifetime points earned.
func TierFor(totalPointsEarned int64) Tier {
	switch {
	case totalPointsEarned >= PlatinumThreshold:
		return Platinum
	case totalPointsEarned >= GoldThreshold:
		return Gold
	case totalPointsEarned >= SilverThreshold:
		return Silver
	default:
		return Bronze
	}
}

func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

func (t Tier) Validate() error {
	switch t {
	case Bronze, Silver, Gold, Platinum:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("tier", fmt.Errorf("%q is not a valid tier", string(t)))
	}
}

// Multiplier is the earn-rate factor of the tier.
func (t Tier) Multiplier() decimal.Decimal {
	switch t {
	case Silver:
		return decimal.RequireFromString("1.25")
	case Gold:
		return decimal.RequireFromString("1.5")
	case Platinum:
		return decimal.NewFromInt(2)
	default:
		return decimal.NewFromInt(1)
	}
}

func (t Tier) String() string {
	return string(t)
}
