package ledgers

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/loyalty"
	"marketplace/internal/core/ports"
)

// EarnOutcome reports points credited by an earn or bonus operation.
// Events holds the tier change, if any, to be notified after commit.
type EarnOutcome struct {
	Points      int64
	Balance     int64
	Tier        loyalty.Tier
	TierChanged bool
	Events      []kernel.DomainEvent
}

// RedeemOutcome reports an explicit redemption.
type RedeemOutcome struct {
	Points   int64
	Discount kernel.Money
	Balance  int64
}

// LoyaltyLedger applies earn, redeem, bonus and expiry operations to programs.
// Each operation loads the program under a row lock and saves balance and
// ledger rows in one write.
type LoyaltyLedger struct {
	clock kernel.Clock
}

func NewLoyaltyLedger(clock kernel.Clock) *LoyaltyLedger {
	if clock == nil {
		clock = kernel.SystemClock
	}
	return &LoyaltyLedger{clock: clock}
}

// Earn credits floor(amount × 10 × multiplier) points for a delivered order.
func (l *LoyaltyLedger) Earn(
	ctx context.Context,
	repo ports.LoyaltyRepository,
	customerID, orderID kernel.UUID,
	amount kernel.Money,
) (EarnOutcome, error) {
	program, err := repo.GetOrCreate(ctx, customerID)
	if err != nil {
		return EarnOutcome{}, err
	}

	res, err := program.Earn(orderID, amount, l.clock())
	if err != nil {
		return EarnOutcome{}, err
	}
	return l.saveCredit(ctx, repo, program, res)
}

// AddBonus credits points granted by an admin.
func (l *LoyaltyLedger) AddBonus(
	ctx context.Context,
	repo ports.LoyaltyRepository,
	customerID kernel.UUID,
	points int64,
	description string,
) (EarnOutcome, error) {
	program, err := repo.GetOrCreate(ctx, customerID)
	if err != nil {
		return EarnOutcome{}, err
	}

	res, err := program.AddBonus(points, description, l.clock())
	if err != nil {
		return EarnOutcome{}, err
	}
	return l.saveCredit(ctx, repo, program, res)
}

// Redeem spends points explicitly. It fails with errs.InsufficientResourceError
// when points exceed the balance or fall under the minimum.
func (l *LoyaltyLedger) Redeem(
	ctx context.Context,
	repo ports.LoyaltyRepository,
	customerID kernel.UUID,
	points int64,
	orderID *kernel.UUID,
) (RedeemOutcome, error) {
	program, err := repo.GetOrCreate(ctx, customerID)
	if err != nil {
		return RedeemOutcome{}, err
	}

	discount, err := program.Redeem(points, orderID, l.clock())
	if err != nil {
		return RedeemOutcome{}, err
	}
	if err = repo.Save(ctx, program); err != nil {
		return RedeemOutcome{}, err
	}
	return RedeemOutcome{Points: points, Discount: discount, Balance: program.Points()}, nil
}

// Reserve redeems points during checkout. It never fails on balance: requests
// above the balance or below the redemption minimum use zero points, and usage
// is capped so the discount does not exceed maxDiscount.
func (l *LoyaltyLedger) Reserve(
	ctx context.Context,
	repo ports.LoyaltyRepository,
	customerID kernel.UUID,
	requested int64,
	maxDiscount kernel.Money,
	orderID kernel.UUID,
) (int64, kernel.Money, error) {
	if requested <= 0 {
		return 0, kernel.ZeroMoney(), nil
	}

	program, err := repo.GetOrCreate(ctx, customerID)
	if err != nil {
		return 0, kernel.ZeroMoney(), err
	}

	used, discount := program.RedeemForCheckout(requested, maxDiscount, orderID, l.clock())
	if used == 0 {
		return 0, kernel.ZeroMoney(), nil
	}
	if err = repo.Save(ctx, program); err != nil {
		return 0, kernel.ZeroMoney(), err
	}
	return used, discount, nil
}

// ExpireTransaction handles one due earned or bonus row: it deducts the points
// when the balance still covers them and marks the row processed either way.
func (l *LoyaltyLedger) ExpireTransaction(ctx context.Context, repo ports.LoyaltyRepository, tx loyalty.Transaction) (int64, error) {
	program, err := repo.GetForUpdate(ctx, tx.ProgramID)
	if err != nil {
		return 0, err
	}

	expired, err := program.Expire(tx, l.clock())
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		if err = repo.Save(ctx, program); err != nil {
			return 0, err
		}
	}
	if err = repo.MarkProcessed(ctx, tx.ID); err != nil {
		return 0, err
	}
	return expired, nil
}

func (l *LoyaltyLedger) saveCredit(
	ctx context.Context,
	repo ports.LoyaltyRepository,
	program *loyalty.Program,
	res loyalty.EarnResult,
) (EarnOutcome, error) {
	if res.Points > 0 {
		if err := repo.Save(ctx, program); err != nil {
			return EarnOutcome{}, err
		}
	}

	events := program.DomainEvents()
	program.ClearDomainEvents()
	return EarnOutcome{
		Points:      res.Points,
		Balance:     program.Points(),
		Tier:        res.Tier,
		TierChanged: res.TierChanged(),
		Events:      events,
	}, nil
}
