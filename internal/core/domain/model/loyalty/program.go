package loyalty

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const (
	PointsPerCurrencyUnit int64 = 10
	PointsPerRedeemedUnit int64 = 100
	MinimumRedemption     int64 = 100
	PointsLifetime              = 365 * 24 * time.Hour
)

var ErrProgramIsNotConstructed = errors.New("Program must be created via NewProgram or RestoreProgram")

// PointsValue converts points into their redemption value.
func PointsValue(points int64) kernel.Money {
	return kernel.MoneyFromDecimal(decimal.New(points, 0).Div(decimal.NewFromInt(PointsPerRedeemedUnit)))
}

// PointsForValue is the largest number of points whose value does not exceed amount.
func PointsForValue(amount kernel.Money) int64 {
	return amount.Decimal().Mul(decimal.NewFromInt(PointsPerRedeemedUnit)).Floor().IntPart()
}

// Snapshot is the persisted form of a program.
type Snapshot struct {
	ID                   kernel.UUID
	CustomerID           kernel.UUID
	Points               int64
	TotalPointsEarned    int64
	TotalPointsRedeemed  int64
	Tier                 Tier
	LastPointsEarnedAt   *time.Time
	LastPointsRedeemedAt *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Program is a customer's loyalty account.
type Program struct {
	id                   kernel.UUID
	customerID           kernel.UUID
	points               int64
	totalPointsEarned    int64
	totalPointsRedeemed  int64
	tier                 Tier
	lastPointsEarnedAt   *time.Time
	lastPointsRedeemedAt *time.Time
	createdAt            time.Time
	updatedAt            time.Time

	pending       []Transaction
	events        kernel.EventRecorder
	isConstructed bool
}

func NewProgram(customerID kernel.UUID, now time.Time) (*Program, error) {
	if err := customerID.Validate(); err != nil {
		return nil, err
	}
	return &Program{
		id:            kernel.NewUUID(),
		customerID:    customerID,
		tier:          Bronze,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}, nil
}

func RestoreProgram(s Snapshot) (*Program, error) {
	err := errors.Join(s.ID.Validate(), s.CustomerID.Validate(), s.Tier.Validate())
	if s.Points < 0 || s.TotalPointsEarned < 0 || s.TotalPointsRedeemed < 0 {
		err = errors.Join(err, errs.NewValueIsInvalidError("points"))
	}
	if err != nil {
		return nil, err
	}
	return &Program{
		id:                   s.ID,
		customerID:           s.CustomerID,
		points:               s.Points,
		totalPointsEarned:    s.TotalPointsEarned,
		totalPointsRedeemed:  s.TotalPointsRedeemed,
		tier:                 s.Tier,
		lastPointsEarnedAt:   s.LastPointsEarnedAt,
		lastPointsRedeemedAt: s.LastPointsRedeemedAt,
		createdAt:            s.CreatedAt,
		updatedAt:            s.UpdatedAt,
		isConstructed:        true,
	}, nil
}

func (p *Program) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProgramIsNotConstructed
	}
	return nil
}

func (p *Program) ID() kernel.UUID                    { return p.id }
func (p *Program) CustomerID() kernel.UUID            { return p.customerID }
func (p *Program) Points() int64                      { return p.points }
func (p *Program) TotalPointsEarned() int64           { return p.totalPointsEarned }
func (p *Program) TotalPointsRedeemed() int64         { return p.totalPointsRedeemed }
func (p *Program) Tier() Tier                         { return p.tier }
func (p *Program) LastPointsEarnedAt() *time.Time     { return p.lastPointsEarnedAt }
func (p *Program) LastPointsRedeemedAt() *time.Time   { return p.lastPointsRedeemedAt }
func (p *Program) CreatedAt() time.Time               { return p.createdAt }
func (p *Program) UpdatedAt() time.Time               { return p.updatedAt }
func (p *Program) DomainEvents() []kernel.DomainEvent { return p.events.Events() }
func (p *Program) ClearDomainEvents()                 { p.events.Clear() }

// PendingTransactions returns ledger rows not yet persisted.
func (p *Program) PendingTransactions() []Transaction {
	out := make([]Transaction, len(p.pending))
	copy(out, p.pending)
	return out
}

// MarkPersisted drops the pending ledger rows after they were written.
func (p *Program) MarkPersisted() {
	p.pending = nil
}

// EarnResult describes one earn or bonus operation.
type EarnResult struct {
	Points       int64
	PreviousTier Tier
	Tier         Tier
}

func (r EarnResult) TierChanged() bool {
	return r.PreviousTier != r.Tier
}

// Earn credits points for a delivered order: floor(amount × 10 × tier multiplier).
// Amounts worth less than one point leave the program untouched.
func (p *Program) Earn(orderID kernel.UUID, amount kernel.Money, now time.Time) (EarnResult, error) {
	if err := orderID.Validate(); err != nil {
		return EarnResult{}, err
	}
	if amount.IsNegative() {
		return EarnResult{}, errs.NewValueIsInvalidError("amount")
	}

	points := amount.Decimal().
		Mul(decimal.NewFromInt(PointsPerCurrencyUnit)).
		Mul(p.tier.Multiplier()).
		Floor().
		IntPart()
	if points == 0 {
		return EarnResult{PreviousTier: p.tier, Tier: p.tier}, nil
	}

	return p.credit(Earned, points, &orderID, fmt.Sprintf("Earned %d points from order", points), now), nil
}

// AddBonus credits points granted outside of an order.
func (p *Program) AddBonus(points int64, description string, now time.Time) (EarnResult, error) {
	if points <= 0 {
		return EarnResult{}, errs.NewValueIsInvalidErrorWithCause("points", fmt.Errorf("%d is not greater than 0", points))
	}
	if description == "" {
		description = fmt.Sprintf("Bonus %d points", points)
	}
	return p.credit(Bonus, points, nil, description, now), nil
}

// Redeem spends points on an explicit redemption and returns their value.
// The balance check comes first, then the minimum.
func (p *Program) Redeem(points int64, orderID *kernel.UUID, now time.Time) (kernel.Money, error) {
	if points <= 0 {
		return kernel.ZeroMoney(), errs.NewValueIsInvalidErrorWithCause("points", fmt.Errorf("%d is not greater than 0", points))
	}
	if points > p.points {
		return kernel.ZeroMoney(), errs.NewInsufficientResourceError("points", points, p.points, MinimumRedemption)
	}
	if points < MinimumRedemption {
		return kernel.ZeroMoney(), errs.NewInsufficientResourceErrorWithCause(
			"points", points, p.points, MinimumRedemption, errors.New("minimum not met"),
		)
	}
	return p.debit(points, orderID, now), nil
}

// RedeemForCheckout applies points to an order being placed. Requests above the
// balance use nothing, and the points used never exceed what maxDiscount is worth.
// When the points left after the cap fall below MinimumRedemption nothing is used.
// It returns the points actually used and their value.
func (p *Program) RedeemForCheckout(requested int64, maxDiscount kernel.Money, orderID kernel.UUID, now time.Time) (int64, kernel.Money) {
	if requested <= 0 || requested > p.points {
		return 0, kernel.ZeroMoney()
	}
	used := min(requested, PointsForValue(maxDiscount))
	if used < MinimumRedemption {
		return 0, kernel.ZeroMoney()
	}
	return used, p.debit(used, &orderID, now)
}

// Expire deducts a due earned or bonus row from the balance and records the
// matching expired row. When the balance no longer covers the row nothing is
// deducted. Either way the source row is handled and should be marked processed.
// It returns the number of points deducted.
func (p *Program) Expire(source Transaction, now time.Time) (int64, error) {
	if !source.ProgramID.IsEqual(p.id) {
		return 0, errs.NewValueIsInvalidErrorWithCause("transaction", errors.New("belongs to another program"))
	}
	if !source.IsDue(now) {
		return 0, errs.NewConflictError("loyalty transaction", source.Type.String(), "is not due for expiry")
	}
	if source.Points <= 0 || p.points < source.Points {
		return 0, nil
	}

	p.points -= source.Points
	p.updatedAt = now
	p.pending = append(p.pending, Transaction{
		ID:          kernel.NewUUID(),
		ProgramID:   p.id,
		OrderID:     source.OrderID,
		Type:        Expired,
		Points:      -source.Points,
		Description: fmt.Sprintf("%d points expired", source.Points),
		CreatedAt:   now,
	})
	return source.Points, nil
}

func (p *Program) credit(t TransactionType, points int64, orderID *kernel.UUID, description string, now time.Time) EarnResult {
	previous := p.tier
	expiresAt := now.Add(PointsLifetime)

	p.points += points
	p.totalPointsEarned += points
	p.tier = TierFor(p.totalPointsEarned)
	p.lastPointsEarnedAt = &now
	p.updatedAt = now
	p.pending = append(p.pending, Transaction{
		ID:          kernel.NewUUID(),
		ProgramID:   p.id,
		OrderID:     orderID,
		Type:        t,
		Points:      points,
		Description: description,
		ExpiresAt:   &expiresAt,
		CreatedAt:   now,
	})

	if p.tier != previous {
		p.events.Raise(TierChanged{ProgramID: p.id, CustomerID: p.customerID, From: previous, To: p.tier, At: now})
	}
	return EarnResult{Points: points, PreviousTier: previous, Tier: p.tier}
}

func (p *Program) debit(points int64, orderID *kernel.UUID, now time.Time) kernel.Money {
	value := PointsValue(points)

	p.points -= points
	p.totalPointsRedeemed += points
	p.lastPointsRedeemedAt = &now
	p.updatedAt = now
	p.pending = append(p.pending, Transaction{
		ID:          kernel.NewUUID(),
		ProgramID:   p.id,
		OrderID:     orderID,
		Type:        Redeemed,
		Points:      -points,
		Description: fmt.Sprintf("Redeemed %d points for %s discount", points, value),
		CreatedAt:   now,
	})
	return value
}
