package ledgers

import (
	"context"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/promo"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// PromoQuote is a successful validation: the code and the discount it grants.
type PromoQuote struct {
	Code     *promo.PromoCode
	Discount kernel.Money
}

// PromoLedger validates promo codes and records their usage.
type PromoLedger struct {
	rules ports.RuleEvaluator
	clock kernel.Clock
}

// NewPromoLedger creates a ledger. rules may be nil, in which case eligibility
// expressions on codes are ignored.
func NewPromoLedger(rules ports.RuleEvaluator, clock kernel.Clock) *PromoLedger {
	if clock == nil {
		clock = kernel.SystemClock
	}
	return &PromoLedger{rules: rules, clock: clock}
}

// Validate checks a code against an order without recording anything.
// Unknown codes yield errs.ObjectNotFoundError; ineligible ones a *promo.RejectionError.
func (l *PromoLedger) Validate(ctx context.Context, repo ports.PromoRepository, code string, req promo.Request) (PromoQuote, error) {
	p, err := repo.GetByCode(ctx, promo.NormalizeCode(code))
	if err != nil {
		return PromoQuote{}, err
	}
	return l.evaluate(ctx, repo, p, req)
}

// Apply validates the code under a row lock and records one usage for the order.
// The counter increment and the usage row are written together by the repository.
func (l *PromoLedger) Apply(
	ctx context.Context,
	repo ports.PromoRepository,
	code string,
	orderID kernel.UUID,
	req promo.Request,
) (PromoQuote, error) {
	p, err := repo.LockByCode(ctx, promo.NormalizeCode(code))
	if err != nil {
		return PromoQuote{}, err
	}

	quote, err := l.evaluate(ctx, repo, p, req)
	if err != nil {
		return PromoQuote{}, err
	}

	usage, err := promo.NewUsage(p.ID(), orderID, req.CustomerID, quote.Discount, req.Now)
	if err != nil {
		return PromoQuote{}, err
	}
	if err = repo.RecordUsage(ctx, usage); err != nil {
		return PromoQuote{}, err
	}
	return quote, nil
}

func (l *PromoLedger) evaluate(ctx context.Context, repo ports.PromoRepository, p *promo.PromoCode, req promo.Request) (PromoQuote, error) {
	if req.Now.IsZero() {
		req.Now = l.clock()
	}

	usages, err := repo.CountCustomerUsages(ctx, p.ID(), req.CustomerID)
	if err != nil {
		return PromoQuote{}, err
	}
	req.CustomerUsages = usages

	discount, err := p.Evaluate(req)
	if err != nil {
		return PromoQuote{}, err
	}

	if rule := p.EligibilityRule(); rule != "" && l.rules != nil {
		ok, err := l.rules.Evaluate(ctx, rule, req)
		if err != nil {
			return PromoQuote{}, errs.NewValueIsInvalidErrorWithCause("eligibility rule", fmt.Errorf("promo code %s: %w", p.Code(), err))
		}
		if !ok {
			return PromoQuote{}, promo.NewRejectionError(p.Code(), promo.ReasonRuleNotSatisfied)
		}
	}

	return PromoQuote{Code: p, Discount: discount}, nil
}
