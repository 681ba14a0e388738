package ports

import (
	"context"

	"marketplace/internal/core/domain/model/promo"
)

// RuleEvaluator decides whether an order satisfies a promo code's eligibility expression.
type RuleEvaluator interface {
	Evaluate(ctx context.Context, rule string, req promo.Request) (bool, error)
}
