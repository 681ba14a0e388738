package ledgers_test

import (
	"errors"
	"testing"
	"time"

	"marketplace/internal/core/application/ledgers"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/promo"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func promoCode(t *testing.T, rule string) *promo.PromoCode {
	t.Helper()
	p, err := promo.RestorePromoCode(promo.Snapshot{
		ID:                  kernel.NewUUID(),
		Code:                "SAVE10",
		DiscountType:        promo.Percentage,
		DiscountValue:       decimal.NewFromInt(10),
		MaxUsagePerCustomer: 1,
		ValidFrom:           now.Add(-time.Hour),
		ValidUntil:          now.Add(time.Hour),
		IsActive:            true,
		EligibilityRule:     rule,
	})
	require.NoError(t, err)
	return p
}

func promoRequest() promo.Request {
	return promo.Request{
		OrderAmount: kernel.MustParseMoney("30.98"),
		DeliveryFee: kernel.MustParseMoney("5.00"),
		CustomerID:  kernel.NewUUID(),
	}
}

func TestPromoLedger_Validate(t *testing.T) {
	t.Run("returns the discount and records nothing", func(t *testing.T) {
		ctx := t.Context()
		code := promoCode(t, "")
		req := promoRequest()

		repo := new(MockPromoRepository)
		repo.On("GetByCode", ctx, "SAVE10").Return(code, nil).Once()
		repo.On("CountCustomerUsages", ctx, code.ID(), req.CustomerID).Return(int64(0), nil).Once()

		quote, err := ledgers.NewPromoLedger(nil, clock).Validate(ctx, repo, " save10", req)
		require.NoError(t, err)
		assert.Equal(t, "3.10", quote.Discount.String())
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "RecordUsage", mock.Anything, mock.Anything)
	})

	t.Run("unknown code is not found", func(t *testing.T) {
		ctx := t.Context()
		repo := new(MockPromoRepository)
		repo.On("GetByCode", ctx, "NOPE").Return(nil, errs.NewObjectNotFoundError("code", "NOPE")).Once()

		_, err := ledgers.NewPromoLedger(nil, clock).Validate(ctx, repo, "nope", promoRequest())
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("customer usage rows are counted", func(t *testing.T) {
		ctx := t.Context()
		code := promoCode(t, "")
		req := promoRequest()

		repo := new(MockPromoRepository)
		repo.On("GetByCode", ctx, "SAVE10").Return(code, nil).Once()
		repo.On("CountCustomerUsages", ctx, code.ID(), req.CustomerID).Return(int64(1), nil).Once()

		_, err := ledgers.NewPromoLedger(nil, clock).Validate(ctx, repo, "SAVE10", req)
		var rejection *promo.RejectionError
		require.ErrorAs(t, err, &rejection)
		assert.Equal(t, promo.ReasonCustomerLimitReached, rejection.Reason)
	})

	t.Run("eligibility rule decides last", func(t *testing.T) {
		ctx := t.Context()
		code := promoCode(t, "order_amount > 50.0")
		req := promoRequest()

		repo := new(MockPromoRepository)
		repo.On("GetByCode", ctx, "SAVE10").Return(code, nil)
		repo.On("CountCustomerUsages", ctx, code.ID(), req.CustomerID).Return(int64(0), nil)

		rules := new(MockRuleEvaluator)
		rules.On("Evaluate", ctx, "order_amount > 50.0", mock.AnythingOfType("promo.Request")).Return(false, nil).Once()

		_, err := ledgers.NewPromoLedger(rules, clock).Validate(ctx, repo, "SAVE10", req)
		var rejection *promo.RejectionError
		require.ErrorAs(t, err, &rejection)
		assert.Equal(t, promo.ReasonRuleNotSatisfied, rejection.Reason)

		rules.On("Evaluate", ctx, "order_amount > 50.0", mock.AnythingOfType("promo.Request")).Return(false, errors.New("no such key")).Once()
		_, err = ledgers.NewPromoLedger(rules, clock).Validate(ctx, repo, "SAVE10", req)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		rules.AssertExpectations(t)
	})
}

func TestPromoLedger_Apply(t *testing.T) {
	t.Run("locks, checks and records one usage", func(t *testing.T) {
		ctx := t.Context()
		code := promoCode(t, "")
		req := promoRequest()
		orderID := kernel.NewUUID()

		repo := new(MockPromoRepository)
		mock.InOrder(
			repo.On("LockByCode", ctx, "SAVE10").Return(code, nil).Once(),
			repo.On("CountCustomerUsages", ctx, code.ID(), req.CustomerID).Return(int64(0), nil).Once(),
			repo.On("RecordUsage", ctx, mock.MatchedBy(func(u promo.Usage) bool {
				return u.OrderID.IsEqual(orderID) && u.PromoCodeID.IsEqual(code.ID()) && u.DiscountAmount.String() == "3.10"
			})).Return(nil).Once(),
		)

		quote, err := ledgers.NewPromoLedger(nil, clock).Apply(ctx, repo, "SAVE10", orderID, req)
		require.NoError(t, err)
		assert.Equal(t, code, quote.Code)
		repo.AssertExpectations(t)
	})

	t.Run("cap reached between check and increment", func(t *testing.T) {
		ctx := t.Context()
		code := promoCode(t, "")
		req := promoRequest()

		repo := new(MockPromoRepository)
		repo.On("LockByCode", ctx, "SAVE10").Return(code, nil).Once()
		repo.On("CountCustomerUsages", ctx, code.ID(), req.CustomerID).Return(int64(0), nil).Once()
		repo.On("RecordUsage", ctx, mock.Anything).Return(errs.NewConflictError("promo code", "active", "usage limit reached")).Once()

		_, err := ledgers.NewPromoLedger(nil, clock).Apply(ctx, repo, "SAVE10", kernel.NewUUID(), req)
		assert.ErrorIs(t, err, errs.ErrConflict)
	})
}
