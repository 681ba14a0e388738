package promo_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/promo"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func snapshot() promo.Snapshot {
	return promo.Snapshot{
		ID:                  kernel.NewUUID(),
		Code:                " save10 ",
		DiscountType:        promo.Percentage,
		DiscountValue:       decimal.NewFromInt(10),
		MinOrderAmount:      kernel.MustParseMoney("20.00"),
		MaxUsagePerCustomer: 1,
		ValidFrom:           now.Add(-24 * time.Hour),
		ValidUntil:          now.Add(24 * time.Hour),
		IsActive:            true,
	}
}

func request() promo.Request {
	return promo.Request{
		OrderAmount: kernel.MustParseMoney("30.98"),
		DeliveryFee: kernel.MustParseMoney("5.00"),
		CustomerID:  kernel.NewUUID(),
		Now:         now,
	}
}

func restore(t *testing.T, s promo.Snapshot) *promo.PromoCode {
	t.Helper()
	p, err := promo.RestorePromoCode(s)
	require.NoError(t, err)
	return p
}

func TestRestorePromoCode_NormalizesCode(t *testing.T) {
	p := restore(t, snapshot())
	assert.Equal(t, "SAVE10", p.Code())
	assert.Equal(t, "WELCOME", promo.NormalizeCode("  welcome"))
}

func TestRestorePromoCode_RejectsInvalidDefinition(t *testing.T) {
	s := snapshot()
	s.DiscountValue = decimal.NewFromInt(150)
	_, err := promo.RestorePromoCode(s)
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	s = snapshot()
	s.ValidUntil = s.ValidFrom.Add(-time.Hour)
	_, err = promo.RestorePromoCode(s)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestPromoCode_Check(t *testing.T) {
	restaurantID := kernel.NewUUID()
	categoryID := kernel.NewUUID()
	capped := int64(3)

	tests := []struct {
		name   string
		modify func(*promo.Snapshot, *promo.Request)
		reason promo.Reason
	}{
		{"inactive", func(s *promo.Snapshot, _ *promo.Request) { s.IsActive = false }, promo.ReasonInactive},
		{"not yet valid", func(s *promo.Snapshot, _ *promo.Request) {
			s.ValidFrom = now.Add(time.Hour)
			s.ValidUntil = now.Add(2 * time.Hour)
		}, promo.ReasonNotYetValid},
		{"expired", func(s *promo.Snapshot, _ *promo.Request) { s.ValidUntil = now.Add(-time.Minute) }, promo.ReasonExpired},
		{"below minimum", func(_ *promo.Snapshot, r *promo.Request) { r.OrderAmount = kernel.MustParseMoney("19.99") }, promo.ReasonBelowMinimum},
		{"global cap", func(s *promo.Snapshot, _ *promo.Request) { s.MaxUsageCount = &capped; s.CurrentUsageCount = 3 }, promo.ReasonUsageLimitReached},
		{"per customer cap", func(_ *promo.Snapshot, r *promo.Request) { r.CustomerUsages = 1 }, promo.ReasonCustomerLimitReached},
		{"restaurant list without restaurant", func(s *promo.Snapshot, _ *promo.Request) { s.RestaurantIDs = []kernel.UUID{restaurantID} }, promo.ReasonRestaurantNotEligible},
		{"customer list", func(s *promo.Snapshot, _ *promo.Request) { s.CustomerIDs = []kernel.UUID{kernel.NewUUID()} }, promo.ReasonCustomerNotEligible},
		{"category list", func(s *promo.Snapshot, r *promo.Request) {
			s.CategoryIDs = []kernel.UUID{categoryID}
			r.CategoryIDs = []kernel.UUID{kernel.NewUUID()}
		}, promo.ReasonCategoryNotEligible},
		{"first failing check wins", func(s *promo.Snapshot, r *promo.Request) {
			s.IsActive = false
			r.CustomerUsages = 5
		}, promo.ReasonInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, r := snapshot(), request()
			tt.modify(&s, &r)

			err := restore(t, s).Check(r)
			var rejection *promo.RejectionError
			require.ErrorAs(t, err, &rejection)
			assert.Equal(t, tt.reason, rejection.Reason)
			assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		})
	}

	t.Run("allow-lists that match pass", func(t *testing.T) {
		s, r := snapshot(), request()
		s.RestaurantIDs = []kernel.UUID{restaurantID}
		s.CustomerIDs = []kernel.UUID{r.CustomerID}
		s.CategoryIDs = []kernel.UUID{categoryID}
		r.RestaurantID = &restaurantID
		r.CategoryIDs = []kernel.UUID{kernel.NewUUID(), categoryID}
		assert.NoError(t, restore(t, s).Check(r))
	})

	t.Run("category list is ignored without request categories", func(t *testing.T) {
		s := snapshot()
		s.CategoryIDs = []kernel.UUID{categoryID}
		assert.NoError(t, restore(t, s).Check(request()))
	})
}

func TestPromoCode_Discount(t *testing.T) {
	t.Run("percentage keeps full precision", func(t *testing.T) {
		discount, err := restore(t, snapshot()).Evaluate(request())
		require.NoError(t, err)
		assert.True(t, discount.Decimal().Equal(decimal.RequireFromString("3.098")))
		assert.Equal(t, "3.10", discount.String())
	})

	t.Run("percentage is capped", func(t *testing.T) {
		s := snapshot()
		limit := kernel.MustParseMoney("2.50")
		s.MaxDiscountAmount = &limit
		discount, err := restore(t, s).Evaluate(request())
		require.NoError(t, err)
		assert.Equal(t, "2.50", discount.String())
	})

	t.Run("fixed amount never exceeds the order", func(t *testing.T) {
		s := snapshot()
		s.DiscountType = promo.FixedAmount
		s.DiscountValue = decimal.NewFromInt(50)
		s.MinOrderAmount = kernel.ZeroMoney()
		discount, err := restore(t, s).Evaluate(request())
		require.NoError(t, err)
		assert.Equal(t, "30.98", discount.String())
	})

	t.Run("free delivery equals the fee", func(t *testing.T) {
		s := snapshot()
		s.DiscountType = promo.FreeDelivery
		s.DiscountValue = decimal.Zero
		discount, err := restore(t, s).Evaluate(request())
		require.NoError(t, err)
		assert.Equal(t, "5.00", discount.String())
	})
}

func TestNewUsage(t *testing.T) {
	u, err := promo.NewUsage(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.MustParseMoney("3.10"), now)
	require.NoError(t, err)
	assert.Equal(t, "3.10", u.DiscountAmount.String())

	_, err = promo.NewUsage(kernel.UUID{}, kernel.NewUUID(), kernel.NewUUID(), kernel.ZeroMoney(), now)
	assert.Error(t, err)
}
