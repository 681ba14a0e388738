package ledgers_test

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/loyalty"
	"marketplace/internal/core/domain/model/promo"

	"github.com/stretchr/testify/mock"
)

type MockPromoRepository struct{ mock.Mock }

func (m *MockPromoRepository) GetByCode(ctx context.Context, code string) (*promo.PromoCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promo.PromoCode), args.Error(1)
}

func (m *MockPromoRepository) LockByCode(ctx context.Context, code string) (*promo.PromoCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promo.PromoCode), args.Error(1)
}

func (m *MockPromoRepository) CountCustomerUsages(ctx context.Context, promoCodeID, customerID kernel.UUID) (int64, error) {
	args := m.Called(ctx, promoCodeID, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPromoRepository) RecordUsage(ctx context.Context, usage promo.Usage) error {
	args := m.Called(ctx, usage)
	return args.Error(0)
}

type MockLoyaltyRepository struct{ mock.Mock }

func (m *MockLoyaltyRepository) GetOrCreate(ctx context.Context, customerID kernel.UUID) (*loyalty.Program, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loyalty.Program), args.Error(1)
}

func (m *MockLoyaltyRepository) GetForUpdate(ctx context.Context, programID kernel.UUID) (*loyalty.Program, error) {
	args := m.Called(ctx, programID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loyalty.Program), args.Error(1)
}

func (m *MockLoyaltyRepository) Save(ctx context.Context, program *loyalty.Program) error {
	args := m.Called(ctx, program)
	return args.Error(0)
}

func (m *MockLoyaltyRepository) ListDueTransactions(ctx context.Context, now time.Time, limit int) ([]loyalty.Transaction, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]loyalty.Transaction), args.Error(1)
}

func (m *MockLoyaltyRepository) MarkProcessed(ctx context.Context, transactionID kernel.UUID) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

type MockRuleEvaluator struct{ mock.Mock }

func (m *MockRuleEvaluator) Evaluate(ctx context.Context, rule string, req promo.Request) (bool, error) {
	args := m.Called(ctx, rule, req)
	return args.Bool(0), args.Error(1)
}
