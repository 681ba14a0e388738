package commands_test

import (
	"errors"
	"testing"
	"time"

	"marketplace/internal/core/application/ledgers"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/loyalty"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRedeemPointsCommandHandler_Handle_InsufficientBalance(t *testing.T) {
	ctx := t.Context()
	customerID := kernel.NewUUID()
	program := programWith(t, customerID, 100, 100)

	programs := new(MockLoyaltyRepository)
	uow := new(MockUoW)
	factory := new(MockLoyaltyUoWFactory)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("LoyaltyRepository").Return(programs).Once()
	programs.On("GetOrCreate", ctx, customerID).Return(program, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	cmd, err := commands.NewRedeemPointsCommand(customerID, 150, nil)
	require.NoError(t, err)

	_, err = commands.NewRedeemPointsCommandHandler(factory, ledgers.NewLoyaltyLedger(fixedClock)).Handle(ctx, cmd)

	var insufficient *errs.InsufficientResourceError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(100), insufficient.Available)
	assert.Equal(t, int64(100), program.Points())
	programs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestRedeemPointsCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	customerID := kernel.NewUUID()
	program := programWith(t, customerID, 1000, 1000)

	programs := new(MockLoyaltyRepository)
	uow := new(MockUoW)
	factory := new(MockLoyaltyUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("LoyaltyRepository").Return(programs).Once(),
		programs.On("GetOrCreate", ctx, customerID).Return(program, nil).Once(),
		programs.On("Save", ctx, program).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	cmd, err := commands.NewRedeemPointsCommand(customerID, 250, nil)
	require.NoError(t, err)

	outcome, err := commands.NewRedeemPointsCommandHandler(factory, ledgers.NewLoyaltyLedger(fixedClock)).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "2.50", outcome.Discount.String())
	assert.Equal(t, int64(750), outcome.Balance)
	assert.Equal(t, int64(250), program.TotalPointsRedeemed())
	uow.AssertExpectations(t)
	programs.AssertExpectations(t)
}

func TestNewRedeemPointsCommand_RequiresPositivePoints(t *testing.T) {
	_, err := commands.NewRedeemPointsCommand(kernel.NewUUID(), 0, nil)

	require.ErrorIs(t, err, commands.ErrPointsMustBePositive)
}

func TestAddBonusPointsCommandHandler_Handle_TierUp(t *testing.T) {
	ctx := t.Context()
	customerID := kernel.NewUUID()
	program := programWith(t, customerID, 200, 4900)

	programs := new(MockLoyaltyRepository)
	uow := new(MockUoW)
	factory := new(MockLoyaltyUoWFactory)
	notifier := newNotifier()

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("LoyaltyRepository").Return(programs).Once(),
		programs.On("GetOrCreate", ctx, customerID).Return(program, nil).Once(),
		programs.On("Save", ctx, program).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	cmd, err := commands.NewAddBonusPointsCommand(customerID, 150, "")
	require.NoError(t, err)
	assert.Equal(t, "Bonus points", cmd.Description())

	outcome, err := commands.NewAddBonusPointsCommandHandler(factory, ledgers.NewLoyaltyLedger(fixedClock), notifier).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, int64(150), outcome.Points)
	assert.Equal(t, int64(350), outcome.Balance)
	assert.True(t, outcome.TierChanged)
	assert.Equal(t, loyalty.Gold, outcome.Tier)
	assert.Equal(t, []string{"tier_up"}, notifier.EventNames())
	uow.AssertExpectations(t)
}

func dueTransaction(programID kernel.UUID, points int64) loyalty.Transaction {
	expiresAt := fixedNow.Add(-time.Hour)
	return loyalty.Transaction{
		ID:        kernel.NewUUID(),
		ProgramID: programID,
		Type:      loyalty.Earned,
		Points:    points,
		ExpiresAt: &expiresAt,
		CreatedAt: fixedNow.Add(-366 * 24 * time.Hour),
	}
}

func TestExpirePointsCommandHandler_Handle_ContinuesPastFailures(t *testing.T) {
	ctx := t.Context()
	healthy := programWith(t, kernel.NewUUID(), 300, 300)
	brokenID := kernel.NewUUID()
	first := dueTransaction(healthy.ID(), 200)
	broken := dueTransaction(brokenID, 50)
	uncovered := dueTransaction(healthy.ID(), 500)

	programs := new(MockLoyaltyRepository)
	uow := new(MockUoW)
	factory := new(MockLoyaltyUoWFactory)

	factory.On("Create").Return(uow)
	uow.On("Begin", ctx).Return(nil)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)
	uow.On("LoyaltyRepository").Return(programs)
	programs.On("ListDueTransactions", ctx, fixedNow, 10).
		Return([]loyalty.Transaction{first, broken, uncovered}, nil).Once()
	programs.On("GetForUpdate", ctx, healthy.ID()).Return(healthy, nil).Twice()
	programs.On("GetForUpdate", ctx, brokenID).Return(nil, errors.New("connection reset")).Once()
	programs.On("Save", ctx, healthy).Return(nil).Once()
	programs.On("MarkProcessed", ctx, first.ID).Return(nil).Once()
	programs.On("MarkProcessed", ctx, uncovered.ID).Return(nil).Once()

	cmd, err := commands.NewExpirePointsCommand(fixedNow, 10)
	require.NoError(t, err)

	result, err := commands.NewExpirePointsCommandHandler(factory, ledgers.NewLoyaltyLedger(fixedClock), discardLogger()).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, int64(200), result.PointsExpired)
	// 500 is no longer covered by the remaining 100; the row is closed without a deduction.
	assert.Equal(t, int64(100), healthy.Points())
	programs.AssertExpectations(t)
}

func TestExpirePointsCommandHandler_Handle_ListError(t *testing.T) {
	ctx := t.Context()
	programs := new(MockLoyaltyRepository)
	uow := new(MockUoW)
	factory := new(MockLoyaltyUoWFactory)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("LoyaltyRepository").Return(programs).Once()
	programs.On("ListDueTransactions", ctx, fixedNow, commands.DefaultExpiryBatchSize).
		Return(nil, errors.New("query failed")).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	cmd, err := commands.NewExpirePointsCommand(fixedNow, 0)
	require.NoError(t, err)

	_, err = commands.NewExpirePointsCommandHandler(factory, ledgers.NewLoyaltyLedger(fixedClock), discardLogger()).Handle(ctx, cmd)

	require.EqualError(t, err, "query failed")
}
