package commands_test

import (
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewRecordPaymentCommand_RejectsPendingOutcome(t *testing.T) {
	_, err := commands.NewRecordPaymentCommand(kernel.NewUUID(), "pending", "")

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestRecordPaymentCommandHandler_Handle_CompletedPaysPendingOrder(t *testing.T) {
	ctx := t.Context()
	o := orderIn(t, kernel.NewUUID(), order.Pending)

	orders := new(MockOrderRepository)
	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)
	notifier := newNotifier()

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("Update", ctx, o).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	cmd, err := commands.NewRecordPaymentCommand(o.ID(), "completed", "pi_123")
	require.NoError(t, err)

	got, err := commands.NewRecordPaymentCommandHandler(factory, notifier, fixedClock).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.PaymentCompleted, got.PaymentStatus())
	assert.Equal(t, order.Paid, got.Status())
	assert.Equal(t, "pi_123", got.PaymentReference())
	assert.Equal(t, []string{"completed", "status_pending_to_paid"}, notifier.EventNames())
	orders.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestRecordPaymentCommandHandler_Handle_RefundOfUnpaidOrderIsConflict(t *testing.T) {
	ctx := t.Context()
	o := orderIn(t, kernel.NewUUID(), order.Pending)

	orders := new(MockOrderRepository)
	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orders).Once()
	orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	cmd, err := commands.NewRecordPaymentCommand(o.ID(), "refunded", "")
	require.NoError(t, err)

	_, err = commands.NewRecordPaymentCommandHandler(factory, newNotifier(), fixedClock).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, order.PaymentPending, o.PaymentStatus())
	uow.AssertNotCalled(t, "Commit", ctx)
}
