package commands_test

import (
	"errors"
	"testing"

	"marketplace/internal/core/application/ledgers"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/loyalty"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTransitionHandler(factory *MockUoWFactory, notifier *MockNotifier) commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(factory, ledgers.NewLoyaltyLedger(fixedClock), notifier, fixedClock, discardLogger())
}

func transitionCommand(t *testing.T, orderID kernel.UUID, target string) commands.TransitionOrderCommand {
	t.Helper()
	cmd, err := commands.NewTransitionOrderCommand(orderID, target, actor(t, kernel.NewUUID(), kernel.RoleAdmin))
	require.NoError(t, err)
	return cmd
}

func TestNewTransitionOrderCommand_RejectsUnknownStatus(t *testing.T) {
	_, err := commands.NewTransitionOrderCommand(kernel.NewUUID(), "shipped", actor(t, kernel.NewUUID(), kernel.RoleAdmin))

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestTransitionOrderCommandHandler_Handle_PaidToPreparing(t *testing.T) {
	ctx := t.Context()
	o := orderIn(t, kernel.NewUUID(), order.Paid)

	orders := new(MockOrderRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)
	notifier := newNotifier()

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", mock.Anything).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("GetForUpdate", mock.Anything, o.ID()).Return(o, nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("Update", mock.Anything, o).Return(nil).Once(),
		uow.On("Commit", mock.Anything).Return(nil).Once(),
		uow.On("Rollback", mock.Anything).Return(nil).Once(),
	)

	got, err := newTransitionHandler(factory, notifier).Handle(ctx, transitionCommand(t, o.ID(), "preparing"))

	require.NoError(t, err)
	assert.Equal(t, order.Preparing, got.Status())
	assert.Equal(t, []string{"status_paid_to_preparing"}, notifier.EventNames())
	orders.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_OutForDeliveryAssignsPendingDelivery(t *testing.T) {
	ctx := t.Context()
	o := orderIn(t, kernel.NewUUID(), order.Ready)
	d := deliveryFor(t, o, delivery.Pending, nil)

	orders := new(MockOrderRepository)
	deliveries := new(MockDeliveryRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", mock.Anything).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("GetForUpdate", mock.Anything, o.ID()).Return(o, nil).Once(),
		uow.On("DeliveryRepository").Return(deliveries).Once(),
		deliveries.On("GetByOrderID", mock.Anything, o.ID()).Return(d, nil).Once(),
		uow.On("DeliveryRepository").Return(deliveries).Once(),
		deliveries.On("Update", mock.Anything, d).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("Update", mock.Anything, o).Return(nil).Once(),
		uow.On("Commit", mock.Anything).Return(nil).Once(),
		uow.On("Rollback", mock.Anything).Return(nil).Once(),
	)

	got, err := newTransitionHandler(factory, newNotifier()).Handle(ctx, transitionCommand(t, o.ID(), "out_for_delivery"))

	require.NoError(t, err)
	assert.Equal(t, order.OutForDelivery, got.Status())
	assert.Equal(t, delivery.Assigned, d.Status())
	assert.Nil(t, d.DriverID())
	deliveries.AssertExpectations(t)
	orders.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_DeliveredEarnsPoints(t *testing.T) {
	ctx := t.Context()
	customerID := kernel.NewUUID()
	o := orderIn(t, customerID, order.OutForDelivery)
	program := programWith(t, customerID, 900, 900)

	orders := new(MockOrderRepository)
	programs := new(MockLoyaltyRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)
	notifier := newNotifier()

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", mock.Anything).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("GetForUpdate", mock.Anything, o.ID()).Return(o, nil).Once(),
		uow.On("LoyaltyRepository").Return(programs).Once(),
		programs.On("GetOrCreate", mock.Anything, customerID).Return(program, nil).Once(),
		programs.On("Save", mock.Anything, program).Return(nil).Once(),
		uow.On("OrderRepository").Return(orders).Once(),
		orders.On("Update", mock.Anything, o).Return(nil).Once(),
		uow.On("Commit", mock.Anything).Return(nil).Once(),
		uow.On("Rollback", mock.Anything).Return(nil).Once(),
	)

	got, err := newTransitionHandler(factory, notifier).Handle(ctx, transitionCommand(t, o.ID(), "delivered"))

	require.NoError(t, err)
	// floor(30.98 × 10 × 1.0)
	assert.Equal(t, int64(309), got.LoyaltyPointsEarned())
	require.NotNil(t, got.ActualDeliveryTime())
	assert.Equal(t, fixedNow, *got.ActualDeliveryTime())
	assert.Equal(t, int64(1209), program.Points())
	assert.Equal(t, loyalty.Silver, program.Tier())
	assert.Equal(t, []string{"status_out_for_delivery_to_delivered", "tier_up"}, notifier.EventNames())
	programs.AssertExpectations(t)
	orders.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_InvalidTransitionLeavesOrderUnchanged(t *testing.T) {
	ctx := t.Context()
	o := orderIn(t, kernel.NewUUID(), order.Delivered)

	orders := new(MockOrderRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)
	notifier := newNotifier()

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.On("OrderRepository").Return(orders).Once()
	orders.On("GetForUpdate", mock.Anything, o.ID()).Return(o, nil).Once()
	uow.On("Rollback", mock.Anything).Return(nil).Once()

	_, err := newTransitionHandler(factory, notifier).Handle(ctx, transitionCommand(t, o.ID(), "preparing"))

	require.ErrorIs(t, err, errs.ErrConflict)
	var conflict *errs.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "delivered", conflict.CurrentStatus)
	assert.Empty(t, conflict.Allowed)
	assert.Equal(t, order.Delivered, o.Status())
	orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	assert.Empty(t, notifier.EventNames())
}

func TestTransitionOrderCommandHandler_Handle_StaleWriteIsConflict(t *testing.T) {
	ctx := t.Context()
	o := orderIn(t, kernel.NewUUID(), order.Preparing)

	orders := new(MockOrderRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.On("OrderRepository").Return(orders).Twice()
	orders.On("GetForUpdate", mock.Anything, o.ID()).Return(o, nil).Once()
	orders.On("Update", mock.Anything, o).Return(errs.NewConflictError("order", "cancelled", "was modified concurrently")).Once()
	uow.On("Rollback", mock.Anything).Return(nil).Once()

	_, err := newTransitionHandler(factory, newNotifier()).Handle(ctx, transitionCommand(t, o.ID(), "ready"))

	require.ErrorIs(t, err, errs.ErrConflict)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestTransitionOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockUoWFactory)

	_, err := newTransitionHandler(factory, newNotifier()).Handle(t.Context(), commands.TransitionOrderCommand{})

	require.ErrorIs(t, err, commands.ErrTransitionOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestTransitionOrderCommandHandler_Handle_BeginError(t *testing.T) {
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", mock.Anything).Return(errors.New("begin error")).Once(),
	)

	_, err := newTransitionHandler(factory, newNotifier()).Handle(t.Context(), transitionCommand(t, kernel.NewUUID(), "paid"))

	require.EqualError(t, err, "begin error")
}
