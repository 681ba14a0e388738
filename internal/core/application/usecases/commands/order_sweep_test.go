package commands_test

import (
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scheduledOrder(t *testing.T, at time.Time) *order.Order {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), "Pizza", 1, kernel.MustParseMoney("10.00"), "")
	require.NoError(t, err)
	o, err := order.NewOrder(order.Draft{
		ID:                    kernel.NewUUID(),
		CustomerID:            kernel.NewUUID(),
		Items:                 []order.Item{item},
		DeliveryAddress:       "12 Abay Ave",
		CustomerPhone:         "+77010000000",
		ScheduledDeliveryTime: &at,
	}, order.Pricing{
		Subtotal:    kernel.MustParseMoney("10.00"),
		DeliveryFee: kernel.MustParseMoney("5.00"),
		Total:       kernel.MustParseMoney("15.00"),
	}, fixedNow.Add(-24*time.Hour))
	require.NoError(t, err)
	o.ClearDomainEvents()
	o.MarkPersisted()
	return o
}

func TestStartScheduledOrdersCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	due := scheduledOrder(t, fixedNow.Add(3*time.Minute))

	orders := new(MockOrderRepository)
	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)
	notifier := newNotifier()

	factory.On("Create").Return(uow).Twice()
	uow.On("Begin", ctx).Return(nil).Twice()
	uow.On("OrderRepository").Return(orders)
	orders.On("ListScheduledDue", ctx, fixedNow.Add(commands.ScheduledLeadTime)).Return([]*order.Order{due}, nil).Once()
	orders.On("GetForUpdate", ctx, due.ID()).Return(due, nil).Once()
	orders.On("Update", ctx, due).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Twice()

	cmd, err := commands.NewStartScheduledOrdersCommand(fixedNow)
	require.NoError(t, err)

	started, err := commands.NewStartScheduledOrdersCommandHandler(factory, notifier, discardLogger()).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, started)
	assert.Equal(t, order.Preparing, due.Status())
	assert.Equal(t, []string{"scheduled_order_started"}, notifier.EventNames())
	orders.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCancelAbandonedOrdersCommandHandler_Handle_SkipsOrdersPaidSinceListing(t *testing.T) {
	ctx := t.Context()
	abandoned := orderIn(t, kernel.NewUUID(), order.Pending)
	listed := orderIn(t, kernel.NewUUID(), order.Pending)
	paidMeanwhile := orderIn(t, listed.CustomerID(), order.Paid)

	orders := new(MockOrderRepository)
	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)
	notifier := newNotifier()

	factory.On("Create").Return(uow)
	uow.On("Begin", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)
	uow.On("OrderRepository").Return(orders)
	orders.On("ListPendingCreatedBefore", ctx, fixedNow.Add(-commands.AbandonedAfter)).
		Return([]*order.Order{abandoned, listed}, nil).Once()
	orders.On("GetForUpdate", ctx, abandoned.ID()).Return(abandoned, nil).Once()
	orders.On("GetForUpdate", ctx, listed.ID()).Return(paidMeanwhile, nil).Once()
	orders.On("Update", ctx, abandoned).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()

	cmd, err := commands.NewCancelAbandonedOrdersCommand(fixedNow)
	require.NoError(t, err)

	cancelled, err := commands.NewCancelAbandonedOrdersCommandHandler(factory, notifier, discardLogger()).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, cancelled)
	assert.Equal(t, order.Cancelled, abandoned.Status())
	assert.Equal(t, order.Paid, paidMeanwhile.Status())
	assert.Equal(t, []string{"cancelled"}, notifier.EventNames())
	orders.AssertExpectations(t)
	uow.AssertExpectations(t)
}
