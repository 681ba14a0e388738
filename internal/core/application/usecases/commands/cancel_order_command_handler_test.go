package commands_test

import (
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancelOrderCommandHandler_Handle(t *testing.T) {
	customerID := kernel.NewUUID()

	tests := []struct {
		name    string
		status  order.Status
		actor   func(t *testing.T) kernel.Actor
		wantErr error
	}{
		{
			name:   "owner cancels paid order",
			status: order.Paid,
			actor:  func(t *testing.T) kernel.Actor { return actor(t, customerID, kernel.RoleCustomer) },
		},
		{
			name:   "admin cancels any order",
			status: order.Preparing,
			actor:  func(t *testing.T) kernel.Actor { return actor(t, kernel.NewUUID(), kernel.RoleAdmin) },
		},
		{
			name:    "other customer is forbidden",
			status:  order.Pending,
			actor:   func(t *testing.T) kernel.Actor { return actor(t, kernel.NewUUID(), kernel.RoleCustomer) },
			wantErr: errs.ErrForbidden,
		},
		{
			name:    "ready order is not cancellable",
			status:  order.Ready,
			actor:   func(t *testing.T) kernel.Actor { return actor(t, customerID, kernel.RoleCustomer) },
			wantErr: errs.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			o := orderIn(t, customerID, tt.status)

			orders := new(MockOrderRepository)
			uow := new(MockUoW)
			factory := new(MockOrderUoWFactory)
			notifier := newNotifier()

			factory.On("Create").Return(uow).Once()
			uow.On("Begin", ctx).Return(nil).Once()
			uow.On("OrderRepository").Return(orders)
			orders.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
			uow.On("Rollback", ctx).Return(nil).Once()
			if tt.wantErr == nil {
				orders.On("Update", ctx, o).Return(nil).Once()
				uow.On("Commit", ctx).Return(nil).Once()
			}

			cmd, err := commands.NewCancelOrderCommand(o.ID(), tt.actor(t))
			require.NoError(t, err)

			got, err := commands.NewCancelOrderCommandHandler(factory, notifier, fixedClock).Handle(ctx, cmd)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.status, o.Status())
				uow.AssertNotCalled(t, "Commit", ctx)
				assert.Empty(t, notifier.EventNames())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, order.Cancelled, got.Status())
			assert.Equal(t, []string{"cancelled"}, notifier.EventNames())
			orders.AssertExpectations(t)
			uow.AssertExpectations(t)
		})
	}
}

func TestCancelOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockOrderUoWFactory)

	_, err := commands.NewCancelOrderCommandHandler(factory, newNotifier(), fixedClock).
		Handle(t.Context(), commands.CancelOrderCommand{})

	require.ErrorIs(t, err, commands.ErrCancelOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
