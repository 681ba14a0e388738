package order_test

import (
	"testing"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_TransitionTo_AllPairs(t *testing.T) {
	allowed := map[order.Status][]order.Status{
		order.Pending:        {order.Paid, order.Cancelled},
		order.Paid:           {order.Preparing, order.Cancelled},
		order.Preparing:      {order.Ready, order.Cancelled},
		order.Ready:          {order.OutForDelivery},
		order.OutForDelivery: {order.Delivered, order.Cancelled},
		order.Delivered:      {},
		order.Cancelled:      {},
	}

	for _, from := range order.AllStatuses() {
		for _, to := range order.AllStatuses() {
			expected := contains(allowed[from], to)
			next, err := from.TransitionTo(to)
			if expected {
				require.NoError(t, err, "%s -> %s", from, to)
				assert.Equal(t, to, next)
				continue
			}

			require.Error(t, err, "%s -> %s", from, to)
			require.ErrorIs(t, err, errs.ErrConflict)

			var conflict *errs.ConflictError
			require.ErrorAs(t, err, &conflict)
			assert.Equal(t, from.String(), conflict.CurrentStatus)
			assert.Len(t, conflict.Allowed, len(allowed[from]))
		}
	}
}

func TestStatus_Vocabulary(t *testing.T) {
	for _, s := range []string{"pending", "paid", "preparing", "ready", "out_for_delivery", "delivered", "cancelled"} {
		parsed, err := order.ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, parsed.String())
	}

	_, err := order.ParseStatus("shipped")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = order.Pending.TransitionTo(order.Status("shipped"))
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_Predicates(t *testing.T) {
	assert.True(t, order.Delivered.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())
	assert.False(t, order.Ready.IsTerminal())

	for _, s := range []order.Status{order.Pending, order.Paid, order.Preparing} {
		assert.True(t, s.IsCancellable(), s)
	}
	for _, s := range []order.Status{order.Ready, order.OutForDelivery, order.Delivered, order.Cancelled} {
		assert.False(t, s.IsCancellable(), s)
	}
}

func TestPaymentStatus_TransitionTo(t *testing.T) {
	next, err := order.PaymentPending.TransitionTo(order.PaymentCompleted)
	require.NoError(t, err)
	assert.Equal(t, order.PaymentCompleted, next)

	_, err = order.PaymentFailed.TransitionTo(order.PaymentCompleted)
	require.NoError(t, err)

	_, err = order.PaymentPending.TransitionTo(order.PaymentRefunded)
	require.ErrorIs(t, err, errs.ErrConflict)

	_, err = order.PaymentRefunded.TransitionTo(order.PaymentCompleted)
	require.ErrorIs(t, err, errs.ErrConflict)
}

func contains(statuses []order.Status, s order.Status) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}
