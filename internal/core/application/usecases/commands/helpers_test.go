package commands_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/loyalty"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/promo"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func menuItem(name, price string, available bool) catalog.MenuItem {
	return catalog.MenuItem{
		ID:                 kernel.NewUUID(),
		Name:               name,
		Price:              kernel.MustParseMoney(price),
		IsAvailable:        available,
		PreparationMinutes: 20,
	}
}

// orderIn builds a persisted order for customerID in the given status.
func orderIn(t *testing.T, customerID kernel.UUID, status order.Status) *order.Order {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), "Burger", 2, kernel.MustParseMoney("12.99"), "")
	require.NoError(t, err)

	o, err := order.RestoreOrder(order.Snapshot{
		ID:                    kernel.NewUUID(),
		CustomerID:            customerID,
		Items:                 []order.Item{item},
		TotalAmount:           kernel.MustParseMoney("30.98"),
		DeliveryFee:           kernel.MustParseMoney("5.00"),
		DiscountAmount:        kernel.ZeroMoney(),
		Status:                status,
		PaymentStatus:         order.PaymentPending,
		DeliveryAddress:       "12 Abay Ave",
		CustomerPhone:         "+77010000000",
		EstimatedDeliveryTime: fixedNow.Add(50 * time.Minute),
		CreatedAt:             fixedNow.Add(-2 * time.Hour),
		UpdatedAt:             fixedNow.Add(-2 * time.Hour),
	})
	require.NoError(t, err)
	return o
}

func deliveryFor(t *testing.T, o *order.Order, status delivery.Status, driverID *kernel.UUID) *delivery.Delivery {
	t.Helper()
	d, err := delivery.RestoreDelivery(delivery.Snapshot{
		ID:         kernel.NewUUID(),
		OrderID:    o.ID(),
		CustomerID: o.CustomerID(),
		DriverID:   driverID,
		Status:     status,
		CreatedAt:  fixedNow.Add(-time.Hour),
		UpdatedAt:  fixedNow.Add(-time.Hour),
	})
	require.NoError(t, err)
	return d
}

func programWith(t *testing.T, customerID kernel.UUID, points, totalEarned int64) *loyalty.Program {
	t.Helper()
	p, err := loyalty.RestoreProgram(loyalty.Snapshot{
		ID:                kernel.NewUUID(),
		CustomerID:        customerID,
		Points:            points,
		TotalPointsEarned: totalEarned,
		Tier:              loyalty.TierFor(totalEarned),
		CreatedAt:         fixedNow.Add(-24 * time.Hour),
		UpdatedAt:         fixedNow.Add(-24 * time.Hour),
	})
	require.NoError(t, err)
	return p
}

func percentCode(t *testing.T, code string, percent int64) *promo.PromoCode {
	t.Helper()
	p, err := promo.RestorePromoCode(promo.Snapshot{
		ID:             kernel.NewUUID(),
		Code:           code,
		DiscountType:   promo.Percentage,
		DiscountValue:  decimal.NewFromInt(percent),
		MinOrderAmount: kernel.ZeroMoney(),
		ValidFrom:      fixedNow.Add(-24 * time.Hour),
		ValidUntil:     fixedNow.Add(24 * time.Hour),
		IsActive:       true,
	})
	require.NoError(t, err)
	return p
}

func actor(t *testing.T, id kernel.UUID, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(id, role)
	require.NoError(t, err)
	return a
}
