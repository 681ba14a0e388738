package queries

import (
	"context"
	"database/sql"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const deliveryListSelect = `
		SELECT
			d.id,
			d.order_id,
			d.customer_id,
			d.driver_id,
			d.status,
			o.status,
			o.delivery_address,
			o.delivery_instructions,
			o.customer_phone,
			o.total_amount,
			(SELECT COALESCE(SUM(i.quantity), 0) FROM order_items i WHERE i.order_id = o.id),
			o.estimated_delivery_time,
			d.estimated_arrival,
			d.pickup_time,
			d.delivery_time,
			d.created_at,
			d.updated_at
		FROM deliveries d
		JOIN orders o ON o.id = d.order_id`

// ListAvailableDeliveriesQueryHandler reads the claimable deliveries, oldest order first.
type ListAvailableDeliveriesQueryHandler struct {
	db *gorm.DB
}

func NewListAvailableDeliveriesQueryHandler(db *gorm.DB) ListAvailableDeliveriesQueryHandler {
	return ListAvailableDeliveriesQueryHandler{db: db}
}

func (h ListAvailableDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query ListAvailableDeliveriesQuery,
) ([]DeliveryListItem, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(deliveryListSelect+`
		WHERE d.status = ? AND d.driver_id IS NULL AND o.status = ?
		ORDER BY o.created_at, d.id
	`, delivery.Pending.String(), order.Ready.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDeliveryList(rows)
}

// ListDriverDeliveriesQueryHandler reads a driver's deliveries. Deliveries still in
// progress come first, then finished ones; each group newest first.
type ListDriverDeliveriesQueryHandler struct {
	db *gorm.DB
}

func NewListDriverDeliveriesQueryHandler(db *gorm.DB) ListDriverDeliveriesQueryHandler {
	return ListDriverDeliveriesQueryHandler{db: db}
}

func (h ListDriverDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query ListDriverDeliveriesQuery,
) ([]DeliveryListItem, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(deliveryListSelect+`
		WHERE d.driver_id = ?
		ORDER BY
			CASE WHEN d.status IN (?, ?) THEN 1 ELSE 0 END,
			d.updated_at DESC,
			d.id
	`, query.DriverID().Bytes(), delivery.Delivered.String(), delivery.Failed.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDeliveryList(rows)
}

func scanDeliveryList(rows *sql.Rows) ([]DeliveryListItem, error) {
	items := make([]DeliveryListItem, 0)
	for rows.Next() {
		var (
			item                    DeliveryListItem
			id, orderID, customerID uuid.UUID
			driverID                *uuid.UUID
			instructions            *string
			total                   decimal.Decimal
		)
		err := rows.Scan(
			&id,
			&orderID,
			&customerID,
			&driverID,
			&item.Status,
			&item.OrderStatus,
			&item.DeliveryAddress,
			&instructions,
			&item.CustomerPhone,
			&total,
			&item.ItemCount,
			&item.EstimatedDeliveryTime,
			&item.EstimatedArrival,
			&item.PickupTime,
			&item.DeliveryTime,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if item.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if item.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
			return nil, err
		}
		if item.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
			return nil, err
		}
		if item.DriverID, err = kernel.UUIDPtrFromBytes(driverID); err != nil {
			return nil, err
		}
		item.DeliveryInstructions = deref(instructions)
		item.TotalAmount = kernel.MoneyFromDecimal(total)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
