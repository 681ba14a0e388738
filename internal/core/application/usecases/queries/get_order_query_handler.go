package queries

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns errs.ObjectNotFoundError for an unknown order and
// errs.ForbiddenError when the actor takes no part in it.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	resp, err := h.order(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}

	if !canView(query.Actor(), resp) {
		return nil, errs.NewForbiddenError("view order", "not a participant of the order")
	}

	items, err := h.items(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}
	resp.Items = items
	resp.Subtotal = kernel.ZeroMoney()
	for _, item := range items {
		resp.Subtotal = resp.Subtotal.Add(item.LineTotal)
	}

	return resp, nil
}

func canView(actor kernel.Actor, resp *GetOrderQueryResponse) bool {
	if actor.IsAdmin() || actor.Is(resp.CustomerID) {
		return true
	}
	return resp.Delivery != nil && resp.Delivery.DriverID != nil && actor.Is(*resp.Delivery.DriverID)
}

func (h GetOrderQueryHandler) order(ctx context.Context, orderID kernel.UUID) (*GetOrderQueryResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.customer_id,
			o.restaurant_id,
			o.status,
			o.payment_status,
			o.payment_reference,
			o.delivery_fee,
			o.discount_amount,
			o.total_amount,
			o.promo_code_id,
			o.loyalty_points_used,
			o.loyalty_points_earned,
			o.delivery_address,
			o.customer_phone,
			o.delivery_instructions,
			o.estimated_delivery_time,
			o.scheduled_delivery_time,
			o.actual_delivery_time,
			o.created_at,
			o.updated_at,
			d.id,
			d.status,
			d.driver_id,
			u.name,
			u.email,
			u.phone
		FROM orders o
		LEFT JOIN deliveries d ON d.order_id = o.id
		LEFT JOIN users u ON u.id = o.customer_id
		WHERE o.id = ?
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, err
		}
		return nil, errs.NewObjectNotFoundError("order", orderID.String())
	}

	var (
		resp                                 GetOrderQueryResponse
		id, customerID                       uuid.UUID
		restaurantID, promoCodeID            *uuid.UUID
		deliveryID, driverID                 *uuid.UUID
		deliveryStatus                       *string
		fee, discount, total                 decimal.Decimal
		customerName, customerEmail, custTel *string
	)
	err = rows.Scan(
		&id,
		&customerID,
		&restaurantID,
		&resp.Status,
		&resp.PaymentStatus,
		&resp.PaymentReference,
		&fee,
		&discount,
		&total,
		&promoCodeID,
		&resp.LoyaltyPointsUsed,
		&resp.LoyaltyPointsEarned,
		&resp.DeliveryAddress,
		&resp.CustomerPhone,
		&resp.DeliveryInstructions,
		&resp.EstimatedDeliveryTime,
		&resp.ScheduledDeliveryTime,
		&resp.ActualDeliveryTime,
		&resp.CreatedAt,
		&resp.UpdatedAt,
		&deliveryID,
		&deliveryStatus,
		&driverID,
		&customerName,
		&customerEmail,
		&custTel,
	)
	if err != nil {
		return nil, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return nil, err
	}
	if resp.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
		return nil, err
	}
	if resp.RestaurantID, err = kernel.UUIDPtrFromBytes(restaurantID); err != nil {
		return nil, err
	}
	if resp.PromoCodeID, err = kernel.UUIDPtrFromBytes(promoCodeID); err != nil {
		return nil, err
	}
	resp.DeliveryFee = kernel.MoneyFromDecimal(fee)
	resp.DiscountAmount = kernel.MoneyFromDecimal(discount)
	resp.TotalAmount = kernel.MoneyFromDecimal(total)

	if deliveryID != nil {
		resp.Delivery, err = orderDelivery(deliveryID, deliveryStatus, driverID)
		if err != nil {
			return nil, err
		}
	}
	if customerName != nil {
		resp.Customer = &CustomerResponse{Name: *customerName, Email: deref(customerEmail), Phone: deref(custTel)}
	}

	return &resp, rows.Err()
}

func orderDelivery(id *uuid.UUID, status *string, driverID *uuid.UUID) (*OrderDeliveryResponse, error) {
	deliveryID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}
	driver, err := kernel.UUIDPtrFromBytes(driverID)
	if err != nil {
		return nil, err
	}
	return &OrderDeliveryResponse{ID: deliveryID, Status: deref(status), DriverID: driver}, nil
}

func (h GetOrderQueryHandler) items(ctx context.Context, orderID kernel.UUID) ([]OrderItemResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			menu_item_id,
			name,
			quantity,
			unit_price,
			special_instructions
		FROM order_items
		WHERE order_id = ?
		ORDER BY name, id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]OrderItemResponse, 0)
	for rows.Next() {
		var (
			item           OrderItemResponse
			id, menuItemID uuid.UUID
			unitPrice      decimal.Decimal
			instructions   *string
		)
		if err = rows.Scan(&id, &menuItemID, &item.Name, &item.Quantity, &unitPrice, &instructions); err != nil {
			return nil, err
		}
		if item.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if item.MenuItemID, err = kernel.UUIDFromBytes(menuItemID[:]); err != nil {
			return nil, err
		}
		item.UnitPrice = kernel.MoneyFromDecimal(unitPrice)
		item.LineTotal = item.UnitPrice.MulInt(int64(item.Quantity))
		item.SpecialInstructions = deref(instructions)
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
