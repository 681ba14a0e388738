// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// Orders are stored in the "orders" table with their immutable line items in "order_items".
package orderrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
type OrderDTO struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	RestaurantID          *uuid.UUID      `gorm:"type:uuid;index"`
	TotalAmount           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DeliveryFee           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DiscountAmount        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PromoCodeID           *uuid.UUID      `gorm:"type:uuid"`
	LoyaltyPointsUsed     int64           `gorm:"not null;default:0"`
	LoyaltyPointsEarned   int64           `gorm:"not null;default:0"`
	Status                string          `gorm:"type:varchar(32);not null;index"`
	PaymentStatus         string          `gorm:"type:varchar(32);not null"`
	PaymentReference      string          `gorm:"type:varchar(255)"`
	DeliveryAddress       string          `gorm:"type:text;not null"`
	CustomerPhone         string          `gorm:"type:varchar(32);not null"`
	DeliveryInstructions  string          `gorm:"type:text"`
	EstimatedDeliveryTime time.Time       `gorm:"not null"`
	ScheduledDeliveryTime *time.Time      `gorm:"index"`
	ActualDeliveryTime    *time.Time
	CreatedAt             time.Time      `gorm:"not null;index"`
	UpdatedAt             time.Time      `gorm:"not null"`
	Items                 []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one line of an order. Prices are the values captured at placement.
type OrderItemDTO struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	MenuItemID          uuid.UUID       `gorm:"type:uuid;not null"`
	Name                string          `gorm:"type:varchar(255);not null"`
	Quantity            int             `gorm:"not null"`
	UnitPrice           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	SpecialInstructions string          `gorm:"type:text"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func uuidPtr(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func fromDomain(o *order.Order) OrderDTO {
	id := o.ID().Bytes()
	items := make([]OrderItemDTO, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, OrderItemDTO{
			ID:                  item.ID().Bytes(),
			OrderID:             id,
			MenuItemID:          item.MenuItemID().Bytes(),
			Name:                item.Name(),
			Quantity:            item.Quantity(),
			UnitPrice:           item.UnitPrice().Decimal(),
			SpecialInstructions: item.SpecialInstructions(),
		})
	}

	return OrderDTO{
		ID:                    id,
		CustomerID:            o.CustomerID().Bytes(),
		RestaurantID:          uuidPtr(o.RestaurantID()),
		TotalAmount:           o.TotalAmount().Decimal(),
		DeliveryFee:           o.DeliveryFee().Decimal(),
		DiscountAmount:        o.DiscountAmount().Decimal(),
		PromoCodeID:           uuidPtr(o.PromoCodeID()),
		LoyaltyPointsUsed:     o.LoyaltyPointsUsed(),
		LoyaltyPointsEarned:   o.LoyaltyPointsEarned(),
		Status:                o.Status().String(),
		PaymentStatus:         o.PaymentStatus().String(),
		PaymentReference:      o.PaymentReference(),
		DeliveryAddress:       o.DeliveryAddress(),
		CustomerPhone:         o.CustomerPhone(),
		DeliveryInstructions:  o.DeliveryInstructions(),
		EstimatedDeliveryTime: o.EstimatedDeliveryTime(),
		ScheduledDeliveryTime: o.ScheduledDeliveryTime(),
		ActualDeliveryTime:    o.ActualDeliveryTime(),
		CreatedAt:             o.CreatedAt(),
		UpdatedAt:             o.UpdatedAt(),
		Items:                 items,
	}
}

// mutableColumns lists the columns a conditional update rewrites. Items and the
// identity columns never change after placement.
func mutableColumns(dto OrderDTO) map[string]any {
	return map[string]any{
		"total_amount":            dto.TotalAmount,
		"delivery_fee":            dto.DeliveryFee,
		"discount_amount":         dto.DiscountAmount,
		"loyalty_points_used":     dto.LoyaltyPointsUsed,
		"loyalty_points_earned":   dto.LoyaltyPointsEarned,
		"status":                  dto.Status,
		"payment_status":          dto.PaymentStatus,
		"payment_reference":       dto.PaymentReference,
		"estimated_delivery_time": dto.EstimatedDeliveryTime,
		"actual_delivery_time":    dto.ActualDeliveryTime,
		"updated_at":              dto.UpdatedAt,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDPtrFromBytes(dto.RestaurantID)
	if err != nil {
		return nil, err
	}
	promoCodeID, err := kernel.UUIDPtrFromBytes(dto.PromoCodeID)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := order.ParsePaymentStatus(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                    id,
		CustomerID:            customerID,
		RestaurantID:          restaurantID,
		Items:                 items,
		TotalAmount:           kernel.MoneyFromDecimal(dto.TotalAmount),
		DeliveryFee:           kernel.MoneyFromDecimal(dto.DeliveryFee),
		DiscountAmount:        kernel.MoneyFromDecimal(dto.DiscountAmount),
		PromoCodeID:           promoCodeID,
		LoyaltyPointsUsed:     dto.LoyaltyPointsUsed,
		LoyaltyPointsEarned:   dto.LoyaltyPointsEarned,
		Status:                status,
		PaymentStatus:         paymentStatus,
		PaymentReference:      dto.PaymentReference,
		DeliveryAddress:       dto.DeliveryAddress,
		CustomerPhone:         dto.CustomerPhone,
		DeliveryInstructions:  dto.DeliveryInstructions,
		EstimatedDeliveryTime: dto.EstimatedDeliveryTime,
		ScheduledDeliveryTime: dto.ScheduledDeliveryTime,
		ActualDeliveryTime:    dto.ActualDeliveryTime,
		CreatedAt:             dto.CreatedAt,
		UpdatedAt:             dto.UpdatedAt,
	})
}

func itemToDomain(dto OrderItemDTO) (order.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.Item{}, err
	}
	menuItemID, err := kernel.UUIDFromBytes(dto.MenuItemID[:])
	if err != nil {
		return order.Item{}, err
	}
	return order.RestoreItem(id, menuItemID, dto.Name, dto.Quantity, kernel.MoneyFromDecimal(dto.UnitPrice), dto.SpecialInstructions)
}
