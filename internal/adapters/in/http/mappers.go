package http

import (
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

func uuidPtr(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	out := id.Bytes()
	return &out
}

func distanceText(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}

func orderFromDomain(o *order.Order) Order {
	items := make([]OrderItem, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, OrderItem{
			Id:                  item.ID().Bytes(),
			MenuItemId:          item.MenuItemID().Bytes(),
			Name:                item.Name(),
			Quantity:            item.Quantity(),
			UnitPrice:           item.UnitPrice().String(),
			LineTotal:           item.LineTotal().String(),
			SpecialInstructions: item.SpecialInstructions(),
		})
	}
	return Order{
		Id:                    o.ID().Bytes(),
		CustomerId:            o.CustomerID().Bytes(),
		RestaurantId:          uuidPtr(o.RestaurantID()),
		Status:                o.Status().String(),
		PaymentStatus:         o.PaymentStatus().String(),
		PaymentReference:      o.PaymentReference(),
		Subtotal:              o.Subtotal().String(),
		DeliveryFee:           o.DeliveryFee().String(),
		DiscountAmount:        o.DiscountAmount().String(),
		TotalAmount:           o.TotalAmount().String(),
		PromoCodeId:           uuidPtr(o.PromoCodeID()),
		LoyaltyPointsUsed:     o.LoyaltyPointsUsed(),
		LoyaltyPointsEarned:   o.LoyaltyPointsEarned(),
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

func orderFromQuery(r *queries.GetOrderQueryResponse) Order {
	items := make([]OrderItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, OrderItem{
			Id:                  item.ID.Bytes(),
			MenuItemId:          item.MenuItemID.Bytes(),
			Name:                item.Name,
			Quantity:            item.Quantity,
			UnitPrice:           item.UnitPrice.String(),
			LineTotal:           item.LineTotal.String(),
			SpecialInstructions: item.SpecialInstructions,
		})
	}
	out := Order{
		Id:                    r.ID.Bytes(),
		CustomerId:            r.CustomerID.Bytes(),
		RestaurantId:          uuidPtr(r.RestaurantID),
		Status:                r.Status,
		PaymentStatus:         r.PaymentStatus,
		PaymentReference:      r.PaymentReference,
		Subtotal:              r.Subtotal.String(),
		DeliveryFee:           r.DeliveryFee.String(),
		DiscountAmount:        r.DiscountAmount.String(),
		TotalAmount:           r.TotalAmount.String(),
		PromoCodeId:           uuidPtr(r.PromoCodeID),
		LoyaltyPointsUsed:     r.LoyaltyPointsUsed,
		LoyaltyPointsEarned:   r.LoyaltyPointsEarned,
		DeliveryAddress:       r.DeliveryAddress,
		CustomerPhone:         r.CustomerPhone,
		DeliveryInstructions:  r.DeliveryInstructions,
		EstimatedDeliveryTime: r.EstimatedDeliveryTime,
		ScheduledDeliveryTime: r.ScheduledDeliveryTime,
		ActualDeliveryTime:    r.ActualDeliveryTime,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
		Items:                 items,
	}
	if r.Customer != nil {
		out.Customer = &Customer{Name: r.Customer.Name, Email: r.Customer.Email, Phone: r.Customer.Phone}
	}
	if r.Delivery != nil {
		out.Delivery = &OrderDelivery{
			Id:       r.Delivery.ID.Bytes(),
			Status:   r.Delivery.Status,
			DriverId: uuidPtr(r.Delivery.DriverID),
		}
	}
	return out
}

func deliveryFromDomain(d *delivery.Delivery) Delivery {
	out := Delivery{
		Id:               d.ID().Bytes(),
		OrderId:          d.OrderID().Bytes(),
		CustomerId:       d.CustomerID().Bytes(),
		DriverId:         uuidPtr(d.DriverID()),
		Status:           d.Status().String(),
		PickupTime:       d.PickupTime(),
		DeliveryTime:     d.DeliveryTime(),
		EstimatedArrival: d.EstimatedArrival(),
		DistanceKm:       distanceText(d.Distance()),
		Notes:            d.Notes(),
		UpdatedAt:        d.UpdatedAt(),
	}
	if fix := d.CurrentLocation(); fix != nil {
		out.CurrentLocation = &LocationFix{Lat: fix.Point.Lat(), Lng: fix.Point.Lng(), RecordedAt: fix.RecordedAt}
	}
	return out
}

func deliveryListFromQuery(items []queries.DeliveryListItem) []DeliveryListItem {
	out := make([]DeliveryListItem, 0, len(items))
	for _, item := range items {
		out = append(out, DeliveryListItem{
			Id:                    item.ID.Bytes(),
			OrderId:               item.OrderID.Bytes(),
			CustomerId:            item.CustomerID.Bytes(),
			DriverId:              uuidPtr(item.DriverID),
			Status:                item.Status,
			OrderStatus:           item.OrderStatus,
			DeliveryAddress:       item.DeliveryAddress,
			DeliveryInstructions:  item.DeliveryInstructions,
			CustomerPhone:         item.CustomerPhone,
			TotalAmount:           item.TotalAmount.String(),
			ItemCount:             item.ItemCount,
			EstimatedDeliveryTime: item.EstimatedDeliveryTime,
			EstimatedArrival:      item.EstimatedArrival,
			PickupTime:            item.PickupTime,
			DeliveryTime:          item.DeliveryTime,
			CreatedAt:             item.CreatedAt,
			UpdatedAt:             item.UpdatedAt,
		})
	}
	return out
}

func trackingFromQuery(r *queries.GetDeliveryTrackingQueryResponse) Tracking {
	history := make([]LocationFix, 0, len(r.LocationHistory))
	for _, fix := range r.LocationHistory {
		history = append(history, LocationFix(fix))
	}
	out := Tracking{
		DeliveryId:       r.DeliveryID.Bytes(),
		OrderId:          r.OrderID.Bytes(),
		Status:           r.Status,
		OrderStatus:      r.OrderStatus,
		DriverId:         uuidPtr(r.DriverID),
		DriverName:       r.DriverName,
		DeliveryAddress:  r.DeliveryAddress,
		LocationHistory:  history,
		EstimatedArrival: r.EstimatedArrival,
		DistanceKm:       distanceText(r.Distance),
		PickupTime:       r.PickupTime,
		DeliveryTime:     r.DeliveryTime,
		UpdatedAt:        r.UpdatedAt,
	}
	if r.CurrentLocation != nil {
		current := LocationFix(*r.CurrentLocation)
		out.CurrentLocation = &current
	}
	return out
}

func loyaltyFromQuery(r *queries.GetLoyaltyProgramQueryResponse) LoyaltyProgram {
	transactions := make([]LoyaltyTransaction, 0, len(r.Transactions))
	for _, t := range r.Transactions {
		transactions = append(transactions, LoyaltyTransaction{
			Id:          t.ID.Bytes(),
			OrderId:     uuidPtr(t.OrderID),
			Type:        t.Type,
			Points:      t.Points,
			Description: t.Description,
			ExpiresAt:   t.ExpiresAt,
			CreatedAt:   t.CreatedAt,
		})
	}
	return LoyaltyProgram{
		Id:                   r.ID.Bytes(),
		CustomerId:           r.CustomerID.Bytes(),
		Points:               r.Points,
		PointsValue:          r.PointsValue.String(),
		TotalPointsEarned:    r.TotalPointsEarned,
		TotalPointsRedeemed:  r.TotalPointsRedeemed,
		Tier:                 r.Tier,
		LastPointsEarnedAt:   r.LastPointsEarnedAt,
		LastPointsRedeemedAt: r.LastPointsRedeemedAt,
		CreatedAt:            r.CreatedAt,
		Transactions:         transactions,
	}
}
