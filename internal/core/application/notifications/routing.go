package notifications

import (
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/loyalty"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/order"
)

// route is one realtime publish. inApp marks the customer-facing leg that is
// recorded as an in_app notification.
type route struct {
	topic string
	name  string
	env   Envelope
	inApp bool
}

// plan is everything the fanout does for one event. A nil message means the
// event is a live tick (location, ETA) with no side channels and no records.
type plan struct {
	routes  []route
	message *notification.Message
}

func planFor(event kernel.DomainEvent) (plan, bool) {
	switch e := event.(type) {
	case order.Created:
		return orderPlan(e.OrderID, e.CustomerID, e.Status.String(), e), true
	case order.StatusChanged:
		return orderPlan(e.OrderID, e.CustomerID, e.To.String(), e), true
	case order.OrderCancelled:
		return orderPlan(e.OrderID, e.CustomerID, order.Cancelled.String(), e), true
	case order.ScheduledStarted:
		return orderPlan(e.OrderID, e.CustomerID, order.Preparing.String(), e), true
	case order.PaymentUpdated:
		return paymentPlan(e), true
	case delivery.Accepted:
		return deliveryPlan(e.DeliveryID, e.OrderID, e.CustomerID, &e.DriverID, delivery.Assigned.String(), e), true
	case delivery.StatusChanged:
		return deliveryPlan(e.DeliveryID, e.OrderID, e.CustomerID, &e.DriverID, e.To.String(), e), true
	case delivery.LocationUpdated:
		return locationPlan(e), true
	case delivery.ETAUpdated:
		return etaPlan(e), true
	case loyalty.TierChanged:
		return tierPlan(e), true
	default:
		return plan{}, false
	}
}

func orderPlan(orderID, customerID kernel.UUID, status string, event kernel.DomainEvent) plan {
	msg := notification.NewMessage(notification.TopicOrder, event.EventName(), customerID, &orderID)
	base := Envelope{
		Type:    "order_update",
		Event:   event.EventName(),
		OrderID: orderID.String(),
		Status:  status,
		At:      event.OccurredAt(),
	}
	customer := base
	customer.Message = msg.Text

	return plan{
		routes: []route{
			{topic: notification.BroadcastTopic, name: "order:update", env: base},
			{topic: notification.UserTopic(customerID), name: "order:notification", env: customer, inApp: true},
			{topic: notification.AdminTopic, name: "order:admin_notification", env: base},
		},
		message: &msg,
	}
}

func paymentPlan(e order.PaymentUpdated) plan {
	msg := notification.NewMessage(notification.TopicPayment, e.EventName(), e.CustomerID, &e.OrderID)
	base := Envelope{
		Type:    "payment_update",
		Event:   e.EventName(),
		OrderID: e.OrderID.String(),
		Status:  e.PaymentStatus.String(),
		Data:    PaymentData{PaymentStatus: e.PaymentStatus.String(), Reference: e.Reference},
		At:      e.At,
	}
	customer := base
	customer.Message = msg.Text

	return plan{
		routes: []route{
			{topic: notification.BroadcastTopic, name: "payment:update", env: base},
			{topic: notification.UserTopic(e.CustomerID), name: "payment:notification", env: customer, inApp: true},
		},
		message: &msg,
	}
}

func deliveryPlan(deliveryID, orderID, customerID kernel.UUID, driverID *kernel.UUID, status string, event kernel.DomainEvent) plan {
	msg := notification.NewMessage(notification.TopicDelivery, event.EventName(), customerID, &orderID)
	base := Envelope{
		Type:       "delivery_update",
		Event:      event.EventName(),
		OrderID:    orderID.String(),
		DeliveryID: deliveryID.String(),
		Status:     status,
		At:         event.OccurredAt(),
	}
	customer := base
	customer.Message = msg.Text

	routes := []route{
		{topic: notification.BroadcastTopic, name: "delivery:update", env: base},
		{topic: notification.UserTopic(customerID), name: "delivery:notification", env: customer, inApp: true},
		{topic: notification.AdminTopic, name: "delivery:admin_notification", env: base},
	}
	if driverID != nil {
		routes = append(routes, route{topic: notification.UserTopic(*driverID), name: "delivery:driver_notification", env: base})
	}
	return plan{routes: routes, message: &msg}
}

func locationPlan(e delivery.LocationUpdated) plan {
	env := Envelope{
		Type:       "delivery_location",
		Event:      e.EventName(),
		OrderID:    e.OrderID.String(),
		DeliveryID: e.DeliveryID.String(),
		Data:       LocationData{Lat: e.Lat, Lng: e.Lng},
		At:         e.At,
	}
	return plan{routes: []route{
		{topic: notification.TrackingTopic, name: "delivery:location", env: env},
		{topic: notification.UserTopic(e.CustomerID), name: "delivery:location", env: env},
	}}
}

func etaPlan(e delivery.ETAUpdated) plan {
	data := ETAData{EstimatedArrival: e.EstimatedArrival}
	if e.Distance != nil {
		data.DistanceKm = e.Distance.String()
	}
	return plan{routes: []route{{
		topic: notification.UserTopic(e.CustomerID),
		name:  "delivery:eta",
		env: Envelope{
			Type:       "delivery_eta",
			Event:      e.EventName(),
			OrderID:    e.OrderID.String(),
			DeliveryID: e.DeliveryID.String(),
			Data:       data,
			At:         e.At,
		},
	}}}
}

func tierPlan(e loyalty.TierChanged) plan {
	msg := notification.NewMessage(notification.TopicLoyalty, e.EventName(), e.CustomerID, nil)
	msg.Text = notification.TierUpText(e.To.String())
	return plan{
		routes: []route{{
			topic: notification.UserTopic(e.CustomerID),
			name:  "loyalty:notification",
			env: Envelope{
				Type:    "loyalty_update",
				Event:   e.EventName(),
				Message: msg.Text,
				Data:    TierData{From: e.From.String(), To: e.To.String()},
				At:      e.At,
			},
			inApp: true,
		}},
		message: &msg,
	}
}
