package notifications

import (
	"time"
)

// Envelope is the realtime payload published for every event.
type Envelope struct {
	Type       string    `json:"type"`
	Event      string    `json:"event"`
	Message    string    `json:"message,omitempty"`
	OrderID    string    `json:"orderId,omitempty"`
	DeliveryID string    `json:"deliveryId,omitempty"`
	Status     string    `json:"status,omitempty"`
	Data       any       `json:"data,omitempty"`
	At         time.Time `json:"at"`
}

type LocationData struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type ETAData struct {
	EstimatedArrival time.Time `json:"estimatedArrival"`
	DistanceKm       string    `json:"distanceKm,omitempty"`
}

type PaymentData struct {
	PaymentStatus string `json:"paymentStatus"`
	Reference     string `json:"reference,omitempty"`
}

type TierData struct {
	From string `json:"from"`
	To   string `json:"to"`
}
