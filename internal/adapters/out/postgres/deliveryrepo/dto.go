// Package deliveryrepo persists delivery aggregates. The bounded location history
// is stored as a JSON array next to the current position columns.
package deliveryrepo

import (
	"time"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type DeliveryDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	CustomerID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	DriverID         *uuid.UUID `gorm:"type:uuid;index"`
	Status           string     `gorm:"type:varchar(32);not null;index"`
	PickupTime       *time.Time
	DeliveryTime     *time.Time
	CurrentLocation  LocationDTO                         `gorm:"embedded;embeddedPrefix:current_"`
	LocationHistory  datatypes.JSONSlice[LocationFixDTO] `gorm:"type:jsonb"`
	EstimatedArrival *time.Time
	Distance         *decimal.Decimal `gorm:"type:numeric(10,2)"`
	Notes            string           `gorm:"type:text"`
	CreatedAt        time.Time        `gorm:"not null"`
	UpdatedAt        time.Time        `gorm:"not null"`
}

func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// LocationDTO is the embedded current position. All three columns are null
// until the first location update.
type LocationDTO struct {
	Lat        *float64
	Lng        *float64
	RecordedAt *time.Time
}

// LocationFixDTO is one element of the JSON location history.
type LocationFixDTO struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	RecordedAt time.Time `json:"recordedAt"`
}

func uuidPtr(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func fromDomain(d *delivery.Delivery) DeliveryDTO {
	history := make([]LocationFixDTO, 0, len(d.LocationHistory()))
	for _, fix := range d.LocationHistory() {
		history = append(history, LocationFixDTO{Lat: fix.Point.Lat(), Lng: fix.Point.Lng(), RecordedAt: fix.RecordedAt})
	}

	var current LocationDTO
	if fix := d.CurrentLocation(); fix != nil {
		lat, lng, at := fix.Point.Lat(), fix.Point.Lng(), fix.RecordedAt
		current = LocationDTO{Lat: &lat, Lng: &lng, RecordedAt: &at}
	}

	return DeliveryDTO{
		ID:               d.ID().Bytes(),
		OrderID:          d.OrderID().Bytes(),
		CustomerID:       d.CustomerID().Bytes(),
		DriverID:         uuidPtr(d.DriverID()),
		Status:           d.Status().String(),
		PickupTime:       d.PickupTime(),
		DeliveryTime:     d.DeliveryTime(),
		CurrentLocation:  current,
		LocationHistory:  datatypes.NewJSONSlice(history),
		EstimatedArrival: d.EstimatedArrival(),
		Distance:         d.Distance(),
		Notes:            d.Notes(),
		CreatedAt:        d.CreatedAt(),
		UpdatedAt:        d.UpdatedAt(),
	}
}

// mutableColumns lists the columns a conditional update rewrites.
func mutableColumns(dto DeliveryDTO) map[string]any {
	return map[string]any{
		"driver_id":           dto.DriverID,
		"status":              dto.Status,
		"pickup_time":         dto.PickupTime,
		"delivery_time":       dto.DeliveryTime,
		"current_lat":         dto.CurrentLocation.Lat,
		"current_lng":         dto.CurrentLocation.Lng,
		"current_recorded_at": dto.CurrentLocation.RecordedAt,
		"location_history":    dto.LocationHistory,
		"estimated_arrival":   dto.EstimatedArrival,
		"distance":            dto.Distance,
		"notes":               dto.Notes,
		"updated_at":          dto.UpdatedAt,
	}
}

func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	driverID, err := kernel.UUIDPtrFromBytes(dto.DriverID)
	if err != nil {
		return nil, err
	}
	status, err := delivery.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	history := make([]kernel.LocationFix, 0, len(dto.LocationHistory))
	for _, fixDTO := range dto.LocationHistory {
		fix, fixErr := fixToDomain(fixDTO.Lat, fixDTO.Lng, fixDTO.RecordedAt)
		if fixErr != nil {
			return nil, fixErr
		}
		history = append(history, fix)
	}

	var current *kernel.LocationFix
	if loc := dto.CurrentLocation; loc.Lat != nil && loc.Lng != nil && loc.RecordedAt != nil {
		fix, fixErr := fixToDomain(*loc.Lat, *loc.Lng, *loc.RecordedAt)
		if fixErr != nil {
			return nil, fixErr
		}
		current = &fix
	}

	return delivery.RestoreDelivery(delivery.Snapshot{
		ID:               id,
		OrderID:          orderID,
		CustomerID:       customerID,
		DriverID:         driverID,
		Status:           status,
		PickupTime:       dto.PickupTime,
		DeliveryTime:     dto.DeliveryTime,
		CurrentLocation:  current,
		LocationHistory:  history,
		EstimatedArrival: dto.EstimatedArrival,
		Distance:         dto.Distance,
		Notes:            dto.Notes,
		CreatedAt:        dto.CreatedAt,
		UpdatedAt:        dto.UpdatedAt,
	})
}

func fixToDomain(lat, lng float64, at time.Time) (kernel.LocationFix, error) {
	point, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return kernel.LocationFix{}, err
	}
	return kernel.LocationFix{Point: point, RecordedAt: at}, nil
}
