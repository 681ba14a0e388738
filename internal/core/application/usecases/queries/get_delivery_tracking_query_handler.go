package queries

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GetDeliveryTrackingQueryHandler struct {
	db *gorm.DB
}

func NewGetDeliveryTrackingQueryHandler(db *gorm.DB) GetDeliveryTrackingQueryHandler {
	return GetDeliveryTrackingQueryHandler{db: db}
}

func (h GetDeliveryTrackingQueryHandler) Handle(
	ctx context.Context,
	query GetDeliveryTrackingQuery,
) (*GetDeliveryTrackingQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			d.id,
			d.order_id,
			d.customer_id,
			d.driver_id,
			d.status,
			o.status,
			o.delivery_address,
			u.name,
			d.current_lat,
			d.current_lng,
			d.current_recorded_at,
			d.location_history,
			d.estimated_arrival,
			d.distance,
			d.pickup_time,
			d.delivery_time,
			d.updated_at
		FROM deliveries d
		JOIN orders o ON o.id = d.order_id
		LEFT JOIN users u ON u.id = d.driver_id
		WHERE d.id = ?
	`, query.DeliveryID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, err
		}
		return nil, errs.NewObjectNotFoundError("delivery", query.DeliveryID().String())
	}

	var (
		resp                    GetDeliveryTrackingQueryResponse
		id, orderID, customerID uuid.UUID
		driverID                *uuid.UUID
		driverName              *string
		lat, lng                *float64
		recordedAt              *time.Time
		history                 datatypes.JSONSlice[LocationResponse]
		distance                decimal.NullDecimal
	)
	err = rows.Scan(
		&id,
		&orderID,
		&customerID,
		&driverID,
		&resp.Status,
		&resp.OrderStatus,
		&resp.DeliveryAddress,
		&driverName,
		&lat,
		&lng,
		&recordedAt,
		&history,
		&resp.EstimatedArrival,
		&distance,
		&resp.PickupTime,
		&resp.DeliveryTime,
		&resp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err = h.authorize(query.Actor(), id, orderID, customerID, driverID, resp.Status); err != nil {
		return nil, err
	}

	if resp.DeliveryID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return nil, err
	}
	if resp.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
		return nil, err
	}
	if resp.DriverID, err = kernel.UUIDPtrFromBytes(driverID); err != nil {
		return nil, err
	}
	resp.DriverName = deref(driverName)
	if lat != nil && lng != nil && recordedAt != nil {
		resp.CurrentLocation = &LocationResponse{Lat: *lat, Lng: *lng, RecordedAt: *recordedAt}
	}
	resp.LocationHistory = append(make([]LocationResponse, 0, len(history)), history...)
	if distance.Valid {
		resp.Distance = &distance.Decimal
	}

	return &resp, rows.Err()
}

// authorize applies the delivery's own tracking rule to the scanned identity columns.
func (h GetDeliveryTrackingQueryHandler) authorize(
	actor kernel.Actor,
	id, orderID, customerID uuid.UUID,
	driverID *uuid.UUID,
	status string,
) error {
	deliveryID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return err
	}
	order, err := kernel.UUIDFromBytes(orderID[:])
	if err != nil {
		return err
	}
	customer, err := kernel.UUIDFromBytes(customerID[:])
	if err != nil {
		return err
	}
	driver, err := kernel.UUIDPtrFromBytes(driverID)
	if err != nil {
		return err
	}
	parsed, err := delivery.ParseStatus(status)
	if err != nil {
		return err
	}

	d, err := delivery.RestoreDelivery(delivery.Snapshot{
		ID:         deliveryID,
		OrderID:    order,
		CustomerID: customer,
		DriverID:   driver,
		Status:     parsed,
	})
	if err != nil {
		return err
	}
	if !d.CanBeTrackedBy(actor) {
		return errs.NewForbiddenError("track delivery", "only the customer, the assigned driver or an admin may track")
	}
	return nil
}
