package delivery

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// MaxLocationHistory bounds the number of positions kept per delivery.
const MaxLocationHistory = 100

var ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery constructor")

// Delivery tracks the physical fulfillment of one order.
//
// Invariants:
//   - driverID is set at most once
//   - pickupTime and deliveryTime are stamped exactly once, by picked_up and delivered
//   - locationHistory never exceeds MaxLocationHistory entries; the oldest are dropped first
type Delivery struct {
	id               kernel.UUID
	orderID          kernel.UUID
	customerID       kernel.UUID
	driverID         *kernel.UUID
	status           Status
	persistedStatus  Status
	pickupTime       *time.Time
	deliveryTime     *time.Time
	currentLocation  *kernel.LocationFix
	locationHistory  []kernel.LocationFix
	estimatedArrival *time.Time
	distance         *decimal.Decimal
	notes            string
	createdAt        time.Time
	updatedAt        time.Time

	events        kernel.EventRecorder
	isConstructed bool
}

// NewDelivery creates the pending delivery that accompanies a new order.
func NewDelivery(id, orderID, customerID kernel.UUID, now time.Time) (*Delivery, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), customerID.Validate()); err != nil {
		return nil, err
	}
	return &Delivery{
		id:            id,
		orderID:       orderID,
		customerID:    customerID,
		status:        Pending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}, nil
}

// Snapshot is the persisted form of a delivery.
type Snapshot struct {
	ID               kernel.UUID
	OrderID          kernel.UUID
	CustomerID       kernel.UUID
	DriverID         *kernel.UUID
	Status           Status
	PickupTime       *time.Time
	DeliveryTime     *time.Time
	CurrentLocation  *kernel.LocationFix
	LocationHistory  []kernel.LocationFix
	EstimatedArrival *time.Time
	Distance         *decimal.Decimal
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// RestoreDelivery rebuilds a delivery loaded from storage.
func RestoreDelivery(s Snapshot) (*Delivery, error) {
	if err := errors.Join(s.ID.Validate(), s.OrderID.Validate(), s.CustomerID.Validate(), s.Status.Validate()); err != nil {
		return nil, err
	}
	history := s.LocationHistory
	if len(history) > MaxLocationHistory {
		history = history[len(history)-MaxLocationHistory:]
	}
	return &Delivery{
		id:               s.ID,
		orderID:          s.OrderID,
		customerID:       s.CustomerID,
		driverID:         s.DriverID,
		status:           s.Status,
		persistedStatus:  s.Status,
		pickupTime:       s.PickupTime,
		deliveryTime:     s.DeliveryTime,
		currentLocation:  s.CurrentLocation,
		locationHistory:  append([]kernel.LocationFix(nil), history...),
		estimatedArrival: s.EstimatedArrival,
		distance:         s.Distance,
		notes:            s.Notes,
		createdAt:        s.CreatedAt,
		updatedAt:        s.UpdatedAt,
		isConstructed:    true,
	}, nil
}

func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

func (d *Delivery) ID() kernel.UUID                      { return d.id }
func (d *Delivery) OrderID() kernel.UUID                 { return d.orderID }
func (d *Delivery) CustomerID() kernel.UUID              { return d.customerID }
func (d *Delivery) DriverID() *kernel.UUID               { return d.driverID }
func (d *Delivery) Status() Status                       { return d.status }
func (d *Delivery) PersistedStatus() Status              { return d.persistedStatus }
func (d *Delivery) PickupTime() *time.Time               { return d.pickupTime }
func (d *Delivery) DeliveryTime() *time.Time             { return d.deliveryTime }
func (d *Delivery) CurrentLocation() *kernel.LocationFix { return d.currentLocation }
func (d *Delivery) EstimatedArrival() *time.Time         { return d.estimatedArrival }
func (d *Delivery) Distance() *decimal.Decimal           { return d.distance }
func (d *Delivery) Notes() string                        { return d.notes }
func (d *Delivery) CreatedAt() time.Time                 { return d.createdAt }
func (d *Delivery) UpdatedAt() time.Time                 { return d.updatedAt }

// LocationHistory returns the recorded positions, oldest first.
func (d *Delivery) LocationHistory() []kernel.LocationFix {
	out := make([]kernel.LocationFix, len(d.locationHistory))
	copy(out, d.locationHistory)
	return out
}

func (d *Delivery) DomainEvents() []kernel.DomainEvent {
	return d.events.Events()
}

func (d *Delivery) ClearDomainEvents() {
	d.events.Clear()
}

// MarkPersisted records that the current status has been written to storage.
func (d *Delivery) MarkPersisted() {
	d.persistedStatus = d.status
}

// IsAvailable reports whether a driver may still claim the delivery.
func (d *Delivery) IsAvailable() bool {
	return d.status == Pending && d.driverID == nil
}

// Accept claims the delivery for a driver. It fails with a conflict echoing the
// current status when the delivery was already claimed. Persisting the claim must
// be conditional on the status still being pending.
func (d *Delivery) Accept(driverID kernel.UUID, now time.Time) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if !d.IsAvailable() {
		return errs.NewConflictError("delivery", d.status.String(), "is not available")
	}

	d.driverID = &driverID
	d.status = Assigned
	d.updatedAt = now
	d.events.Raise(Accepted{
		DeliveryID: d.id,
		OrderID:    d.orderID,
		CustomerID: d.customerID,
		DriverID:   driverID,
		At:         now,
	})
	return nil
}

// AssignWithoutDriver moves a pending delivery to assigned when its order was
// forced out for delivery. It reports whether anything changed.
func (d *Delivery) AssignWithoutDriver(now time.Time) bool {
	if d.status != Pending {
		return false
	}
	d.status = Assigned
	d.updatedAt = now
	return true
}

// Advance applies a driver-requested status update.
//
// Side effects:
//   - picked_up stamps pickupTime
//   - delivered stamps deliveryTime
func (d *Delivery) Advance(driverID kernel.UUID, target Status, now time.Time) error {
	if err := d.authorizeDriver(driverID, "update delivery status"); err != nil {
		return err
	}
	if !target.IsDriverUpdatable() {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%s cannot be requested by a driver", target))
	}

	from := d.status
	next, err := from.TransitionTo(target)
	if err != nil {
		return err
	}

	switch next {
	case PickedUp:
		d.pickupTime = &now
	case Delivered:
		d.deliveryTime = &now
	}
	d.status = next
	d.updatedAt = now

	d.events.Raise(StatusChanged{
		DeliveryID: d.id,
		OrderID:    d.orderID,
		CustomerID: d.customerID,
		DriverID:   driverID,
		From:       from,
		To:         next,
		At:         now,
	})
	return nil
}

// RecordLocation stores the driver's latest position and appends it to the bounded history.
func (d *Delivery) RecordLocation(driverID kernel.UUID, point kernel.GeoPoint, now time.Time) error {
	if err := d.authorizeDriver(driverID, "update delivery location"); err != nil {
		return err
	}
	if err := point.Validate(); err != nil {
		return err
	}
	if d.status.IsTerminal() {
		return errs.NewConflictError("delivery", d.status.String(), "is no longer tracked")
	}

	fix := kernel.LocationFix{Point: point, RecordedAt: now}
	d.currentLocation = &fix
	d.locationHistory = append(d.locationHistory, fix)
	if overflow := len(d.locationHistory) - MaxLocationHistory; overflow > 0 {
		d.locationHistory = append([]kernel.LocationFix(nil), d.locationHistory[overflow:]...)
	}
	d.updatedAt = now

	d.events.Raise(LocationUpdated{
		DeliveryID: d.id,
		OrderID:    d.orderID,
		CustomerID: d.customerID,
		DriverID:   driverID,
		Lat:        point.Lat(),
		Lng:        point.Lng(),
		At:         now,
	})
	return nil
}

// SetEstimatedArrival sets the ETA to now + minutes and optionally the remaining distance in km.
func (d *Delivery) SetEstimatedArrival(driverID kernel.UUID, minutes int, distance *decimal.Decimal, now time.Time) error {
	if err := d.authorizeDriver(driverID, "update delivery eta"); err != nil {
		return err
	}
	if minutes <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("minutes", fmt.Errorf("%d is not greater than 0", minutes))
	}
	if distance != nil && distance.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("distance", fmt.Errorf("%s is negative", distance))
	}

	eta := now.Add(time.Duration(minutes) * time.Minute)
	d.estimatedArrival = &eta
	if distance != nil {
		dist := *distance
		d.distance = &dist
	}
	d.updatedAt = now

	d.events.Raise(ETAUpdated{
		DeliveryID:       d.id,
		OrderID:          d.orderID,
		CustomerID:       d.customerID,
		EstimatedArrival: eta,
		Distance:         d.distance,
		At:               now,
	})
	return nil
}

// Annotate replaces the driver notes. Empty notes leave the current ones.
func (d *Delivery) Annotate(notes string, now time.Time) {
	if notes == "" {
		return
	}
	d.notes = notes
	d.updatedAt = now
}

// IsAssignedTo reports whether the driver holds the claim.
func (d *Delivery) IsAssignedTo(driverID kernel.UUID) bool {
	return d.driverID != nil && d.driverID.IsEqual(driverID)
}

// CanBeTrackedBy allows admins, the assigned driver and the customer who owns the order.
func (d *Delivery) CanBeTrackedBy(actor kernel.Actor) bool {
	switch {
	case actor.IsAdmin():
		return true
	case actor.Role() == kernel.RoleDriver:
		return d.IsAssignedTo(actor.UserID())
	default:
		return actor.Is(d.customerID)
	}
}

func (d *Delivery) authorizeDriver(driverID kernel.UUID, action string) error {
	if !d.IsAssignedTo(driverID) {
		return errs.NewForbiddenError(action, "only the assigned driver may do this")
	}
	return nil
}
