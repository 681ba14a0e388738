// Package order contains the Order aggregate and the order state machine.
//
// An order moves through a fixed transition table:
//
//	pending ──> paid ──> preparing ──> ready ──> out_for_delivery ──> delivered
//	   │          │          │                          │
//	   └──────────┴──────────┴────> cancelled <─────────┘
//
// delivered and cancelled are terminal. Payment settlement is tracked separately by
// PaymentStatus and only meets the order status at pending -> paid.
//
// Every state change raises a domain event (Created, StatusChanged, Cancelled,
// ScheduledStarted, PaymentUpdated) that the application layer drains after the
// change has been persisted.
package order
