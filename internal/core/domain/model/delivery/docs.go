// Package delivery contains the Delivery aggregate: the fulfillment record paired
// one-to-one with an order.
//
// State transitions:
//
//	pending ──> assigned ──> picked_up ──┬──> in_transit ──> delivered
//	   │            │            │       └────────────────────┘
//	   └────────────┴────────────┴──────> failed (from any non-terminal state)
//
// The pending -> assigned edge is the claim: it happens at most once, either by a
// driver accepting the delivery or by the order being forced out for delivery.
// Only the assigned driver can move the delivery further, report its position or
// update its ETA.
package delivery
