// Package services provides domain services for logic that spans several
// aggregates and projections of the marketplace.
//
// The package includes:
//   - PricingEngine: a pure calculator turning menu lines, delivery fee and
//     already-capped discounts into an order's amounts
//
// Services here never touch persistence; callers load the inputs and store the results.
package services
