// Package kernel holds the value objects shared by every aggregate of the marketplace:
// identifiers, money, geographic positions, the acting identity of a request and the
// domain event recorder aggregates use to publish what happened to them.
//
// Values in this package are immutable. Types whose zero value is meaningless
// (UUID, GeoPoint, Actor) report ErrXIsNotConstructed from Validate.
package kernel
