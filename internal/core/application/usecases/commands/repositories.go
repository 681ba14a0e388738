// Package commands contains business operations that modify system state.
// All commands follow a consistent pattern: validation, transaction management,
// persistence, and notification of committed domain events.
package commands

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Handlers depend on the narrowest one that covers the repositories they touch.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	DeliveryRepoFactory interface {
		DeliveryRepository() ports.DeliveryRepository
	}

	PromoRepoFactory interface {
		PromoRepository() ports.PromoRepository
	}

	LoyaltyRepoFactory interface {
		LoyaltyRepository() ports.LoyaltyRepository
	}

	CatalogRepoFactory interface {
		CatalogRepository() ports.CatalogRepository
	}

	// OrderUoW manages transactions for order-only operations
	// (payment settlement, scheduled start, abandoned sweep).
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// DeliveryUoW manages transactions for delivery-only operations (location, ETA).
	DeliveryUoW interface {
		TxManager
		DeliveryRepoFactory
	}

	DeliveryUoWFactory interface {
		Create() DeliveryUoW
	}

	// LoyaltyUoW manages transactions for ledger-only operations.
	LoyaltyUoW interface {
		TxManager
		LoyaltyRepoFactory
	}

	LoyaltyUoWFactory interface {
		Create() LoyaltyUoW
	}

	// UoW spans every repository. Used by operations that keep order, delivery
	// and ledgers consistent with each other.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   d, err := uow.DeliveryRepository().Get(ctx, id)
	//   o, err := uow.OrderRepository().GetForUpdate(ctx, d.OrderID())
	//   // ... mutate both, update both
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		DeliveryRepoFactory
		PromoRepoFactory
		LoyaltyRepoFactory
		CatalogRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)

// eventSource is an aggregate that records domain events.
type eventSource interface {
	DomainEvents() []kernel.DomainEvent
	ClearDomainEvents()
}

// drainEvents collects and clears the recorded events of the aggregates, in order.
func drainEvents(sources ...eventSource) []kernel.DomainEvent {
	var events []kernel.DomainEvent
	for _, s := range sources {
		if s == nil {
			continue
		}
		events = append(events, s.DomainEvents()...)
		s.ClearDomainEvents()
	}
	return events
}
