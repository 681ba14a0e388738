package ports

import (
	"context"

	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"
)

// CatalogRepository reads the menu, restaurant and account projections.
type CatalogRepository interface {
	// GetMenuItems returns the items found for the ids; missing ids are simply absent.
	GetMenuItems(ctx context.Context, ids []kernel.UUID) ([]catalog.MenuItem, error)

	GetRestaurant(ctx context.Context, id kernel.UUID) (*catalog.Restaurant, error)

	GetCustomer(ctx context.Context, id kernel.UUID) (*catalog.Customer, error)

	// IncrementDriverDeliveries bumps the completed delivery counter of a driver.
	IncrementDriverDeliveries(ctx context.Context, driverID kernel.UUID) error
}
