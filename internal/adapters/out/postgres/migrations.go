package postgres

import (
	"marketplace/internal/adapters/out/postgres/catalogrepo"
	"marketplace/internal/adapters/out/postgres/deliveryrepo"
	"marketplace/internal/adapters/out/postgres/loyaltyrepo"
	"marketplace/internal/adapters/out/postgres/notificationrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/promorepo"

	"gorm.io/gorm"
)

// Models lists every table owned or read by the service, parents first.
func Models() []any {
	return []any{
		&catalogrepo.UserDTO{},
		&catalogrepo.RestaurantDTO{},
		&catalogrepo.MenuItemDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&deliveryrepo.DeliveryDTO{},
		&promorepo.PromoCodeDTO{},
		&promorepo.UsageDTO{},
		&loyaltyrepo.ProgramDTO{},
		&loyaltyrepo.TransactionDTO{},
		&notificationrepo.NotificationDTO{},
	}
}

// Migrate creates or updates the schema. Promo codes are also unique ignoring
// case, since lookups compare UPPER(code).
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_promo_codes_code_upper ON promo_codes (UPPER(code))`).Error
}

// TruncateAll empties every table. Integration tests call it between cases.
func TruncateAll(db *gorm.DB) error {
	return db.Exec(`TRUNCATE TABLE notifications, loyalty_transactions, loyalty_programs,
		promo_code_usages, promo_codes, deliveries, order_items, orders,
		menu_items, restaurants, users`).Error
}
