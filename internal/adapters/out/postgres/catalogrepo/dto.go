// Package catalogrepo reads the menu, restaurant and user tables owned by the
// menu and account services. The only write is the driver delivery counter.
package catalogrepo

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MenuItemDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RestaurantID    *uuid.UUID      `gorm:"type:uuid;index"`
	CategoryID      *uuid.UUID      `gorm:"type:uuid"`
	Name            string          `gorm:"type:varchar(255);not null"`
	Price           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	IsAvailable     bool            `gorm:"not null;default:true"`
	PreparationTime int             `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (MenuItemDTO) TableName() string {
	return "menu_items"
}

type RestaurantDTO struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Name        string           `gorm:"type:varchar(255);not null"`
	IsActive    bool             `gorm:"not null;default:true"`
	DeliveryFee *decimal.Decimal `gorm:"type:numeric(12,2)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (RestaurantDTO) TableName() string {
	return "restaurants"
}

// UserDTO is the account row shared by customers, drivers, admins and restaurant staff.
type UserDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name            string    `gorm:"type:varchar(255);not null"`
	Email           string    `gorm:"type:varchar(255);uniqueIndex"`
	Phone           string    `gorm:"type:varchar(32)"`
	Role            string    `gorm:"type:varchar(16);not null"`
	PushToken       string    `gorm:"type:text"`
	TelegramChatID  int64     `gorm:"not null;default:0"`
	TotalDeliveries int64     `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (UserDTO) TableName() string {
	return "users"
}
