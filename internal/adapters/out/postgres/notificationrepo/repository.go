// Package notificationrepo appends the notification attempt log.
package notificationrepo

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/notification"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrderID      *uuid.UUID `gorm:"type:uuid;index"`
	Channel      string     `gorm:"type:varchar(16);not null"`
	Title        string     `gorm:"type:varchar(255)"`
	Message      string     `gorm:"type:text;not null"`
	Status       string     `gorm:"type:varchar(16);not null"`
	SentAt       *time.Time
	ErrorMessage string            `gorm:"type:text"`
	Metadata     datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt    time.Time         `gorm:"not null"`
}

func (NotificationDTO) TableName() string {
	return "notifications"
}

func fromDomain(n notification.Notification) NotificationDTO {
	var orderID *uuid.UUID
	if n.OrderID != nil {
		raw := n.OrderID.Bytes()
		orderID = &raw
	}
	return NotificationDTO{
		ID:           n.ID.Bytes(),
		UserID:       n.UserID.Bytes(),
		OrderID:      orderID,
		Channel:      n.Channel.String(),
		Title:        n.Title,
		Message:      n.Message,
		Status:       n.Status.String(),
		SentAt:       n.SentAt,
		ErrorMessage: n.ErrorMessage,
		Metadata:     datatypes.JSONMap(n.Metadata),
		CreatedAt:    n.CreatedAt,
	}
}

// GormNotificationRepository implements ports.NotificationRepository. It writes
// outside any unit of work: attempts are recorded after the business transaction
// has committed.
type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) Add(ctx context.Context, n notification.Notification) error {
	dto := fromDomain(n)
	return r.db.WithContext(ctx).Create(&dto).Error
}
