package catalogrepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCatalogRepository implements ports.CatalogRepository and ports.ContactDirectory.
type GormCatalogRepository struct {
	db *gorm.DB
}

func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) GetMenuItems(ctx context.Context, ids []kernel.UUID) ([]catalog.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	var dtos []MenuItemDTO
	if err := r.db.WithContext(ctx).Where("id IN ?", raw).Find(&dtos).Error; err != nil {
		return nil, err
	}

	items := make([]catalog.MenuItem, 0, len(dtos))
	for _, dto := range dtos {
		id, err := kernel.UUIDFromBytes(dto.ID[:])
		if err != nil {
			return nil, err
		}
		categoryID, err := kernel.UUIDPtrFromBytes(dto.CategoryID)
		if err != nil {
			return nil, err
		}
		restaurantID, err := kernel.UUIDPtrFromBytes(dto.RestaurantID)
		if err != nil {
			return nil, err
		}
		items = append(items, catalog.MenuItem{
			ID:                 id,
			Name:               dto.Name,
			Price:              kernel.MoneyFromDecimal(dto.Price),
			IsAvailable:        dto.IsAvailable,
			PreparationMinutes: dto.PreparationTime,
			CategoryID:         categoryID,
			RestaurantID:       restaurantID,
		})
	}
	return items, nil
}

func (r *GormCatalogRepository) GetRestaurant(ctx context.Context, id kernel.UUID) (*catalog.Restaurant, error) {
	var dto RestaurantDTO
	if err := r.db.WithContext(ctx).Take(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("restaurant", id.String())
		}
		return nil, err
	}

	restaurant := &catalog.Restaurant{ID: id, Name: dto.Name, IsActive: dto.IsActive}
	if dto.DeliveryFee != nil {
		fee := kernel.MoneyFromDecimal(*dto.DeliveryFee)
		restaurant.DeliveryFee = &fee
	}
	return restaurant, nil
}

func (r *GormCatalogRepository) GetCustomer(ctx context.Context, id kernel.UUID) (*catalog.Customer, error) {
	dto, err := r.user(ctx, id)
	if err != nil {
		return nil, err
	}
	return &catalog.Customer{ID: id, Name: dto.Name, Email: dto.Email, Phone: dto.Phone}, nil
}

func (r *GormCatalogRepository) IncrementDriverDeliveries(ctx context.Context, driverID kernel.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&UserDTO{}).
		Where("id = ?", driverID.Bytes()).
		UpdateColumn("total_deliveries", gorm.Expr("total_deliveries + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("driver", driverID.String())
	}
	return nil
}

// Contact returns the side-channel addresses of a user. Unknown users have none.
func (r *GormCatalogRepository) Contact(ctx context.Context, userID kernel.UUID) (notification.Contact, error) {
	dto, err := r.user(ctx, userID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return notification.Contact{UserID: userID}, nil
	}
	if err != nil {
		return notification.Contact{}, err
	}
	return notification.Contact{
		UserID:         userID,
		Email:          dto.Email,
		Phone:          dto.Phone,
		PushToken:      dto.PushToken,
		TelegramChatID: dto.TelegramChatID,
	}, nil
}

func (r *GormCatalogRepository) user(ctx context.Context, id kernel.UUID) (UserDTO, error) {
	var dto UserDTO
	if err := r.db.WithContext(ctx).Take(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserDTO{}, errs.NewObjectNotFoundError("user", id.String())
		}
		return UserDTO{}, err
	}
	return dto, nil
}
