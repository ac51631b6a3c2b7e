package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/i474232898/weather-notification-service/internal/apperr"
)

// NotificationRepository persists notifications. Every query is scoped to one user.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// MarkAllRead flags every notification of userID as read and returns the most
// recently created one.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uint) (*Notification, error) {
	var last Notification
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []Notification
		if err := tx.Where("user_id = ?", userID).
			Order("created_at DESC, notification_id DESC").
			Limit(1).
			Find(&existing).Error; err != nil {
			return fmt.Errorf("find notifications: %w", err)
		}
		if len(existing) == 0 {
			return apperr.NotFound("No notification found")
		}

		if err := tx.Model(&Notification{}).
			Where("user_id = ?", userID).
			Update("is_read", true).Error; err != nil {
			return fmt.Errorf("mark notifications read: %w", err)
		}

		last = existing[0]
		last.IsRead = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &last, nil
}

// DeleteAll removes every notification of userID and returns how many were deleted.
func (r *NotificationRepository) DeleteAll(ctx context.Context, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&Notification{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete notifications: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// List returns the notifications of userID, newest first.
func (r *NotificationRepository) List(ctx context.Context, userID uint) ([]Notification, error) {
	notifications := []Notification{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, notification_id DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// Count returns the number of notifications of userID.
func (r *NotificationRepository) Count(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Notification{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return count, nil
}
