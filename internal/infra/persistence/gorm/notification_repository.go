package gormpersistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskboard/internal/domain"
	"taskboard/internal/repository"
)

// GormNotificationRepository 是 NotificationRepository 接口的 GORM 实现
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository 创建 GormNotificationRepository 实例
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	if db == nil {
		panic("database connection cannot be nil for GormNotificationRepository")
	}
	return &GormNotificationRepository{db: db}
}

// FindByOwner 返回指定用户的全部通知，最新的在前
func (r *GormNotificationRepository) FindByOwner(ctx context.Context, ownerID uint) ([]domain.Notification, error) {
	var notifications []domain.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find notifications for owner %d: %w", ownerID, err)
	}
	return notifications, nil
}

// Save 创建一条新通知
func (r *GormNotificationRepository) Save(ctx context.Context, notification *domain.Notification) error {
	if err := r.db.WithContext(ctx).Save(notification).Error; err != nil {
		return fmt.Errorf("gorm: save notification (owner: %d): %w", notification.UserID, err)
	}
	return nil
}

// Delete 删除属于 ownerID 的指定通知
func (r *GormNotificationRepository) Delete(ctx context.Context, id uint, ownerID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&domain.Notification{})
	if result.Error != nil {
		return fmt.Errorf("gorm: delete notification %d for owner %d: %w", id, ownerID, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotificationNotFound
	}
	return nil
}

// DeleteOlderThan 删除早于 cutoff 的所有通知，返回删除的行数
func (r *GormNotificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&domain.Notification{})
	if result.Error != nil {
		return 0, fmt.Errorf("gorm: delete notifications older than %s: %w", cutoff.Format(time.RFC3339), result.Error)
	}
	return result.RowsAffected, nil
}
