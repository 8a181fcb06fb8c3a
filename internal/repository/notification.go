package repository

import (
	"context"
	"time"

	"taskboard/internal/domain"
)

// NotificationRepository 定义了通知数据的存储和检索操作。
type NotificationRepository interface {
	// FindByOwner 返回指定用户的全部通知，按创建时间降序排列。
	FindByOwner(ctx context.Context, ownerID uint) ([]domain.Notification, error)

	// Save 创建一条新通知。
	Save(ctx context.Context, notification *domain.Notification) error

	// Delete 删除属于 ownerID 的指定通知。
	// 通知不存在或属于其他用户时返回 repository.ErrNotificationNotFound。
	Delete(ctx context.Context, id uint, ownerID uint) error

	// DeleteOlderThan 删除早于 cutoff 的所有通知，返回删除的行数。
	// 由周期清理任务调用。
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
