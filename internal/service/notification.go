package service

import (
	"context"
	"errors"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/repository"

	"github.com/sirupsen/logrus"
)

// NotificationService 负责用户通知的业务逻辑。
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService 创建 NotificationService 实例。
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	if notificationRepo == nil {
		panic("NotificationRepository cannot be nil for NotificationService")
	}
	return &NotificationService{notificationRepo: notificationRepo}
}

// List 返回指定用户的全部通知，最新的在前。
func (s *NotificationService) List(ctx context.Context, userID uint) ([]domain.Notification, error) {
	notifications, err := s.notificationRepo.FindByOwner(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Database error listing notifications")
		return nil, ErrInternalServer
	}
	return notifications, nil
}

// Delete 删除属于指定用户的一条通知。
func (s *NotificationService) Delete(ctx context.Context, userID, notificationID uint) error {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "notification_id": notificationID})

	err := s.notificationRepo.Delete(ctx, notificationID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			logCtx.Warn("Notification deletion failed: Not found")
			return ErrNotificationNotFound
		}
		logCtx.WithError(err).Error("Database error during notification deletion")
		return ErrInternalServer
	}

	logCtx.Info("Notification deleted")
	return nil
}

// PruneOlderThan 删除早于给定保留期的所有通知，返回删除的行数。
// 由周期清理任务调用。
func (s *NotificationService) PruneOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	deleted, err := s.notificationRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		logrus.WithError(err).Error("Database error pruning notifications")
		return 0, ErrInternalServer
	}
	if deleted > 0 {
		logrus.WithFields(logrus.Fields{"deleted": deleted, "cutoff": cutoff.Format(time.RFC3339)}).
			Info("Old notifications pruned")
	}
	return deleted, nil
}
