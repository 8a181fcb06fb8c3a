package worker

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"taskboard/internal/service"
)

// NotificationPruneHandler 处理周期性的通知清理任务
type NotificationPruneHandler struct {
	notificationService *service.NotificationService
	retention           time.Duration
}

// NewNotificationPruneHandler 创建 Handler 实例
func NewNotificationPruneHandler(notificationService *service.NotificationService, retention time.Duration) *NotificationPruneHandler {
	if notificationService == nil {
		panic("NotificationService cannot be nil for NotificationPruneHandler")
	}
	if retention <= 0 {
		panic("retention must be positive for NotificationPruneHandler")
	}
	return &NotificationPruneHandler{
		notificationService: notificationService,
		retention:           retention,
	}
}

// ProcessTask 实现 asynq.Handler 接口
func (h *NotificationPruneHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	logCtx := logrus.WithField("task_type", t.Type())
	logCtx.Info("Processing periodic notification prune task...")

	// 使用带有超时的 context，避免任务卡死
	pruneCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	deleted, err := h.notificationService.PruneOlderThan(pruneCtx, h.retention)
	if err != nil {
		logCtx.WithError(err).Error("Notification prune failed")
		return err
	}

	logCtx.WithField("deleted", deleted).Info("Periodic notification prune task completed")
	return nil
}
