package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"taskboard/internal/domain"
	"taskboard/internal/hub"
	"taskboard/internal/service"
	"taskboard/internal/tasks"
)

// AchievementEvaluationHandler 处理后台成就评估任务。
// 评估在服务层是幂等的，Asynq 的重试不会造成重复解锁。
type AchievementEvaluationHandler struct {
	achievementService *service.AchievementService
	publisher          *hub.NotificationPublisher
}

// NewAchievementEvaluationHandler 创建 Handler 实例
func NewAchievementEvaluationHandler(achievementService *service.AchievementService, publisher *hub.NotificationPublisher) *AchievementEvaluationHandler {
	if achievementService == nil {
		panic("AchievementService cannot be nil for AchievementEvaluationHandler")
	}
	if publisher == nil {
		panic("NotificationPublisher cannot be nil for AchievementEvaluationHandler")
	}
	return &AchievementEvaluationHandler{
		achievementService: achievementService,
		publisher:          publisher,
	}
}

// ProcessTask 实现 asynq.Handler 接口
func (h *AchievementEvaluationHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	taskID := ""
	if rw := t.ResultWriter(); rw != nil {
		taskID = rw.TaskID()
	}
	logCtx := logrus.WithFields(logrus.Fields{
		"task_id":   taskID,
		"task_type": t.Type(),
	})

	var payload tasks.AchievementEvaluationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal task payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	logCtx = logCtx.WithField("user_id", payload.UserID)
	logCtx.Debug("Processing achievement evaluation task...")

	events, err := h.achievementService.Evaluate(ctx, payload.UserID)
	if err != nil {
		logCtx.WithError(err).Error("Achievement evaluation failed")
		return fmt.Errorf("evaluate achievements for user %d: %w", payload.UserID, err)
	}

	// 把新解锁推送给在线客户端。通知已经随解锁事务落库，
	// 推送失败只影响实时性，不重试整个任务。
	for _, event := range events {
		notification := domain.Notification{
			UserID:    payload.UserID,
			Content:   "Achievement unlocked!",
			CreatedAt: event.UnlockedAt,
		}
		if err := h.publisher.Publish(ctx, notification); err != nil {
			logCtx.WithError(err).WithField("achievement_id", event.Achievement.ID).
				Warn("Failed to publish unlock notification push")
		}
	}

	logCtx.WithField("new_unlocks", len(events)).Info("Achievement evaluation task processed")
	return nil
}
