// Package tasks 定义后台任务的类型常量和 payload 结构。
package tasks

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

// 定义任务类型常量
const (
	TypeAchievementEvaluation = "achievement:evaluate" // 成就评估任务类型
	TypeNotificationPrune     = "notification:prune"   // 通知清理任务类型（周期）
)

// AchievementEvaluationPayload 定义了成就评估任务的数据结构
type AchievementEvaluationPayload struct {
	UserID uint `json:"user_id"`
}

// NewAchievementEvaluationTask 创建成就评估任务的 payload 字节
func NewAchievementEvaluationTask(userID uint) ([]byte, error) {
	payload := AchievementEvaluationPayload{UserID: userID}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return payloadBytes, nil
}

// NewNotificationPruneTask 创建通知清理任务的 payload 字节。
// 清理参数来自 Worker 配置，payload 本身为空对象。
func NewNotificationPruneTask() ([]byte, error) {
	return json.Marshal(struct{}{})
}

// Enqueuer 封装 Asynq Client，向任务队列提交任务。
// 它实现了 service.AchievementEnqueuer。
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer 创建 Enqueuer 实例
func NewEnqueuer(client *asynq.Client) *Enqueuer {
	if client == nil {
		panic("asynq client cannot be nil for Enqueuer")
	}
	return &Enqueuer{client: client}
}

// EnqueueAchievementEvaluation 将指定用户的成就评估任务入队。
// 同一用户的重复入队是无害的：评估本身是幂等的。
func (e *Enqueuer) EnqueueAchievementEvaluation(ctx context.Context, userID uint) error {
	payload, err := NewAchievementEvaluationTask(userID)
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeAchievementEvaluation, payload)
	_, err = e.client.EnqueueContext(ctx, task, asynq.Queue("default"))
	return err
}
