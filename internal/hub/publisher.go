package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"taskboard/internal/domain"
)

// NotificationPush 是通知频道上传递的消息格式。
type NotificationPush struct {
	UserID    uint      `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// notificationChannel 返回通知推送使用的 Redis 频道名
func notificationChannel(keyPrefix string) string {
	return keyPrefix + "notifications"
}

// NotificationPublisher 把新产生的通知发布到 Redis 频道，
// 由 Hub 订阅后推送给在线客户端。发布是尽力而为的：
// 通知已经持久化，掉线用户下次拉取列表时仍能看到。
type NotificationPublisher struct {
	rdb       *redis.Client
	keyPrefix string
}

// NewNotificationPublisher 创建 NotificationPublisher 实例
func NewNotificationPublisher(rdb *redis.Client, keyPrefix string) *NotificationPublisher {
	if rdb == nil {
		panic("redis client cannot be nil for NotificationPublisher")
	}
	if keyPrefix == "" {
		keyPrefix = "tb:"
	}
	return &NotificationPublisher{rdb: rdb, keyPrefix: keyPrefix}
}

// Publish 将一条通知发布到推送频道
func (p *NotificationPublisher) Publish(ctx context.Context, n domain.Notification) error {
	push := NotificationPush{
		UserID:    n.UserID,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
	}
	payload, err := json.Marshal(push)
	if err != nil {
		return fmt.Errorf("marshal notification push: %w", err)
	}
	if err := p.rdb.Publish(ctx, notificationChannel(p.keyPrefix), payload).Err(); err != nil {
		return fmt.Errorf("publish notification push: %w", err)
	}
	return nil
}
