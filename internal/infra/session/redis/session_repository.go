// Package redissession 提供 SessionRepository 接口的 Redis 实现。
package redissession

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"taskboard/internal/repository"
)

// RedisSessionRepository 是 SessionRepository 接口的 Redis 实现。
// 每个活跃会话对应一个带 TTL 的 key，value 是绑定的用户 ID。
// key 的存在即代表会话有效：登出删除 key，TTL 到期自动失效。
type RedisSessionRepository struct {
	client    *redis.Client // 依赖 Redis 客户端
	keyPrefix string        // Redis key 前缀，方便管理
}

// NewRedisSessionRepository 创建 RedisSessionRepository 实例
func NewRedisSessionRepository(client *redis.Client, keyPrefix string) *RedisSessionRepository {
	if client == nil {
		panic("redis client cannot be nil for RedisSessionRepository")
	}
	if keyPrefix == "" {
		keyPrefix = "tb:" // 默认前缀 "tb:" (taskboard)
	}
	return &RedisSessionRepository{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// --- Key Generation Helpers ---

func (r *RedisSessionRepository) sessionKey(sessionID string) string {
	return fmt.Sprintf("%ssession:%s", r.keyPrefix, sessionID)
}

// --- SessionRepository Interface Implementation ---

// Put 以给定 TTL 写入一条会话记录
func (r *RedisSessionRepository) Put(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error {
	key := r.sessionKey(sessionID)
	if err := r.client.Set(ctx, key, strconv.FormatUint(uint64(userID), 10), ttl).Err(); err != nil {
		return fmt.Errorf("redis: failed to store session %s: %w", sessionID, err)
	}
	return nil
}

// Get 返回会话绑定的用户 ID，会话不存在时返回 repository.ErrSessionNotFound
func (r *RedisSessionRepository) Get(ctx context.Context, sessionID string) (uint, error) {
	key := r.sessionKey(sessionID)
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// key 不存在：会话已登出或已过期
			return 0, repository.ErrSessionNotFound
		}
		return 0, fmt.Errorf("redis: failed to get session %s: %w", sessionID, err)
	}

	userID, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		// value 损坏，视为会话不可用
		return 0, fmt.Errorf("redis: corrupt session value for %s: %w", sessionID, err)
	}
	return uint(userID), nil
}

// Delete 删除会话记录。DEL 对不存在的 key 返回 0，不是错误（幂等）。
func (r *RedisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	key := r.sessionKey(sessionID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis: failed to delete session %s: %w", sessionID, err)
	}
	return nil
}
