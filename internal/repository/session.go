package repository

import (
	"context"
	"time"
)

// SessionRepository 定义了活跃会话的存储操作，通常由 Redis 实现。
// 会话记录的存在即代表该会话仍然有效：登出删除记录，TTL 到期自动失效。
type SessionRepository interface {
	// Put 以给定 TTL 写入一条会话记录。
	Put(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error

	// Get 返回会话绑定的用户 ID。
	// 会话不存在（已登出或已过期）时返回 repository.ErrSessionNotFound。
	Get(ctx context.Context, sessionID string) (uint, error)

	// Delete 删除会话记录。删除不存在的会话不是错误（幂等）。
	Delete(ctx context.Context, sessionID string) error
}
