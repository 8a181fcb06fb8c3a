package repository

import (
	"context"

	"taskboard/internal/domain"
)

// AchievementRepository 定义了成就目录和解锁记录的存储操作。
type AchievementRepository interface {
	// ListDefinitions 返回完整的成就目录，按 ID 升序排列。
	// 评估顺序的确定性依赖这里的排序。
	ListDefinitions(ctx context.Context) ([]domain.Achievement, error)

	// ListUnlocksByUser 返回指定用户已有的全部解锁记录。
	ListUnlocksByUser(ctx context.Context, userID uint) ([]domain.AchievementUnlock, error)

	// CommitUnlocks 在单个事务中持久化一批解锁记录及其对应的通知。
	// 全部成功或全部回滚：任何一条写入失败都不会留下部分解锁。
	// 唯一索引冲突（并发评估的竞争者）返回 repository.ErrDuplicateEntry。
	CommitUnlocks(ctx context.Context, unlocks []domain.AchievementUnlock, notifications []domain.Notification) error
}
