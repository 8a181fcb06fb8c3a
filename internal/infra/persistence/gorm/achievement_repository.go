package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"taskboard/internal/domain"
	"taskboard/internal/repository"
)

// GormAchievementRepository 是 AchievementRepository 接口的 GORM 实现
type GormAchievementRepository struct {
	db *gorm.DB
}

// NewGormAchievementRepository 创建 GormAchievementRepository 实例
func NewGormAchievementRepository(db *gorm.DB) *GormAchievementRepository {
	if db == nil {
		panic("database connection cannot be nil for GormAchievementRepository")
	}
	return &GormAchievementRepository{db: db}
}

// ListDefinitions 返回完整的成就目录，按 ID 升序
func (r *GormAchievementRepository) ListDefinitions(ctx context.Context) ([]domain.Achievement, error) {
	var definitions []domain.Achievement
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&definitions).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list achievement definitions: %w", err)
	}
	return definitions, nil
}

// ListUnlocksByUser 返回指定用户已有的全部解锁记录
func (r *GormAchievementRepository) ListUnlocksByUser(ctx context.Context, userID uint) ([]domain.AchievementUnlock, error) {
	var unlocks []domain.AchievementUnlock
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&unlocks).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list achievement unlocks for user %d: %w", userID, err)
	}
	return unlocks, nil
}

// CommitUnlocks 在单个事务中持久化解锁记录和通知。
// 任何一条写入失败都会回滚整个事务，不会留下部分解锁。
func (r *GormAchievementRepository) CommitUnlocks(ctx context.Context, unlocks []domain.AchievementUnlock, notifications []domain.Notification) error {
	if len(unlocks) == 0 && len(notifications) == 0 {
		return nil // 没有要提交的内容
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range unlocks {
			if err := tx.Create(&unlocks[i]).Error; err != nil {
				// (user_id, achievement_id) 唯一索引冲突：并发评估的竞争者已经解锁
				if isDuplicateEntryError(err) {
					return repository.ErrDuplicateEntry
				}
				return fmt.Errorf("create unlock (user: %d, achievement: %d): %w",
					unlocks[i].UserID, unlocks[i].AchievementID, err)
			}
		}
		for i := range notifications {
			if err := tx.Create(&notifications[i]).Error; err != nil {
				return fmt.Errorf("create notification (owner: %d): %w", notifications[i].UserID, err)
			}
		}
		return nil
	})
	if err != nil {
		if err == repository.ErrDuplicateEntry {
			return err
		}
		return fmt.Errorf("gorm: commit unlocks: %w", err)
	}
	return nil
}
