package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"taskboard/internal/domain"
	"taskboard/internal/repository"
)

// GormTaskRepository 是 TaskRepository 接口的 GORM 实现
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository 创建 GormTaskRepository 实例
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	if db == nil {
		panic("database connection cannot be nil for GormTaskRepository")
	}
	return &GormTaskRepository{db: db}
}

// FindByOwner 返回指定用户的全部任务，按创建时间升序
func (r *GormTaskRepository) FindByOwner(ctx context.Context, ownerID uint) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find tasks for owner %d: %w", ownerID, err)
	}
	return tasks, nil
}

// FindByID 查找属于 ownerID 的指定任务
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint, ownerID uint) (*domain.Task, error) {
	var task domain.Task
	// 所有者过滤直接进查询条件：别人的任务和不存在的任务表现一致
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTaskNotFound
		}
		return nil, fmt.Errorf("gorm: find task %d for owner %d: %w", id, ownerID, err)
	}
	return &task, nil
}

// CountByOwner 返回指定用户拥有的任务总数
func (r *GormTaskRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("user_id = ?", ownerID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("gorm: count tasks for owner %d: %w", ownerID, err)
	}
	return count, nil
}

// Save 保存任务（基于 ID 创建或更新）
func (r *GormTaskRepository) Save(ctx context.Context, task *domain.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("gorm: save task (id: %d, owner: %d): %w", task.ID, task.UserID, err)
	}
	return nil
}

// Delete 删除属于 ownerID 的指定任务
func (r *GormTaskRepository) Delete(ctx context.Context, id uint, ownerID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&domain.Task{})
	if result.Error != nil {
		return fmt.Errorf("gorm: delete task %d for owner %d: %w", id, ownerID, result.Error)
	}
	// Delete 对不存在的行不报错，通过 RowsAffected 区分
	if result.RowsAffected == 0 {
		return repository.ErrTaskNotFound
	}
	return nil
}
