package repository

import (
	"context"

	"taskboard/internal/domain"
)

// TaskRepository 定义了任务数据的存储和检索操作。
// 所有读写都按所有者过滤：一个用户永远看不到、也删不掉别人的任务。
type TaskRepository interface {
	// FindByOwner 返回指定用户的全部任务，按创建时间升序排列。
	FindByOwner(ctx context.Context, ownerID uint) ([]domain.Task, error)

	// FindByID 查找属于 ownerID 的指定任务。
	// 任务不存在或属于其他用户时返回 repository.ErrTaskNotFound。
	FindByID(ctx context.Context, id uint, ownerID uint) (*domain.Task, error)

	// CountByOwner 返回指定用户拥有的任务总数（成就评估的输入）。
	CountByOwner(ctx context.Context, ownerID uint) (int64, error)

	// Save 保存任务（基于 ID 创建或更新）。
	Save(ctx context.Context, task *domain.Task) error

	// Delete 删除属于 ownerID 的指定任务。
	// 任务不存在或属于其他用户时返回 repository.ErrTaskNotFound。
	Delete(ctx context.Context, id uint, ownerID uint) error
}
