package service

import (
	"context"
	"errors"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/repository"

	"github.com/sirupsen/logrus"
)

// dueDateLayout 是表单提交截止日期使用的格式 (YYYY-MM-DD)。
const dueDateLayout = "2006-01-02"

// AchievementEnqueuer 是任务服务对后台评估队列的依赖。
// 任务数量变化后入队一次成就评估；入队失败只记日志，不影响任务操作本身。
type AchievementEnqueuer interface {
	EnqueueAchievementEvaluation(ctx context.Context, userID uint) error
}

// TaskService 负责任务 CRUD 的业务逻辑。
type TaskService struct {
	taskRepo repository.TaskRepository
	enqueuer AchievementEnqueuer
}

// NewTaskService 创建 TaskService 实例。
func NewTaskService(taskRepo repository.TaskRepository, enqueuer AchievementEnqueuer) *TaskService {
	if taskRepo == nil {
		panic("TaskRepository cannot be nil for TaskService")
	}
	if enqueuer == nil {
		panic("AchievementEnqueuer cannot be nil for TaskService")
	}
	return &TaskService{
		taskRepo: taskRepo,
		enqueuer: enqueuer,
	}
}

// Create 为指定用户创建一个任务。dueDate 以 YYYY-MM-DD 提交。
func (s *TaskService) Create(ctx context.Context, userID uint, name, description, dueDate string) (*domain.Task, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "task_name": name})

	if name == "" {
		return nil, ErrInvalidInput
	}
	due, err := parseDueDate(dueDate)
	if err != nil {
		logCtx.WithError(err).Warn("Task creation failed: Invalid due date")
		return nil, ErrInvalidInput
	}

	task := &domain.Task{
		UserID:      userID,
		Name:        name,
		Description: description,
		DueDate:     due,
	}
	if err := s.taskRepo.Save(ctx, task); err != nil {
		logCtx.WithError(err).Error("Database error during task creation")
		return nil, ErrInternalServer
	}

	logCtx.WithField("task_id", task.ID).Info("Task created")
	s.enqueueEvaluation(ctx, userID)
	return task, nil
}

// List 返回指定用户的全部任务，按创建时间升序。
func (s *TaskService) List(ctx context.Context, userID uint) ([]domain.Task, error) {
	tasks, err := s.taskRepo.FindByOwner(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Database error listing tasks")
		return nil, ErrInternalServer
	}
	return tasks, nil
}

// Get 返回属于指定用户的单个任务。
func (s *TaskService) Get(ctx context.Context, userID, taskID uint) (*domain.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		logrus.WithError(err).WithFields(logrus.Fields{"user_id": userID, "task_id": taskID}).
			Error("Database error finding task")
		return nil, ErrInternalServer
	}
	return task, nil
}

// Update 修改属于指定用户的任务。
func (s *TaskService) Update(ctx context.Context, userID, taskID uint, name, description, dueDate string) (*domain.Task, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "task_id": taskID})

	if name == "" {
		return nil, ErrInvalidInput
	}
	due, err := parseDueDate(dueDate)
	if err != nil {
		logCtx.WithError(err).Warn("Task update failed: Invalid due date")
		return nil, ErrInvalidInput
	}

	task, err := s.taskRepo.FindByID(ctx, taskID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		logCtx.WithError(err).Error("Database error finding task for update")
		return nil, ErrInternalServer
	}

	task.Name = name
	task.Description = description
	task.DueDate = due
	if err := s.taskRepo.Save(ctx, task); err != nil {
		logCtx.WithError(err).Error("Database error saving updated task")
		return nil, ErrInternalServer
	}

	logCtx.Info("Task updated")
	return task, nil
}

// Delete 删除属于指定用户的任务。
func (s *TaskService) Delete(ctx context.Context, userID, taskID uint) error {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "task_id": taskID})

	err := s.taskRepo.Delete(ctx, taskID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			logCtx.Warn("Task deletion failed: Not found")
			return ErrTaskNotFound
		}
		logCtx.WithError(err).Error("Database error during task deletion")
		return ErrInternalServer
	}

	logCtx.Info("Task deleted")
	s.enqueueEvaluation(ctx, userID)
	return nil
}

// enqueueEvaluation 请求一次后台成就评估。
// 失败不向上传播：任务写入已经成功，下一次 GET /achievements 会补上评估。
func (s *TaskService) enqueueEvaluation(ctx context.Context, userID uint) {
	if err := s.enqueuer.EnqueueAchievementEvaluation(ctx, userID); err != nil {
		logrus.WithError(err).WithField("user_id", userID).
			Error("Failed to enqueue achievement evaluation")
	}
}

// parseDueDate 解析 YYYY-MM-DD 格式的截止日期
func parseDueDate(dueDate string) (time.Time, error) {
	return time.Parse(dueDateLayout, dueDate)
}
