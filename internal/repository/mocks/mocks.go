// Package mocks 提供 repository 接口的 testify Mock 实现，供服务层测试使用。
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"taskboard/internal/domain"
)

// UserRepository 是 repository.UserRepository 的 Mock 实现
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *UserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	args := m.Called(ctx, id)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *UserRepository) Save(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// SessionRepository 是 repository.SessionRepository 的 Mock 实现
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Put(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error {
	args := m.Called(ctx, sessionID, userID, ttl)
	return args.Error(0)
}

func (m *SessionRepository) Get(ctx context.Context, sessionID string) (uint, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(uint), args.Error(1)
}

func (m *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// TaskRepository 是 repository.TaskRepository 的 Mock 实现
type TaskRepository struct {
	mock.Mock
}

func (m *TaskRepository) FindByOwner(ctx context.Context, ownerID uint) ([]domain.Task, error) {
	args := m.Called(ctx, ownerID)
	var tasks []domain.Task
	if args.Get(0) != nil {
		tasks = args.Get(0).([]domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *TaskRepository) FindByID(ctx context.Context, id uint, ownerID uint) (*domain.Task, error) {
	args := m.Called(ctx, id, ownerID)
	var task *domain.Task
	if args.Get(0) != nil {
		task = args.Get(0).(*domain.Task)
	}
	return task, args.Error(1)
}

func (m *TaskRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TaskRepository) Save(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *TaskRepository) Delete(ctx context.Context, id uint, ownerID uint) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

// NotificationRepository 是 repository.NotificationRepository 的 Mock 实现
type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) FindByOwner(ctx context.Context, ownerID uint) ([]domain.Notification, error) {
	args := m.Called(ctx, ownerID)
	var notifications []domain.Notification
	if args.Get(0) != nil {
		notifications = args.Get(0).([]domain.Notification)
	}
	return notifications, args.Error(1)
}

func (m *NotificationRepository) Save(ctx context.Context, notification *domain.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *NotificationRepository) Delete(ctx context.Context, id uint, ownerID uint) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *NotificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// AchievementRepository 是 repository.AchievementRepository 的 Mock 实现
type AchievementRepository struct {
	mock.Mock
}

func (m *AchievementRepository) ListDefinitions(ctx context.Context) ([]domain.Achievement, error) {
	args := m.Called(ctx)
	var definitions []domain.Achievement
	if args.Get(0) != nil {
		definitions = args.Get(0).([]domain.Achievement)
	}
	return definitions, args.Error(1)
}

func (m *AchievementRepository) ListUnlocksByUser(ctx context.Context, userID uint) ([]domain.AchievementUnlock, error) {
	args := m.Called(ctx, userID)
	var unlocks []domain.AchievementUnlock
	if args.Get(0) != nil {
		unlocks = args.Get(0).([]domain.AchievementUnlock)
	}
	return unlocks, args.Error(1)
}

func (m *AchievementRepository) CommitUnlocks(ctx context.Context, unlocks []domain.AchievementUnlock, notifications []domain.Notification) error {
	args := m.Called(ctx, unlocks, notifications)
	return args.Error(0)
}

// FeedbackRepository 是 repository.FeedbackRepository 的 Mock 实现
type FeedbackRepository struct {
	mock.Mock
}

func (m *FeedbackRepository) Save(ctx context.Context, feedback *domain.Feedback) error {
	args := m.Called(ctx, feedback)
	return args.Error(0)
}

// AchievementEnqueuer 是 service.AchievementEnqueuer 的 Mock 实现
type AchievementEnqueuer struct {
	mock.Mock
}

func (m *AchievementEnqueuer) EnqueueAchievementEvaluation(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
