package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/repository"
	"taskboard/internal/repository/mocks"
	"taskboard/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// testDefinitions 返回按 ID 升序排列的成就目录样本
func testDefinitions() []domain.Achievement {
	return []domain.Achievement{
		{ID: 1, Name: "First Steps", Threshold: 1},
		{ID: 2, Name: "Getting Things Done", Threshold: 5},
		{ID: 3, Name: "Task Master", Threshold: 10},
	}
}

func TestAchievementService_Evaluate_UnlocksReachedThresholds(t *testing.T) {
	// Arrange: 用户有 5 个任务，阈值 1 和 5 应解锁，阈值 10 保持锁定
	mockAchievementRepo := new(mocks.AchievementRepository)
	mockTaskRepo := new(mocks.TaskRepository)
	achievementService := service.NewAchievementService(mockAchievementRepo, mockTaskRepo)
	ctx := context.Background()
	userID := uint(1)

	mockTaskRepo.On("CountByOwner", ctx, userID).Return(int64(5), nil).Once()
	mockAchievementRepo.On("ListDefinitions", ctx).Return(testDefinitions(), nil).Once()
	mockAchievementRepo.On("ListUnlocksByUser", ctx, userID).Return([]domain.AchievementUnlock{}, nil).Once()

	// 解锁记录和通知应在同一次提交中成对出现
	mockAchievementRepo.On("CommitUnlocks", ctx,
		mock.MatchedBy(func(unlocks []domain.AchievementUnlock) bool {
			if len(unlocks) != 2 {
				return false
			}
			assert.Equal(t, uint(1), unlocks[0].AchievementID)
			assert.Equal(t, uint(2), unlocks[1].AchievementID)
			assert.Equal(t, userID, unlocks[0].UserID)
			return true
		}),
		mock.MatchedBy(func(notifications []domain.Notification) bool {
			if len(notifications) != 2 {
				return false
			}
			for _, n := range notifications {
				assert.Equal(t, userID, n.UserID)
				assert.Equal(t, "Achievement unlocked!", n.Content)
			}
			return true
		}),
	).Return(nil).Once()

	// Act
	events, err := achievementService.Evaluate(ctx, userID)

	// Assert: 新解锁按目录顺序返回
	assert.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "First Steps", events[0].Achievement.Name)
	assert.Equal(t, "Getting Things Done", events[1].Achievement.Name)

	mockAchievementRepo.AssertExpectations(t)
	mockTaskRepo.AssertExpectations(t)
}

func TestAchievementService_Evaluate_AlreadyUnlocked_Idempotent(t *testing.T) {
	// Arrange: 阈值 1 和 5 已解锁，重复评估不应产生任何新解锁或通知
	mockAchievementRepo := new(mocks.AchievementRepository)
	mockTaskRepo := new(mocks.TaskRepository)
	achievementService := service.NewAchievementService(mockAchievementRepo, mockTaskRepo)
	ctx := context.Background()
	userID := uint(1)

	existing := []domain.AchievementUnlock{
		{ID: 1, UserID: userID, AchievementID: 1},
		{ID: 2, UserID: userID, AchievementID: 2},
	}
	mockTaskRepo.On("CountByOwner", ctx, userID).Return(int64(5), nil).Once()
	mockAchievementRepo.On("ListDefinitions", ctx).Return(testDefinitions(), nil).Once()
	mockAchievementRepo.On("ListUnlocksByUser", ctx, userID).Return(existing, nil).Once()

	// Act
	events, err := achievementService.Evaluate(ctx, userID)

	// Assert
	assert.NoError(t, err)
	assert.Empty(t, events, "重复评估不应返回新解锁")

	mockAchievementRepo.AssertExpectations(t)
	mockAchievementRepo.AssertNotCalled(t, "CommitUnlocks", mock.Anything, mock.Anything, mock.Anything)
}

func TestAchievementService_Evaluate_NoTasks_NothingUnlocks(t *testing.T) {
	// Arrange: 没有任务时任何阈值都不满足
	mockAchievementRepo := new(mocks.AchievementRepository)
	mockTaskRepo := new(mocks.TaskRepository)
	achievementService := service.NewAchievementService(mockAchievementRepo, mockTaskRepo)
	ctx := context.Background()
	userID := uint(2)

	mockTaskRepo.On("CountByOwner", ctx, userID).Return(int64(0), nil).Once()
	mockAchievementRepo.On("ListDefinitions", ctx).Return(testDefinitions(), nil).Once()
	mockAchievementRepo.On("ListUnlocksByUser", ctx, userID).Return([]domain.AchievementUnlock{}, nil).Once()

	// Act
	events, err := achievementService.Evaluate(ctx, userID)

	// Assert
	assert.NoError(t, err)
	assert.Empty(t, events)
	mockAchievementRepo.AssertNotCalled(t, "CommitUnlocks", mock.Anything, mock.Anything, mock.Anything)
}

func TestAchievementService_Evaluate_CommitFails_NoPartialResult(t *testing.T) {
	// Arrange: 事务提交失败时不应返回任何解锁事件
	mockAchievementRepo := new(mocks.AchievementRepository)
	mockTaskRepo := new(mocks.TaskRepository)
	achievementService := service.NewAchievementService(mockAchievementRepo, mockTaskRepo)
	ctx := context.Background()
	userID := uint(1)

	mockTaskRepo.On("CountByOwner", ctx, userID).Return(int64(1), nil).Once()
	mockAchievementRepo.On("ListDefinitions", ctx).Return(testDefinitions(), nil).Once()
	mockAchievementRepo.On("ListUnlocksByUser", ctx, userID).Return([]domain.AchievementUnlock{}, nil).Once()
	mockAchievementRepo.On("CommitUnlocks", ctx, mock.Anything, mock.Anything).
		Return(errors.New("mock db connection error")).
		Once()

	// Act
	events, err := achievementService.Evaluate(ctx, userID)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInternalServer))
	assert.Empty(t, events)
}

func TestAchievementService_Evaluate_ConcurrentRacerWins(t *testing.T) {
	// Arrange: 并发评估中另一方先提交，唯一约束冲突不算失败，
	// 也不得补发通知（返回零事件）
	mockAchievementRepo := new(mocks.AchievementRepository)
	mockTaskRepo := new(mocks.TaskRepository)
	achievementService := service.NewAchievementService(mockAchievementRepo, mockTaskRepo)
	ctx := context.Background()
	userID := uint(1)

	mockTaskRepo.On("CountByOwner", ctx, userID).Return(int64(1), nil).Once()
	mockAchievementRepo.On("ListDefinitions", ctx).Return(testDefinitions(), nil).Once()
	mockAchievementRepo.On("ListUnlocksByUser", ctx, userID).Return([]domain.AchievementUnlock{}, nil).Once()
	mockAchievementRepo.On("CommitUnlocks", ctx, mock.Anything, mock.Anything).
		Return(repository.ErrDuplicateEntry).
		Once()

	// Act
	events, err := achievementService.Evaluate(ctx, userID)

	// Assert
	assert.NoError(t, err, "竞争失败方不应把冲突当作错误")
	assert.Empty(t, events)
}

func TestAchievementService_Catalog(t *testing.T) {
	// Arrange: 目录应返回全部定义并标注当前用户的解锁状态
	mockAchievementRepo := new(mocks.AchievementRepository)
	mockTaskRepo := new(mocks.TaskRepository)
	achievementService := service.NewAchievementService(mockAchievementRepo, mockTaskRepo)
	ctx := context.Background()
	userID := uint(1)

	existing := []domain.AchievementUnlock{
		{ID: 1, UserID: userID, AchievementID: 1, UnlockedAt: time.Now()},
	}
	mockAchievementRepo.On("ListDefinitions", ctx).Return(testDefinitions(), nil).Once()
	mockAchievementRepo.On("ListUnlocksByUser", ctx, userID).Return(existing, nil).Once()

	// Act
	statuses, err := achievementService.Catalog(ctx, userID)

	// Assert
	assert.NoError(t, err)
	require.Len(t, statuses, 3)
	assert.True(t, statuses[0].Unlocked)
	assert.False(t, statuses[1].Unlocked)
	assert.False(t, statuses[2].Unlocked)
	assert.Equal(t, "Task Master", statuses[2].Achievement.Name)

	mockAchievementRepo.AssertExpectations(t)
}
