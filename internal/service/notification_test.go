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

func TestNotificationService_List(t *testing.T) {
	// Arrange
	mockNotificationRepo := new(mocks.NotificationRepository)
	notificationService := service.NewNotificationService(mockNotificationRepo)
	ctx := context.Background()
	userID := uint(1)

	stored := []domain.Notification{
		{ID: 2, UserID: userID, Content: "Achievement unlocked!"},
		{ID: 1, UserID: userID, Content: "Achievement unlocked!"},
	}
	mockNotificationRepo.On("FindByOwner", ctx, userID).Return(stored, nil).Once()

	// Act
	notifications, err := notificationService.List(ctx, userID)

	// Assert
	assert.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, uint(2), notifications[0].ID)

	mockNotificationRepo.AssertExpectations(t)
}

func TestNotificationService_Delete_NotFound(t *testing.T) {
	// Arrange: 删除别人的通知与删除不存在的通知一视同仁
	mockNotificationRepo := new(mocks.NotificationRepository)
	notificationService := service.NewNotificationService(mockNotificationRepo)
	ctx := context.Background()

	mockNotificationRepo.On("Delete", ctx, uint(99), uint(1)).
		Return(repository.ErrNotificationNotFound).
		Once()

	// Act
	err := notificationService.Delete(ctx, 1, 99)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrNotificationNotFound))
}

func TestNotificationService_Delete_Success(t *testing.T) {
	// Arrange
	mockNotificationRepo := new(mocks.NotificationRepository)
	notificationService := service.NewNotificationService(mockNotificationRepo)
	ctx := context.Background()

	mockNotificationRepo.On("Delete", ctx, uint(2), uint(1)).Return(nil).Once()

	// Act & Assert
	assert.NoError(t, notificationService.Delete(ctx, 1, 2))
	mockNotificationRepo.AssertExpectations(t)
}

func TestNotificationService_PruneOlderThan(t *testing.T) {
	// Arrange: 截止时间应为当前时间减去保留期
	mockNotificationRepo := new(mocks.NotificationRepository)
	notificationService := service.NewNotificationService(mockNotificationRepo)
	ctx := context.Background()
	retention := 30 * 24 * time.Hour

	mockNotificationRepo.On("DeleteOlderThan", ctx, mock.MatchedBy(func(cutoff time.Time) bool {
		expected := time.Now().Add(-retention)
		return cutoff.Sub(expected).Abs() < time.Minute
	})).Return(int64(4), nil).Once()

	// Act
	deleted, err := notificationService.PruneOlderThan(ctx, retention)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, int64(4), deleted)

	mockNotificationRepo.AssertExpectations(t)
}

func TestNotificationService_PruneOlderThan_DBError(t *testing.T) {
	// Arrange
	mockNotificationRepo := new(mocks.NotificationRepository)
	notificationService := service.NewNotificationService(mockNotificationRepo)
	ctx := context.Background()

	mockNotificationRepo.On("DeleteOlderThan", ctx, mock.AnythingOfType("time.Time")).
		Return(int64(0), errors.New("mock db connection error")).
		Once()

	// Act
	deleted, err := notificationService.PruneOlderThan(ctx, time.Hour)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInternalServer))
	assert.Zero(t, deleted)
}
