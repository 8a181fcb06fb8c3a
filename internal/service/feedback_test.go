package service_test

import (
	"context"
	"errors"
	"testing"

	"taskboard/internal/domain"
	"taskboard/internal/repository/mocks"
	"taskboard/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFeedbackService_Submit_Success(t *testing.T) {
	// Arrange
	mockFeedbackRepo := new(mocks.FeedbackRepository)
	feedbackService := service.NewFeedbackService(mockFeedbackRepo)
	ctx := context.Background()

	mockFeedbackRepo.On("Save", ctx, mock.MatchedBy(func(feedback *domain.Feedback) bool {
		assert.Equal(t, uint(1), feedback.UserID)
		assert.Equal(t, "Great app!", feedback.Content)
		return true
	})).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Feedback).ID = 7
		}).
		Return(nil).
		Once()

	// Act
	feedback, err := feedbackService.Submit(ctx, 1, "Great app!")

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, feedback)
	assert.Equal(t, uint(7), feedback.ID)

	mockFeedbackRepo.AssertExpectations(t)
}

func TestFeedbackService_Submit_EmptyContent(t *testing.T) {
	// Arrange
	mockFeedbackRepo := new(mocks.FeedbackRepository)
	feedbackService := service.NewFeedbackService(mockFeedbackRepo)

	// Act
	_, err := feedbackService.Submit(context.Background(), 1, "")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInvalidInput))
	mockFeedbackRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestFeedbackService_Submit_DBError(t *testing.T) {
	// Arrange
	mockFeedbackRepo := new(mocks.FeedbackRepository)
	feedbackService := service.NewFeedbackService(mockFeedbackRepo)
	ctx := context.Background()

	mockFeedbackRepo.On("Save", ctx, mock.AnythingOfType("*domain.Feedback")).
		Return(errors.New("mock db connection error")).
		Once()

	// Act
	_, err := feedbackService.Submit(ctx, 1, "Great app!")

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInternalServer))
}
