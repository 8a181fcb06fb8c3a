package service

import (
	"context"

	"taskboard/internal/domain"
	"taskboard/internal/repository"

	"github.com/sirupsen/logrus"
)

// FeedbackService 负责用户反馈提交的业务逻辑。
type FeedbackService struct {
	feedbackRepo repository.FeedbackRepository
}

// NewFeedbackService 创建 FeedbackService 实例。
func NewFeedbackService(feedbackRepo repository.FeedbackRepository) *FeedbackService {
	if feedbackRepo == nil {
		panic("FeedbackRepository cannot be nil for FeedbackService")
	}
	return &FeedbackService{feedbackRepo: feedbackRepo}
}

// Submit 保存指定用户提交的一条自由文本反馈。
func (s *FeedbackService) Submit(ctx context.Context, userID uint, content string) (*domain.Feedback, error) {
	logCtx := logrus.WithField("user_id", userID)

	if content == "" {
		return nil, ErrInvalidInput
	}

	feedback := &domain.Feedback{
		UserID:  userID,
		Content: content,
	}
	if err := s.feedbackRepo.Save(ctx, feedback); err != nil {
		logCtx.WithError(err).Error("Database error saving feedback")
		return nil, ErrInternalServer
	}

	logCtx.WithField("feedback_id", feedback.ID).Info("Feedback submitted")
	return feedback, nil
}
