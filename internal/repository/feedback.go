package repository

import (
	"context"

	"taskboard/internal/domain"
)

// FeedbackRepository 定义了用户反馈的存储操作。
type FeedbackRepository interface {
	// Save 保存一条反馈。
	Save(ctx context.Context, feedback *domain.Feedback) error
}
