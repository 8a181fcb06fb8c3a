package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"taskboard/internal/domain"
)

// GormFeedbackRepository 是 FeedbackRepository 接口的 GORM 实现
type GormFeedbackRepository struct {
	db *gorm.DB
}

// NewGormFeedbackRepository 创建 GormFeedbackRepository 实例
func NewGormFeedbackRepository(db *gorm.DB) *GormFeedbackRepository {
	if db == nil {
		panic("database connection cannot be nil for GormFeedbackRepository")
	}
	return &GormFeedbackRepository{db: db}
}

// Save 保存一条反馈
func (r *GormFeedbackRepository) Save(ctx context.Context, feedback *domain.Feedback) error {
	if err := r.db.WithContext(ctx).Save(feedback).Error; err != nil {
		return fmt.Errorf("gorm: save feedback (user: %d): %w", feedback.UserID, err)
	}
	return nil
}
