package domain

import "time"

// Feedback 表示用户提交的一条自由文本反馈。
type Feedback struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"` // 提交者的用户 ID
	Content   string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
