package domain

import "time"

// Task 表示一个待办任务，归属于唯一的用户。
type Task struct {
	ID          uint      `gorm:"primaryKey"`     // 任务唯一标识符 (主键)
	UserID      uint      `gorm:"index;not null"` // 任务所有者的用户 ID (逻辑外键关联到 User.ID)
	Name        string    `gorm:"type:varchar(191);not null"`
	Description string    `gorm:"type:text"`
	DueDate     time.Time `gorm:"index"`          // 截止日期，表单以 YYYY-MM-DD 提交
	CreatedAt   time.Time `gorm:"autoCreateTime"` // 任务创建时间 (GORM 自动填充)
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}
