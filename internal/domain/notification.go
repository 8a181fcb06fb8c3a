package domain

import "time"

// Notification 表示推送给某个用户的一条消息。
// 由成就评估器等生产者创建，只能由所有者删除。
type Notification struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"` // 消息所有者的用户 ID
	Content   string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"` // 创建时间，周期清理任务按它过滤
}
