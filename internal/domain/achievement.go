package domain

import "time"

// Achievement 表示成就目录中的一条定义。
// 目录是固定的，在数据库迁移时播种，运行期只读。
type Achievement struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"type:varchar(191);not null"`
	Description string    `gorm:"type:varchar(255)"`
	Threshold   int       `gorm:"not null"` // 解锁所需的任务总数
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// AchievementUnlock 记录某个用户解锁了某个成就。
// (UserID, AchievementID) 上的唯一索引保证同一成就不会被重复解锁，
// 并发评估时后到的插入会因约束冲突而回滚。
type AchievementUnlock struct {
	ID            uint      `gorm:"primaryKey"`
	UserID        uint      `gorm:"uniqueIndex:idx_user_achievement;not null"`
	AchievementID uint      `gorm:"uniqueIndex:idx_user_achievement;not null"`
	UnlockedAt    time.Time `gorm:"autoCreateTime"`
}

// UnlockEvent 表示一次评估中新解锁的成就，返回给调用方用于展示。
type UnlockEvent struct {
	Achievement Achievement `json:"achievement"`
	UnlockedAt  time.Time   `json:"unlocked_at"`
}

// AchievementStatus 是目录展示用的视图：定义加上当前用户的解锁状态。
type AchievementStatus struct {
	Achievement Achievement `json:"achievement"`
	Unlocked    bool        `json:"unlocked"`
}
