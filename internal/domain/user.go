// Package domain 定义了应用程序中使用的数据结构 (数据库模型)。
package domain

import "time"

// User 表示应用程序中的用户。
type User struct {
	ID           uint      `gorm:"primaryKey"` // 用户唯一标识符 (主键)
	Username     string    `gorm:"type:varchar(191);uniqueIndex:idx_username;not null"`
	PasswordHash string    `gorm:"type:text;not null"` // 存储的是哈希后的密码，绝不存明文
	Email        string    `gorm:"type:varchar(191);not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"` // 用户记录创建时间 (GORM 自动填充)
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Credential 返回用于校验的密码哈希。
// User 通过实现该方法满足认证层的 HasCredential 能力接口。
func (u *User) Credential() string {
	return u.PasswordHash
}

// HasCredential 是认证层依赖的能力接口：任何携带一次性哈希凭据的实体。
type HasCredential interface {
	Credential() string
}
