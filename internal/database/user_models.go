// Package database 定义了用户相关的数据库模型
package database

import (
	"time"

	"gorm.io/gorm"
)

// User 用户模型
// 用户名和邮箱均全局唯一，密码只保存bcrypt哈希
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                       // 主键ID，自增
	Username     string         `gorm:"uniqueIndex;not null;size:150" json:"username"` // 登录用户名
	Email        string         `gorm:"uniqueIndex;not null;size:254" json:"email"` // 邮箱，注册时校验唯一性
	PasswordHash string         `gorm:"not null;size:100" json:"-"`                 // bcrypt密码哈希
	CreatedAt    time.Time      `json:"created_at"`                                 // 注册时间
	UpdatedAt    time.Time      `json:"updated_at"`                                 // 记录最后更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                             // 软删除时间戳
}

// TableName 指定User模型对应的数据库表名
func (User) TableName() string {
	return "users"
}
