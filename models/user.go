package models

import (
	"time"
)

// User 用户模型
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;size:255;not null"`
	Password  string    `json:"-" gorm:"size:255;not null"`
	Email     *string   `json:"email" gorm:"size:100"` // 可选，用于接收导出邮件
	CreatedAt time.Time `json:"created_at"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}

// HasEmail 是否登记了邮箱
func (u *User) HasEmail() bool {
	return u.Email != nil && *u.Email != ""
}
