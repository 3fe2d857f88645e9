// Package repository 按用户隔离的数据访问层
//
// 所有类别、消费记录及汇总查询都必须经由 Scope 发出，Scope 在每条语句上附加
// user_id 条件，调用方无法绕过归属过滤。
package repository

import (
	"context"

	"gorm.io/gorm"
)

// Scope 绑定到单个用户的数据访问入口
type Scope struct {
	db     *gorm.DB
	userID uint
}

// For 创建用户作用域，ctx 用于取消和连接等待超时
func For(ctx context.Context, db *gorm.DB, userID uint) *Scope {
	return &Scope{db: db.WithContext(ctx), userID: userID}
}

// UserID 作用域所属用户
func (s *Scope) UserID() uint {
	return s.userID
}

// owned 以 model 对应的表为基础，附加归属条件
func (s *Scope) owned(model interface{}) *gorm.DB {
	return s.db.Model(model).Where("user_id = ?", s.userID)
}
