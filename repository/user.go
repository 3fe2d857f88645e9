package repository

import (
	"context"

	"expensetracker/apperr"
	"expensetracker/models"

	"gorm.io/gorm"
)

// 用户表不属于任何作用域，仅供认证使用

// CreateUser 注册新用户，用户名重复返回 DuplicateName
func CreateUser(ctx context.Context, db *gorm.DB, u *models.User) error {
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		if isDuplicateKey(err) {
			return apperr.DuplicateName("用户名已存在")
		}
		return classify(err, "创建用户失败")
	}
	return nil
}

// FindUserByUsername 按用户名查找
func FindUserByUsername(ctx context.Context, db *gorm.DB, username string) (*models.User, error) {
	return findUser(db.WithContext(ctx).Where("username = ?", username))
}

// GetUser 按 ID 查找
func GetUser(ctx context.Context, db *gorm.DB, id uint) (*models.User, error) {
	return findUser(db.WithContext(ctx).Where("id = ?", id))
}

func findUser(q *gorm.DB) (*models.User, error) {
	var u models.User
	res := q.Limit(1).Find(&u)
	if res.Error != nil {
		return nil, classify(res.Error, "查询用户失败")
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("用户不存在")
	}
	return &u, nil
}
