// Package service 类别、消费记录、统计与导出的业务逻辑
//
// 所有校验都在任何写语句之前完成，数据访问统一经由 repository.Scope。
package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"expensetracker/apperr"
	"expensetracker/models"
	"expensetracker/repository"

	"gorm.io/gorm"
)

// MaxCategoryNameLength 类别名称最大字符数，与 categories.name 列宽一致
const MaxCategoryNameLength = 255

// CategoryService 类别服务
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService 创建类别服务
func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// List 当前用户的全部类别
func (s *CategoryService) List(ctx context.Context, userID uint) ([]models.Category, error) {
	return repository.For(ctx, s.db, userID).ListCategories()
}

// Create 新建类别，同一用户下名称不可重复（区分大小写）
func (s *CategoryService) Create(ctx context.Context, userID uint, name string) (*models.Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	scope := repository.For(ctx, s.db, userID)
	taken, err := scope.CategoryNameTaken(name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.DuplicateName("类别名称已存在")
	}
	return scope.CreateCategory(name)
}

// Rename 修改类别名称，重名检查排除自身
func (s *CategoryService) Rename(ctx context.Context, userID, id uint, name string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}

	scope := repository.For(ctx, s.db, userID)
	taken, err := scope.CategoryNameTaken(name, id)
	if err != nil {
		return err
	}
	if taken {
		return apperr.DuplicateName("类别名称已存在")
	}
	return scope.RenameCategory(id, name)
}

// Delete 删除类别，关联的消费记录变为未分类
func (s *CategoryService) Delete(ctx context.Context, userID, id uint) error {
	return repository.For(ctx, s.db, userID).DeleteCategory(id)
}

// validateCategoryName 名称按原样保存和比较，只拒绝空白名称
func validateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperr.Validation("类别名称不能为空")
	}
	if utf8.RuneCountInString(name) > MaxCategoryNameLength {
		return apperr.Validation("类别名称过长")
	}
	return nil
}
