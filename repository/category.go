package repository

import (
	"expensetracker/apperr"
	"expensetracker/models"
)

// ListCategories 当前用户的全部类别，按创建顺序
func (s *Scope) ListCategories() ([]models.Category, error) {
	list := make([]models.Category, 0)
	if err := s.owned(&models.Category{}).Order("id ASC").Find(&list).Error; err != nil {
		return nil, classify(err, "查询类别失败")
	}
	return list, nil
}

// CategoryNameTaken 名称是否已被当前用户的其他类别占用，excludeID 为 0 时不排除
func (s *Scope) CategoryNameTaken(name string, excludeID uint) (bool, error) {
	q := s.owned(&models.Category{}).Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, classify(err, "查询类别失败")
	}
	return count > 0, nil
}

// CategoryExists 类别是否存在且属于当前用户
func (s *Scope) CategoryExists(id uint) (bool, error) {
	var count int64
	if err := s.owned(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, classify(err, "查询类别失败")
	}
	return count > 0, nil
}

// CreateCategory 新建类别；并发下的唯一键冲突同样视为重名
func (s *Scope) CreateCategory(name string) (*models.Category, error) {
	cat := models.Category{Name: name, UserID: s.userID}
	if err := s.db.Create(&cat).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, apperr.DuplicateName("类别名称已存在")
		}
		return nil, classify(err, "创建类别失败")
	}
	return &cat, nil
}

// RenameCategory 修改类别名称
func (s *Scope) RenameCategory(id uint, name string) error {
	res := s.owned(&models.Category{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		if isDuplicateKey(res.Error) {
			return apperr.DuplicateName("类别名称已存在")
		}
		return classify(res.Error, "更新类别失败")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("类别不存在")
	}
	return nil
}

// DeleteCategory 删除类别，引用它的消费记录由外键 ON DELETE SET NULL 置为未分类
func (s *Scope) DeleteCategory(id uint) error {
	res := s.owned(&models.Category{}).Where("id = ?", id).Delete(&models.Category{})
	if res.Error != nil {
		return classify(res.Error, "删除类别失败")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("类别不存在")
	}
	return nil
}
