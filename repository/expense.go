package repository

import (
	"expensetracker/apperr"
	"expensetracker/models"

	"gorm.io/gorm"
)

// ExpenseFilter 消费记录过滤条件
// Date 与 Month 互斥（由服务层校验），CategoryID 可与任一组合
type ExpenseFilter struct {
	Date       *models.Date
	Month      *models.Month
	CategoryID *uint
}

func (f ExpenseFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Date != nil {
		q = q.Where("date = ?", *f.Date)
	}
	if f.Month != nil {
		q = q.Where("date >= ? AND date < ?", f.Month.Start(), f.Month.Next())
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	return q
}

// ListExpenses 按日期倒序，同一天按录入时间倒序
func (s *Scope) ListExpenses(f ExpenseFilter) ([]models.Expense, error) {
	list := make([]models.Expense, 0)
	err := f.apply(s.owned(&models.Expense{})).
		Order("date DESC, created_at DESC, id DESC").
		Find(&list).Error
	if err != nil {
		return nil, classify(err, "查询消费记录失败")
	}
	return list, nil
}

// CreateExpense 新建消费记录，UserID 由作用域决定
func (s *Scope) CreateExpense(e *models.Expense) error {
	e.ID = 0
	e.UserID = s.userID
	if err := s.db.Create(e).Error; err != nil {
		return classify(err, "创建消费记录失败")
	}
	return nil
}

// UpdateExpense 整体覆盖描述、金额、类别和日期
func (s *Scope) UpdateExpense(id uint, e models.Expense) error {
	res := s.owned(&models.Expense{}).Where("id = ?", id).Updates(map[string]interface{}{
		"description": e.Description,
		"amount":      e.Amount,
		"category_id": e.CategoryID,
		"date":        e.Date,
	})
	if res.Error != nil {
		return classify(res.Error, "更新消费记录失败")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("记录不存在")
	}
	return nil
}

// GetExpense 读取单条记录
func (s *Scope) GetExpense(id uint) (*models.Expense, error) {
	var e models.Expense
	res := s.owned(&models.Expense{}).Where("id = ?", id).Limit(1).Find(&e)
	if res.Error != nil {
		return nil, classify(res.Error, "查询消费记录失败")
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("记录不存在")
	}
	return &e, nil
}

// DeleteExpense 删除消费记录
func (s *Scope) DeleteExpense(id uint) error {
	res := s.owned(&models.Expense{}).Where("id = ?", id).Delete(&models.Expense{})
	if res.Error != nil {
		return classify(res.Error, "删除消费记录失败")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("记录不存在")
	}
	return nil
}

// ExpenseMonths 有消费记录的月份（YYYY-MM），倒序
func (s *Scope) ExpenseMonths() ([]string, error) {
	months := make([]string, 0)
	err := s.owned(&models.Expense{}).
		Order("month DESC").
		Pluck("DISTINCT DATE_FORMAT(date, '%Y-%m') AS month", &months).Error
	if err != nil {
		return nil, classify(err, "查询月份失败")
	}
	return months, nil
}

// ExpenseDays 指定月份内有消费记录的日期（YYYY-MM-DD），倒序
func (s *Scope) ExpenseDays(m models.Month) ([]string, error) {
	days := make([]string, 0)
	err := ExpenseFilter{Month: &m}.apply(s.owned(&models.Expense{})).
		Order("day DESC").
		Pluck("DISTINCT DATE_FORMAT(date, '%Y-%m-%d') AS day", &days).Error
	if err != nil {
		return nil, classify(err, "查询日期失败")
	}
	return days, nil
}
