package repository

import (
	"expensetracker/models"
)

type sumRow struct {
	Total models.Amount
}

// SumExpenses 过滤条件下的金额合计，无记录时为 0
func (s *Scope) SumExpenses(f ExpenseFilter) (models.Amount, error) {
	var row sumRow
	err := f.apply(s.owned(&models.Expense{})).
		Select("COALESCE(SUM(amount), 0) AS total").
		Scan(&row).Error
	if err != nil {
		return models.Amount{}, classify(err, "统计失败")
	}
	return row.Total, nil
}

// CategoryTotals 按类别汇总，只包含至少有一条记录的类别，未分类记录不计入
func (s *Scope) CategoryTotals() ([]models.CategoryTotal, error) {
	list := make([]models.CategoryTotal, 0)
	err := s.db.Table("expenses AS e").
		Select("c.id AS id, c.name AS name, SUM(e.amount) AS total").
		Joins("JOIN categories AS c ON c.id = e.category_id").
		Where("e.user_id = ? AND c.user_id = ?", s.userID, s.userID).
		Group("c.id, c.name").
		Order("c.id ASC").
		Scan(&list).Error
	if err != nil {
		return nil, classify(err, "分类统计失败")
	}
	return list, nil
}
