package models

import (
	"time"
)

// Expense 消费记录模型
// CategoryID 为空表示未分类；类别被删除时由外键置空
type Expense struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Description string    `json:"description" gorm:"size:255;not null"`
	Amount      Amount    `json:"amount" gorm:"type:decimal(10,2);not null"`
	CategoryID  *uint     `json:"category_id" gorm:"index"`
	UserID      uint      `json:"user_id" gorm:"not null;index:idx_expenses_user_date,priority:1"`
	Date        Date      `json:"date" gorm:"type:date;not null;index:idx_expenses_user_date,priority:2"`
	CreatedAt   time.Time `json:"created_at" gorm:"type:datetime(3)"`
	Category    *Category `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	User        *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName 设置表名
func (Expense) TableName() string {
	return "expenses"
}

// Totals 汇总结果
type Totals struct {
	Total          Amount          `json:"total"`
	TotalToday     Amount          `json:"total_today"`
	TotalMonth     Amount          `json:"total_month"`
	CategoryTotals []CategoryTotal `json:"category_totals"`
}
