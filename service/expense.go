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

// MaxDescriptionLength 描述最大字符数
const MaxDescriptionLength = 255

// ExpenseInput 创建和更新消费记录的请求体，更新时整体覆盖
type ExpenseInput struct {
	Description string         `json:"description" example:"Lunch"`
	Amount      *models.Amount `json:"amount" swaggertype:"string" example:"12.50"`
	CategoryID  *uint          `json:"category_id" example:"1"`
	Date        *models.Date   `json:"date" swaggertype:"string" example:"2024-03-15"`
}

// ExpenseQuery 列表和导出的过滤参数
type ExpenseQuery struct {
	Date       string `form:"date" json:"date"`
	Month      string `form:"month" json:"month"`
	CategoryID *uint  `form:"category_id" json:"category_id"`
}

// Filter 解析为仓储层过滤条件，date 与 month 不能同时指定
func (q ExpenseQuery) Filter() (repository.ExpenseFilter, error) {
	var f repository.ExpenseFilter
	if q.Date != "" && q.Month != "" {
		return f, apperr.Validation("date 和 month 不能同时指定")
	}
	if q.Date != "" {
		d, err := models.ParseDate(q.Date)
		if err != nil {
			return f, apperr.Validation("日期格式错误，应为 YYYY-MM-DD")
		}
		f.Date = &d
	}
	if q.Month != "" {
		m, err := models.ParseMonth(q.Month)
		if err != nil {
			return f, apperr.Validation("月份格式错误，应为 YYYY-MM")
		}
		f.Month = &m
	}
	if q.CategoryID != nil && *q.CategoryID != 0 {
		id := *q.CategoryID
		f.CategoryID = &id
	}
	return f, nil
}

// ExpenseService 消费记录服务
type ExpenseService struct {
	db *gorm.DB
}

// NewExpenseService 创建消费记录服务
func NewExpenseService(db *gorm.DB) *ExpenseService {
	return &ExpenseService{db: db}
}

// List 按过滤条件查询，日期倒序、同日按录入时间倒序
func (s *ExpenseService) List(ctx context.Context, userID uint, q ExpenseQuery) ([]models.Expense, error) {
	f, err := q.Filter()
	if err != nil {
		return nil, err
	}
	return repository.For(ctx, s.db, userID).ListExpenses(f)
}

// Get 读取单条记录
func (s *ExpenseService) Get(ctx context.Context, userID, id uint) (*models.Expense, error) {
	return repository.For(ctx, s.db, userID).GetExpense(id)
}

// Create 新建消费记录
func (s *ExpenseService) Create(ctx context.Context, userID uint, in ExpenseInput) (*models.Expense, error) {
	scope := repository.For(ctx, s.db, userID)
	e, err := s.prepare(scope, in)
	if err != nil {
		return nil, err
	}
	if err := scope.CreateExpense(e); err != nil {
		return nil, err
	}
	return e, nil
}

// Update 覆盖描述、金额、类别和日期；类别缺省即清空
func (s *ExpenseService) Update(ctx context.Context, userID, id uint, in ExpenseInput) error {
	scope := repository.For(ctx, s.db, userID)
	e, err := s.prepare(scope, in)
	if err != nil {
		return err
	}
	return scope.UpdateExpense(id, *e)
}

// Delete 删除消费记录
func (s *ExpenseService) Delete(ctx context.Context, userID, id uint) error {
	return repository.For(ctx, s.db, userID).DeleteExpense(id)
}

// Months 有记录的月份列表
func (s *ExpenseService) Months(ctx context.Context, userID uint) ([]string, error) {
	return repository.For(ctx, s.db, userID).ExpenseMonths()
}

// Days 指定月份内有记录的日期列表
func (s *ExpenseService) Days(ctx context.Context, userID uint, month string) ([]string, error) {
	if month == "" {
		return nil, apperr.Validation("月份为必填项")
	}
	m, err := models.ParseMonth(month)
	if err != nil {
		return nil, apperr.Validation("月份格式错误，应为 YYYY-MM")
	}
	return repository.For(ctx, s.db, userID).ExpenseDays(m)
}

// prepare 校验输入并检查类别归属，全部通过后才返回待写入的记录
func (s *ExpenseService) prepare(scope *repository.Scope, in ExpenseInput) (*models.Expense, error) {
	if in.Amount == nil || in.Date == nil || in.Date.IsZero() {
		return nil, apperr.Validation("金额和日期为必填项")
	}
	if !in.Amount.Valid() {
		return nil, apperr.Validation("金额必须大于 0 且小于 100000000")
	}
	description := strings.TrimSpace(in.Description)
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return nil, apperr.Validation("描述过长")
	}

	var categoryID *uint
	if in.CategoryID != nil && *in.CategoryID != 0 {
		ok, err := scope.CategoryExists(*in.CategoryID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, apperr.InvalidCategory("无效的类别")
		}
		id := *in.CategoryID
		categoryID = &id
	}

	return &models.Expense{
		Description: description,
		Amount:      in.Amount.Normalize(),
		CategoryID:  categoryID,
		Date:        *in.Date,
	}, nil
}
