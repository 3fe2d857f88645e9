package service

import (
	"context"
	"time"

	"expensetracker/models"
	"expensetracker/repository"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// StatsService 汇总统计服务，每次请求都直接查询，不维护增量计数
type StatsService struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

// NewStatsService 创建统计服务，loc 决定"今天"和"本月"的边界
func NewStatsService(db *gorm.DB, loc *time.Location) *StatsService {
	if loc == nil {
		loc = time.Local
	}
	return &StatsService{db: db, loc: loc, now: time.Now}
}

// Totals 总额、今日、本月及分类汇总，四条查询并发执行
func (s *StatsService) Totals(ctx context.Context, userID uint) (*models.Totals, error) {
	today := models.DateOf(s.now().In(s.loc))
	month := today.YearMonth()

	g, gctx := errgroup.WithContext(ctx)
	scope := repository.For(gctx, s.db, userID)

	var result models.Totals
	g.Go(func() error {
		var err error
		result.Total, err = scope.SumExpenses(repository.ExpenseFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		result.TotalToday, err = scope.SumExpenses(repository.ExpenseFilter{Date: &today})
		return err
	})
	g.Go(func() error {
		var err error
		result.TotalMonth, err = scope.SumExpenses(repository.ExpenseFilter{Month: &month})
		return err
	})
	g.Go(func() error {
		var err error
		result.CategoryTotals, err = scope.CategoryTotals()
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &result, nil
}
