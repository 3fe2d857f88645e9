package service

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"expensetracker/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func uintPtr(v uint) *uint { return &v }

func TestExportService_Report(t *testing.T) {
	db, mock := setupMockDB(t)
	s := NewExportService(db)

	created := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT \\* FROM `expenses` WHERE user_id = \\? AND .*date >= \\? AND date < \\?").
		WithArgs(1, "2024-01-01", "2024-02-01").
		WillReturnRows(sqlmock.NewRows([]string{"id", "description", "amount", "category_id", "user_id", "date", "created_at"}).
			AddRow(3, "Dinner", "50.00", 2, 1, "2024-01-05", created).
			AddRow(2, "Lunch", "100.00", 1, 1, "2024-01-05", created.Add(-time.Hour)).
			AddRow(1, "Snack", "5.50", nil, 1, "2024-01-02", created.Add(-72*time.Hour)))
	mock.ExpectQuery("SELECT \\* FROM `categories` WHERE user_id = \\?").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "user_id", "created_at"}).
			AddRow(1, "Food", 1, created).
			AddRow(2, "Travel", 1, created))

	report, err := s.Report(ctx, 1, ExpenseQuery{Month: "2024-01"})
	require.NoError(t, err)
	require.Len(t, report.Rows, 3)
	assert.Equal(t, "2024-01", report.Label)
	assert.Equal(t, "Travel", report.Rows[0].CategoryName)
	assert.Equal(t, "Food", report.Rows[1].CategoryName)
	assert.Equal(t, "未分类", report.Rows[2].CategoryName)
	assert.Equal(t, "155.50", report.Total.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func buildReport() *ExpenseReport {
	created := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	rows := []ExportRow{
		{Expense: models.Expense{ID: 1, Description: "Lunch", Amount: models.MustAmount("100.00"), CategoryID: uintPtr(1), Date: models.NewDate(2024, 1, 5), CreatedAt: created}, CategoryName: "Food"},
		{Expense: models.Expense{ID: 2, Description: "Train, return", Amount: models.MustAmount("50.00"), CategoryID: uintPtr(2), Date: models.NewDate(2024, 1, 5), CreatedAt: created}, CategoryName: "Travel"},
		{Expense: models.Expense{ID: 3, Description: "Dinner", Amount: models.MustAmount("30.00"), CategoryID: uintPtr(1), Date: models.NewDate(2024, 2, 1), CreatedAt: created}, CategoryName: "Food"},
		{Expense: models.Expense{ID: 4, Description: "Tip", Amount: models.MustAmount("2.25"), Date: models.NewDate(2024, 2, 1), CreatedAt: created}, CategoryName: "未分类"},
	}
	return &ExpenseReport{Label: "all", Rows: rows, Total: models.MustAmount("182.25")}
}

func TestExpenseReport_CategorySummary(t *testing.T) {
	summary := buildReport().CategorySummary()
	require.Len(t, summary, 3)
	assert.Equal(t, models.CategoryTotal{ID: 1, Name: "Food", Total: summary[0].Total}, summary[0])
	assert.Equal(t, "130.00", summary[0].Total.String())
	assert.Equal(t, "50.00", summary[1].Total.String())
	assert.Equal(t, uint(0), summary[2].ID)
	assert.Equal(t, "2.25", summary[2].Total.String())
}

func TestExpenseReport_CSV(t *testing.T) {
	data, err := buildReport().CSV()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\xEF\xBB\xBF")))

	lines := strings.Split(strings.TrimSpace(string(data[3:])), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "ID,日期,描述,类别,金额,创建时间", lines[0])
	assert.Equal(t, "1,2024-01-05,Lunch,Food,100.00,2024-01-05 12:00:00", lines[1])
	assert.Equal(t, `2,2024-01-05,"Train, return",Travel,50.00,2024-01-05 12:00:00`, lines[2])
}

func TestExpenseReport_Workbook(t *testing.T) {
	buf, err := buildReport().Workbook()
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"消费记录", "类别汇总"}, f.GetSheetList())

	v, err := f.GetCellValue("消费记录", "D2")
	require.NoError(t, err)
	assert.Equal(t, "Food", v)

	v, err = f.GetCellValue("消费记录", "A6")
	require.NoError(t, err)
	assert.Equal(t, "合计", v)

	v, err = f.GetCellValue("类别汇总", "A3")
	require.NoError(t, err)
	assert.Equal(t, "Travel", v)
}

func TestExpenseReport_Filename(t *testing.T) {
	r := &ExpenseReport{Label: "2024-03-15_c4"}
	assert.Equal(t, "expenses_2024-03-15_c4.csv", r.Filename("csv"))
}
