package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"expensetracker/models"
	"expensetracker/repository"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const uncategorized = "未分类"

// ExportRow 导出行，附带类别名称
type ExportRow struct {
	models.Expense
	CategoryName string
}

// ExpenseReport 按过滤条件生成的导出报表
type ExpenseReport struct {
	Label string
	Rows  []ExportRow
	Total models.Amount
}

// ExportService 导出服务
type ExportService struct {
	db *gorm.DB
}

// NewExportService 创建导出服务
func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{db: db}
}

// Report 查询过滤条件下的消费记录并关联类别名称
func (s *ExportService) Report(ctx context.Context, userID uint, q ExpenseQuery) (*ExpenseReport, error) {
	f, err := q.Filter()
	if err != nil {
		return nil, err
	}

	scope := repository.For(ctx, s.db, userID)
	expenses, err := scope.ListExpenses(f)
	if err != nil {
		return nil, err
	}
	categories, err := scope.ListCategories()
	if err != nil {
		return nil, err
	}

	names := make(map[uint]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	report := &ExpenseReport{Label: reportLabel(f), Rows: make([]ExportRow, 0, len(expenses))}
	for _, e := range expenses {
		name := uncategorized
		if e.CategoryID != nil {
			if n, ok := names[*e.CategoryID]; ok {
				name = n
			}
		}
		report.Rows = append(report.Rows, ExportRow{Expense: e, CategoryName: name})
		report.Total = report.Total.Add(e.Amount)
	}
	return report, nil
}

func reportLabel(f repository.ExpenseFilter) string {
	label := "all"
	switch {
	case f.Date != nil:
		label = f.Date.String()
	case f.Month != nil:
		label = f.Month.String()
	}
	if f.CategoryID != nil {
		label += "_c" + strconv.FormatUint(uint64(*f.CategoryID), 10)
	}
	return label
}

// CategorySummary 按类别汇总，顺序与首次出现的顺序一致，未分类单独成行
func (r *ExpenseReport) CategorySummary() []models.CategoryTotal {
	index := make(map[string]int)
	summary := make([]models.CategoryTotal, 0)
	for _, row := range r.Rows {
		i, ok := index[row.CategoryName]
		if !ok {
			var id uint
			if row.CategoryID != nil && row.CategoryName != uncategorized {
				id = *row.CategoryID
			}
			summary = append(summary, models.CategoryTotal{ID: id, Name: row.CategoryName})
			i = len(summary) - 1
			index[row.CategoryName] = i
		}
		summary[i].Total = summary[i].Total.Add(row.Amount)
	}
	return summary
}

// Filename 导出文件名
func (r *ExpenseReport) Filename(ext string) string {
	return fmt.Sprintf("expenses_%s.%s", r.Label, ext)
}

// CSV 生成带 BOM 的 CSV，Excel 打开中文不乱码
func (r *ExpenseReport) CSV() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)
	if err := writer.Write([]string{"ID", "日期", "描述", "类别", "金额", "创建时间"}); err != nil {
		return nil, err
	}
	for _, row := range r.Rows {
		record := []string{
			strconv.FormatUint(uint64(row.ID), 10),
			row.Date.String(),
			row.Description,
			row.CategoryName,
			row.Amount.String(),
			row.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Workbook 生成 xlsx：消费记录表（含合计行）和类别汇总表
func (r *ExpenseReport) Workbook() (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}

	sheetName := "消费记录"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}
	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 14)
	f.SetColWidth(sheetName, "C", "C", 30)
	f.SetColWidth(sheetName, "D", "D", 16)
	f.SetColWidth(sheetName, "E", "E", 14)
	f.SetColWidth(sheetName, "F", "F", 20)

	writeHeader(f, sheetName, styles.header, []string{"ID", "日期", "描述", "类别", "金额", "创建时间"})
	for i, row := range r.Rows {
		line := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", line), row.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", line), row.Date.String())
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", line), row.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", line), row.CategoryName)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", line), row.Amount.InexactFloat64())
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", line), row.CreatedAt.Format("2006-01-02 15:04:05"))
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", line), fmt.Sprintf("F%d", line), styles.data)
	}

	// 合计行
	summaryRow := len(r.Rows) + 2
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "合计")
	f.MergeCell(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("D%d", summaryRow))
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", summaryRow), r.Total.InexactFloat64())
	f.SetCellValue(sheetName, fmt.Sprintf("F%d", summaryRow), fmt.Sprintf("共 %d 条记录", len(r.Rows)))
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("F%d", summaryRow), styles.summary)

	summarySheet := "类别汇总"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	f.SetColWidth(summarySheet, "A", "A", 20)
	f.SetColWidth(summarySheet, "B", "B", 14)
	writeHeader(f, summarySheet, styles.header, []string{"类别", "金额"})
	for i, ct := range r.CategorySummary() {
		line := i + 2
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", line), ct.Name)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", line), ct.Total.InexactFloat64())
		f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", line), fmt.Sprintf("B%d", line), styles.data)
	}

	return f.WriteToBuffer()
}

type sheetStyles struct {
	header  int
	data    int
	summary int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	var s sheetStyles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: center,
		Border:    border,
	}); err != nil {
		return s, err
	}
	if s.data, err = f.NewStyle(&excelize.Style{Alignment: center, Border: border}); err != nil {
		return s, err
	}
	s.summary, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: center,
		Border:    border,
	})
	return s, err
}

func writeHeader(f *excelize.File, sheet string, style int, headers []string) {
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}
