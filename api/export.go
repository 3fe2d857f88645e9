package api

import (
	"errors"
	"fmt"
	"net/http"

	"expensetracker/apperr"
	"expensetracker/middleware"
	"expensetracker/repository"
	"expensetracker/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出处理器
type ExportHandler struct {
	db     *gorm.DB
	export *service.ExportService
	email  *service.EmailService
}

// NewExportHandler 创建导出处理器
func NewExportHandler(db *gorm.DB, email *service.EmailService) *ExportHandler {
	return &ExportHandler{db: db, export: service.NewExportService(db), email: email}
}

func (h *ExportHandler) report(c *gin.Context, q service.ExpenseQuery) (*service.ExpenseReport, bool) {
	report, err := h.export.Report(c.Request.Context(), middleware.GetCurrentUserID(c), q)
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return report, true
}

// ExportCSV 导出消费记录为 CSV
// @Summary 导出 CSV
// @Description 过滤条件与消费记录列表相同，文件带 UTF-8 BOM
// @Tags 导出
// @Produce text/csv
// @Security BearerAuth
// @Param date query string false "日期 (2024-03-15)"
// @Param month query string false "月份 (2024-03)"
// @Param category_id query int false "类别ID"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} apperr.Response "参数错误"
// @Failure 401 {object} apperr.Response "未授权"
// @Router /api/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	var q service.ExpenseQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	report, ok := h.report(c, q)
	if !ok {
		return
	}

	data, err := report.CSV()
	if err != nil {
		fail(c, apperr.Wrap(apperr.KindInternal, "生成 CSV 失败", err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", report.Filename("csv")))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ExportExcel 导出消费记录为 Excel
// @Summary 导出 Excel
// @Description 包含消费记录表（末行合计）和类别汇总表
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param date query string false "日期 (2024-03-15)"
// @Param month query string false "月份 (2024-03)"
// @Param category_id query int false "类别ID"
// @Success 200 {file} file "xlsx 文件"
// @Failure 400 {object} apperr.Response "参数错误"
// @Failure 401 {object} apperr.Response "未授权"
// @Router /api/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	var q service.ExpenseQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	report, ok := h.report(c, q)
	if !ok {
		return
	}

	buf, err := report.Workbook()
	if err != nil {
		fail(c, apperr.Wrap(apperr.KindInternal, "生成 Excel 失败", err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", report.Filename("xlsx")))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportEmail 将 Excel 报表发送到注册邮箱
// @Summary 邮件发送报表
// @Description 生成 Excel 报表并以附件形式发送到当前用户注册时填写的邮箱
// @Tags 导出
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ExpenseQuery false "过滤条件"
// @Success 200 {object} MessageResponse "发送成功"
// @Failure 400 {object} apperr.Response "未登记邮箱或邮件服务未启用"
// @Failure 500 {object} apperr.Response "发送失败"
// @Router /api/export/email [post]
func (h *ExportHandler) ExportEmail(c *gin.Context) {
	var q service.ExpenseQuery
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&q); err != nil {
			badRequest(c, err)
			return
		}
	}
	if !h.email.Enabled() {
		fail(c, apperr.Validation("邮件服务未启用"))
		return
	}

	user, err := repository.GetUser(c.Request.Context(), h.db, middleware.GetCurrentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	if !user.HasEmail() {
		fail(c, apperr.Validation("未登记邮箱，无法发送报表"))
		return
	}

	report, ok := h.report(c, q)
	if !ok {
		return
	}

	if err := h.email.SendExpenseReport(*user.Email, user.Username, report); err != nil {
		if errors.Is(err, service.ErrEmailDisabled) {
			fail(c, apperr.Validation("邮件服务未启用"))
			return
		}
		fail(c, apperr.Wrap(apperr.KindInternal, "发送邮件失败", err))
		return
	}
	message(c, http.StatusOK, "报表已发送至 "+*user.Email)
}
