package api

import (
	"net/http"

	"expensetracker/middleware"
	"expensetracker/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ExpenseHandler 消费记录
type ExpenseHandler struct {
	svc *service.ExpenseService
}

// NewExpenseHandler 创建消费记录处理器
func NewExpenseHandler(db *gorm.DB) *ExpenseHandler {
	return &ExpenseHandler{svc: service.NewExpenseService(db)}
}

// List 查询消费记录
// @Summary 获取消费记录列表
// @Description 按日期倒序返回，同一天按录入时间倒序。date 与 month 只能指定其一，category_id 可与任一组合
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param date query string false "日期 (2024-03-15)"
// @Param month query string false "月份 (2024-03)"
// @Param category_id query int false "类别ID"
// @Success 200 {array} models.Expense "消费记录列表"
// @Failure 400 {object} apperr.Response "参数错误"
// @Failure 500 {object} apperr.Response "服务器错误"
// @Router /api/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	var q service.ExpenseQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	list, err := h.svc.List(c.Request.Context(), middleware.GetCurrentUserID(c), q)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get 获取单条消费记录
// @Summary 获取消费记录详情
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param id path int true "记录ID"
// @Success 200 {object} models.Expense "消费记录"
// @Failure 404 {object} apperr.Response "记录不存在"
// @Router /api/expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "记录不存在")
	if !ok {
		return
	}
	e, err := h.svc.Get(c.Request.Context(), middleware.GetCurrentUserID(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// Create 创建消费记录
// @Summary 创建消费记录
// @Description amount 和 date 为必填项；category_id 必须是当前用户的类别，为空表示未分类
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ExpenseInput true "消费信息"
// @Success 201 {object} models.Expense "创建成功"
// @Failure 400 {object} apperr.Response "参数错误或类别无效"
// @Failure 500 {object} apperr.Response "服务器错误"
// @Router /api/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var in service.ExpenseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	e, err := h.svc.Create(c.Request.Context(), middleware.GetCurrentUserID(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

// Update 更新消费记录
// @Summary 更新消费记录
// @Description 整体覆盖描述、金额、类别和日期，未提供 category_id 即清空类别
// @Tags 消费记录
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "记录ID"
// @Param request body service.ExpenseInput true "消费信息"
// @Success 200 {object} MessageResponse "更新成功"
// @Failure 400 {object} apperr.Response "参数错误或类别无效"
// @Failure 404 {object} apperr.Response "记录不存在"
// @Failure 500 {object} apperr.Response "服务器错误"
// @Router /api/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "记录不存在")
	if !ok {
		return
	}
	var in service.ExpenseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.svc.Update(c.Request.Context(), middleware.GetCurrentUserID(c), id, in); err != nil {
		fail(c, err)
		return
	}
	message(c, http.StatusOK, "消费记录已更新")
}

// Delete 删除消费记录
// @Summary 删除消费记录
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param id path int true "记录ID"
// @Success 200 {object} MessageResponse "删除成功"
// @Failure 404 {object} apperr.Response "记录不存在"
// @Failure 500 {object} apperr.Response "服务器错误"
// @Router /api/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "记录不存在")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetCurrentUserID(c), id); err != nil {
		fail(c, err)
		return
	}
	message(c, http.StatusOK, "消费记录已删除")
}

// Months 有记录的月份
// @Summary 获取有消费记录的月份
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string "月份列表 (YYYY-MM)，倒序"
// @Failure 500 {object} apperr.Response "服务器错误"
// @Router /api/expenses/months [get]
func (h *ExpenseHandler) Months(c *gin.Context) {
	months, err := h.svc.Months(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, months)
}

// Days 指定月份内有记录的日期
// @Summary 获取指定月份内有消费记录的日期
// @Tags 消费记录
// @Produce json
// @Security BearerAuth
// @Param month query string true "月份 (2024-03)"
// @Success 200 {array} string "日期列表 (YYYY-MM-DD)，倒序"
// @Failure 400 {object} apperr.Response "缺少月份"
// @Failure 500 {object} apperr.Response "服务器错误"
// @Router /api/expenses/days [get]
func (h *ExpenseHandler) Days(c *gin.Context) {
	days, err := h.svc.Days(c.Request.Context(), middleware.GetCurrentUserID(c), c.Query("month"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, days)
}
