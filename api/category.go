package api

import (
	"net/http"

	"expensetracker/middleware"
	"expensetracker/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CategoryHandler 消费类别
type CategoryHandler struct {
	svc *service.CategoryService
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{svc: service.NewCategoryService(db)}
}

// CategoryRequest 创建或重命名类别
type CategoryRequest struct {
	Name string `json:"name" example:"Food"`
}

// List 当前用户的类别列表
// @Summary 获取类别列表
// @Description 获取当前用户的全部类别，按创建顺序排列
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Category "类别列表"
// @Failure 401 {object} apperr.Response "未授权"
// @Failure 500 {object} apperr.Response "服务器错误"
// @Router /api/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create 创建类别
// @Summary 创建类别
// @Description 同一用户下类别名称不可重复（区分大小写），不同用户之间互不影响
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryRequest true "类别名称"
// @Success 201 {object} models.Category "创建成功"
// @Failure 400 {object} apperr.Response "名称为空或已存在"
// @Failure 500 {object} apperr.Response "服务器错误"
// @Router /api/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	cat, err := h.svc.Create(c.Request.Context(), middleware.GetCurrentUserID(c), req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

// Update 重命名类别
// @Summary 重命名类别
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Param request body CategoryRequest true "新名称"
// @Success 200 {object} MessageResponse "更新成功"
// @Failure 400 {object} apperr.Response "名称为空或与其他类别重名"
// @Failure 404 {object} apperr.Response "类别不存在"
// @Failure 500 {object} apperr.Response "服务器错误"
// @Router /api/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "类别不存在")
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.svc.Rename(c.Request.Context(), middleware.GetCurrentUserID(c), id, req.Name); err != nil {
		fail(c, err)
		return
	}
	message(c, http.StatusOK, "类别已更新")
}

// Delete 删除类别
// @Summary 删除类别
// @Description 删除后引用该类别的消费记录变为未分类，记录本身保留
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Success 200 {object} MessageResponse "删除成功"
// @Failure 404 {object} apperr.Response "类别不存在"
// @Failure 500 {object} apperr.Response "服务器错误"
// @Router /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "类别不存在")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetCurrentUserID(c), id); err != nil {
		fail(c, err)
		return
	}
	message(c, http.StatusOK, "类别已删除")
}
