package api

import (
	"net/http"
	"time"

	"expensetracker/middleware"
	"expensetracker/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// StatsHandler 汇总统计
type StatsHandler struct {
	svc *service.StatsService
}

// NewStatsHandler loc 决定"今天"和"本月"按哪个时区计算
func NewStatsHandler(db *gorm.DB, loc *time.Location) *StatsHandler {
	return &StatsHandler{svc: service.NewStatsService(db, loc)}
}

// Totals 消费汇总
// @Summary 获取消费汇总
// @Description 总额、今日、本月合计及分类汇总；没有记录的类别和未分类记录不出现在分类汇总中
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Totals "汇总结果"
// @Failure 500 {object} apperr.Response "服务器错误"
// @Failure 503 {object} apperr.Response "数据库繁忙"
// @Router /api/stats/totals [get]
func (h *StatsHandler) Totals(c *gin.Context) {
	totals, err := h.svc.Totals(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}
