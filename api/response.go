package api

import (
	"net/http"
	"strconv"

	"expensetracker/apperr"
	"expensetracker/config"
	"expensetracker/middleware"

	"github.com/gin-gonic/gin"
)

// retryAfterSeconds transient 错误建议的重试间隔
const retryAfterSeconds = 1

// MessageResponse 变更类操作的响应体
type MessageResponse struct {
	Message string `json:"message" example:"类别已更新"`
}

func message(c *gin.Context, status int, msg string) {
	c.JSON(status, MessageResponse{Message: msg})
}

// fail 按错误类别输出状态码与 {"error","kind"} 响应体，5xx 写入请求日志
func fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)
	if kind == apperr.KindTransient {
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	if status >= http.StatusInternalServerError {
		middleware.Logger(c).Error("请求处理失败", "kind", kind, "error", err)
	}
	c.AbortWithStatusJSON(status, apperr.ResponseOf(err, config.SafeErrorMessage(err, "服务器错误")))
}

// badRequest 请求体或查询参数无法解析
func badRequest(c *gin.Context, err error) {
	fail(c, apperr.Validation("参数错误: "+config.SafeErrorMessage(err, "请求格式不正确")))
}

// pathID 解析路径中的 id，非法 id 与不存在的记录同样处理
func pathID(c *gin.Context, notFound string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		fail(c, apperr.NotFound(notFound))
		return 0, false
	}
	return uint(id), true
}
