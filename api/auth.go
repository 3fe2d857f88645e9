package api

import (
	"net/http"
	"strings"

	"expensetracker/apperr"
	"expensetracker/config"
	"expensetracker/middleware"
	"expensetracker/models"
	"expensetracker/repository"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	cfg *config.Config
	db  *gorm.DB
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config, db *gorm.DB) *AuthHandler {
	return &AuthHandler{cfg: cfg, db: db}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50" example:"testuser"`
	Password string `json:"password" binding:"required,min=6,max=72" example:"password123"`
	Email    string `json:"email" binding:"omitempty,email,max=100" example:"test@example.com"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"testuser"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Register 用户注册
// @Summary 用户注册
// @Description 创建新用户账号，邮箱可选，用于接收导出报表
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 201 {object} models.User "注册成功"
// @Failure 400 {object} apperr.Response "参数错误或用户名已存在"
// @Failure 429 {object} apperr.Response "请求过于频繁"
// @Failure 500 {object} apperr.Response "服务器错误"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()

	// 检查用户名是否已存在
	if _, err := repository.FindUserByUsername(ctx, h.db, req.Username); err == nil {
		fail(c, apperr.DuplicateName("用户名已存在"))
		return
	} else if !apperr.Is(err, apperr.KindNotFound) {
		fail(c, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, apperr.Wrap(apperr.KindInternal, "密码加密失败", err))
		return
	}

	user := models.User{
		Username: req.Username,
		Password: string(hashedPassword),
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		user.Email = &email
	}

	if err := repository.CreateUser(ctx, h.db, &user); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login 用户登录
// @Summary 用户登录
// @Description 校验用户名和密码，返回 Bearer token
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} LoginResponse "登录成功"
// @Failure 400 {object} apperr.Response "参数错误"
// @Failure 401 {object} apperr.Response "用户名或密码错误"
// @Failure 429 {object} apperr.Response "请求过于频繁"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := repository.FindUserByUsername(c.Request.Context(), h.db, req.Username)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			fail(c, apperr.Unauthorized("用户名或密码错误"))
			return
		}
		fail(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		fail(c, apperr.Unauthorized("用户名或密码错误"))
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, h.cfg.JWT.ExpireTime)
	if err != nil {
		fail(c, apperr.Wrap(apperr.KindInternal, "生成 token 失败", err))
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, User: *user})
}

// GetProfile 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User "获取成功"
// @Failure 401 {object} apperr.Response "未授权"
// @Failure 404 {object} apperr.Response "用户不存在"
// @Router /api/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := repository.GetUser(c.Request.Context(), h.db, middleware.GetCurrentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
