package router

import (
	"net/http"
	"time"

	"expensetracker/api"
	"expensetracker/config"
	_ "expensetracker/docs"
	"expensetracker/middleware"
	"expensetracker/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(), middleware.AccessLog())
	r.Use(CORSMiddleware())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Expense Tracker API Running")
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiGroup := r.Group("/api")
	apiGroup.Use(middleware.RequestTimeout(cfg.Server.RequestTimeout))

	// 认证相关路由（无需登录）
	authHandler := api.NewAuthHandler(cfg, db)
	auth := apiGroup.Group("/auth")
	{
		limited := auth.Group("")
		limited.Use(middleware.LoginRateLimit(cfg.Server.LoginMaxAttempts, time.Minute))
		limited.POST("/register", authHandler.Register)
		limited.POST("/login", authHandler.Login)
	}

	// 需要 JWT 认证的路由
	authorized := apiGroup.Group("")
	authorized.Use(middleware.JWTAuth())
	{
		authorized.GET("/auth/profile", authHandler.GetProfile)

		categoryHandler := api.NewCategoryHandler(db)
		categories := authorized.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.POST("", categoryHandler.Create)
			categories.PUT("/:id", categoryHandler.Update)
			categories.DELETE("/:id", categoryHandler.Delete)
		}

		expenseHandler := api.NewExpenseHandler(db)
		expenses := authorized.Group("/expenses")
		{
			expenses.GET("/months", expenseHandler.Months)
			expenses.GET("/days", expenseHandler.Days)
			expenses.GET("", expenseHandler.List)
			expenses.POST("", expenseHandler.Create)
			expenses.GET("/:id", expenseHandler.Get)
			expenses.PUT("/:id", expenseHandler.Update)
			expenses.DELETE("/:id", expenseHandler.Delete)
		}

		statsHandler := api.NewStatsHandler(db, cfg.Server.Location)
		authorized.GET("/stats/totals", statsHandler.Totals)

		exportHandler := api.NewExportHandler(db, service.NewEmailService(&cfg.Email))
		export := authorized.Group("/export")
		{
			export.GET("/csv", exportHandler.ExportCSV)
			export.GET("/excel", exportHandler.ExportExcel)
			export.POST("/email", exportHandler.ExportEmail)
		}
	}

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID, Retry-After")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
