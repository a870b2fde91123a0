package router

import (
	"time"

	"fintrack/api"
	"fintrack/config"
	"fintrack/database"
	_ "fintrack/docs"
	"fintrack/middleware"
	"fintrack/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS 中间件
	r.Use(CORSMiddleware())

	store := database.NewStore(db)
	validator := service.NewBudgetValidator(store)

	authHandler := api.NewAuthHandler(cfg, db, service.NewEmailService(&cfg.Email), store)
	categoryHandler := api.NewCategoryHandler(store)
	transactionHandler := api.NewTransactionHandler(store, service.NewTransactionService(store, validator))
	budgetHandler := api.NewBudgetHandler(validator, service.NewSequencer())
	analyticsHandler := api.NewAnalyticsHandler(cfg, service.NewAnalyticsService(store))
	goalHandler := api.NewGoalHandler(store)

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// 认证相关路由（无需登录）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.LoginRateLimit(10, time.Minute), authHandler.Login)
			auth.POST("/password/request-reset", middleware.RecoveryRateLimit(5, time.Minute), authHandler.RequestRecovery)
			auth.POST("/password/verify", middleware.RateLimit(10, time.Minute, "验证码校验过于频繁，请稍后再试"), authHandler.VerifyRecoveryCode)
			auth.POST("/password/reset", middleware.LoginRateLimit(10, time.Minute), authHandler.ResetPassword)
			auth.POST("/refresh", middleware.RateLimit(30, time.Minute, "刷新过于频繁，请稍后再试"), authHandler.Refresh)
		}

		// 需要 JWT 认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			authorized.GET("/auth/profile", authHandler.GetProfile)
			authorized.PUT("/auth/profile", authHandler.UpdateProfile)
			authorized.DELETE("/auth/account", authHandler.DeleteAccount)
			authorized.POST("/auth/logout", authHandler.Logout)

			categories := authorized.Group("/categories")
			{
				categories.GET("", categoryHandler.List)
				categories.POST("", categoryHandler.Create)
				categories.PUT("/:id", categoryHandler.Update)
				categories.DELETE("/:id", categoryHandler.Delete)
				categories.GET("/:id/budget", categoryHandler.Budget)
			}

			transactions := authorized.Group("/transactions")
			{
				transactions.POST("", transactionHandler.Create)
				transactions.GET("", transactionHandler.List)
				transactions.GET("/summary", transactionHandler.Summary)
				transactions.GET("/:id", transactionHandler.Get)
				transactions.PUT("/:id", transactionHandler.Update)
				transactions.DELETE("/:id", transactionHandler.Delete)
			}

			authorized.GET("/budgets/validate", budgetHandler.Validate)

			analytics := authorized.Group("/analytics")
			{
				analytics.GET("/monthly", analyticsHandler.Monthly)
				analytics.GET("/by-day", analyticsHandler.ByDay)
				analytics.GET("/month-view", analyticsHandler.MonthView)
				analytics.GET("/export", analyticsHandler.Export)
			}

			goals := authorized.Group("/goals")
			{
				goals.GET("", goalHandler.List)
				goals.POST("", goalHandler.Create)
				goals.GET("/:id", goalHandler.Get)
				goals.PUT("/:id", goalHandler.Update)
				goals.DELETE("/:id", goalHandler.Delete)
				goals.POST("/:id/balance", goalHandler.AddBalance)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Accept-Language, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
