package router

import (
	"github.com/gin-gonic/gin"
	"github.com/habitlog/internal/config"
	"github.com/habitlog/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, cfg config.AppConfig) *gin.Engine {
	r := gin.Default()

	r.Use(handler.RateLimitMiddleware())
	r.Use(handler.MetricsMiddleware())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	r.GET("/metrics", handler.MetricsHandler(cfg.MetricsUser, cfg.MetricsPass))

	// 认证相关路由
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", api.Register)
		auth.POST("/login", api.Login)
		auth.POST("/logout", api.Logout)
	}

	// 需要令牌的习惯路由
	habits := r.Group("/api/habits")
	habits.Use(api.AuthRequired())
	{
		habits.GET("", api.ListHabits)
		habits.POST("", api.CreateHabit)
		habits.GET("/:id", api.GetHabit)
		habits.PUT("/:id", api.UpdateHabit)
		habits.DELETE("/:id", api.DeleteHabit)
		habits.POST("/:id/track", api.TrackHabit)
	}

	// 前端详情页走的是不带 /api 前缀的旧路径，保持兼容
	legacy := r.Group("/habits")
	legacy.Use(api.AuthRequired())
	{
		legacy.GET("/:id", api.GetHabit)
	}

	return r
}
