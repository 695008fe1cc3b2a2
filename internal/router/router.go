// Package router 负责路由注册和中间件装配
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jbmillenial/file-share/internal/auth"
	"github.com/jbmillenial/file-share/internal/handler"
	"github.com/jbmillenial/file-share/internal/middleware"
	"github.com/jbmillenial/file-share/internal/response"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Setup 装配全部路由
// 路由分为三层：公开的认证和分享下载入口、需要登录的文件管理API、辅助端点
func Setup(
	userHandler *handler.UserHandler,
	fileHandler *handler.FileHandler,
	shareHandler *handler.ShareHandler,
	sessions *auth.SessionManager,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	// CORS配置：会话基于Cookie，必须允许携带凭证
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})

	// Swagger文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 匿名分享下载，令牌即凭证
	r.GET("/s/:token", shareHandler.Download)

	api := r.Group("/api/v1")
	{
		// 认证入口，无需登录
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", userHandler.Register)
			authGroup.POST("/login", userHandler.Login)
			authGroup.POST("/logout", userHandler.Logout)
		}

		// 文件管理，需要登录态
		protected := api.Group("")
		protected.Use(middleware.RequireAuth(sessions))
		{
			protected.POST("/files", fileHandler.Upload)
			protected.GET("/files", fileHandler.List)
			protected.DELETE("/files/:id", fileHandler.Delete)
			protected.GET("/dashboard", fileHandler.Dashboard)
		}
	}

	return r
}
