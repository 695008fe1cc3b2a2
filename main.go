// 文件分享服务入口
// 启动流程：加载配置 → 初始化日志 → 连接数据库 → 初始化Blob存储和会话管理 → 装配路由 → 启动HTTP(S)服务
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jbmillenial/file-share/config"
	_ "github.com/jbmillenial/file-share/docs"
	"github.com/jbmillenial/file-share/internal/auth"
	"github.com/jbmillenial/file-share/internal/database"
	"github.com/jbmillenial/file-share/internal/handler"
	"github.com/jbmillenial/file-share/internal/logger"
	"github.com/jbmillenial/file-share/internal/router"
	fileservice "github.com/jbmillenial/file-share/internal/service/file"
	userservice "github.com/jbmillenial/file-share/internal/service/user"
	"github.com/jbmillenial/file-share/internal/storage"
	"github.com/jbmillenial/file-share/internal/validator"
	"golang.org/x/net/http2"
)

// @title 文件分享服务 API
// @version 1.0
// @description 支持注册用户上传文件并生成匿名分享链接的文件分享服务
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&logger.Config{
		Level:    cfg.Log.Level,
		Format:   cfg.Log.Format,
		Output:   cfg.Log.Output,
		FilePath: cfg.Log.FilePath,
	}); err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to init database: %v", err)
	}

	blobs, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Fatalf("Failed to init blob storage: %v", err)
	}

	sessions, err := auth.NewSessionManager(cfg.Session.Key, cfg.Server.EnableHTTPS)
	if err != nil {
		logger.Fatalf("Failed to init session manager: %v", err)
	}

	policy := validator.NewPolicy(cfg.Upload)
	files := fileservice.NewFileService(db, blobs, policy)
	users := userservice.NewUserService(db)

	engine := router.Setup(
		handler.NewUserHandler(users, sessions),
		handler.NewFileHandler(files),
		handler.NewShareHandler(files),
		sessions,
	)

	srv := &http.Server{
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		if cfg.Server.EnableHTTPS {
			srv.Addr = fmt.Sprintf(":%d", cfg.Server.HTTPSPort)
			if cfg.Server.EnableHTTP2 {
				if err := http2.ConfigureServer(srv, &http2.Server{}); err != nil {
					logger.Fatalf("Failed to configure HTTP/2: %v", err)
				}
			}
			logger.Infof("HTTPS server listening on %s", srv.Addr)
			if err := srv.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile); err != nil && err != http.ErrServerClosed {
				logger.Fatalf("HTTPS server error: %v", err)
			}
		} else {
			srv.Addr = fmt.Sprintf(":%d", cfg.Server.Port)
			logger.Infof("HTTP server listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatalf("HTTP server error: %v", err)
			}
		}
	}()

	// 等待退出信号，优雅关停
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}
	logger.Info("Server exited")
}
