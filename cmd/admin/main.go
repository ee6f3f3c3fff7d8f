package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"go-blog-api/internal/core/auth"
	"go-blog-api/internal/core/config"
	"go-blog-api/internal/core/database"
	"go-blog-api/internal/core/logger"
	"go-blog-api/internal/core/server"
	"go-blog-api/internal/repo"
	"go-blog-api/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		JSON:       cfg.Log.JSON,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	defer cleanup()
	undo := logger.RedirectStdLog(log, zapcore.InfoLevel)
	defer undo()
	gin.DefaultWriter = logger.ToWriter(log, zapcore.InfoLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log, zapcore.ErrorLevel)

	// DB 连接（失败直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	// 依赖
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLHour) * time.Hour,
	}

	// 路由（后台端）
	r := router.NewAdminEngine(log, db, repo.NewUserRepo(db), jwter)

	// HTTP Server
	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second)

	// 启动前打印可点击地址
	host4human := cfg.App.Admin.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.Admin.Port)
	log.Info("admin api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)

	// 异步启动
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("admin api start FAILED", zap.Error(err))
		}
	}()
	log.Info("admin api started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("admin api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
