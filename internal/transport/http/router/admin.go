package router

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-blog-api/internal/core/auth"
	"go-blog-api/internal/domain"
	"go-blog-api/internal/transport/http/handler"
	mdw "go-blog-api/internal/transport/http/middleware"
)

func NewAdminEngine(l *zap.Logger, db *gorm.DB, users domain.UserRepository, jwter *auth.JWTer) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(10<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 管理端 v1（统一要求 admin 角色；角色取自身份记录，封禁即时生效）
	admin := r.Group("/admin/v1")
	admin.Use(mdw.Identity(jwter, users, l), mdw.RequireRole(domain.RoleAdmin, l))

	handler.MountAdminActions(admin, db, l)

	return r
}
