package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-blog-api/internal/core/auth"
	"go-blog-api/internal/core/cache"
	"go-blog-api/internal/domain"
	"go-blog-api/internal/service"
	"go-blog-api/internal/transport/http/handler"
	mdw "go-blog-api/internal/transport/http/middleware"
)

type Deps struct {
	Users        domain.UserRepository
	Posts        domain.PostRepository
	JWTer        *auth.JWTer
	Cache        *cache.Cache // 可为 nil
	PostCacheTTL time.Duration
}

func NewAPIEngine(l *zap.Logger, d Deps) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(10<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
		cors.Default(),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Blog API is running"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authSvc := service.NewAuthService(d.Users, d.JWTer)
	postSvc := service.NewPostService(d.Posts, d.Cache, d.PostCacheTTL)

	api := r.Group("/api")

	handler.NewAuthHandler(authSvc, l).Mount(api)

	// 浏览接口匿名可用，带令牌则响应里多 isLiked；写接口必须登录
	public := api.Group("", mdw.OptionalIdentity(d.JWTer, d.Users))
	authed := api.Group("", mdw.Identity(d.JWTer, d.Users, l))
	handler.NewPostHandler(postSvc, l).Mount(public, authed)

	return r
}
