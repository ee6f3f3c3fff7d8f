package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-blog-api/internal/apperr"
	"go-blog-api/internal/core/auth"
	"go-blog-api/internal/domain"
	resp "go-blog-api/internal/transport/http/response"
)

const keyIdentity = "identity"

func resolve(c *gin.Context, j *auth.JWTer, users domain.UserRepository) (*domain.User, error) {
	ah := c.GetHeader("Authorization")
	if !strings.HasPrefix(ah, "Bearer ") {
		return nil, apperr.NoToken()
	}
	claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
	if err != nil {
		return nil, apperr.InvalidToken()
	}
	u, err := users.FindByID(c.Request.Context(), claims.UID)
	if err != nil {
		return nil, apperr.Store("load identity failed", err)
	}
	if u == nil {
		// 令牌还有效但账号已不存在（例如被封禁）
		return nil, apperr.IdentityNotFound()
	}
	return u, nil
}

// Identity 解析 Bearer 令牌并装载当前身份；失败即 401
func Identity(j *auth.JWTer, users domain.UserRepository, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := resolve(c, j, users)
		if err != nil {
			resp.AbortErr(c, l, err)
			return
		}
		c.Set(keyIdentity, u)
		c.Next()
	}
}

// OptionalIdentity 尽力解析身份，失败不拦截（匿名也能浏览，带身份才有 isLiked）
func OptionalIdentity(j *auth.JWTer, users domain.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if u, err := resolve(c, j, users); err == nil {
			c.Set(keyIdentity, u)
		}
		c.Next()
	}
}

// RequireRole 在 Identity 之后使用；角色来自身份记录而不是令牌
func RequireRole(role domain.Role, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			resp.AbortErr(c, l, apperr.NoToken())
			return
		}
		if u.Role != role {
			resp.AbortErr(c, l, apperr.Forbidden("forbidden"))
			return
		}
		c.Next()
	}
}

// CurrentUser 取已解析身份；未解析返回 nil
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(keyIdentity); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}
