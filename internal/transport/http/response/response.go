package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-blog-api/internal/apperr"
)

// 错误一律 {"error": msg}；500 记日志、不向外泄露内部原因。

func Err(c *gin.Context, l *zap.Logger, err error) {
	status := apperr.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		if l != nil {
			l.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.Error(err),
			)
		}
		msg = "Server error"
	}
	c.JSON(status, gin.H{"error": msg})
}

func AbortErr(c *gin.Context, l *zap.Logger, err error) {
	status := apperr.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		if l != nil {
			l.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		}
		msg = "Server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func AbortMsg(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
