package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-blog-api/internal/apperr"
	"go-blog-api/internal/domain"
	httpez "go-blog-api/internal/transport/http/ez"
)

// MountAdminActions 管理端接口集中在这里注册（分组已要求 admin 身份）
func MountAdminActions(admin *gin.RouterGroup, db *gorm.DB, log *zap.Logger) {
	ezAdmin := httpez.New(admin, db, log)

	// --- 用户列表 ---
	type listQ struct {
		Offset      int    `form:"offset,default=0"`
		Limit       int    `form:"limit,default=20"`
		Q           string `form:"q"`            // 按 username/email 模糊搜
		WithDeleted bool   `form:"with_deleted"` // 是否包含已封禁
	}
	type row struct {
		ID        string      `json:"id"`
		Username  string      `json:"username"`
		Email     string      `json:"email"`
		Role      domain.Role `json:"role"`
		CreatedAt time.Time   `json:"createdAt"`
	}
	type listOut struct {
		Total int64 `json:"total"`
		Items []row `json:"items"`
	}

	httpez.RegisterAction[listQ, listOut](ezAdmin, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, tx *gorm.DB, in *listQ) (listOut, error) {
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			q := tx.Model(&domain.User{})
			if in.WithDeleted {
				q = q.Unscoped()
			}
			if s := strings.TrimSpace(in.Q); s != "" {
				like := "%" + s + "%"
				q = q.Where("username LIKE ? OR email LIKE ?", like, like)
			}

			var total int64
			if err := q.Count(&total).Error; err != nil {
				return listOut{}, apperr.Store("count users failed", err)
			}

			var us []domain.User
			if err := q.Order("created_at DESC").Limit(in.Limit).Offset(in.Offset).Find(&us).Error; err != nil {
				return listOut{}, apperr.Store("list users failed", err)
			}

			out := listOut{Total: total, Items: make([]row, 0, len(us))}
			for _, u := range us {
				out.Items = append(out.Items, row{
					ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt,
				})
			}
			return out, nil
		},
	})

	// --- 封禁（软删；已签发的令牌随之失效，因为身份解析查不到账号） ---
	httpez.RegisterAction[struct{}, gin.H](ezAdmin, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/users/:id/ban",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			res := tx.Where("id = ?", id).Delete(&domain.User{})
			if res.Error != nil {
				return nil, apperr.Store("ban user failed", res.Error)
			}
			if res.RowsAffected == 0 {
				return nil, apperr.NotFound("user not found")
			}
			return gin.H{"id": id}, nil
		},
	})

	// --- 帖子治理删除（与作者删除同样级联评论与点赞） ---
	httpez.RegisterAction[struct{}, gin.H](ezAdmin, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/posts/:id",
		Binder: httpez.BindNone,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := tx.Where("post_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
				return nil, apperr.Store("delete comments failed", err)
			}
			if err := tx.Where("post_id = ?", id).Delete(&domain.Like{}).Error; err != nil {
				return nil, apperr.Store("delete likes failed", err)
			}
			res := tx.Delete(&domain.Post{}, "id = ?", id)
			if res.Error != nil {
				return nil, apperr.Store("delete post failed", res.Error)
			}
			if res.RowsAffected == 0 {
				return nil, apperr.NotFound("post not found")
			}
			return gin.H{"id": id}, nil
		},
	})
}
