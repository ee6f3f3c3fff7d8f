package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-blog-api/internal/apperr"
	"go-blog-api/internal/service"
	mdw "go-blog-api/internal/transport/http/middleware"
	resp "go-blog-api/internal/transport/http/response"
)

type PostHandler struct {
	svc *service.PostService
	log *zap.Logger
}

func NewPostHandler(svc *service.PostService, log *zap.Logger) *PostHandler {
	return &PostHandler{svc: svc, log: log}
}

// Mount public 组可匿名访问（带身份则响应里多 isLiked），authed 组必须登录
func (h *PostHandler) Mount(public, authed *gin.RouterGroup) {
	public.GET("/posts", h.List)
	public.GET("/posts/:id", h.Get)

	authed.GET("/posts/me/list", h.ListMine)
	authed.POST("/posts", h.Create)
	authed.PUT("/posts/:id", h.Update)
	authed.DELETE("/posts/:id", h.Delete)
	authed.POST("/posts/:id/like", h.ToggleLike)
	authed.POST("/posts/:id/comments", h.AddComment)
	// gin 要求同一段的通配名一致，post 段统一用 :id
	authed.DELETE("/posts/:id/comments/:commentId", h.RemoveComment)
}

func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.svc.List(c.Request.Context(), mdw.CurrentUser(c))
	if err != nil {
		resp.Err(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"), mdw.CurrentUser(c))
	if err != nil {
		resp.Err(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PostHandler) ListMine(c *gin.Context) {
	posts, err := h.svc.ListMine(c.Request.Context(), mdw.CurrentUser(c))
	if err != nil {
		resp.Err(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) Create(c *gin.Context) {
	var in struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Err(c, h.log, apperr.Validation("title and content are required"))
		return
	}
	p, err := h.svc.Create(c.Request.Context(), mdw.CurrentUser(c), in.Title, in.Content)
	if err != nil {
		resp.Err(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PostHandler) Update(c *gin.Context) {
	// 指针区分“没传”和“传了空串”：空串会被当成非法输入拒绝
	var in struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Err(c, h.log, apperr.Validation("invalid request body"))
		return
	}
	p, err := h.svc.Update(c.Request.Context(), mdw.CurrentUser(c), c.Param("id"), in.Title, in.Content)
	if err != nil {
		resp.Err(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), mdw.CurrentUser(c), c.Param("id")); err != nil {
		resp.Err(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

func (h *PostHandler) ToggleLike(c *gin.Context) {
	res, err := h.svc.ToggleLike(c.Request.Context(), mdw.CurrentUser(c), c.Param("id"))
	if err != nil {
		resp.Err(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *PostHandler) AddComment(c *gin.Context) {
	var in struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Err(c, h.log, apperr.Validation("comment content is required"))
		return
	}
	cm, err := h.svc.AddComment(c.Request.Context(), mdw.CurrentUser(c), c.Param("id"), in.Content)
	if err != nil {
		resp.Err(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, cm)
}

func (h *PostHandler) RemoveComment(c *gin.Context) {
	err := h.svc.RemoveComment(c.Request.Context(), mdw.CurrentUser(c),
		c.Param("id"), c.Param("commentId"))
	if err != nil {
		resp.Err(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
