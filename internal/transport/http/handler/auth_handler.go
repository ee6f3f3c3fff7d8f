package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-blog-api/internal/apperr"
	"go-blog-api/internal/service"
	resp "go-blog-api/internal/transport/http/response"
)

type AuthHandler struct {
	svc *service.AuthService
	log *zap.Logger
}

func NewAuthHandler(svc *service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

func (h *AuthHandler) Mount(api *gin.RouterGroup) {
	g := api.Group("/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Err(c, h.log, apperr.Validation("all fields are required"))
		return
	}
	u, err := h.svc.Register(c.Request.Context(), in.Username, in.Email, in.Password)
	if err != nil {
		resp.Err(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Err(c, h.log, apperr.Validation("username and password required"))
		return
	}
	token, u, err := h.svc.Login(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		resp.Err(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
}
