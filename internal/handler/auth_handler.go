package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/suiyuan/blog-ai/internal/middleware"
	"github.com/suiyuan/blog-ai/internal/service"
	"github.com/suiyuan/blog-ai/internal/service/auth"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	svc *service.Services
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(svc *service.Services) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register 注册
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.svc.Auth.Register(c.Request.Context(), &req)
	if err != nil {
		errorResponse(c, err)
		return
	}
	created(c, user)
}

// Login 登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	resp, err := h.svc.Auth.Login(c.Request.Context(), &req)
	if err != nil {
		errorResponse(c, err)
		return
	}
	if !resp.Success {
		c.JSON(401, Response{Code: -1, Message: resp.Message})
		return
	}
	success(c, resp)
}

// Me 当前用户信息
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(401, Response{Code: -1, Message: "not authenticated"})
		return
	}

	info := user.ToUserInfo()
	success(c, gin.H{
		"user":     info,
		"is_admin": h.svc.Auth.IsAdmin(user.Email),
	})
}

// ChangePassword 修改密码
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	userID, _ := middleware.GetUserID(c)

	if err := h.svc.Auth.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		errorResponse(c, err)
		return
	}
	success(c, gin.H{"message": "密码已更新"})
}
