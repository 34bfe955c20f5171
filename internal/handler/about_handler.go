package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/suiyuan/blog-ai/internal/middleware"
	"github.com/suiyuan/blog-ai/internal/service"
	"github.com/suiyuan/blog-ai/internal/service/about"
)

// AboutHandler 关于我处理器
type AboutHandler struct {
	svc *service.Services
}

// NewAboutHandler 创建处理器
func NewAboutHandler(svc *service.Services) *AboutHandler {
	return &AboutHandler{svc: svc}
}

// Get 公开读取，locale 取自语言偏好
func (h *AboutHandler) Get(c *gin.Context) {
	locale := middleware.GetLocale(c)

	a, err := h.svc.About.Get(c.Request.Context(), locale)
	if err != nil {
		if errors.Is(err, about.ErrNotFound) {
			notFound(c, err.Error())
			return
		}
		errorResponse(c, err)
		return
	}
	success(c, a)
}

// List 全部语言的内容
func (h *AboutHandler) List(c *gin.Context) {
	items, err := h.svc.About.List(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, items)
}

// Upsert 按 locale 写入
func (h *AboutHandler) Upsert(c *gin.Context) {
	var req struct {
		Locale  string `json:"locale"`
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	a, err := h.svc.About.Upsert(c.Request.Context(), req.Locale, req.Content)
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, a)
}

// Delete 删除某个 locale 的内容
func (h *AboutHandler) Delete(c *gin.Context) {
	locale := c.Param("locale")
	if locale == "" {
		badRequest(c, "missing locale")
		return
	}
	if err := h.svc.About.Delete(c.Request.Context(), locale); err != nil {
		errorResponse(c, err)
		return
	}
	success(c, gin.H{"deleted": locale})
}
