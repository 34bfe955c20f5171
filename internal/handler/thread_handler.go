package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/suiyuan/blog-ai/internal/middleware"
	"github.com/suiyuan/blog-ai/internal/service"
	"github.com/suiyuan/blog-ai/internal/service/thread"
)

// ThreadHandler 聊天线程处理器
type ThreadHandler struct {
	svc *service.Services
}

// NewThreadHandler 创建线程处理器
func NewThreadHandler(svc *service.Services) *ThreadHandler {
	return &ThreadHandler{svc: svc}
}

// identity 从请求解析归属身份
func (h *ThreadHandler) identity(c *gin.Context) (thread.Identity, bool) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		badRequest(c, "missing identity: provide a Bearer token or X-Session-ID header")
		return thread.Identity{}, false
	}
	return id, true
}

// codec 从 ?format= 解析编解码器，默认 aui/default
func (h *ThreadHandler) codec(c *gin.Context) (thread.Codec, bool) {
	format := c.DefaultQuery("format", thread.FormatDefault)
	codec, ok := thread.CodecFor(format)
	if !ok {
		badRequest(c, "unknown message format: "+format)
		return nil, false
	}
	return codec, true
}

// List 线程列表
func (h *ThreadHandler) List(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}

	threads, err := h.svc.Thread.List(c.Request.Context(), id)
	if err != nil {
		h.threadError(c, err)
		return
	}
	success(c, threads)
}

// Initialize 按外部关联 ID 惰性创建线程
func (h *ThreadHandler) Initialize(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	var req struct {
		ExternalID string `json:"external_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	t, err := h.svc.Thread.Initialize(c.Request.Context(), id, req.ExternalID)
	if err != nil {
		h.threadError(c, err)
		return
	}
	success(c, t)
}

// Fetch 获取线程
func (h *ThreadHandler) Fetch(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}

	t, err := h.svc.Thread.Fetch(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		h.threadError(c, err)
		return
	}
	success(c, t)
}

// Rename 重命名线程
func (h *ThreadHandler) Rename(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	var req struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.svc.Thread.Rename(c.Request.Context(), id, c.Param("id"), req.Title); err != nil {
		h.threadError(c, err)
		return
	}
	success(c, gin.H{"title": req.Title})
}

// Archive 归档线程
func (h *ThreadHandler) Archive(c *gin.Context) {
	h.setArchived(c, true)
}

// Unarchive 取消归档
func (h *ThreadHandler) Unarchive(c *gin.Context) {
	h.setArchived(c, false)
}

func (h *ThreadHandler) setArchived(c *gin.Context, archived bool) {
	id, ok := h.identity(c)
	if !ok {
		return
	}

	var err error
	if archived {
		err = h.svc.Thread.Archive(c.Request.Context(), id, c.Param("id"))
	} else {
		err = h.svc.Thread.Unarchive(c.Request.Context(), id, c.Param("id"))
	}
	if err != nil {
		h.threadError(c, err)
		return
	}
	success(c, gin.H{"archived": archived})
}

// Delete 删除线程
func (h *ThreadHandler) Delete(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}

	if err := h.svc.Thread.Delete(c.Request.Context(), id, c.Param("id")); err != nil {
		h.threadError(c, err)
		return
	}
	success(c, gin.H{"deleted": c.Param("id")})
}

// GenerateTitle 用第一条用户消息生成标题
func (h *ThreadHandler) GenerateTitle(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}

	title, err := h.svc.Thread.GenerateTitle(c.Request.Context(), id, c.Param("id"))
	if err != nil {
		h.threadError(c, err)
		return
	}
	success(c, gin.H{"title": title})
}

// AppendMessage 追加消息
func (h *ThreadHandler) AppendMessage(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	codec, ok := h.codec(c)
	if !ok {
		return
	}
	var req struct {
		Role     string        `json:"role" binding:"required"`
		Parts    []thread.Part `json:"parts" binding:"required"`
		ParentID *string       `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	msg, err := h.svc.Thread.AppendMessage(c.Request.Context(), id, c.Param("id"), codec, req.Role, &thread.Message{Parts: req.Parts}, req.ParentID)
	if err != nil {
		h.threadError(c, err)
		return
	}
	created(c, msg)
}

// LoadMessages 读取消息
func (h *ThreadHandler) LoadMessages(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	codec, ok := h.codec(c)
	if !ok {
		return
	}

	messages, err := h.svc.Thread.LoadMessages(c.Request.Context(), id, c.Param("id"), codec)
	if err != nil {
		h.threadError(c, err)
		return
	}
	success(c, messages)
}

func (h *ThreadHandler) threadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, thread.ErrThreadNotFound):
		notFound(c, err.Error())
	case errors.Is(err, thread.ErrInvalidIdentity),
		errors.Is(err, thread.ErrUnknownFormat),
		errors.Is(err, thread.ErrParentMismatch):
		badRequest(c, err.Error())
	default:
		errorResponse(c, err)
	}
}
