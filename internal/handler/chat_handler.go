package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/suiyuan/blog-ai/internal/middleware"
	"github.com/suiyuan/blog-ai/internal/service"
	"github.com/suiyuan/blog-ai/internal/service/assistant"
	"github.com/suiyuan/blog-ai/internal/service/thread"
)

// ChatHandler 助手对话处理器
type ChatHandler struct {
	svc *service.Services
}

// NewChatHandler 创建对话处理器
func NewChatHandler(svc *service.Services) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// ConversationMessage 客户端提交的对话消息
type ConversationMessage struct {
	Role  string        `json:"role"`
	Parts []thread.Part `json:"parts"`
}

// ChatRequest 对话请求
// messages 里只取最后一条用户消息作为本轮输入，历史以服务端存储为准
type ChatRequest struct {
	ThreadID string                `json:"thread_id" binding:"required"`
	Messages []ConversationMessage `json:"messages" binding:"required"`
}

// latestUserTurn 从消息列表里取最后一条用户消息的片段
func latestUserTurn(msgs []ConversationMessage) ([]thread.Part, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == "user" && len(msgs[i].Parts) > 0 {
			return msgs[i].Parts, true
		}
	}
	return nil, false
}

// Stream 流式对话（SSE）
func (h *ChatHandler) Stream(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	parts, ok := latestUserTurn(req.Messages)
	if !ok {
		badRequest(c, "messages must contain a user message")
		return
	}

	identity, ok := middleware.GetIdentity(c)
	if !ok {
		badRequest(c, "missing identity")
		return
	}

	// 工具通过 context 读取当前用户做权限判定
	ctx := c.Request.Context()
	if user, ok := middleware.GetCurrentUser(c); ok {
		ctx = service.WithCurrentUser(ctx, &service.CurrentUser{
			ID:      user.ID,
			Email:   user.Email,
			IsAdmin: h.svc.Auth.IsAdmin(user.Email),
		})
	}

	eventCh, err := h.svc.Assistant.Stream(ctx, &assistant.ChatRequest{
		ThreadID: req.ThreadID,
		Identity: identity,
		Query:    (&thread.Message{Parts: parts}).Text(),
		Parts:    parts,
	})
	if err != nil {
		errorResponse(c, err)
		return
	}

	// 设置 SSE 响应头
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("Transfer-Encoding", "chunked")

	for event := range eventCh {
		select {
		case <-c.Request.Context().Done():
			return
		default:
			c.SSEvent("", event)
			c.Writer.Flush()
		}

		if event.Type == "end" || event.Type == "error" {
			return
		}
	}
}

// Stop 停止线程上进行中的生成
func (h *ChatHandler) Stop(c *gin.Context) {
	threadID := c.Param("id")
	stopped := h.svc.Assistant.Stop(threadID)
	success(c, gin.H{"stopped": stopped})
}

// Partial 取回中断生成的部分输出
func (h *ChatHandler) Partial(c *gin.Context) {
	content, err := h.svc.Assistant.Partial(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, gin.H{"content": content})
}

// ListTools 列出助手可用的工具
func (h *ChatHandler) ListTools(c *gin.Context) {
	success(c, gin.H{"tools": service.ListToolNames(c.Request.Context(), h.svc.AllTools)})
}

// UploadAttachment 上传聊天附件
func (h *ChatHandler) UploadAttachment(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "missing file")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		errorResponse(c, err)
		return
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	attachment, err := h.svc.Attachment.Upload(c.Request.Context(), fileHeader.Filename, contentType, fileHeader.Size, src)
	if err != nil {
		errorResponse(c, err)
		return
	}
	created(c, attachment)
}
