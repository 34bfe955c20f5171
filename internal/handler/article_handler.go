package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/suiyuan/blog-ai/internal/middleware"
	"github.com/suiyuan/blog-ai/internal/model"
	"github.com/suiyuan/blog-ai/internal/service"
	"github.com/suiyuan/blog-ai/internal/service/article"
)

// ArticleHandler 文章处理器
type ArticleHandler struct {
	svc *service.Services
}

// NewArticleHandler 创建文章处理器
func NewArticleHandler(svc *service.Services) *ArticleHandler {
	return &ArticleHandler{svc: svc}
}

// articleView 公开文章视图，正文渲染成 HTML
type articleView struct {
	*model.Article
	HTML string `json:"html,omitempty"`
}

// ListPublished 公开文章列表
func (h *ArticleHandler) ListPublished(c *gin.Context) {
	page, size := getPagination(c)

	articles, total, err := h.svc.Article.ListPublished(c.Request.Context(), page, size)
	if err != nil {
		errorResponse(c, err)
		return
	}

	success(c, gin.H{
		"items": articles,
		"total": total,
		"page":  page,
		"size":  size,
	})
}

// GetPublished 公开读取单篇文章
func (h *ArticleHandler) GetPublished(c *gin.Context) {
	id, ok := getIDParam(c)
	if !ok {
		return
	}

	a, err := h.svc.Article.GetPublished(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, article.ErrArticleNotFound) {
			notFound(c, err.Error())
			return
		}
		errorResponse(c, err)
		return
	}

	html, err := article.RenderHTML(a.Content)
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, articleView{Article: a, HTML: html})
}

// IncrementViews 浏览计数
func (h *ArticleHandler) IncrementViews(c *gin.Context) {
	id, ok := getIDParam(c)
	if !ok {
		return
	}

	views, err := h.svc.Article.IncrementViews(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, article.ErrArticleNotFound) {
			notFound(c, err.Error())
			return
		}
		errorResponse(c, err)
		return
	}
	success(c, gin.H{"views": views})
}

// ToggleLike 点赞/取消点赞
func (h *ArticleHandler) ToggleLike(c *gin.Context) {
	id, ok := getIDParam(c)
	if !ok {
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		// 匿名访客用会话令牌记账
		identity, exists := middleware.GetIdentity(c)
		if !exists {
			badRequest(c, "missing identity")
			return
		}
		userID = identity.SessionID()
	}

	liked, likes, err := h.svc.Article.ToggleLike(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, article.ErrArticleNotFound) {
			notFound(c, err.Error())
			return
		}
		errorResponse(c, err)
		return
	}
	success(c, gin.H{"liked": liked, "likes": likes})
}

// Search 搜索已发布文章
func (h *ArticleHandler) Search(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		badRequest(c, "missing query parameter q")
		return
	}

	results, err := h.svc.Article.Search(c.Request.Context(), keyword, 10)
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, results)
}

// ListMine 当前用户的全部文章
func (h *ArticleHandler) ListMine(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	articles, err := h.svc.Article.ListByUser(c.Request.Context(), userID)
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, articles)
}

// GetMine 作者读取自己的文章
func (h *ArticleHandler) GetMine(c *gin.Context) {
	id, ok := getIDParam(c)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(c)

	a, err := h.svc.Article.GetForOwner(c.Request.Context(), id, userID)
	if err != nil {
		h.ownerError(c, err)
		return
	}
	success(c, a)
}

// Create 创建文章
func (h *ArticleHandler) Create(c *gin.Context) {
	var req article.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	userID, _ := middleware.GetUserID(c)

	a, err := h.svc.Article.Create(c.Request.Context(), userID, &req)
	if err != nil {
		errorResponse(c, err)
		return
	}
	created(c, a)
}

// Update 更新文章
func (h *ArticleHandler) Update(c *gin.Context) {
	id, ok := getIDParam(c)
	if !ok {
		return
	}
	var req article.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	userID, _ := middleware.GetUserID(c)

	a, err := h.svc.Article.Update(c.Request.Context(), id, userID, &req)
	if err != nil {
		h.ownerError(c, err)
		return
	}
	success(c, a)
}

// UpdateStatus 修改文章状态
func (h *ArticleHandler) UpdateStatus(c *gin.Context) {
	id, ok := getIDParam(c)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	userID, _ := middleware.GetUserID(c)

	a, err := h.svc.Article.UpdateStatus(c.Request.Context(), id, userID, req.Status)
	if err != nil {
		h.ownerError(c, err)
		return
	}
	success(c, a)
}

// Delete 删除文章
func (h *ArticleHandler) Delete(c *gin.Context) {
	id, ok := getIDParam(c)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(c)

	if err := h.svc.Article.Delete(c.Request.Context(), id, userID); err != nil {
		h.ownerError(c, err)
		return
	}
	success(c, gin.H{"deleted": id})
}

func (h *ArticleHandler) ownerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, article.ErrArticleNotFound):
		notFound(c, err.Error())
	case errors.Is(err, article.ErrNotOwner):
		forbidden(c, err.Error())
	default:
		errorResponse(c, err)
	}
}
