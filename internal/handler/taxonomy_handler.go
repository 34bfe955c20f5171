package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/suiyuan/blog-ai/internal/service"
	"github.com/suiyuan/blog-ai/internal/service/taxonomy"
)

// TaxonomyHandler 分类/标签处理器
type TaxonomyHandler struct {
	svc *service.Services
}

// NewTaxonomyHandler 创建分类/标签处理器
func NewTaxonomyHandler(svc *service.Services) *TaxonomyHandler {
	return &TaxonomyHandler{svc: svc}
}

// ListCategories 分类列表
func (h *TaxonomyHandler) ListCategories(c *gin.Context) {
	categories, err := h.svc.Taxonomy.ListCategories(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, categories)
}

// CreateCategory 创建分类
func (h *TaxonomyHandler) CreateCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	category, err := h.svc.Taxonomy.CreateCategory(c.Request.Context(), req.Name, req.Slug, req.Description)
	if err != nil {
		errorResponse(c, err)
		return
	}
	created(c, category)
}

// UpdateCategory 更新分类
func (h *TaxonomyHandler) UpdateCategory(c *gin.Context) {
	id, ok := getIDParam(c)
	if !ok {
		return
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	category, err := h.svc.Taxonomy.UpdateCategory(c.Request.Context(), id, req.Name, req.Description)
	if err != nil {
		h.taxonomyError(c, err)
		return
	}
	success(c, category)
}

// DeleteCategory 删除分类
func (h *TaxonomyHandler) DeleteCategory(c *gin.Context) {
	id, ok := getIDParam(c)
	if !ok {
		return
	}
	if err := h.svc.Taxonomy.DeleteCategory(c.Request.Context(), id); err != nil {
		h.taxonomyError(c, err)
		return
	}
	success(c, gin.H{"deleted": id})
}

// ListTags 标签列表
func (h *TaxonomyHandler) ListTags(c *gin.Context) {
	tags, err := h.svc.Taxonomy.ListTags(c.Request.Context())
	if err != nil {
		errorResponse(c, err)
		return
	}
	success(c, tags)
}

// CreateTag 创建标签
func (h *TaxonomyHandler) CreateTag(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
		Slug string `json:"slug"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	tag, err := h.svc.Taxonomy.CreateTag(c.Request.Context(), req.Name, req.Slug)
	if err != nil {
		errorResponse(c, err)
		return
	}
	created(c, tag)
}

// UpdateTag 更新标签
func (h *TaxonomyHandler) UpdateTag(c *gin.Context) {
	id, ok := getIDParam(c)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	tag, err := h.svc.Taxonomy.UpdateTag(c.Request.Context(), id, req.Name)
	if err != nil {
		h.taxonomyError(c, err)
		return
	}
	success(c, tag)
}

// DeleteTag 删除标签
func (h *TaxonomyHandler) DeleteTag(c *gin.Context) {
	id, ok := getIDParam(c)
	if !ok {
		return
	}
	if err := h.svc.Taxonomy.DeleteTag(c.Request.Context(), id); err != nil {
		h.taxonomyError(c, err)
		return
	}
	success(c, gin.H{"deleted": id})
}

func (h *TaxonomyHandler) taxonomyError(c *gin.Context, err error) {
	if errors.Is(err, taxonomy.ErrNotFound) {
		notFound(c, err.Error())
		return
	}
	errorResponse(c, err)
}
