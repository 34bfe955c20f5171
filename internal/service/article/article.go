// Package article 提供文章的读写、浏览计数和点赞
package article

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/suiyuan/blog-ai/internal/model"
)

var (
	// ErrArticleNotFound 文章不存在或不可见
	ErrArticleNotFound = errors.New("文章不存在")
	// ErrNotOwner 当前用户不是文章作者
	ErrNotOwner = errors.New("无权操作该文章")
)

// Repository 文章存储接口
type Repository interface {
	Create(article *model.Article) error
	GetByID(id int64) (*model.Article, error)
	GetPublishedByID(id int64) (*model.Article, error)
	ListPublished(offset, limit int) ([]*model.Article, error)
	CountPublished() (int64, error)
	ListByUser(userID string) ([]*model.Article, error)
	Search(keyword string, limit int) ([]*model.Article, error)
	Update(article *model.Article) error
	UpdateStatus(id int64, status string) (*model.Article, error)
	Delete(id int64) error
	ReplaceTags(articleID int64, tagIDs []int64) error
	GetViews(id int64) (int, error)
	SetViews(id int64, views int) error
	SetLikes(id int64, likes int) error
	GetLike(articleID int64, userID string) (*model.ArticleLike, error)
	CreateLike(like *model.ArticleLike) error
	DeleteLike(id int64) error
}

// Service 文章服务
type Service struct {
	repo Repository
}

// NewService 创建文章服务
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListPublished 公开文章列表，分页并返回总数
func (s *Service) ListPublished(ctx context.Context, page, size int) ([]*model.Article, int64, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 10
	}

	articles, err := s.repo.ListPublished((page-1)*size, size)
	if err != nil {
		return nil, 0, fmt.Errorf("查询文章列表失败: %w", err)
	}
	total, err := s.repo.CountPublished()
	if err != nil {
		return nil, 0, fmt.Errorf("统计文章数失败: %w", err)
	}
	return articles, total, nil
}

// GetPublished 公开读取单篇文章，只返回已发布的
func (s *Service) GetPublished(ctx context.Context, id int64) (*model.Article, error) {
	article, err := s.repo.GetPublishedByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("查询文章失败: %w", err)
	}
	return article, nil
}

// GetForOwner 作者读取自己的文章，不限状态
func (s *Service) GetForOwner(ctx context.Context, id int64, userID string) (*model.Article, error) {
	article, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("查询文章失败: %w", err)
	}
	if article.UserID != userID {
		return nil, ErrNotOwner
	}
	return article, nil
}

// ListByUser 作者的全部文章
func (s *Service) ListByUser(ctx context.Context, userID string) ([]*model.Article, error) {
	return s.repo.ListByUser(userID)
}

// SearchResult 搜索命中
type SearchResult struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Search 在已发布文章中搜索关键词
func (s *Service) Search(ctx context.Context, keyword string, limit int) ([]*SearchResult, error) {
	if limit <= 0 || limit > 20 {
		limit = 5
	}
	articles, err := s.repo.Search(keyword, limit)
	if err != nil {
		return nil, fmt.Errorf("搜索文章失败: %w", err)
	}

	results := make([]*SearchResult, 0, len(articles))
	for _, a := range articles {
		results = append(results, &SearchResult{
			ID:      a.ID,
			Title:   a.Title,
			Snippet: Snippet(a.Content, keyword),
		})
	}
	return results, nil
}

// CreateRequest 创建文章请求
type CreateRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Content     string  `json:"content"`
	Author      string  `json:"author"`
	Image       string  `json:"image"`
	Status      string  `json:"status"`
	CategoryID  *int64  `json:"category_id"`
	TagIDs      []int64 `json:"tag_ids"`
}

// Create 创建文章，未指定状态时默认草稿
func (s *Service) Create(ctx context.Context, userID string, req *CreateRequest) (*model.Article, error) {
	status := req.Status
	if status == "" {
		status = model.ArticleStatusDraft
	}
	if !validStatus(status) {
		return nil, fmt.Errorf("无效的文章状态: %s", req.Status)
	}

	article := &model.Article{
		UserID:      userID,
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Author:      req.Author,
		Image:       req.Image,
		Status:      status,
		ReadTime:    EstimateReadTime(req.Content),
	}
	if status == model.ArticleStatusPublished {
		article.PublishDate = time.Now()
	}

	if err := s.repo.Create(article); err != nil {
		return nil, fmt.Errorf("创建文章失败: %w", err)
	}
	if len(req.TagIDs) > 0 {
		if err := s.repo.ReplaceTags(article.ID, req.TagIDs); err != nil {
			return nil, fmt.Errorf("关联标签失败: %w", err)
		}
	}
	return s.repo.GetByID(article.ID)
}

// UpdateRequest 更新文章请求
type UpdateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Content     *string  `json:"content"`
	Image       *string  `json:"image"`
	CategoryID  *int64   `json:"category_id"`
	TagIDs      *[]int64 `json:"tag_ids"`
}

// Update 更新文章，标签全量替换
func (s *Service) Update(ctx context.Context, id int64, userID string, req *UpdateRequest) (*model.Article, error) {
	article, err := s.GetForOwner(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		article.Title = *req.Title
	}
	if req.Description != nil {
		article.Description = *req.Description
	}
	if req.Content != nil {
		article.Content = *req.Content
		article.ReadTime = EstimateReadTime(*req.Content)
	}
	if req.Image != nil {
		article.Image = *req.Image
	}
	if req.CategoryID != nil {
		article.CategoryID = req.CategoryID
	}

	if err := s.repo.Update(article); err != nil {
		return nil, fmt.Errorf("更新文章失败: %w", err)
	}
	if req.TagIDs != nil {
		if err := s.repo.ReplaceTags(id, *req.TagIDs); err != nil {
			return nil, fmt.Errorf("更新标签失败: %w", err)
		}
	}
	return s.repo.GetByID(id)
}

// UpdateStatus 变更文章状态，发布时补记发布时间
func (s *Service) UpdateStatus(ctx context.Context, id int64, userID, status string) (*model.Article, error) {
	if !validStatus(status) {
		return nil, fmt.Errorf("无效的文章状态: %s", status)
	}
	article, err := s.GetForOwner(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	// 首次发布补记发布时间
	if status == model.ArticleStatusPublished && article.PublishDate.IsZero() {
		article.Status = status
		article.PublishDate = time.Now()
		if err := s.repo.Update(article); err != nil {
			return nil, fmt.Errorf("更新状态失败: %w", err)
		}
		return article, nil
	}

	article, err = s.repo.UpdateStatus(id, status)
	if err != nil {
		return nil, fmt.Errorf("更新状态失败: %w", err)
	}
	return article, nil
}

// Delete 删除文章及其标签关联
func (s *Service) Delete(ctx context.Context, id int64, userID string) error {
	if _, err := s.GetForOwner(ctx, id, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("删除文章失败: %w", err)
	}
	return nil
}

// IncrementViews 浏览计数 +1
// 读取后回写，并发下可能少计，见 DESIGN.md
func (s *Service) IncrementViews(ctx context.Context, id int64) (int, error) {
	views, err := s.repo.GetViews(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrArticleNotFound
		}
		return 0, fmt.Errorf("读取浏览数失败: %w", err)
	}
	views++
	if err := s.repo.SetViews(id, views); err != nil {
		return 0, fmt.Errorf("更新浏览数失败: %w", err)
	}
	return views, nil
}

// ToggleLike 点赞或取消点赞
// 点赞记录上的唯一索引保证并发重复点赞只成功一次
func (s *Service) ToggleLike(ctx context.Context, articleID int64, userID string) (liked bool, likes int, err error) {
	article, err := s.repo.GetPublishedByID(articleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, ErrArticleNotFound
		}
		return false, 0, fmt.Errorf("查询文章失败: %w", err)
	}

	existing, err := s.repo.GetLike(articleID, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, 0, fmt.Errorf("查询点赞记录失败: %w", err)
	}

	if existing != nil {
		if err := s.repo.DeleteLike(existing.ID); err != nil {
			return false, 0, fmt.Errorf("取消点赞失败: %w", err)
		}
		likes = article.Likes - 1
		if likes < 0 {
			likes = 0
		}
		if err := s.repo.SetLikes(articleID, likes); err != nil {
			return false, 0, fmt.Errorf("更新点赞数失败: %w", err)
		}
		return false, likes, nil
	}

	like := &model.ArticleLike{ArticleID: articleID, UserID: userID}
	if err := s.repo.CreateLike(like); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// 并发重复点赞，第二次插入输给唯一索引
			return true, article.Likes, nil
		}
		return false, 0, fmt.Errorf("点赞失败: %w", err)
	}
	likes = article.Likes + 1
	if err := s.repo.SetLikes(articleID, likes); err != nil {
		return false, 0, fmt.Errorf("更新点赞数失败: %w", err)
	}
	return true, likes, nil
}

func validStatus(status string) bool {
	switch status {
	case model.ArticleStatusDraft, model.ArticleStatusPublished, model.ArticleStatusArchived:
		return true
	}
	return false
}
