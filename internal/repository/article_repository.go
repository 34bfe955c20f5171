package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/suiyuan/blog-ai/internal/model"
)

// ArticleRepository 文章数据访问
type ArticleRepository struct {
	db *gorm.DB
}

// NewArticleRepository 创建文章仓库
func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// Create 创建文章
func (r *ArticleRepository) Create(article *model.Article) error {
	return r.db.Create(article).Error
}

// GetByID 获取文章（不限状态）
func (r *ArticleRepository) GetByID(id int64) (*model.Article, error) {
	var article model.Article
	err := r.db.Preload("Category").Preload("Tags").Where("id = ?", id).First(&article).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// GetPublishedByID 获取已发布文章
// 未登录读者只能看到 published 状态的文章
func (r *ArticleRepository) GetPublishedByID(id int64) (*model.Article, error) {
	var article model.Article
	err := r.db.Preload("Category").Preload("Tags").
		Where("id = ? AND status = ?", id, model.ArticleStatusPublished).
		First(&article).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// ListPublished 分页列出已发布文章，按创建时间降序
func (r *ArticleRepository) ListPublished(offset, limit int) ([]*model.Article, error) {
	var articles []*model.Article
	err := r.db.Preload("Category").Preload("Tags").
		Where("status = ?", model.ArticleStatusPublished).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&articles).Error
	return articles, err
}

// CountPublished 统计已发布文章数
func (r *ArticleRepository) CountPublished() (int64, error) {
	var count int64
	err := r.db.Model(&model.Article{}).
		Where("status = ?", model.ArticleStatusPublished).
		Count(&count).Error
	return count, err
}

// ListByUser 列出用户的所有文章（dashboard 用，不限状态）
func (r *ArticleRepository) ListByUser(userID string) ([]*model.Article, error) {
	var articles []*model.Article
	err := r.db.Preload("Category").Preload("Tags").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&articles).Error
	return articles, err
}

// Search 按关键词模糊搜索已发布文章（标题/描述/正文），按创建时间降序
func (r *ArticleRepository) Search(keyword string, limit int) ([]*model.Article, error) {
	var articles []*model.Article
	pattern := "%" + keyword + "%"
	err := r.db.Preload("Category").
		Where("status = ?", model.ArticleStatusPublished).
		Where("title ILIKE ? OR description ILIKE ? OR content ILIKE ?", pattern, pattern, pattern).
		Order("created_at DESC").
		Limit(limit).
		Find(&articles).Error
	return articles, err
}

// Update 更新文章
func (r *ArticleRepository) Update(article *model.Article) error {
	return r.db.Save(article).Error
}

// UpdateStatus 更新文章状态并刷新 updated_at
func (r *ArticleRepository) UpdateStatus(id int64, status string) (*model.Article, error) {
	if err := r.db.Model(&model.Article{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error; err != nil {
		return nil, err
	}

	var article model.Article
	if err := r.db.Where("id = ?", id).First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// Delete 删除文章，先清理标签关联
func (r *ArticleRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.ArticleTag{}, "article_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Article{}, "id = ?", id).Error
	})
}

// ReplaceTags 重写文章的标签关联
func (r *ArticleRepository) ReplaceTags(articleID int64, tagIDs []int64) error {
	if err := r.db.Delete(&model.ArticleTag{}, "article_id = ?", articleID).Error; err != nil {
		return err
	}
	return r.AddTags(articleID, tagIDs)
}

// AddTags 追加文章的标签关联
func (r *ArticleRepository) AddTags(articleID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]model.ArticleTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, model.ArticleTag{ArticleID: articleID, TagID: tagID})
	}
	return r.db.Create(&rows).Error
}

// GetViews 读取阅读数
func (r *ArticleRepository) GetViews(id int64) (int, error) {
	var article model.Article
	if err := r.db.Select("views").Where("id = ?", id).First(&article).Error; err != nil {
		return 0, err
	}
	return article.Views, nil
}

// SetViews 写入阅读数
func (r *ArticleRepository) SetViews(id int64, views int) error {
	return r.db.Model(&model.Article{}).Where("id = ?", id).Update("views", views).Error
}

// SetLikes 写入点赞数
func (r *ArticleRepository) SetLikes(id int64, likes int) error {
	return r.db.Model(&model.Article{}).Where("id = ?", id).Update("likes", likes).Error
}

// GetLike 查询点赞记录
func (r *ArticleRepository) GetLike(articleID int64, userID string) (*model.ArticleLike, error) {
	var like model.ArticleLike
	err := r.db.Where("article_id = ? AND user_id = ?", articleID, userID).First(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

// CreateLike 插入点赞记录（唯一索引兜底并发重复插入）
func (r *ArticleRepository) CreateLike(like *model.ArticleLike) error {
	return r.db.Create(like).Error
}

// DeleteLike 删除点赞记录
func (r *ArticleRepository) DeleteLike(id int64) error {
	return r.db.Delete(&model.ArticleLike{}, "id = ?", id).Error
}
