package repository

import (
	"gorm.io/gorm"

	"github.com/suiyuan/blog-ai/internal/model"
)

// CategoryRepository 分类数据访问
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create 创建分类
func (r *CategoryRepository) Create(category *model.Category) error {
	return r.db.Create(category).Error
}

// GetByID 获取分类
func (r *CategoryRepository) GetByID(id int64) (*model.Category, error) {
	var category model.Category
	err := r.db.Where("id = ?", id).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// List 按名称排序列出所有分类
func (r *CategoryRepository) List() ([]*model.Category, error) {
	var categories []*model.Category
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

// Update 更新分类
func (r *CategoryRepository) Update(category *model.Category) error {
	return r.db.Save(category).Error
}

// Delete 删除分类，引用它的文章 category_id 置空（软解绑，不级联删除）
func (r *CategoryRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Article{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Category{}, "id = ?", id).Error
	})
}

// TagRepository 标签数据访问
type TagRepository struct {
	db *gorm.DB
}

// NewTagRepository 创建标签仓库
func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// Create 创建标签
func (r *TagRepository) Create(tag *model.Tag) error {
	return r.db.Create(tag).Error
}

// GetByID 获取标签
func (r *TagRepository) GetByID(id int64) (*model.Tag, error) {
	var tag model.Tag
	err := r.db.Where("id = ?", id).First(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// List 按名称排序列出所有标签
func (r *TagRepository) List() ([]*model.Tag, error) {
	var tags []*model.Tag
	err := r.db.Order("name ASC").Find(&tags).Error
	return tags, err
}

// Update 更新标签
func (r *TagRepository) Update(tag *model.Tag) error {
	return r.db.Save(tag).Error
}

// Delete 删除标签，先清理文章关联
func (r *TagRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.ArticleTag{}, "tag_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Tag{}, "id = ?", id).Error
	})
}
