// Package taxonomy 提供分类和标签管理
package taxonomy

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/suiyuan/blog-ai/internal/model"
	"github.com/suiyuan/blog-ai/internal/slug"
)

// ErrNotFound 分类或标签不存在
var ErrNotFound = errors.New("记录不存在")

// CategoryRepository 分类存储接口
type CategoryRepository interface {
	Create(category *model.Category) error
	GetByID(id int64) (*model.Category, error)
	List() ([]*model.Category, error)
	Update(category *model.Category) error
	Delete(id int64) error
}

// TagRepository 标签存储接口
type TagRepository interface {
	Create(tag *model.Tag) error
	GetByID(id int64) (*model.Tag, error)
	List() ([]*model.Tag, error)
	Update(tag *model.Tag) error
	Delete(id int64) error
}

// Service 分类/标签服务
type Service struct {
	categories CategoryRepository
	tags       TagRepository
}

// NewService 创建分类/标签服务
func NewService(categories CategoryRepository, tags TagRepository) *Service {
	return &Service{categories: categories, tags: tags}
}

// ListCategories 全部分类，按名称排序
func (s *Service) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return s.categories.List()
}

// CreateCategory 创建分类，customSlug 为空时由名称派生
func (s *Service) CreateCategory(ctx context.Context, name, customSlug, description string) (*model.Category, error) {
	if name == "" {
		return nil, errors.New("分类名称不能为空")
	}
	if customSlug == "" {
		customSlug = slug.Generate(name)
	}
	category := &model.Category{
		Name:        name,
		Slug:        customSlug,
		Description: description,
	}
	if err := s.categories.Create(category); err != nil {
		return nil, fmt.Errorf("创建分类失败: %w", err)
	}
	return category, nil
}

// UpdateCategory 更新分类，名称变化时重新派生 slug
func (s *Service) UpdateCategory(ctx context.Context, id int64, name, description string) (*model.Category, error) {
	category, err := s.categories.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("查询分类失败: %w", err)
	}

	if name != "" && name != category.Name {
		category.Name = name
		category.Slug = slug.Generate(name)
	}
	if description != "" {
		category.Description = description
	}
	if err := s.categories.Update(category); err != nil {
		return nil, fmt.Errorf("更新分类失败: %w", err)
	}
	return category, nil
}

// DeleteCategory 删除分类，引用该分类的文章归为未分类
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := s.categories.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("查询分类失败: %w", err)
	}
	if err := s.categories.Delete(id); err != nil {
		return fmt.Errorf("删除分类失败: %w", err)
	}
	return nil
}

// ListTags 全部标签，按名称排序
func (s *Service) ListTags(ctx context.Context) ([]*model.Tag, error) {
	return s.tags.List()
}

// CreateTag 创建标签，customSlug 为空时由名称派生
func (s *Service) CreateTag(ctx context.Context, name, customSlug string) (*model.Tag, error) {
	if name == "" {
		return nil, errors.New("标签名称不能为空")
	}
	if customSlug == "" {
		customSlug = slug.Generate(name)
	}
	tag := &model.Tag{Name: name, Slug: customSlug}
	if err := s.tags.Create(tag); err != nil {
		return nil, fmt.Errorf("创建标签失败: %w", err)
	}
	return tag, nil
}

// UpdateTag 更新标签
func (s *Service) UpdateTag(ctx context.Context, id int64, name string) (*model.Tag, error) {
	tag, err := s.tags.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("查询标签失败: %w", err)
	}
	if name != "" && name != tag.Name {
		tag.Name = name
		tag.Slug = slug.Generate(name)
	}
	if err := s.tags.Update(tag); err != nil {
		return nil, fmt.Errorf("更新标签失败: %w", err)
	}
	return tag, nil
}

// DeleteTag 删除标签及其文章关联
func (s *Service) DeleteTag(ctx context.Context, id int64) error {
	if _, err := s.tags.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("查询标签失败: %w", err)
	}
	if err := s.tags.Delete(id); err != nil {
		return fmt.Errorf("删除标签失败: %w", err)
	}
	return nil
}
