// Package about 提供"关于我"内容管理，按 locale 存储
package about

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/suiyuan/blog-ai/internal/model"
)

// ErrNotFound 指定 locale 没有内容
var ErrNotFound = errors.New("该语言暂无内容")

// Repository 存储接口
type Repository interface {
	GetByLocale(locale string) (*model.AboutMe, error)
	List() ([]*model.AboutMe, error)
	Upsert(about *model.AboutMe) error
	DeleteByLocale(locale string) error
}

// Service 关于我服务
type Service struct {
	repo          Repository
	defaultLocale string
}

// NewService 创建服务
func NewService(repo Repository, defaultLocale string) *Service {
	if defaultLocale == "" {
		defaultLocale = "zh"
	}
	return &Service{repo: repo, defaultLocale: defaultLocale}
}

// Get 按 locale 读取，未指定时用默认语言
func (s *Service) Get(ctx context.Context, locale string) (*model.AboutMe, error) {
	if locale == "" {
		locale = s.defaultLocale
	}
	about, err := s.repo.GetByLocale(locale)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("读取内容失败: %w", err)
	}
	return about, nil
}

// List 全部语言的内容
func (s *Service) List(ctx context.Context) ([]*model.AboutMe, error) {
	return s.repo.List()
}

// Upsert 按 locale 写入，存在则覆盖
func (s *Service) Upsert(ctx context.Context, locale, content string) (*model.AboutMe, error) {
	if locale == "" {
		locale = s.defaultLocale
	}
	about := &model.AboutMe{Locale: locale, Content: content}
	if err := s.repo.Upsert(about); err != nil {
		return nil, fmt.Errorf("保存内容失败: %w", err)
	}
	return s.repo.GetByLocale(locale)
}

// Delete 删除某个 locale 的内容
func (s *Service) Delete(ctx context.Context, locale string) error {
	if err := s.repo.DeleteByLocale(locale); err != nil {
		return fmt.Errorf("删除内容失败: %w", err)
	}
	return nil
}
