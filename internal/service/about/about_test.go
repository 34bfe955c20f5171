package about

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/suiyuan/blog-ai/internal/model"
)

// mockAboutRepository Mock About Repository
type mockAboutRepository struct {
	items map[string]*model.AboutMe
}

func newMockAboutRepo() *mockAboutRepository {
	return &mockAboutRepository{items: make(map[string]*model.AboutMe)}
}

func (m *mockAboutRepository) GetByLocale(locale string) (*model.AboutMe, error) {
	if a, ok := m.items[locale]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAboutRepository) List() ([]*model.AboutMe, error) {
	result := make([]*model.AboutMe, 0, len(m.items))
	for _, a := range m.items {
		result = append(result, a)
	}
	return result, nil
}

func (m *mockAboutRepository) Upsert(about *model.AboutMe) error {
	m.items[about.Locale] = about
	return nil
}

func (m *mockAboutRepository) DeleteByLocale(locale string) error {
	delete(m.items, locale)
	return nil
}

func TestGetFallsBackToDefaultLocale(t *testing.T) {
	repo := newMockAboutRepo()
	svc := NewService(repo, "")
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, "zh", "你好"); err != nil {
		t.Fatalf("Upsert 失败: %v", err)
	}

	// 不指定 locale 时落到默认的 zh
	got, err := svc.Get(ctx, "")
	if err != nil {
		t.Fatalf("Get 失败: %v", err)
	}
	if got.Content != "你好" {
		t.Errorf("Content = %q", got.Content)
	}
}

func TestGetMissingLocale(t *testing.T) {
	svc := NewService(newMockAboutRepo(), "zh")

	if _, err := svc.Get(context.Background(), "fr"); !errors.Is(err, ErrNotFound) {
		t.Errorf("缺失语言应返回 ErrNotFound, err = %v", err)
	}
}

func TestUpsertOverwrites(t *testing.T) {
	repo := newMockAboutRepo()
	svc := NewService(repo, "zh")
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, "en", "hello"); err != nil {
		t.Fatalf("Upsert 失败: %v", err)
	}
	updated, err := svc.Upsert(ctx, "en", "hello again")
	if err != nil {
		t.Fatalf("Upsert 失败: %v", err)
	}
	if updated.Content != "hello again" {
		t.Errorf("Content = %q", updated.Content)
	}
	if len(repo.items) != 1 {
		t.Errorf("同一 locale 应覆盖而不是新增, 条数 = %d", len(repo.items))
	}
}

func TestDeleteLocale(t *testing.T) {
	repo := newMockAboutRepo()
	svc := NewService(repo, "zh")
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, "en", "hello"); err != nil {
		t.Fatalf("Upsert 失败: %v", err)
	}
	if err := svc.Delete(ctx, "en"); err != nil {
		t.Fatalf("Delete 失败: %v", err)
	}
	if _, err := svc.Get(ctx, "en"); !errors.Is(err, ErrNotFound) {
		t.Errorf("删除后读取应失败, err = %v", err)
	}
}
