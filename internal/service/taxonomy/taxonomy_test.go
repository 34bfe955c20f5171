package taxonomy

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/suiyuan/blog-ai/internal/model"
)

// mockCategoryRepository Mock Category Repository
type mockCategoryRepository struct {
	items  map[int64]*model.Category
	nextID int64
}

func newMockCategoryRepo() *mockCategoryRepository {
	return &mockCategoryRepository{items: make(map[int64]*model.Category), nextID: 1}
}

func (m *mockCategoryRepository) Create(c *model.Category) error {
	c.ID = m.nextID
	m.nextID++
	m.items[c.ID] = c
	return nil
}

func (m *mockCategoryRepository) GetByID(id int64) (*model.Category, error) {
	if c, ok := m.items[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCategoryRepository) List() ([]*model.Category, error) {
	result := make([]*model.Category, 0, len(m.items))
	for _, c := range m.items {
		result = append(result, c)
	}
	return result, nil
}

func (m *mockCategoryRepository) Update(c *model.Category) error {
	m.items[c.ID] = c
	return nil
}

func (m *mockCategoryRepository) Delete(id int64) error {
	delete(m.items, id)
	return nil
}

// mockTagRepository Mock Tag Repository
type mockTagRepository struct {
	items  map[int64]*model.Tag
	nextID int64
}

func newMockTagRepo() *mockTagRepository {
	return &mockTagRepository{items: make(map[int64]*model.Tag), nextID: 1}
}

func (m *mockTagRepository) Create(t *model.Tag) error {
	t.ID = m.nextID
	m.nextID++
	m.items[t.ID] = t
	return nil
}

func (m *mockTagRepository) GetByID(id int64) (*model.Tag, error) {
	if t, ok := m.items[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTagRepository) List() ([]*model.Tag, error) {
	result := make([]*model.Tag, 0, len(m.items))
	for _, t := range m.items {
		result = append(result, t)
	}
	return result, nil
}

func (m *mockTagRepository) Update(t *model.Tag) error {
	m.items[t.ID] = t
	return nil
}

func (m *mockTagRepository) Delete(id int64) error {
	delete(m.items, id)
	return nil
}

func newTestService() *Service {
	return NewService(newMockCategoryRepo(), newMockTagRepo())
}

func TestCreateCategoryDerivesSlug(t *testing.T) {
	svc := newTestService()

	c, err := svc.CreateCategory(context.Background(), "Web 开发", "", "前端后端都算")
	if err != nil {
		t.Fatalf("CreateCategory 失败: %v", err)
	}
	if c.Slug != "web-开发" {
		t.Errorf("Slug = %q", c.Slug)
	}
	if c.Description != "前端后端都算" {
		t.Errorf("Description = %q", c.Description)
	}
}

func TestCreateCategoryCustomSlug(t *testing.T) {
	svc := newTestService()

	c, err := svc.CreateCategory(context.Background(), "随笔", "essays", "")
	if err != nil {
		t.Fatalf("CreateCategory 失败: %v", err)
	}
	if c.Slug != "essays" {
		t.Errorf("显式 slug 应原样保留, got %q", c.Slug)
	}
}

func TestCreateCategoryEmptyName(t *testing.T) {
	svc := newTestService()
	if _, err := svc.CreateCategory(context.Background(), "", "", ""); err == nil {
		t.Error("空名称应报错")
	}
}

func TestUpdateCategoryReslugsOnRename(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	c, err := svc.CreateCategory(ctx, "Old Name", "", "")
	if err != nil {
		t.Fatalf("CreateCategory 失败: %v", err)
	}

	updated, err := svc.UpdateCategory(ctx, c.ID, "New Name", "")
	if err != nil {
		t.Fatalf("UpdateCategory 失败: %v", err)
	}
	if updated.Slug != "new-name" {
		t.Errorf("改名后 Slug = %q", updated.Slug)
	}

	// 只改描述，slug 保持不变
	updated, err = svc.UpdateCategory(ctx, c.ID, "", "新描述")
	if err != nil {
		t.Fatalf("UpdateCategory 失败: %v", err)
	}
	if updated.Slug != "new-name" {
		t.Errorf("未改名时 Slug 不应变, got %q", updated.Slug)
	}
	if updated.Description != "新描述" {
		t.Errorf("Description = %q", updated.Description)
	}
}

func TestUpdateCategoryNotFound(t *testing.T) {
	svc := newTestService()
	if _, err := svc.UpdateCategory(context.Background(), 99, "x", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("不存在的分类应返回 ErrNotFound, err = %v", err)
	}
}

func TestDeleteCategory(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	c, _ := svc.CreateCategory(ctx, "临时", "", "")
	if err := svc.DeleteCategory(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCategory 失败: %v", err)
	}
	if err := svc.DeleteCategory(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("重复删除应返回 ErrNotFound, err = %v", err)
	}
}

func TestTagLifecycle(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	tag, err := svc.CreateTag(ctx, "Go 语言", "")
	if err != nil {
		t.Fatalf("CreateTag 失败: %v", err)
	}
	if tag.Slug != "go-语言" {
		t.Errorf("Slug = %q", tag.Slug)
	}

	updated, err := svc.UpdateTag(ctx, tag.ID, "Golang")
	if err != nil {
		t.Fatalf("UpdateTag 失败: %v", err)
	}
	if updated.Slug != "golang" {
		t.Errorf("改名后 Slug = %q", updated.Slug)
	}

	tags, err := svc.ListTags(ctx)
	if err != nil || len(tags) != 1 {
		t.Fatalf("ListTags = %v, %v", tags, err)
	}

	if err := svc.DeleteTag(ctx, tag.ID); err != nil {
		t.Fatalf("DeleteTag 失败: %v", err)
	}
	if _, err := svc.UpdateTag(ctx, tag.ID, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("删除后更新应返回 ErrNotFound, err = %v", err)
	}
}
