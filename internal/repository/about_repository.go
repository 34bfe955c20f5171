package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/suiyuan/blog-ai/internal/model"
)

// AboutRepository 关于我数据访问
type AboutRepository struct {
	db *gorm.DB
}

// NewAboutRepository 创建关于我仓库
func NewAboutRepository(db *gorm.DB) *AboutRepository {
	return &AboutRepository{db: db}
}

// GetByLocale 获取指定语言的内容
func (r *AboutRepository) GetByLocale(locale string) (*model.AboutMe, error) {
	var about model.AboutMe
	err := r.db.Where("locale = ?", locale).First(&about).Error
	if err != nil {
		return nil, err
	}
	return &about, nil
}

// List 按 locale 排序列出所有内容
func (r *AboutRepository) List() ([]*model.AboutMe, error) {
	var items []*model.AboutMe
	err := r.db.Order("locale ASC").Find(&items).Error
	return items, err
}

// Upsert 按 locale 插入或更新
func (r *AboutRepository) Upsert(about *model.AboutMe) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "locale"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(about).Error
}

// DeleteByLocale 删除指定语言的内容
func (r *AboutRepository) DeleteByLocale(locale string) error {
	return r.db.Delete(&model.AboutMe{}, "locale = ?", locale).Error
}
