package repository

import "gorm.io/gorm"

// Repositories 仓库集合，用于统一管理所有仓库
type Repositories struct {
	DB       *gorm.DB // 直接访问数据库
	Article  *ArticleRepository
	Category *CategoryRepository
	Tag      *TagRepository
	About    *AboutRepository
	Thread   *ThreadRepository
	Auth     *AuthRepository
}

// NewRepositories 创建所有仓库
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:       db,
		Article:  NewArticleRepository(db),
		Category: NewCategoryRepository(db),
		Tag:      NewTagRepository(db),
		About:    NewAboutRepository(db),
		Thread:   NewThreadRepository(db),
		Auth:     NewAuthRepository(db),
	}
}
