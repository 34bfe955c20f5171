package model

import "time"

// 文章状态
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
	ArticleStatusArchived  = "archived"
)

// Article 文章
type Article struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string    `gorm:"index;size:36;not null" json:"user_id"`
	CategoryID  *int64    `gorm:"index" json:"category_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Content     string    `gorm:"type:text" json:"content"`
	Author      string    `gorm:"size:100" json:"author"`
	PublishDate time.Time `json:"publish_date"`
	ReadTime    string    `gorm:"size:20" json:"read_time"`
	Views       int       `gorm:"default:0" json:"views"`
	Likes       int       `gorm:"default:0" json:"likes"`
	Image       string    `gorm:"size:500" json:"image"`
	Status      string    `gorm:"index;size:20;default:draft" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Tags     []Tag     `gorm:"many2many:article_tags;" json:"tags,omitempty"`
}

// TableName 指定表名
func (Article) TableName() string {
	return "articles"
}

// Category 分类
type Category struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:50;not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;size:100;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}

// Tag 标签
type Tag struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:50;not null" json:"name"`
	Slug      string    `gorm:"uniqueIndex;size:100;not null" json:"slug"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (Tag) TableName() string {
	return "tags"
}

// ArticleTag 文章-标签关联
type ArticleTag struct {
	ArticleID int64 `gorm:"primaryKey" json:"article_id"`
	TagID     int64 `gorm:"primaryKey" json:"tag_id"`
}

// TableName 指定表名
func (ArticleTag) TableName() string {
	return "article_tags"
}

// ArticleLike 点赞记录
// (article_id, user_id) 唯一索引保证同一用户对同一文章最多一条记录，
// 并发重复插入由数据库兜底
// user_id 列也存放匿名会话 token（带 anon_ 前缀，超过 36 字符），宽度需容纳
type ArticleLike struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ArticleID int64     `gorm:"not null;index:idx_article_user,unique" json:"article_id"`
	UserID    string    `gorm:"size:64;not null;index:idx_article_user,unique" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (ArticleLike) TableName() string {
	return "article_likes"
}

// AboutMe 关于我（每个 locale 一行）
type AboutMe struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Locale    string    `gorm:"uniqueIndex;size:10;not null" json:"locale"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (AboutMe) TableName() string {
	return "about_me"
}
