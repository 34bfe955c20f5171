package handler

import (
	"github.com/suiyuan/blog-ai/internal/service"
)

// Handlers 处理器集合
type Handlers struct {
	Article  *ArticleHandler
	Taxonomy *TaxonomyHandler
	About    *AboutHandler
	Auth     *AuthHandler
	Thread   *ThreadHandler
	Chat     *ChatHandler
}

// NewHandlers 创建所有处理器
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Article:  NewArticleHandler(svc),
		Taxonomy: NewTaxonomyHandler(svc),
		About:    NewAboutHandler(svc),
		Auth:     NewAuthHandler(svc),
		Thread:   NewThreadHandler(svc),
		Chat:     NewChatHandler(svc),
	}
}
