// Package router 注册全部路由
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/suiyuan/blog-ai/internal/config"
	"github.com/suiyuan/blog-ai/internal/handler"
	"github.com/suiyuan/blog-ai/internal/middleware"
	"github.com/suiyuan/blog-ai/internal/service"
)

// SetupRouter 设置路由
func SetupRouter(h *handler.Handlers, svc *service.Services, cfg *config.Config) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.AuthMiddleware(svc))
	r.Use(middleware.LocaleMiddleware(cfg.Blog.DefaultLocale))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// 助手对话
	api := r.Group("/api")
	{
		api.POST("/chat", h.Chat.Stream)
		api.POST("/chat/:id/stop", h.Chat.Stop)
		api.GET("/chat/:id/partial", h.Chat.Partial)
		api.POST("/chat/attachments", h.Chat.UploadAttachment)
		api.GET("/tools", h.Chat.ListTools)
	}

	// API v1
	v1 := r.Group("/api/v1")
	{
		// 认证
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.GET("/me", middleware.RequireAuth(svc), h.Auth.Me)
			auth.POST("/password", middleware.RequireAuth(svc), h.Auth.ChangePassword)
		}

		// 公开文章
		articles := v1.Group("/articles")
		{
			articles.GET("", h.Article.ListPublished)
			articles.GET("/search", h.Article.Search)
			articles.GET("/:id", h.Article.GetPublished)
			articles.POST("/:id/view", h.Article.IncrementViews)
			articles.POST("/:id/like", h.Article.ToggleLike)
		}

		// 公开分类/标签/关于我
		v1.GET("/categories", h.Taxonomy.ListCategories)
		v1.GET("/tags", h.Taxonomy.ListTags)
		v1.GET("/about", h.About.Get)

		// 聊天线程
		threads := v1.Group("/threads")
		{
			threads.GET("", h.Thread.List)
			threads.POST("/initialize", h.Thread.Initialize)
			threads.GET("/:id", h.Thread.Fetch)
			threads.PUT("/:id/title", h.Thread.Rename)
			threads.POST("/:id/generate-title", h.Thread.GenerateTitle)
			threads.POST("/:id/archive", h.Thread.Archive)
			threads.POST("/:id/unarchive", h.Thread.Unarchive)
			threads.DELETE("/:id", h.Thread.Delete)
			threads.POST("/:id/messages", h.Thread.AppendMessage)
			threads.GET("/:id/messages", h.Thread.LoadMessages)
		}

		// 管理后台
		admin := v1.Group("/admin", middleware.RequireAuth(svc), middleware.RequireAdmin(svc))
		{
			admin.GET("/articles", h.Article.ListMine)
			admin.POST("/articles", h.Article.Create)
			admin.GET("/articles/:id", h.Article.GetMine)
			admin.PUT("/articles/:id", h.Article.Update)
			admin.PUT("/articles/:id/status", h.Article.UpdateStatus)
			admin.DELETE("/articles/:id", h.Article.Delete)

			admin.POST("/categories", h.Taxonomy.CreateCategory)
			admin.PUT("/categories/:id", h.Taxonomy.UpdateCategory)
			admin.DELETE("/categories/:id", h.Taxonomy.DeleteCategory)

			admin.POST("/tags", h.Taxonomy.CreateTag)
			admin.PUT("/tags/:id", h.Taxonomy.UpdateTag)
			admin.DELETE("/tags/:id", h.Taxonomy.DeleteTag)

			admin.GET("/about", h.About.List)
			admin.PUT("/about", h.About.Upsert)
			admin.DELETE("/about/:locale", h.About.Delete)
		}
	}

	return r
}
