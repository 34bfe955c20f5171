// Package service 组装全部业务服务
package service

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/redis/go-redis/v9"

	"github.com/suiyuan/blog-ai/internal/config"
	"github.com/suiyuan/blog-ai/internal/repository"
	"github.com/suiyuan/blog-ai/internal/service/about"
	"github.com/suiyuan/blog-ai/internal/service/article"
	"github.com/suiyuan/blog-ai/internal/service/assistant"
	"github.com/suiyuan/blog-ai/internal/service/auth"
	"github.com/suiyuan/blog-ai/internal/service/cover"
	"github.com/suiyuan/blog-ai/internal/service/file"
	"github.com/suiyuan/blog-ai/internal/service/scrape"
	"github.com/suiyuan/blog-ai/internal/service/stream"
	"github.com/suiyuan/blog-ai/internal/service/taxonomy"
	"github.com/suiyuan/blog-ai/internal/service/thread"
)

// Services 服务集合
type Services struct {
	// 业务服务
	Article    *article.Service
	Taxonomy   *taxonomy.Service
	About      *about.Service
	Auth       *auth.Service
	Thread     *thread.Service
	Attachment *thread.AttachmentService
	Assistant  *assistant.Service

	// 基础设施
	Scraper      *scrape.Scraper
	Cover        *cover.Generator
	StreamMgr    *stream.Manager
	ImageStore   file.Storage
	AttachStore  file.Storage

	// Eino 组件
	AllTools []einotool.BaseTool

	cfg *config.Config
}

// NewServices 创建所有服务
func NewServices(repo *repository.Repositories, cfg *config.Config, redisClient *redis.Client) (*Services, error) {
	ctx := context.Background()

	imageStore, err := newStorage(cfg, cfg.Storage.ImageBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to init image storage: %w", err)
	}
	attachStore, err := newStorage(cfg, cfg.Storage.AttachmentBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to init attachment storage: %w", err)
	}

	s := &Services{
		Article:     article.NewService(repo.Article),
		Taxonomy:    taxonomy.NewService(repo.Category, repo.Tag),
		About:       about.NewService(repo.About, cfg.Blog.DefaultLocale),
		Auth:        auth.NewService(repo.Auth, cfg.Admin),
		Thread:      thread.NewService(repo.Thread),
		Attachment:  thread.NewAttachmentService(attachStore),
		Scraper:     scrape.NewScraper(nil),
		Cover:       cover.NewGenerator(cfg.Blog.PicsumBaseURL, nil, imageStore),
		StreamMgr:   stream.NewManager(redisClient),
		ImageStore:  imageStore,
		AttachStore: attachStore,
		cfg:         cfg,
	}

	// 初始化工具
	s.AllTools = s.newTools(ctx)
	log.Printf("Initialized %d tools", len(s.AllTools))

	// 创建 ChatModel，没配 API key 时助手不可用但其余接口照常工作
	chatModel, err := newToolCallingChatModel(ctx, cfg)
	if err != nil {
		log.Printf("Warning: failed to create chat model: %v", err)
	}
	s.Assistant = assistant.NewService(cfg, chatModel, s.AllTools, s.Thread, s.StreamMgr)

	return s, nil
}

// newStorage 按配置创建对象存储
func newStorage(cfg *config.Config, bucket string) (file.Storage, error) {
	switch file.StorageType(cfg.Storage.Type) {
	case file.StorageTypeMinIO:
		return file.NewMinIOStorage(&file.MinIOConfig{
			Endpoint:   cfg.Storage.Endpoint,
			AccessKey:  cfg.Storage.AccessKey,
			SecretKey:  cfg.Storage.SecretKey,
			BucketName: bucket,
			UseSSL:     cfg.Storage.UseSSL,
			URLPrefix:  cfg.Storage.URLPrefix,
		})
	default:
		return file.NewLocalStorage(cfg.Storage.BasePath+"/"+bucket, cfg.Storage.URLPrefix+"/"+bucket)
	}
}

// newToolCallingChatModel 创建支持工具调用的 ChatModel
func newToolCallingChatModel(ctx context.Context, cfg *config.Config) (model.ToolCallingChatModel, error) {
	aiCfg := cfg.AI

	var apiKey, baseURL, modelName string

	switch aiCfg.Provider {
	case "openai":
		apiKey = aiCfg.OpenAI.APIKey
		baseURL = aiCfg.OpenAI.BaseURL
		modelName = aiCfg.OpenAI.Model
	case "alibaba", "qwen", "dashscope":
		apiKey = aiCfg.Alibaba.AccessKeySecret
		baseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"
		modelName = aiCfg.Alibaba.Model
	case "deepseek":
		apiKey = aiCfg.DeepSeek.APIKey
		baseURL = aiCfg.DeepSeek.BaseURL
		modelName = aiCfg.DeepSeek.Model
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", aiCfg.Provider)
	}

	if apiKey == "" {
		return nil, fmt.Errorf("api_key is required for provider: %s", aiCfg.Provider)
	}

	if modelName == "" {
		modelName = "gpt-4o-mini"
	}

	temperature := float32(0.7)

	return openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      apiKey,
		BaseURL:     baseURL,
		Model:       modelName,
		Temperature: &temperature,
	})
}
