package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/cloudwego/eino-ext/components/tool/duckduckgo/v2"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/suiyuan/blog-ai/internal/model"
	"github.com/suiyuan/blog-ai/internal/service/article"
	"github.com/suiyuan/blog-ai/internal/slug"
)

// CurrentUser 当前请求的用户，聊天入口写入 context，工具从 context 读取
type CurrentUser struct {
	ID      string
	Email   string
	IsAdmin bool
}

type currentUserKey struct{}

// WithCurrentUser 把当前用户写入 context
func WithCurrentUser(ctx context.Context, u *CurrentUser) context.Context {
	return context.WithValue(ctx, currentUserKey{}, u)
}

// CurrentUserFrom 从 context 读取当前用户，未登录返回 nil
func CurrentUserFrom(ctx context.Context) *CurrentUser {
	u, _ := ctx.Value(currentUserKey{}).(*CurrentUser)
	return u
}

// toolEnvelope 工具统一返回结构
// 应用层失败不返回 Go error，折叠进 success/error 字段让模型自己读
type toolEnvelope struct {
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func toolOK(data interface{}) (string, error) {
	out, err := json.Marshal(toolEnvelope{Success: true, Data: data})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func toolFail(format string, args ...interface{}) (string, error) {
	out, err := json.Marshal(toolEnvelope{Success: false, Error: fmt.Sprintf(format, args...)})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// stubTool 占位工具，依赖不可用时兜底
type stubTool struct {
	name string
}

func (t *stubTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: t.name,
		Desc: t.name + " (unavailable)",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {
				Type:     schema.String,
				Desc:     "The query string",
				Required: true,
			},
		}),
	}, nil
}

func (t *stubTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	return fmt.Sprintf(`{"success":false,"error":"%s is not available"}`, t.name), nil
}

// newWebSearchTool 创建网络搜索工具
func newWebSearchTool(ctx context.Context) tool.InvokableTool {
	searchTool, err := duckduckgo.NewTextSearchTool(ctx, &duckduckgo.Config{
		ToolName:   "web_search",
		ToolDesc:   "Search the web for current information using DuckDuckGo. Use this when you need up-to-date information.",
		MaxResults: 10,
	})
	if err != nil {
		log.Printf("Warning: failed to create web search tool: %v", err)
		return &stubTool{name: "web_search"}
	}

	return searchTool
}

// newTools 初始化助手的全部工具
// 闭集：这里没注册的名字就不存在
func (s *Services) newTools(ctx context.Context) []tool.BaseTool {
	tools := []tool.BaseTool{}

	add := func(t tool.InvokableTool, err error) {
		if err != nil {
			log.Printf("Warning: failed to create tool: %v", err)
			return
		}
		tools = append(tools, t)
	}

	add(utils.InferTool("query_articles",
		"查询博客的已发布文章列表，按发布时间倒序，附带分类信息",
		s.queryArticles))
	add(utils.InferTool("search_articles",
		"按关键词搜索已发布文章的标题、描述和正文，返回命中摘要",
		s.searchArticles))
	add(utils.InferTool("create_article",
		"创建一篇博客文章。不指定状态时保存为草稿。创建前应先和用户确认内容",
		s.createArticle))
	add(utils.InferTool("get_categories_list",
		"获取全部文章分类",
		s.getCategoriesList))
	add(utils.InferTool("get_tags_list",
		"获取全部文章标签",
		s.getTagsList))
	add(utils.InferTool("create_category",
		"创建文章分类，slug 不指定时由名称自动生成",
		s.createCategory))
	add(utils.InferTool("create_tag",
		"创建文章标签，slug 不指定时由名称自动生成",
		s.createTag))
	add(utils.InferTool("update_article_status",
		"修改文章状态（draft/published/archived）",
		s.updateArticleStatus))
	add(utils.InferTool("generate_slug",
		"把任意文本转换成 URL slug",
		s.generateSlug))
	add(utils.InferTool("get_current_time",
		"获取当前时间（Asia/Shanghai）",
		s.getCurrentTime))
	add(utils.InferTool("scrape",
		"抓取网页并提取标题、描述和正文，用于整理参考资料",
		s.scrapeURL))
	add(utils.InferTool("generate_cover_image",
		"生成一张文章封面图并转存到图床，仅管理员可用",
		s.generateCoverImage))
	add(utils.InferTool("get_multiple_cover_images",
		"生成多张候选封面图（1-6 张，默认 4 张），仅管理员可用",
		s.getMultipleCoverImages))
	add(utils.InferTool("get_about_me",
		"获取博主的个人介绍内容",
		s.getAboutMe))

	tools = append(tools, newWebSearchTool(ctx))

	return tools
}

// --- query_articles ---

type queryArticlesInput struct {
	Limit int `json:"limit,omitempty" jsonschema_description:"返回条数，默认 20，最多 100"`
}

type articleSummary struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	Category    string `json:"category,omitempty"`
	PublishDate string `json:"publish_date,omitempty"`
	Views       int    `json:"views"`
	Likes       int    `json:"likes"`
}

func (s *Services) queryArticles(ctx context.Context, input *queryArticlesInput) (string, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	articles, total, err := s.Article.ListPublished(ctx, 1, limit)
	if err != nil {
		return toolFail("查询文章失败: %v", err)
	}

	summaries := make([]articleSummary, 0, len(articles))
	for _, a := range articles {
		summaries = append(summaries, toSummary(a))
	}
	return toolOK(map[string]interface{}{
		"total":    total,
		"articles": summaries,
	})
}

func toSummary(a *model.Article) articleSummary {
	out := articleSummary{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Status:      a.Status,
		Views:       a.Views,
		Likes:       a.Likes,
	}
	if a.Category != nil {
		out.Category = a.Category.Name
	}
	if !a.PublishDate.IsZero() {
		out.PublishDate = a.PublishDate.Format("2006-01-02")
	}
	return out
}

// --- search_articles ---

type searchArticlesInput struct {
	Keyword string `json:"keyword" jsonschema_description:"搜索关键词"`
	Limit   int    `json:"limit,omitempty" jsonschema_description:"返回条数，默认 10"`
}

func (s *Services) searchArticles(ctx context.Context, input *searchArticlesInput) (string, error) {
	if input.Keyword == "" {
		return toolFail("keyword 不能为空")
	}
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	results, err := s.Article.Search(ctx, input.Keyword, limit)
	if err != nil {
		return toolFail("搜索失败: %v", err)
	}
	return toolOK(map[string]interface{}{
		"count":   len(results),
		"results": results,
	})
}

// --- create_article ---

type createArticleInput struct {
	Title       string  `json:"title" jsonschema_description:"文章标题"`
	Content     string  `json:"content" jsonschema_description:"Markdown 正文"`
	Description string  `json:"description,omitempty" jsonschema_description:"文章摘要"`
	CategoryID  *int64  `json:"category_id,omitempty" jsonschema_description:"分类 ID"`
	TagIDs      []int64 `json:"tag_ids,omitempty" jsonschema_description:"标签 ID 列表"`
	Status      string  `json:"status,omitempty" jsonschema_description:"文章状态，默认 draft"`
	Image       string  `json:"image,omitempty" jsonschema_description:"封面图 URL"`
}

func (s *Services) createArticle(ctx context.Context, input *createArticleInput) (string, error) {
	user := CurrentUserFrom(ctx)
	if user == nil {
		return toolFail("需要登录后才能创建文章")
	}
	if input.Title == "" {
		return toolFail("title 不能为空")
	}

	created, err := s.Article.Create(ctx, user.ID, &article.CreateRequest{
		Title:       input.Title,
		Description: input.Description,
		Content:     input.Content,
		Author:      s.cfg.Blog.Author,
		Image:       input.Image,
		Status:      input.Status,
		CategoryID:  input.CategoryID,
		TagIDs:      input.TagIDs,
	})
	if err != nil {
		return toolFail("创建文章失败: %v", err)
	}
	return toolOK(toSummary(created))
}

// --- get_categories_list / get_tags_list ---

type emptyInput struct{}

func (s *Services) getCategoriesList(ctx context.Context, _ *emptyInput) (string, error) {
	categories, err := s.Taxonomy.ListCategories(ctx)
	if err != nil {
		return toolFail("查询分类失败: %v", err)
	}
	return toolOK(categories)
}

func (s *Services) getTagsList(ctx context.Context, _ *emptyInput) (string, error) {
	tags, err := s.Taxonomy.ListTags(ctx)
	if err != nil {
		return toolFail("查询标签失败: %v", err)
	}
	return toolOK(tags)
}

// --- create_category / create_tag ---

type createCategoryInput struct {
	Name        string `json:"name" jsonschema_description:"分类名称"`
	Slug        string `json:"slug,omitempty" jsonschema_description:"URL slug，不指定时由名称自动生成"`
	Description string `json:"description,omitempty" jsonschema_description:"分类描述"`
}

func (s *Services) createCategory(ctx context.Context, input *createCategoryInput) (string, error) {
	category, err := s.Taxonomy.CreateCategory(ctx, input.Name, input.Slug, input.Description)
	if err != nil {
		return toolFail("创建分类失败: %v", err)
	}
	return toolOK(category)
}

type createTagInput struct {
	Name string `json:"name" jsonschema_description:"标签名称"`
	Slug string `json:"slug,omitempty" jsonschema_description:"URL slug，不指定时由名称自动生成"`
}

func (s *Services) createTag(ctx context.Context, input *createTagInput) (string, error) {
	tag, err := s.Taxonomy.CreateTag(ctx, input.Name, input.Slug)
	if err != nil {
		return toolFail("创建标签失败: %v", err)
	}
	return toolOK(tag)
}

// --- update_article_status ---

type updateArticleStatusInput struct {
	ArticleID int64  `json:"article_id" jsonschema_description:"文章 ID"`
	Status    string `json:"status" jsonschema_description:"目标状态: draft, published, archived"`
}

func (s *Services) updateArticleStatus(ctx context.Context, input *updateArticleStatusInput) (string, error) {
	user := CurrentUserFrom(ctx)
	if user == nil {
		return toolFail("需要登录后才能修改文章状态")
	}

	updated, err := s.Article.UpdateStatus(ctx, input.ArticleID, user.ID, input.Status)
	if err != nil {
		return toolFail("修改状态失败: %v", err)
	}
	return toolOK(toSummary(updated))
}

// --- generate_slug ---

type generateSlugInput struct {
	Text string `json:"text" jsonschema_description:"待转换的文本"`
}

func (s *Services) generateSlug(ctx context.Context, input *generateSlugInput) (string, error) {
	if input.Text == "" {
		return toolFail("text 不能为空")
	}
	return toolOK(map[string]string{
		"text": input.Text,
		"slug": slug.Generate(input.Text),
	})
}

// --- get_current_time ---

func (s *Services) getCurrentTime(ctx context.Context, _ *emptyInput) (string, error) {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		loc = time.FixedZone("CST", 8*3600)
	}
	now := time.Now().In(loc)
	return toolOK(map[string]interface{}{
		"iso":       now.Format(time.RFC3339),
		"date":      now.Format("2006-01-02"),
		"time":      now.Format("15:04:05"),
		"weekday":   now.Weekday().String(),
		"timezone":  "Asia/Shanghai",
		"formatted": now.Format("2006年01月02日 15:04"),
	})
}

// --- scrape ---

type scrapeInput struct {
	URL string `json:"url" jsonschema_description:"要抓取的网页地址"`
}

func (s *Services) scrapeURL(ctx context.Context, input *scrapeInput) (string, error) {
	if input.URL == "" {
		return toolFail("url 不能为空")
	}
	result := s.Scraper.Scrape(ctx, input.URL)
	if !result.Success {
		return toolFail("抓取失败: %s", result.Error)
	}
	return toolOK(result)
}

// --- generate_cover_image / get_multiple_cover_images ---

func (s *Services) generateCoverImage(ctx context.Context, _ *emptyInput) (string, error) {
	user := CurrentUserFrom(ctx)
	if user == nil || !user.IsAdmin {
		return toolFail("仅管理员可以生成封面图")
	}

	images, err := s.Cover.Generate(ctx, 1)
	if err != nil {
		return toolFail("生成封面图失败: %v", err)
	}
	return toolOK(images[0])
}

type multipleCoverImagesInput struct {
	Count int `json:"count,omitempty" jsonschema_description:"生成张数，1-6，默认 4"`
}

func (s *Services) getMultipleCoverImages(ctx context.Context, input *multipleCoverImagesInput) (string, error) {
	user := CurrentUserFrom(ctx)
	if user == nil || !user.IsAdmin {
		return toolFail("仅管理员可以生成封面图")
	}

	images, err := s.Cover.Generate(ctx, input.Count)
	if err != nil {
		return toolFail("生成封面图失败: %v", err)
	}
	return toolOK(map[string]interface{}{
		"count":  len(images),
		"images": images,
	})
}

// --- get_about_me ---

type getAboutMeInput struct {
	Locale string `json:"locale,omitempty" jsonschema_description:"语言，例如 zh、en，默认站点语言"`
}

func (s *Services) getAboutMe(ctx context.Context, input *getAboutMeInput) (string, error) {
	about, err := s.About.Get(ctx, input.Locale)
	if err != nil {
		return toolFail("读取失败: %v", err)
	}
	return toolOK(map[string]string{
		"locale":  about.Locale,
		"content": about.Content,
	})
}

// ListToolNames 列出所有工具名称
func ListToolNames(ctx context.Context, allTools []tool.BaseTool) []string {
	names := make([]string, 0, len(allTools))
	for _, t := range allTools {
		info, err := t.Info(ctx)
		if err != nil {
			continue
		}
		names = append(names, info.Name)
	}
	return names
}
