// Package scrape 提供网页抓取和正文提取
// 基于正则的启发式提取，不是完整的 HTML 解析器
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// 正文最大长度
	maxContentLength = 10000
	// 段落最小长度（小于等于该值的丢弃）
	minParagraphLength = 20
	// 最多返回的段落数
	maxParagraphs = 20
)

var (
	titleRe    = regexp.MustCompile(`(?i)<title[^>]*>([^<]+)</title>`)
	descRe     = regexp.MustCompile(`(?i)<meta[^>]*name=["']description["'][^>]*content=["']([^"']+)["']`)
	ogDescRe   = regexp.MustCompile(`(?i)<meta[^>]*property=["']og:description["'][^>]*content=["']([^"']+)["']`)
	scriptRe   = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	styleRe    = regexp.MustCompile(`(?is)<style\b.*?</style>`)
	noscriptRe = regexp.MustCompile(`(?is)<noscript\b.*?</noscript>`)
	commentRe  = regexp.MustCompile(`(?s)<!--.*?-->`)
	articleRe  = regexp.MustCompile(`(?is)<article[^>]*>(.*?)</article>`)
	mainRe     = regexp.MustCompile(`(?is)<main[^>]*>(.*?)</main>`)
	bodyRe     = regexp.MustCompile(`(?is)<body[^>]*>(.*?)</body>`)
	tagRe      = regexp.MustCompile(`<[^>]+>`)
	spaceRe    = regexp.MustCompile(`\s+`)
	pRe        = regexp.MustCompile(`(?is)<p[^>]*>(.*?)</p>`)
)

// Extraction 提取结果
type Extraction struct {
	Title       string
	Description string
	Content     string
	Paragraphs  []string
}

// Result 抓取结果
type Result struct {
	Success     bool     `json:"success"`
	Error       string   `json:"error,omitempty"`
	URL         string   `json:"url,omitempty"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Content     string   `json:"content,omitempty"`
	Paragraphs  []string `json:"paragraphs,omitempty"`
	WordCount   int      `json:"word_count,omitempty"`
}

// Scraper 网页抓取器
type Scraper struct {
	client *http.Client
}

// NewScraper 创建抓取器
func NewScraper(client *http.Client) *Scraper {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Scraper{client: client}
}

// Scrape 抓取网页并提取标题、描述和正文
func (s *Scraper) Scrape(ctx context.Context, url string) *Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &Result{Success: false, Error: err.Error()}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return &Result{Success: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Result{
			Success: false,
			Error:   fmt.Sprintf("HTTP 错误: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		}
	}

	html, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Result{Success: false, Error: err.Error()}
	}

	ex := Extract(string(html))
	return &Result{
		Success:     true,
		URL:         url,
		Title:       ex.Title,
		Description: ex.Description,
		Content:     ex.Content,
		Paragraphs:  ex.Paragraphs,
		WordCount:   len([]rune(ex.Content)),
	}
}

// Extract 从 HTML 中提取标题、描述、正文和段落
// 正文优先级：article > main > body，取第一个命中的
func Extract(html string) *Extraction {
	ex := &Extraction{}

	if m := titleRe.FindStringSubmatch(html); m != nil {
		ex.Title = strings.TrimSpace(m[1])
	}

	if m := descRe.FindStringSubmatch(html); m != nil {
		ex.Description = strings.TrimSpace(m[1])
	} else if m := ogDescRe.FindStringSubmatch(html); m != nil {
		ex.Description = strings.TrimSpace(m[1])
	}

	// 移除 script/style/noscript 和注释
	clean := scriptRe.ReplaceAllString(html, "")
	clean = styleRe.ReplaceAllString(clean, "")
	clean = noscriptRe.ReplaceAllString(clean, "")
	clean = commentRe.ReplaceAllString(clean, "")

	var content string
	if m := articleRe.FindStringSubmatch(clean); m != nil {
		content = m[1]
	} else if m := mainRe.FindStringSubmatch(clean); m != nil {
		content = m[1]
	} else if m := bodyRe.FindStringSubmatch(clean); m != nil {
		content = m[1]
	}

	text := tagRe.ReplaceAllString(content, " ")
	text = strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
	if runes := []rune(text); len(runes) > maxContentLength {
		text = string(runes[:maxContentLength])
	}
	ex.Content = text

	for _, m := range pRe.FindAllStringSubmatch(content, -1) {
		p := strings.TrimSpace(tagRe.ReplaceAllString(m[1], ""))
		if len([]rune(p)) > minParagraphLength {
			ex.Paragraphs = append(ex.Paragraphs, p)
		}
		if len(ex.Paragraphs) >= maxParagraphs {
			break
		}
	}

	return ex
}
