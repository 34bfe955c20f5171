package article

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// RenderHTML 将 Markdown 渲染为净化后的 HTML
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("渲染 Markdown 失败: %w", err)
	}
	return sanitizer.Sanitize(buf.String()), nil
}

// EstimateReadTime 估算阅读时长
// 英文按空白分词，中日韩按字计，200 词/分钟
func EstimateReadTime(content string) string {
	words := len(strings.Fields(content))
	for _, r := range content {
		if unicode.Is(unicode.Han, r) {
			words++
		}
	}
	minutes := (words + 199) / 200
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

// 摘要窗口：命中位置前 50 字、后 100 字
const (
	snippetBefore = 50
	snippetAfter  = 100
)

// Snippet 围绕关键词的命中摘要
// 关键词未出现在正文时返回空串，只有被截断的一侧加 "..." 标记
func Snippet(content, keyword string) string {
	if keyword == "" {
		return ""
	}
	lower := strings.ToLower(content)
	idx := strings.Index(lower, strings.ToLower(keyword))
	if idx < 0 {
		return ""
	}

	runes := []rune(content)
	// 字节偏移换算成 rune 偏移
	runeIdx := len([]rune(content[:idx]))
	keyLen := len([]rune(keyword))

	start := runeIdx - snippetBefore
	if start < 0 {
		start = 0
	}
	end := runeIdx + keyLen + snippetAfter
	if end > len(runes) {
		end = len(runes)
	}

	var b strings.Builder
	if start > 0 {
		b.WriteString("...")
	}
	b.WriteString(string(runes[start:end]))
	if end < len(runes) {
		b.WriteString("...")
	}
	return b.String()
}
