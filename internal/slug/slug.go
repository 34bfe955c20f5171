// Package slug 提供确定性的 URL slug 生成
package slug

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	invalidRe    = regexp.MustCompile(`[^\w\x{4e00}-\x{9fa5}-]`)
	hyphensRe    = regexp.MustCompile(`--+`)
)

// Generate 将文本转换为 URL 友好的 slug
// 规则：小写、去首尾空白、空白转连字符、只保留字母数字下划线中文和连字符、
// 合并重复连字符、去除首尾连字符
func Generate(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = whitespaceRe.ReplaceAllString(s, "-")
	s = invalidRe.ReplaceAllString(s, "")
	s = hyphensRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return s
}
