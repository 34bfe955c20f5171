package article

import (
	"strings"
	"testing"
)

func TestSnippetKeywordNotFound(t *testing.T) {
	if got := Snippet("这篇文章讲的是别的东西", "不存在的词"); got != "" {
		t.Errorf("Snippet = %q, 未命中时应为空", got)
	}
}

func TestSnippetCaseInsensitive(t *testing.T) {
	got := Snippet("Learning Golang is fun", "GOLANG")
	if !strings.Contains(got, "Golang") {
		t.Errorf("Snippet = %q, 应大小写不敏感命中", got)
	}
}

func TestSnippetMarkers(t *testing.T) {
	long := strings.Repeat("前", 100) + "关键词" + strings.Repeat("后", 200)

	got := Snippet(long, "关键词")
	if !strings.HasPrefix(got, "...") {
		t.Errorf("命中点前被截断时应以 ... 开头: %q", got[:10])
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("命中点后被截断时应以 ... 结尾")
	}
	if !strings.Contains(got, "关键词") {
		t.Error("摘要应包含关键词")
	}
}

func TestSnippetNoMarkersAtIntactEdges(t *testing.T) {
	// 正文比窗口短，两侧都不截断
	got := Snippet("short 关键词 text", "关键词")
	if strings.HasPrefix(got, "...") || strings.HasSuffix(got, "...") {
		t.Errorf("未截断时不应有 ... 标记: %q", got)
	}
	if got != "short 关键词 text" {
		t.Errorf("Snippet = %q", got)
	}
}

func TestSnippetWindow(t *testing.T) {
	long := strings.Repeat("a", 100) + "KEY" + strings.Repeat("b", 200)

	got := Snippet(long, "KEY")
	trimmed := strings.TrimPrefix(strings.TrimSuffix(got, "..."), "...")
	// 前 50 + 关键词 3 + 后 100
	if want := 50 + 3 + 100; len([]rune(trimmed)) != want {
		t.Errorf("窗口长度 = %d, want %d", len([]rune(trimmed)), want)
	}
}

func TestSnippetHitNearStart(t *testing.T) {
	got := Snippet("KEY"+strings.Repeat("b", 200), "KEY")
	if strings.HasPrefix(got, "...") {
		t.Errorf("命中点在开头时前侧不应有标记: %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("后侧截断应有标记")
	}
}

func TestEstimateReadTime(t *testing.T) {
	if got := EstimateReadTime("short text"); got != "1 min read" {
		t.Errorf("EstimateReadTime = %q, want 1 min read", got)
	}

	long := strings.Repeat("word ", 450)
	if got := EstimateReadTime(long); got != "3 min read" {
		t.Errorf("EstimateReadTime(450 words) = %q, want 3 min read", got)
	}

	cjk := strings.Repeat("字", 300)
	if got := EstimateReadTime(cjk); got != "2 min read" {
		t.Errorf("EstimateReadTime(300 汉字) = %q, want 2 min read", got)
	}
}

func TestRenderHTMLSanitizes(t *testing.T) {
	// script 单独成块：裸 HTML 块会被整块丢弃，和它同行的文本也会一起消失
	html, err := RenderHTML("# 标题\n\n<script>alert(1)</script>\n\n正文 **加粗**")
	if err != nil {
		t.Fatalf("RenderHTML 失败: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Error("渲染结果不应包含 script 标签")
	}
	if !strings.Contains(html, "<h1") {
		t.Errorf("Markdown 标题未渲染: %q", html)
	}
	if !strings.Contains(html, "<strong>") {
		t.Errorf("加粗未渲染: %q", html)
	}
}

func TestRenderHTMLDropsInlineRawBlock(t *testing.T) {
	// 裸 HTML 块连带同段文本被丢弃，不会泄漏到输出
	html, err := RenderHTML("<script>alert(1)</script>同段文本")
	if err != nil {
		t.Fatalf("RenderHTML 失败: %v", err)
	}
	if strings.Contains(html, "alert(1)") || strings.Contains(html, "同段文本") {
		t.Errorf("裸 HTML 块应被整块丢弃: %q", html)
	}
}
