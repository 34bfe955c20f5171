package slug

import "testing"

func TestGenerate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"简单英文", "Hello World", "hello-world"},
		{"首尾空白", "  Hello World  ", "hello-world"},
		{"多个空白", "Hello   World", "hello-world"},
		{"特殊字符", "Hello, World!", "hello-world"},
		{"中文", "我的 博客", "我的-博客"},
		{"中英混合", "Go 语言 入门", "go-语言-入门"},
		{"重复连字符", "a -- b", "a-b"},
		{"首尾连字符", "-hello-", "hello"},
		{"下划线保留", "hello_world", "hello_world"},
		{"数字", "Go 1.24 发布", "go-124-发布"},
		{"空串", "", ""},
		{"纯特殊字符", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.in); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	in := "Hello 世界 2024"
	first := Generate(in)
	for i := 0; i < 10; i++ {
		if got := Generate(in); got != first {
			t.Fatalf("Generate 不稳定: %q != %q", got, first)
		}
	}
}
