package service

import (
	"context"
	"encoding/json"
	"testing"
)

func TestToolEnvelopeOK(t *testing.T) {
	out, err := toolOK(map[string]string{"slug": "hello-world"})
	if err != nil {
		t.Fatalf("toolOK 失败: %v", err)
	}

	var env toolEnvelope
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("返回不是合法 JSON: %v", err)
	}
	if !env.Success {
		t.Error("success 应为 true")
	}
	if env.Error != "" {
		t.Errorf("error 应为空, got %q", env.Error)
	}
	data, ok := env.Data.(map[string]interface{})
	if !ok || data["slug"] != "hello-world" {
		t.Errorf("data = %v", env.Data)
	}
}

func TestToolEnvelopeFail(t *testing.T) {
	out, err := toolFail("文章 %d 不存在", 42)
	if err != nil {
		t.Fatalf("toolFail 失败: %v", err)
	}

	var env toolEnvelope
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("返回不是合法 JSON: %v", err)
	}
	if env.Success {
		t.Error("success 应为 false")
	}
	if env.Error != "文章 42 不存在" {
		t.Errorf("error = %q", env.Error)
	}
	if env.Data != nil {
		t.Errorf("失败时不应带 data, got %v", env.Data)
	}
}

func TestCurrentUserContext(t *testing.T) {
	ctx := context.Background()

	if u := CurrentUserFrom(ctx); u != nil {
		t.Errorf("空 context 应返回 nil, got %+v", u)
	}

	ctx = WithCurrentUser(ctx, &CurrentUser{ID: "u1", Email: "a@example.com", IsAdmin: true})
	u := CurrentUserFrom(ctx)
	if u == nil || u.ID != "u1" || !u.IsAdmin {
		t.Errorf("CurrentUserFrom = %+v", u)
	}
}

func TestStubTool(t *testing.T) {
	st := &stubTool{name: "web_search"}

	info, err := st.Info(context.Background())
	if err != nil {
		t.Fatalf("Info 失败: %v", err)
	}
	if info.Name != "web_search" {
		t.Errorf("Name = %q", info.Name)
	}

	out, err := st.InvokableRun(context.Background(), "{}")
	if err != nil {
		t.Fatalf("InvokableRun 失败: %v", err)
	}
	var env toolEnvelope
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("返回不是合法 JSON: %v", err)
	}
	if env.Success {
		t.Error("占位工具应返回失败信封")
	}
}
