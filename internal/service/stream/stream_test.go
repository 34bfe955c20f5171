package stream

import (
	"context"
	"testing"
	"time"
)

func TestBeginCancelsPriorGeneration(t *testing.T) {
	m := NewManager(nil)
	ctx := context.Background()

	firstCtx, _ := m.Begin(ctx, "t1", "m1")
	secondCtx, _ := m.Begin(ctx, "t1", "m2")

	select {
	case <-firstCtx.Done():
	case <-time.After(time.Second):
		t.Fatal("同一线程的新生成应取消旧生成")
	}
	select {
	case <-secondCtx.Done():
		t.Fatal("新生成不应被取消")
	default:
	}
}

func TestStop(t *testing.T) {
	m := NewManager(nil)
	genCtx, _ := m.Begin(context.Background(), "t1", "m1")

	if !m.Stop("t1") {
		t.Fatal("Stop 应命中进行中的生成")
	}
	select {
	case <-genCtx.Done():
	case <-time.After(time.Second):
		t.Fatal("Stop 后生成 context 应被取消")
	}

	if m.Stop("t1") {
		t.Error("重复 Stop 应返回 false")
	}
	if m.Stop("no-such-thread") {
		t.Error("不存在的线程 Stop 应返回 false")
	}
}

func TestPartialWhileActive(t *testing.T) {
	m := NewManager(nil)
	ctx := context.Background()

	m.Begin(ctx, "t1", "m1")
	m.AppendOutput(ctx, "t1", "你好")
	m.AppendOutput(ctx, "t1", "，世界")

	got, err := m.Partial(ctx, "t1")
	if err != nil {
		t.Fatalf("Partial 失败: %v", err)
	}
	if got != "你好，世界" {
		t.Errorf("Partial = %q", got)
	}
}

func TestPartialAfterFinish(t *testing.T) {
	m := NewManager(nil)
	ctx := context.Background()

	m.Begin(ctx, "t1", "m1")
	m.AppendOutput(ctx, "t1", "输出")
	m.Finish(ctx, "t1")

	// 正常结束后不保留部分输出
	got, err := m.Partial(ctx, "t1")
	if err != nil {
		t.Fatalf("Partial 失败: %v", err)
	}
	if got != "" {
		t.Errorf("Finish 后 Partial = %q, want 空", got)
	}
}

func TestAppendOutputUnknownThread(t *testing.T) {
	m := NewManager(nil)
	// 未注册的线程直接忽略，不 panic
	m.AppendOutput(context.Background(), "nope", "chunk")
}
