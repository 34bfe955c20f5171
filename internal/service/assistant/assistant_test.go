package assistant

import (
	"context"
	"testing"
	"time"

	"github.com/suiyuan/blog-ai/internal/service/thread"
)

func TestSendEventGivesUpOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	// 无人消费且缓冲已满，发送只能靠取消解围
	ch := make(chan StreamEvent, 1)
	ch <- StreamEvent{Type: "message"}
	cancel()

	done := make(chan bool, 1)
	go func() {
		done <- sendEvent(ctx, ch, StreamEvent{Type: "message", Data: "x"})
	}()

	select {
	case ok := <-done:
		if ok {
			t.Error("取消后发送应返回 false")
		}
	case <-time.After(time.Second):
		t.Fatal("发送在取消后仍然阻塞")
	}
}

func TestSendEventDeliversWhileActive(t *testing.T) {
	ch := make(chan StreamEvent, 1)
	if !sendEvent(context.Background(), ch, StreamEvent{Type: "start"}) {
		t.Error("缓冲有空位时发送应成功")
	}
	if ev := <-ch; ev.Type != "start" {
		t.Errorf("Type = %q", ev.Type)
	}
}

func TestChatCodecKeepsAttachmentParts(t *testing.T) {
	codec := chatCodec()
	if codec == nil {
		t.Fatal("chatCodec 不应为 nil")
	}
	if codec.FormatTag() != thread.FormatAISDKV5Files {
		t.Fatalf("FormatTag = %q", codec.FormatTag())
	}

	msg := &thread.Message{Parts: []thread.Part{
		{Type: thread.PartTypeText, Text: "帮我看看这张图"},
		{Type: thread.PartTypeImage, URL: "http://localhost/uploads/attachments/a.png", MediaType: "image/png"},
	}}

	data, err := codec.Encode(msg)
	if err != nil {
		t.Fatalf("Encode 失败: %v", err)
	}
	decoded, err := codec.Decode(data)
	if err != nil {
		t.Fatalf("Decode 失败: %v", err)
	}
	if len(decoded.Parts) != 2 {
		t.Fatalf("落库后片段数 = %d, want 2", len(decoded.Parts))
	}
	if decoded.Parts[1].Type != thread.PartTypeImage || decoded.Parts[1].URL == "" {
		t.Errorf("附件片段未保留: %+v", decoded.Parts[1])
	}
}
