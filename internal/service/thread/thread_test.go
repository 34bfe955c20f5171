package thread

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/suiyuan/blog-ai/internal/model"
)

// mockThreadRepository Mock Thread Repository
type mockThreadRepository struct {
	threads  map[string]*model.ChatThread
	messages map[string]*model.ChatMessage
	order    []string
	touched  int
}

func newMockThreadRepo() *mockThreadRepository {
	return &mockThreadRepository{
		threads:  make(map[string]*model.ChatThread),
		messages: make(map[string]*model.ChatMessage),
	}
}

func (m *mockThreadRepository) Create(t *model.ChatThread) error {
	m.threads[t.ID] = t
	return nil
}

func (m *mockThreadRepository) GetByID(id string) (*model.ChatThread, error) {
	if t, ok := m.threads[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockThreadRepository) GetByExternalIDForUser(externalID, userID string) (*model.ChatThread, error) {
	for _, t := range m.threads {
		if t.ExternalID != nil && *t.ExternalID == externalID && t.UserID != nil && *t.UserID == userID {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockThreadRepository) GetByExternalIDForSession(externalID, sessionID string) (*model.ChatThread, error) {
	for _, t := range m.threads {
		if t.ExternalID != nil && *t.ExternalID == externalID && t.SessionID != nil && *t.SessionID == sessionID {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockThreadRepository) ListByUser(userID string) ([]*model.ChatThread, error) {
	result := make([]*model.ChatThread, 0)
	for _, t := range m.threads {
		if t.UserID != nil && *t.UserID == userID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockThreadRepository) ListBySession(sessionID string) ([]*model.ChatThread, error) {
	result := make([]*model.ChatThread, 0)
	for _, t := range m.threads {
		if t.SessionID != nil && *t.SessionID == sessionID {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockThreadRepository) UpdateTitle(id, title string) error {
	t, ok := m.threads[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.Title = &title
	return nil
}

func (m *mockThreadRepository) UpdateStatus(id, status string) error {
	t, ok := m.threads[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.Status = status
	return nil
}

func (m *mockThreadRepository) Delete(id string) error {
	delete(m.threads, id)
	return nil
}

func (m *mockThreadRepository) Touch(id string) error {
	m.touched++
	return nil
}

func (m *mockThreadRepository) CreateMessage(msg *model.ChatMessage) error {
	m.messages[msg.ID] = msg
	m.order = append(m.order, msg.ID)
	return nil
}

func (m *mockThreadRepository) GetMessageByID(id string) (*model.ChatMessage, error) {
	if msg, ok := m.messages[id]; ok {
		return msg, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockThreadRepository) GetMessagesByThread(threadID string) ([]*model.ChatMessage, error) {
	result := make([]*model.ChatMessage, 0)
	for _, id := range m.order {
		if msg := m.messages[id]; msg.ThreadID == threadID {
			result = append(result, msg)
		}
	}
	return result, nil
}

func textMessage(text string) *Message {
	return &Message{Parts: []Part{{Type: PartTypeText, Text: text}}}
}

func TestInitializeIdempotent(t *testing.T) {
	repo := newMockThreadRepo()
	svc := NewService(repo)
	ctx := context.Background()
	id := Authenticated("u1")

	first, err := svc.Initialize(ctx, id, "ext-1")
	if err != nil {
		t.Fatalf("Initialize 失败: %v", err)
	}
	second, err := svc.Initialize(ctx, id, "ext-1")
	if err != nil {
		t.Fatalf("Initialize 失败: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("同一 external_id 应复用线程: %s != %s", first.ID, second.ID)
	}
	if len(repo.threads) != 1 {
		t.Errorf("线程数 = %d, want 1", len(repo.threads))
	}
}

func TestInitializeSeparatesIdentities(t *testing.T) {
	repo := newMockThreadRepo()
	svc := NewService(repo)
	ctx := context.Background()

	userThread, err := svc.Initialize(ctx, Authenticated("u1"), "ext-1")
	if err != nil {
		t.Fatalf("Initialize 失败: %v", err)
	}
	anonThread, err := svc.Initialize(ctx, Anonymous("anon_abc"), "ext-1")
	if err != nil {
		t.Fatalf("Initialize 失败: %v", err)
	}
	if userThread.ID == anonThread.ID {
		t.Error("不同身份的同名 external_id 不应共享线程")
	}

	if userThread.UserID == nil || userThread.SessionID != nil {
		t.Error("登录用户线程应只设置 UserID")
	}
	if anonThread.SessionID == nil || anonThread.UserID != nil {
		t.Error("匿名线程应只设置 SessionID")
	}
}

func TestInitializeRejectsInvalidIdentity(t *testing.T) {
	svc := NewService(newMockThreadRepo())

	if _, err := svc.Initialize(context.Background(), Identity{}, "ext-1"); !errors.Is(err, ErrInvalidIdentity) {
		t.Errorf("空身份应被拒绝, err = %v", err)
	}
}

func TestFetchOwnership(t *testing.T) {
	repo := newMockThreadRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Initialize(ctx, Authenticated("u1"), "ext-1")
	if err != nil {
		t.Fatalf("Initialize 失败: %v", err)
	}

	if _, err := svc.Fetch(ctx, Authenticated("u1"), created.ID); err != nil {
		t.Errorf("属主读取失败: %v", err)
	}
	// 他人和匿名会话都不可见，存在性也不泄漏
	if _, err := svc.Fetch(ctx, Authenticated("u2"), created.ID); !errors.Is(err, ErrThreadNotFound) {
		t.Errorf("他人读取应返回 ErrThreadNotFound, err = %v", err)
	}
	if _, err := svc.Fetch(ctx, Anonymous("anon_x"), created.ID); !errors.Is(err, ErrThreadNotFound) {
		t.Errorf("匿名读取应返回 ErrThreadNotFound, err = %v", err)
	}
}

func TestArchiveAndUnarchive(t *testing.T) {
	repo := newMockThreadRepo()
	svc := NewService(repo)
	ctx := context.Background()
	id := Authenticated("u1")

	created, _ := svc.Initialize(ctx, id, "ext-1")

	if err := svc.Archive(ctx, id, created.ID); err != nil {
		t.Fatalf("Archive 失败: %v", err)
	}
	if repo.threads[created.ID].Status != model.ThreadStatusArchived {
		t.Errorf("状态 = %q", repo.threads[created.ID].Status)
	}
	if err := svc.Unarchive(ctx, id, created.ID); err != nil {
		t.Fatalf("Unarchive 失败: %v", err)
	}
	if repo.threads[created.ID].Status != model.ThreadStatusRegular {
		t.Errorf("状态 = %q", repo.threads[created.ID].Status)
	}

	if err := svc.Archive(ctx, Authenticated("u2"), created.ID); !errors.Is(err, ErrThreadNotFound) {
		t.Errorf("他人归档应返回 ErrThreadNotFound, got %v", err)
	}
}

func TestAppendMessageTouchesThread(t *testing.T) {
	repo := newMockThreadRepo()
	svc := NewService(repo)
	ctx := context.Background()
	id := Authenticated("u1")

	created, _ := svc.Initialize(ctx, id, "ext-1")
	codec, _ := CodecFor(FormatDefault)

	row, err := svc.AppendMessage(ctx, id, created.ID, codec, "user", textMessage("你好"), nil)
	if err != nil {
		t.Fatalf("AppendMessage 失败: %v", err)
	}
	if row.Format != FormatDefault {
		t.Errorf("Format = %q", row.Format)
	}
	if repo.touched != 1 {
		t.Errorf("追加消息后应刷新线程, touched = %d", repo.touched)
	}
}

func TestAppendMessageParentMismatch(t *testing.T) {
	repo := newMockThreadRepo()
	svc := NewService(repo)
	ctx := context.Background()
	id := Authenticated("u1")

	t1, _ := svc.Initialize(ctx, id, "ext-1")
	t2, _ := svc.Initialize(ctx, id, "ext-2")
	codec, _ := CodecFor(FormatDefault)

	parent, err := svc.AppendMessage(ctx, id, t1.ID, codec, "user", textMessage("第一条"), nil)
	if err != nil {
		t.Fatalf("AppendMessage 失败: %v", err)
	}

	// 父消息在另一个线程
	if _, err := svc.AppendMessage(ctx, id, t2.ID, codec, "user", textMessage("第二条"), &parent.ID); !errors.Is(err, ErrParentMismatch) {
		t.Errorf("跨线程父消息应被拒绝, err = %v", err)
	}

	if _, err := svc.AppendMessage(ctx, id, t1.ID, codec, "user", textMessage("第二条"), &parent.ID); err != nil {
		t.Errorf("同线程父消息应被接受: %v", err)
	}
}

func TestLoadMessagesFiltersByFormat(t *testing.T) {
	repo := newMockThreadRepo()
	svc := NewService(repo)
	ctx := context.Background()
	id := Authenticated("u1")

	created, _ := svc.Initialize(ctx, id, "ext-1")
	textCodec, _ := CodecFor(FormatDefault)
	attachCodec, _ := CodecFor(FormatAISDKV5Files)

	if _, err := svc.AppendMessage(ctx, id, created.ID, textCodec, "user", textMessage("文本"), nil); err != nil {
		t.Fatalf("AppendMessage 失败: %v", err)
	}
	fileMsg := &Message{Parts: []Part{
		{Type: PartTypeText, Text: "带附件"},
		{Type: PartTypeImage, URL: "http://example.com/a.png"},
	}}
	if _, err := svc.AppendMessage(ctx, id, created.ID, attachCodec, "user", fileMsg, nil); err != nil {
		t.Fatalf("AppendMessage 失败: %v", err)
	}

	loaded, err := svc.LoadMessages(ctx, id, created.ID, textCodec)
	if err != nil {
		t.Fatalf("LoadMessages 失败: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("默认格式应只读到 1 条, got %d", len(loaded))
	}
	if loaded[0].Message.Text() != "文本" {
		t.Errorf("Text = %q", loaded[0].Message.Text())
	}
	if loaded[0].Role != "user" || loaded[0].Message.Role != "user" {
		t.Error("角色应回填到消息上")
	}

	loaded, err = svc.LoadMessages(ctx, id, created.ID, attachCodec)
	if err != nil {
		t.Fatalf("LoadMessages 失败: %v", err)
	}
	if len(loaded) != 1 || len(loaded[0].Message.Parts) != 2 {
		t.Fatalf("附件格式应读到带 2 个片段的 1 条消息")
	}
}

func TestGenerateTitleTruncates(t *testing.T) {
	repo := newMockThreadRepo()
	svc := NewService(repo)
	ctx := context.Background()
	id := Authenticated("u1")

	created, _ := svc.Initialize(ctx, id, "ext-1")
	codec, _ := CodecFor(FormatDefault)

	long := strings.Repeat("问", 60)
	if _, err := svc.AppendMessage(ctx, id, created.ID, codec, "assistant", textMessage("先有一条助手消息"), nil); err != nil {
		t.Fatalf("AppendMessage 失败: %v", err)
	}
	if _, err := svc.AppendMessage(ctx, id, created.ID, codec, "user", textMessage(long), nil); err != nil {
		t.Fatalf("AppendMessage 失败: %v", err)
	}

	title, err := svc.GenerateTitle(ctx, id, created.ID)
	if err != nil {
		t.Fatalf("GenerateTitle 失败: %v", err)
	}
	want := strings.Repeat("问", 50) + "..."
	if title != want {
		t.Errorf("标题 = %q, want %q", title, want)
	}
	if repo.threads[created.ID].Title == nil || *repo.threads[created.ID].Title != want {
		t.Error("标题未持久化")
	}
}

func TestGenerateTitleNoUserMessage(t *testing.T) {
	repo := newMockThreadRepo()
	svc := NewService(repo)
	ctx := context.Background()
	id := Authenticated("u1")

	created, _ := svc.Initialize(ctx, id, "ext-1")

	title, err := svc.GenerateTitle(ctx, id, created.ID)
	if err != nil {
		t.Fatalf("GenerateTitle 失败: %v", err)
	}
	if title != "" {
		t.Errorf("没有用户消息时标题应为空, got %q", title)
	}
}
