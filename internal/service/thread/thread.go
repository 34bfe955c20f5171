// Package thread 提供聊天线程和消息的管理
package thread

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/suiyuan/blog-ai/internal/model"
)

// 标题最大长度（按 rune 计）
const titleMaxRunes = 50

var (
	// ErrInvalidIdentity 身份未设置或同时设置了两种归属
	ErrInvalidIdentity = errors.New("线程归属标识无效")
	// ErrThreadNotFound 线程不存在或不属于当前身份
	ErrThreadNotFound = errors.New("线程不存在")
	// ErrUnknownFormat 未注册的消息格式标签
	ErrUnknownFormat = errors.New("未知的消息格式")
	// ErrParentMismatch 父消息不在同一线程
	ErrParentMismatch = errors.New("父消息不属于该线程")
)

// Repository 线程存储接口
type Repository interface {
	Create(thread *model.ChatThread) error
	GetByID(id string) (*model.ChatThread, error)
	GetByExternalIDForUser(externalID, userID string) (*model.ChatThread, error)
	GetByExternalIDForSession(externalID, sessionID string) (*model.ChatThread, error)
	ListByUser(userID string) ([]*model.ChatThread, error)
	ListBySession(sessionID string) ([]*model.ChatThread, error)
	UpdateTitle(id, title string) error
	UpdateStatus(id, status string) error
	Delete(id string) error
	Touch(id string) error
	CreateMessage(msg *model.ChatMessage) error
	GetMessageByID(id string) (*model.ChatMessage, error)
	GetMessagesByThread(threadID string) ([]*model.ChatMessage, error)
}

// Service 线程服务
type Service struct {
	repo Repository
}

// NewService 创建线程服务
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List 列出身份名下的线程，按更新时间倒序
func (s *Service) List(ctx context.Context, id Identity) ([]*model.ChatThread, error) {
	if !id.Valid() {
		return nil, ErrInvalidIdentity
	}
	if id.IsAuthenticated() {
		return s.repo.ListByUser(id.UserID())
	}
	return s.repo.ListBySession(id.SessionID())
}

// Initialize 按客户端关联 ID 惰性创建线程，幂等
func (s *Service) Initialize(ctx context.Context, id Identity, externalID string) (*model.ChatThread, error) {
	if !id.Valid() {
		return nil, ErrInvalidIdentity
	}
	if externalID == "" {
		return nil, errors.New("external_id 不能为空")
	}

	var (
		existing *model.ChatThread
		err      error
	)
	if id.IsAuthenticated() {
		existing, err = s.repo.GetByExternalIDForUser(externalID, id.UserID())
	} else {
		existing, err = s.repo.GetByExternalIDForSession(externalID, id.SessionID())
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询线程失败: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	t := &model.ChatThread{
		ID:         uuid.New().String(),
		Status:     model.ThreadStatusRegular,
		ExternalID: &externalID,
	}
	if id.IsAuthenticated() {
		userID := id.UserID()
		t.UserID = &userID
	} else {
		sessionID := id.SessionID()
		t.SessionID = &sessionID
	}

	if err := s.repo.Create(t); err != nil {
		return nil, fmt.Errorf("创建线程失败: %w", err)
	}
	return t, nil
}

// Fetch 获取线程，校验归属
func (s *Service) Fetch(ctx context.Context, id Identity, threadID string) (*model.ChatThread, error) {
	return s.owned(id, threadID)
}

// Rename 重命名线程
func (s *Service) Rename(ctx context.Context, id Identity, threadID, title string) error {
	if _, err := s.owned(id, threadID); err != nil {
		return err
	}
	if err := s.repo.UpdateTitle(threadID, title); err != nil {
		return fmt.Errorf("重命名线程失败: %w", err)
	}
	return nil
}

// Archive 归档线程
func (s *Service) Archive(ctx context.Context, id Identity, threadID string) error {
	return s.setStatus(id, threadID, model.ThreadStatusArchived)
}

// Unarchive 取消归档
func (s *Service) Unarchive(ctx context.Context, id Identity, threadID string) error {
	return s.setStatus(id, threadID, model.ThreadStatusRegular)
}

// setStatus 校验归属后更新线程状态
func (s *Service) setStatus(id Identity, threadID, status string) error {
	if _, err := s.owned(id, threadID); err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(threadID, status); err != nil {
		return fmt.Errorf("更新线程状态失败: %w", err)
	}
	return nil
}

// Delete 删除线程及其全部消息
func (s *Service) Delete(ctx context.Context, id Identity, threadID string) error {
	if _, err := s.owned(id, threadID); err != nil {
		return err
	}
	if err := s.repo.Delete(threadID); err != nil {
		return fmt.Errorf("删除线程失败: %w", err)
	}
	return nil
}

// GenerateTitle 以第一条用户消息生成标题并持久化
// 超过 50 个字符截断并追加 "..."
func (s *Service) GenerateTitle(ctx context.Context, id Identity, threadID string) (string, error) {
	if _, err := s.owned(id, threadID); err != nil {
		return "", err
	}

	msgs, err := s.repo.GetMessagesByThread(threadID)
	if err != nil {
		return "", fmt.Errorf("读取消息失败: %w", err)
	}

	var title string
	for _, row := range msgs {
		if row.Role != "user" {
			continue
		}
		codec, ok := CodecFor(row.Format)
		if !ok {
			continue
		}
		msg, err := codec.Decode(row.Content)
		if err != nil {
			continue
		}
		if text := msg.Text(); text != "" {
			title = truncateTitle(text)
			break
		}
	}
	if title == "" {
		return "", nil
	}

	if err := s.repo.UpdateTitle(threadID, title); err != nil {
		return "", fmt.Errorf("更新标题失败: %w", err)
	}
	return title, nil
}

// AppendMessage 以指定格式追加一条消息
func (s *Service) AppendMessage(ctx context.Context, id Identity, threadID string, codec Codec, role string, msg *Message, parentID *string) (*model.ChatMessage, error) {
	if _, err := s.owned(id, threadID); err != nil {
		return nil, err
	}
	if codec == nil {
		return nil, ErrUnknownFormat
	}

	if parentID != nil {
		parent, err := s.repo.GetMessageByID(*parentID)
		if err != nil {
			return nil, fmt.Errorf("查询父消息失败: %w", err)
		}
		if parent.ThreadID != threadID {
			return nil, ErrParentMismatch
		}
	}

	content, err := codec.Encode(msg)
	if err != nil {
		return nil, fmt.Errorf("编码消息失败: %w", err)
	}

	row := &model.ChatMessage{
		ID:       uuid.New().String(),
		ThreadID: threadID,
		ParentID: parentID,
		Format:   codec.FormatTag(),
		Role:     role,
		Content:  datatypes.JSON(content),
	}
	if err := s.repo.CreateMessage(row); err != nil {
		return nil, fmt.Errorf("保存消息失败: %w", err)
	}

	// 刷新线程的更新时间，保证列表排序
	if err := s.repo.Touch(threadID); err != nil {
		return nil, fmt.Errorf("刷新线程失败: %w", err)
	}
	return row, nil
}

// LoadedMessage 读取结果，附带行信息
type LoadedMessage struct {
	ID       string   `json:"id"`
	ParentID *string  `json:"parent_id,omitempty"`
	Role     string   `json:"role"`
	Message  *Message `json:"message"`
}

// LoadMessages 按格式标签过滤读取消息，创建时间升序
func (s *Service) LoadMessages(ctx context.Context, id Identity, threadID string, codec Codec) ([]*LoadedMessage, error) {
	if _, err := s.owned(id, threadID); err != nil {
		return nil, err
	}
	if codec == nil {
		return nil, ErrUnknownFormat
	}

	rows, err := s.repo.GetMessagesByThread(threadID)
	if err != nil {
		return nil, fmt.Errorf("读取消息失败: %w", err)
	}

	out := make([]*LoadedMessage, 0, len(rows))
	for _, row := range rows {
		if row.Format != codec.FormatTag() {
			continue
		}
		msg, err := codec.Decode(row.Content)
		if err != nil {
			return nil, fmt.Errorf("解码消息 %s 失败: %w", row.ID, err)
		}
		msg.Role = row.Role
		out = append(out, &LoadedMessage{
			ID:       row.ID,
			ParentID: row.ParentID,
			Role:     row.Role,
			Message:  msg,
		})
	}
	return out, nil
}

// owned 获取线程并校验归属
func (s *Service) owned(id Identity, threadID string) (*model.ChatThread, error) {
	if !id.Valid() {
		return nil, ErrInvalidIdentity
	}
	t, err := s.repo.GetByID(threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThreadNotFound
		}
		return nil, fmt.Errorf("查询线程失败: %w", err)
	}

	if id.IsAuthenticated() {
		if t.UserID == nil || *t.UserID != id.UserID() {
			return nil, ErrThreadNotFound
		}
	} else {
		if t.UserID != nil || t.SessionID == nil || *t.SessionID != id.SessionID() {
			return nil, ErrThreadNotFound
		}
	}
	return t, nil
}

func truncateTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= titleMaxRunes {
		return text
	}
	return string(runes[:titleMaxRunes]) + "..."
}
