package model

import (
	"time"

	"gorm.io/datatypes"
)

// 线程状态
const (
	ThreadStatusRegular  = "regular"
	ThreadStatusArchived = "archived"
)

// ChatThread 聊天线程
// UserID 和 SessionID 二选一：登录用户用 UserID，匿名会话用 SessionID
type ChatThread struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	UserID     *string   `gorm:"index;size:36" json:"user_id"`
	SessionID  *string   `gorm:"index;size:64" json:"session_id"`
	Title      *string   `gorm:"size:255" json:"title"`
	Status     string    `gorm:"index;size:20;default:regular" json:"status"`
	ExternalID *string   `gorm:"index;size:64" json:"external_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime;index" json:"updated_at"`
}

// TableName 指定表名
func (ChatThread) TableName() string {
	return "chat_threads"
}

// ChatMessage 聊天消息
// Format 是编码格式标签，不同编码的消息可以共存于同一个线程
// ParentID 非空时必须指向同一线程内的消息（支持编辑/分支）
type ChatMessage struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	ThreadID  string         `gorm:"index;size:36;not null" json:"thread_id"`
	ParentID  *string        `gorm:"size:36" json:"parent_id"`
	Format    string         `gorm:"size:50;not null" json:"format"`
	Role      string         `gorm:"size:20" json:"role"` // user, assistant, system
	Content   datatypes.JSON `gorm:"type:jsonb" json:"content"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName 指定表名
func (ChatMessage) TableName() string {
	return "chat_messages"
}
