package repository

import (
	"gorm.io/gorm"

	"github.com/suiyuan/blog-ai/internal/model"
)

// ThreadRepository 聊天线程/消息数据访问
type ThreadRepository struct {
	db *gorm.DB
}

// NewThreadRepository 创建线程仓库
func NewThreadRepository(db *gorm.DB) *ThreadRepository {
	return &ThreadRepository{db: db}
}

// Create 创建线程
func (r *ThreadRepository) Create(thread *model.ChatThread) error {
	return r.db.Create(thread).Error
}

// GetByID 获取线程
func (r *ThreadRepository) GetByID(id string) (*model.ChatThread, error) {
	var thread model.ChatThread
	err := r.db.Where("id = ?", id).First(&thread).Error
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

// GetByExternalIDForUser 按客户端关联 ID 查找登录用户的线程
func (r *ThreadRepository) GetByExternalIDForUser(externalID, userID string) (*model.ChatThread, error) {
	var thread model.ChatThread
	err := r.db.Where("external_id = ? AND user_id = ?", externalID, userID).First(&thread).Error
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

// GetByExternalIDForSession 按客户端关联 ID 查找匿名会话的线程
func (r *ThreadRepository) GetByExternalIDForSession(externalID, sessionID string) (*model.ChatThread, error) {
	var thread model.ChatThread
	err := r.db.Where("external_id = ? AND user_id IS NULL AND session_id = ?", externalID, sessionID).
		First(&thread).Error
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

// ListByUser 列出登录用户的线程，最近更新在前
func (r *ThreadRepository) ListByUser(userID string) ([]*model.ChatThread, error) {
	var threads []*model.ChatThread
	err := r.db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&threads).Error
	return threads, err
}

// ListBySession 列出匿名会话的线程，最近更新在前
func (r *ThreadRepository) ListBySession(sessionID string) ([]*model.ChatThread, error) {
	var threads []*model.ChatThread
	err := r.db.Where("user_id IS NULL AND session_id = ?", sessionID).
		Order("updated_at DESC").
		Find(&threads).Error
	return threads, err
}

// UpdateTitle 更新线程标题
func (r *ThreadRepository) UpdateTitle(id, title string) error {
	return r.db.Model(&model.ChatThread{}).Where("id = ?", id).Update("title", title).Error
}

// UpdateStatus 更新线程状态
func (r *ThreadRepository) UpdateStatus(id, status string) error {
	return r.db.Model(&model.ChatThread{}).Where("id = ?", id).Update("status", status).Error
}

// Delete 删除线程，先清理消息
func (r *ThreadRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.ChatMessage{}, "thread_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ChatThread{}, "id = ?", id).Error
	})
}

// Touch 刷新线程 updated_at
func (r *ThreadRepository) Touch(id string) error {
	return r.db.Model(&model.ChatThread{}).Where("id = ?", id).
		Update("updated_at", gorm.Expr("NOW()")).Error
}

// CreateMessage 追加消息
func (r *ThreadRepository) CreateMessage(msg *model.ChatMessage) error {
	return r.db.Create(msg).Error
}

// GetMessageByID 获取单条消息
func (r *ThreadRepository) GetMessageByID(id string) (*model.ChatMessage, error) {
	var msg model.ChatMessage
	err := r.db.Where("id = ?", id).First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetMessagesByThread 获取线程全部消息，按创建时间升序
func (r *ThreadRepository) GetMessagesByThread(threadID string) ([]*model.ChatMessage, error) {
	var messages []*model.ChatMessage
	err := r.db.Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}
