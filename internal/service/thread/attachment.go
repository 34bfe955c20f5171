package thread

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/suiyuan/blog-ai/internal/service/file"
)

// 附件状态
const (
	AttachmentStatusUploading = "uploading"
	AttachmentStatusComplete  = "awaiting-send"
	AttachmentStatusError     = "error"
)

const attachmentFolder = "attachments"

// Attachment 聊天附件
type Attachment struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	URL         string `json:"url"`
	Status      string `json:"status"`
}

// AttachmentService 聊天附件上传
type AttachmentService struct {
	storage file.Storage
}

// NewAttachmentService 创建附件服务
func NewAttachmentService(storage file.Storage) *AttachmentService {
	return &AttachmentService{storage: storage}
}

// Upload 上传附件，对象名 {folder}/{随机 ID}.{扩展名}
func (s *AttachmentService) Upload(ctx context.Context, name, contentType string, size int64, reader io.Reader) (*Attachment, error) {
	id := uuid.New().String()
	ext := filepath.Ext(name)
	objectName := fmt.Sprintf("%s/%s%s", attachmentFolder, id, ext)

	path, err := s.storage.Save(ctx, &file.SaveRequest{
		FileName:    name,
		ContentType: contentType,
		Size:        size,
		Reader:      reader,
		ObjectName:  objectName,
	})
	if err != nil {
		return &Attachment{ID: id, Name: name, ContentType: contentType, Status: AttachmentStatusError}, fmt.Errorf("上传附件失败: %w", err)
	}

	return &Attachment{
		ID:          id,
		Name:        name,
		ContentType: contentType,
		URL:         s.storage.GetURL(path),
		Status:      AttachmentStatusComplete,
	}, nil
}

// ToPart 按 MIME 类型把附件转换为消息片段
// image/* 走图片片段，text/* 和 PDF 走文档片段，其余是普通文件
func (a *Attachment) ToPart() Part {
	switch {
	case strings.HasPrefix(a.ContentType, "image/"):
		return Part{Type: PartTypeImage, URL: a.URL, MediaType: a.ContentType, Filename: a.Name}
	case strings.HasPrefix(a.ContentType, "text/"), a.ContentType == "application/pdf":
		return Part{Type: PartTypeFile, URL: a.URL, MediaType: a.ContentType, Filename: a.Name}
	default:
		return Part{Type: PartTypeFile, URL: a.URL, MediaType: "application/octet-stream", Filename: a.Name}
	}
}
