// Package cover 提供文章封面图生成
// 从 picsum 拉取随机图片并转存到自有存储，避免外链失效
package cover

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/suiyuan/blog-ai/internal/service/file"
)

const (
	defaultBaseURL = "https://picsum.photos"

	coverWidth  = 1200
	coverHeight = 630

	defaultCount = 4
	maxCount     = 6

	coverFolder = "covers"
)

// Image 一张候选封面
type Image struct {
	Index int    `json:"index"`
	URL   string `json:"url"`
}

// Generator 封面图生成器
type Generator struct {
	baseURL string
	client  *http.Client
	storage file.Storage
}

// NewGenerator 创建封面图生成器
func NewGenerator(baseURL string, client *http.Client, storage file.Storage) *Generator {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Generator{baseURL: baseURL, client: client, storage: storage}
}

// Generate 生成 count 张候选封面并转存
// count 超出 [1, 6] 时收敛到边界，0 表示默认 4 张
func (g *Generator) Generate(ctx context.Context, count int) ([]Image, error) {
	if count <= 0 {
		count = defaultCount
	}
	if count > maxCount {
		count = maxCount
	}

	base := time.Now().UnixMilli()
	images := make([]Image, 0, count)
	for i := 0; i < count; i++ {
		// 时间戳加偏移，保证同一批次内 seed 不重复
		seed := fmt.Sprintf("%d-%s", base+int64(i*100), randomSuffix())
		sourceURL := fmt.Sprintf("%s/seed/%s/%d/%d", g.baseURL, seed, coverWidth, coverHeight)

		hosted, err := g.rehost(ctx, sourceURL)
		if err != nil {
			return nil, fmt.Errorf("生成第 %d 张封面失败: %w", i+1, err)
		}
		images = append(images, Image{Index: i + 1, URL: hosted})
	}

	return images, nil
}

// rehost 下载图片并上传到自有存储，返回访问 URL
func (g *Generator) rehost(ctx context.Context, sourceURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("下载图片失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("下载图片失败: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("读取图片失败: %w", err)
	}

	objectName := fmt.Sprintf("%s/%d-%s.jpg", coverFolder, time.Now().UnixMilli(), randomSuffix())
	path, err := g.storage.Save(ctx, &file.SaveRequest{
		FileName:    objectName,
		ContentType: "image/jpeg",
		Size:        int64(len(data)),
		Reader:      bytes.NewReader(data),
		ObjectName:  objectName,
	})
	if err != nil {
		return "", fmt.Errorf("上传图片失败: %w", err)
	}

	return g.storage.GetURL(path), nil
}

// randomSuffix 返回 base36 随机串
func randomSuffix() string {
	return strconv.FormatInt(rand.Int63n(1<<40), 36)
}
