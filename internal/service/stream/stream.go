// Package stream 管理进行中的生成流
// 支持停止生成，并把部分输出镜像到 Redis，中断后仍可取回
package stream

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// 部分输出在 Redis 中的过期时间
	partialTTL = 30 * time.Minute
	// Redis key 前缀
	partialKeyPrefix = "stream:partial:"
)

// Generation 一次进行中的生成
type Generation struct {
	ThreadID  string
	MessageID string
	CreatedAt time.Time

	cancel  context.CancelFunc
	content strings.Builder
	mu      sync.Mutex
}

// Content 当前已累积的输出
func (g *Generation) Content() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.content.String()
}

// Manager 生成流管理器
type Manager struct {
	mu     sync.RWMutex
	active map[string]*Generation
	redis  *redis.Client
}

// NewManager 创建管理器，redisClient 可以为 nil（不做镜像）
func NewManager(redisClient *redis.Client) *Manager {
	return &Manager{
		active: make(map[string]*Generation),
		redis:  redisClient,
	}
}

// Begin 注册一次生成，返回可取消的 context
// 同一线程已有生成在跑时先取消旧的
func (m *Manager) Begin(ctx context.Context, threadID, messageID string) (context.Context, *Generation) {
	genCtx, cancel := context.WithCancel(ctx)
	gen := &Generation{
		ThreadID:  threadID,
		MessageID: messageID,
		CreatedAt: time.Now(),
		cancel:    cancel,
	}

	m.mu.Lock()
	if old, ok := m.active[threadID]; ok {
		old.cancel()
	}
	m.active[threadID] = gen
	m.mu.Unlock()

	return genCtx, gen
}

// AppendOutput 累积一段输出并镜像到 Redis
func (m *Manager) AppendOutput(ctx context.Context, threadID, chunk string) {
	m.mu.RLock()
	gen, ok := m.active[threadID]
	m.mu.RUnlock()
	if !ok {
		return
	}

	gen.mu.Lock()
	gen.content.WriteString(chunk)
	snapshot := gen.content.String()
	gen.mu.Unlock()

	if m.redis != nil {
		m.redis.Set(ctx, partialKeyPrefix+threadID, snapshot, partialTTL)
	}
}

// Stop 取消线程上进行中的生成
func (m *Manager) Stop(threadID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	gen, ok := m.active[threadID]
	if !ok {
		return false
	}
	gen.cancel()
	delete(m.active, threadID)
	return true
}

// Finish 生成正常结束，注销并清理镜像
func (m *Manager) Finish(ctx context.Context, threadID string) {
	m.mu.Lock()
	gen, ok := m.active[threadID]
	if ok {
		delete(m.active, threadID)
	}
	m.mu.Unlock()

	if ok {
		gen.cancel()
	}
	if m.redis != nil {
		m.redis.Del(ctx, partialKeyPrefix+threadID)
	}
}

// Partial 取回中断生成的部分输出
func (m *Manager) Partial(ctx context.Context, threadID string) (string, error) {
	m.mu.RLock()
	gen, ok := m.active[threadID]
	m.mu.RUnlock()
	if ok {
		return gen.Content(), nil
	}

	if m.redis == nil {
		return "", nil
	}
	val, err := m.redis.Get(ctx, partialKeyPrefix+threadID).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}
