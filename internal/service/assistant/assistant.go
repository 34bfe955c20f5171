// Package assistant 提供博客写作助手的 Agent 执行
package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/suiyuan/blog-ai/internal/config"
	"github.com/suiyuan/blog-ai/internal/service/stream"
	"github.com/suiyuan/blog-ai/internal/service/thread"
)

// 单次对话最多执行的推理/工具轮数
const maxIterations = 10

// ErrModelUnavailable 没有可用的 ChatModel（API key 未配置）
var ErrModelUnavailable = errors.New("聊天模型不可用，请检查 AI 配置")

const systemPrompt = `你是一个博客写作助手，帮助博主管理和创作文章。

工作准则：
1. 创建文章默认保存为草稿（draft），除非用户明确要求直接发布。
2. 创建或发布文章前，先把标题和内容概要展示给用户确认。
3. 需要分类或标签时，先查询现有的分类/标签列表，避免重复创建。
4. 工具返回 success=false 时，把 error 里的原因转述给用户，不要编造结果。
5. 用用户提问使用的语言回答。`

// StreamEvent 流式事件
type StreamEvent struct {
	Type     string `json:"type"` // start, message, tool_call, error, end
	Data     string `json:"data"`
	ToolName string `json:"tool_name,omitempty"`
}

// Service 助手服务
type Service struct {
	cfg       *config.Config
	chatModel model.ToolCallingChatModel
	tools     []tool.BaseTool
	threads   *thread.Service
	streams   *stream.Manager
}

// NewService 创建助手服务，chatModel 可以为 nil（运行时报错）
func NewService(cfg *config.Config, chatModel model.ToolCallingChatModel, tools []tool.BaseTool, threads *thread.Service, streams *stream.Manager) *Service {
	return &Service{
		cfg:       cfg,
		chatModel: chatModel,
		tools:     tools,
		threads:   threads,
		streams:   streams,
	}
}

// ChatRequest 一次对话请求
type ChatRequest struct {
	ThreadID string
	Identity thread.Identity
	// Query 本轮用户输入
	Query string
	// Parts 本轮的完整片段（带附件时），为空则只有 Query 文本
	Parts []thread.Part
}

// Stream 流式运行助手
// 用户消息先落库，助手输出在流结束时落库；中途停止时已保存的工具效果不回滚
func (s *Service) Stream(ctx context.Context, req *ChatRequest) (<-chan StreamEvent, error) {
	if s.chatModel == nil {
		return nil, ErrModelUnavailable
	}

	codec := chatCodec()
	history, err := s.threads.LoadMessages(ctx, req.Identity, req.ThreadID, codec)
	if err != nil {
		return nil, err
	}

	// 保存本轮用户消息
	parts := req.Parts
	if len(parts) == 0 {
		parts = []thread.Part{{Type: thread.PartTypeText, Text: req.Query}}
	}
	userMsg, err := s.threads.AppendMessage(ctx, req.Identity, req.ThreadID, codec, "user", &thread.Message{Parts: parts}, nil)
	if err != nil {
		return nil, err
	}

	agent, err := s.newAgent(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	genCtx, gen := s.streams.Begin(ctx, req.ThreadID, userMsg.ID)

	iter := agent.Run(genCtx, &adk.AgentInput{
		Messages:        buildMessages(history, req.Query),
		EnableStreaming: true,
	})

	outCh := make(chan StreamEvent, 10)

	go func() {
		defer close(outCh)

		finished := false
		defer func() {
			if finished {
				s.finish(req, gen)
			}
			s.streams.Finish(context.WithoutCancel(genCtx), req.ThreadID)
		}()

		send := func(ev StreamEvent) bool {
			return sendEvent(genCtx, outCh, ev)
		}

		for {
			event, ok := iter.Next()
			if !ok {
				finished = send(StreamEvent{Type: "end"})
				return
			}

			if event.Err != nil {
				if errors.Is(event.Err, io.EOF) {
					finished = send(StreamEvent{Type: "end"})
					return
				}
				if !send(StreamEvent{Type: "error", Data: event.Err.Error()}) {
					return
				}
				continue
			}

			if event.Output != nil && event.Output.MessageOutput != nil {
				msgVar := event.Output.MessageOutput

				if msgVar.IsStreaming && msgVar.MessageStream != nil {
					if !send(StreamEvent{Type: "start"}) {
						return
					}

					for {
						chunk, err := msgVar.MessageStream.Recv()
						if err == io.EOF {
							break
						}
						if err != nil {
							if !send(StreamEvent{Type: "error", Data: err.Error()}) {
								return
							}
							break
						}

						if !send(StreamEvent{Type: "message", Data: chunk.Content}) {
							return
						}
						s.streams.AppendOutput(genCtx, req.ThreadID, chunk.Content)
					}
				} else if msgVar.Message != nil {
					if msgVar.Role == schema.Assistant {
						if !send(StreamEvent{Type: "message", Data: msgVar.Message.Content}) {
							return
						}
						s.streams.AppendOutput(genCtx, req.ThreadID, msgVar.Message.Content)
					} else if msgVar.Role == schema.Tool {
						if !send(StreamEvent{
							Type:     "tool_call",
							ToolName: msgVar.ToolName,
							Data:     msgVar.Message.Content,
						}) {
							return
						}
					}
				}
			}

			if event.Action != nil && event.Action.Exit {
				finished = send(StreamEvent{Type: "end"})
				return
			}
		}
	}()

	return outCh, nil
}

// Stop 停止线程上进行中的生成
func (s *Service) Stop(threadID string) bool {
	return s.streams.Stop(threadID)
}

// Partial 取回中断生成的部分输出
func (s *Service) Partial(ctx context.Context, threadID string) (string, error) {
	return s.streams.Partial(ctx, threadID)
}

// newAgent 创建 eino Agent
func (s *Service) newAgent(ctx context.Context) (*adk.ChatModelAgent, error) {
	agentCfg := &adk.ChatModelAgentConfig{
		Name:          "blog-assistant",
		Description:   "博客写作助手",
		Instruction:   systemPrompt,
		Model:         s.chatModel,
		MaxIterations: maxIterations,
	}

	if len(s.tools) > 0 {
		agentCfg.ToolsConfig = adk.ToolsConfig{
			ToolsNodeConfig: compose.ToolsNodeConfig{
				Tools: s.tools,
			},
		}
	}

	return adk.NewChatModelAgent(ctx, agentCfg)
}

// finish 生成正常结束，把完整回答落库
func (s *Service) finish(req *ChatRequest, gen *stream.Generation) {
	answer := gen.Content()
	if answer == "" {
		return
	}

	// 生成被取消后原始 ctx 已失效，落库用独立 context
	ctx := context.Background()
	msg := &thread.Message{Parts: []thread.Part{{Type: thread.PartTypeText, Text: answer}}}
	if _, err := s.threads.AppendMessage(ctx, req.Identity, req.ThreadID, chatCodec(), "assistant", msg, nil); err != nil {
		log.Printf("Warning: failed to save assistant message: %v", err)
	}
}

// sendEvent 向事件通道发送，生成被取消后放弃
// 消费方断开连接或提前返回时不再收事件，不带取消分支的发送会让生产者永久卡住
func sendEvent(ctx context.Context, ch chan<- StreamEvent, ev StreamEvent) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// chatCodec 对话落库使用的编解码格式
// 必须用保留附件的格式，否则带图片/文件的用户消息写入时会丢片段
func chatCodec() thread.Codec {
	codec, _ := thread.CodecFor(thread.FormatAISDKV5Files)
	return codec
}

// buildMessages 历史消息加本轮输入
func buildMessages(history []*thread.LoadedMessage, query string) []*schema.Message {
	messages := make([]*schema.Message, 0, len(history)+1)
	for _, h := range history {
		text := h.Message.Text()
		if text == "" {
			continue
		}
		switch h.Role {
		case "assistant":
			messages = append(messages, schema.AssistantMessage(text, nil))
		case "user":
			messages = append(messages, schema.UserMessage(text))
		}
	}
	messages = append(messages, schema.UserMessage(query))
	return messages
}
