package thread

import (
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonrepair"
)

// 消息内容格式标签，行上持久化，读取时按标签过滤
const (
	FormatDefault       = "aui/default"
	FormatAISDKV5Files  = "ai-sdk/v5-with-files"
)

// 消息片段类型
const (
	PartTypeText  = "text"
	PartTypeImage = "image"
	PartTypeFile  = "file"
)

// Part 消息内容片段
type Part struct {
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	URL       string `json:"url,omitempty"`
	MediaType string `json:"mediaType,omitempty"`
	Filename  string `json:"filename,omitempty"`
}

// Message 与存储格式无关的消息表示
type Message struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// Text 拼接全部文本片段
func (m *Message) Text() string {
	var out string
	for _, p := range m.Parts {
		if p.Type == PartTypeText {
			out += p.Text
		}
	}
	return out
}

// Codec 消息内容编解码器
// 每种格式一个实现，行上的 format 列记录写入时使用的标签
type Codec interface {
	// FormatTag 格式标签
	FormatTag() string
	// Encode 将消息片段编码为存储内容
	Encode(msg *Message) ([]byte, error)
	// Decode 从存储内容还原消息片段
	Decode(data []byte) (*Message, error)
}

var codecs = map[string]Codec{
	FormatDefault:      defaultCodec{},
	FormatAISDKV5Files: filesCodec{},
}

// CodecFor 按格式标签查找编解码器
func CodecFor(tag string) (Codec, bool) {
	c, ok := codecs[tag]
	return c, ok
}

// defaultCodec 只保留文本片段的基础格式
type defaultCodec struct{}

func (defaultCodec) FormatTag() string { return FormatDefault }

func (defaultCodec) Encode(msg *Message) ([]byte, error) {
	parts := make([]Part, 0, len(msg.Parts))
	for _, p := range msg.Parts {
		if p.Type == PartTypeText {
			parts = append(parts, Part{Type: PartTypeText, Text: p.Text})
		}
	}
	return json.Marshal(parts)
}

func (defaultCodec) Decode(data []byte) (*Message, error) {
	parts, err := decodeParts(data)
	if err != nil {
		return nil, err
	}
	msg := &Message{}
	for _, p := range parts {
		if p.Type == PartTypeText {
			msg.Parts = append(msg.Parts, p)
		}
	}
	return msg, nil
}

// filesCodec 保留附件片段的格式
type filesCodec struct{}

func (filesCodec) FormatTag() string { return FormatAISDKV5Files }

func (filesCodec) Encode(msg *Message) ([]byte, error) {
	return json.Marshal(msg.Parts)
}

func (filesCodec) Decode(data []byte) (*Message, error) {
	parts, err := decodeParts(data)
	if err != nil {
		return nil, err
	}
	return &Message{Parts: parts}, nil
}

// decodeParts 解析存储内容
// 流式写入被打断时行里可能是截断的 JSON，先修复再解析
func decodeParts(data []byte) ([]Part, error) {
	var parts []Part
	if err := json.Unmarshal(data, &parts); err == nil {
		return parts, nil
	}

	repaired, err := jsonrepair.JSONRepair(string(data))
	if err != nil {
		return nil, fmt.Errorf("消息内容无法解析: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), &parts); err != nil {
		return nil, fmt.Errorf("消息内容无法解析: %w", err)
	}
	return parts, nil
}
