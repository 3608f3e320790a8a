package session

import (
	"fmt"
	"time"

	"supplychain-agent/internal/model/llm"
)

// Message 对话消息（与 llm.Message 语义对齐，带时间戳）
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ToLLM 转为 llm.Message
func (m *Message) ToLLM() llm.Message {
	return llm.Message{Role: m.Role, Content: m.Content}
}

// MessagesToLLM 将 []*Message 转为 []llm.Message
func MessagesToLLM(list []*Message) []llm.Message {
	if len(list) == 0 {
		return nil
	}
	out := make([]llm.Message, len(list))
	for i, m := range list {
		out[i] = m.ToLLM()
	}
	return out
}

// FormatUserQuery 首条 user 消息
func FormatUserQuery(query string) string {
	return "My question is: " + query
}

// FormatObservation 工具输出包装为 observation
func FormatObservation(output string) string {
	return fmt.Sprintf("<observation>\n%s\n</observation>", output)
}

// ToolNotFound 未注册工具的 observation 正文
func ToolNotFound(name string) string {
	return fmt.Sprintf("Tool '%s' not found.", name)
}
