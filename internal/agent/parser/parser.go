// Package parser 从模型的自由文本回复中提取标签内容
//
// 只做子串查找：取第一个 <tag> 与其后第一个 </tag> 之间的内容，不处理嵌套或畸形标签。
// 回复格式由 system prompt 约定，这里不追求通用标记语言解析。
package parser

import "strings"

// 协议标签
const (
	TagThought   = "thought"
	TagTool      = "tool"
	TagToolInput = "tool_input"
	TagAnswer    = "answer"
)

// Kind 回复分类
type Kind int

const (
	// Unparseable 既没有 answer 也没有 tool 标签
	Unparseable Kind = iota
	// ToolInvocation 请求调用工具
	ToolInvocation
	// FinalAnswer 给出最终答案
	FinalAnswer
)

func (k Kind) String() string {
	switch k {
	case ToolInvocation:
		return "tool"
	case FinalAnswer:
		return "answer"
	default:
		return "unparseable"
	}
}

// Step 单次模型回复的解析结果
type Step struct {
	Kind    Kind
	Thought string
	Tool    string
	Input   string
	Answer  string
}

// Extract 返回第一个 <tag> 与其后第一个 </tag> 之间去除首尾空白的内容；任一分隔符缺失时返回空串
func Extract(text, tag string) string {
	open := "<" + tag + ">"
	start := strings.Index(text, open)
	if start < 0 {
		return ""
	}
	start += len(open)
	end := strings.Index(text[start:], "</"+tag+">")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(text[start : start+end])
}

// Has 回复中是否出现 <tag>
func Has(text, tag string) bool {
	return strings.Contains(text, "<"+tag+">")
}

// Parse 分类一次回复：answer 优先于 tool，二者都没有时为 Unparseable
func Parse(text string) Step {
	step := Step{Thought: Extract(text, TagThought)}
	switch {
	case Has(text, TagAnswer):
		step.Kind = FinalAnswer
		step.Answer = Extract(text, TagAnswer)
	case Has(text, TagTool):
		step.Kind = ToolInvocation
		step.Tool = Extract(text, TagTool)
		step.Input = Extract(text, TagToolInput)
	default:
		step.Kind = Unparseable
	}
	return step
}
