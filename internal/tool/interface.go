// Package tool 定义推理循环可调用的工具契约
package tool

import (
	"context"
	"fmt"
	"strings"
)

// Param 工具参数描述，用于渲染给模型看的详细说明
type Param struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

// Tool 推理循环使用的工具接口
//
// Invoke 不向调用方返回 error：凭据缺失、网络失败、非 2xx、响应格式错误、超时都转为以 "Error" 开头的文本，
// 控制器总能把它作为 observation 追加到对话中。
type Tool interface {
	Name() string
	Description() string
	// Details 返回 <tool_details> 块
	Details() string
	Invoke(ctx context.Context, input string) string
}

// RenderDetails 将名称、描述与参数列表渲染为 <tool_details> 块；description 为空时省略 <description>，
// 用于描述已出现在 summary 中的工具
func RenderDetails(name, description string, params []Param) string {
	var sb strings.Builder
	sb.WriteString("<tool_details>\n")
	fmt.Fprintf(&sb, "  <name>%s</name>\n", name)
	if description != "" {
		fmt.Fprintf(&sb, "  <description>%s</description>\n", description)
	}
	sb.WriteString("  <parameters>\n")
	for _, p := range params {
		fmt.Fprintf(&sb, "    <param name='%s' type='%s' required='%t'>%s</param>\n", p.Name, p.Type, p.Required, p.Description)
	}
	sb.WriteString("  </parameters>\n")
	sb.WriteString("</tool_details>")
	return sb.String()
}

// Summarize 紧凑索引：每个工具一行 "- name: description"
func Summarize(tools []Tool) string {
	lines := make([]string, 0, len(tools))
	for _, t := range tools {
		lines = append(lines, fmt.Sprintf("- %s: %s", t.Name(), t.Description()))
	}
	return strings.Join(lines, "\n")
}

// JoinDetails 各工具 Details 换行拼接
func JoinDetails(tools []Tool) string {
	blocks := make([]string, 0, len(tools))
	for _, t := range tools {
		blocks = append(blocks, t.Details())
	}
	return strings.Join(blocks, "\n")
}
