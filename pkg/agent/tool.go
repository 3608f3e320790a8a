// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package agent

import (
	"context"

	"supplychain-agent/internal/tool"
)

// ToolFunc 简单工具函数：输入为模型给出的原始字符串
type ToolFunc func(ctx context.Context, input string) (string, error)

// Param 工具参数说明，用于生成 <tool_details>
type Param = tool.Param

// simpleTool 将 ToolFunc 适配为 tool.Tool；返回的 error 转为 observation 文本
type simpleTool struct {
	name        string
	description string
	details     string
	run         ToolFunc
}

func (t *simpleTool) Name() string        { return t.name }
func (t *simpleTool) Description() string { return t.description }
func (t *simpleTool) Details() string     { return t.details }

func (t *simpleTool) Invoke(ctx context.Context, input string) string {
	out, err := t.run(ctx, input)
	if err != nil {
		return "Error: " + err.Error()
	}
	return out
}

// Tool 在 Agent 上注册一个简单工具；params 为空时描述一个必填的 query 参数
// 注册后的工具会出现在之后每次 Run 的 system prompt 中，description 只在 summary 行出现一次
func (a *Agent) Tool(name, description string, run ToolFunc, params ...Param) error {
	if len(params) == 0 {
		params = []Param{{Name: "query", Type: "string", Required: true, Description: "Free-form input for the tool."}}
	}
	return a.registry.Register(&simpleTool{
		name:        name,
		description: description,
		details:     tool.RenderDetails(name, "", params),
		run:         run,
	})
}

// RegisterTool 注册一个已实现的 tool.Tool
func (a *Agent) RegisterTool(t tool.Tool) error {
	return a.registry.Register(t)
}

// Tools 返回已注册工具名，按注册顺序
func (a *Agent) Tools() []string {
	list := a.registry.List()
	names := make([]string, 0, len(list))
	for _, t := range list {
		names = append(names, t.Name())
	}
	return names
}
