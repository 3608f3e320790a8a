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

// Package llm 封装推理循环所需的语言模型调用：有序消息进，文本出
package llm

import (
	"context"
	"fmt"
	"time"

	"supplychain-agent/pkg/errors"
)

// 消息角色
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Client LLM 客户端接口
type Client interface {
	// ChatWithContext 以完整对话调用模型，返回回复文本
	ChatWithContext(ctx context.Context, messages []Message, options GenerateOptions) (string, error)
	// Model 返回模型名称
	Model() string
	// Provider 返回提供商名称
	Provider() string
}

// GenerateOptions 生成选项
type GenerateOptions struct {
	Temperature float64  `json:"temperature"`
	MaxTokens   int      `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

// Message 聊天消息
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

const defaultTimeout = 60 * time.Second

// NewClient 创建 LLM 客户端；baseURL 用于 OpenAI 兼容端点（如 Qwen/DashScope）或测试桩，空则用默认
func NewClient(provider, model, apiKey, baseURL string, timeout time.Duration) (Client, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	switch provider {
	case "openai", "":
		return NewOpenAIClient(model, apiKey, baseURL, timeout), nil
	case "qwen":
		c := NewOpenAIClient(model, apiKey, baseURL, timeout)
		c.provider = "qwen"
		return c, nil
	case "claude":
		return NewClaudeClient(model, apiKey, baseURL, timeout), nil
	case "gemini":
		return NewGeminiClient(model, apiKey, baseURL, timeout), nil
	case "eino":
		return NewEinoOpenAIClient(context.Background(), model, apiKey, baseURL, timeout)
	default:
		return nil, errors.Wrapf(errors.ErrInvalidArg, "unsupported llm provider %q", provider)
	}
}

// httpStatusError 非 2xx 响应
func httpStatusError(provider string, status int, body string) error {
	return fmt.Errorf("%s API 返回错误: HTTP %d: %s", provider, status, body)
}
