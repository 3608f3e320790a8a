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

package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	einoopenai "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// EinoClient 以 eino ChatModel 实现 Client
type EinoClient struct {
	chatModel model.BaseChatModel
	model     string
}

// NewEinoOpenAIClient 通过 eino-ext 的 OpenAI ChatModel 创建客户端
func NewEinoOpenAIClient(ctx context.Context, modelName, apiKey, baseURL string, timeout time.Duration) (*EinoClient, error) {
	if modelName == "" {
		modelName = "gpt-4o"
	}
	cfg := &einoopenai.ChatModelConfig{
		Model:      modelName,
		APIKey:     apiKey,
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	chatModel, err := einoopenai.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("创建 OpenAI ChatModel 失败: %w", err)
	}
	return NewEinoClient(chatModel, modelName), nil
}

// NewEinoClient 包装任意 eino ChatModel
func NewEinoClient(chatModel model.BaseChatModel, modelName string) *EinoClient {
	return &EinoClient{chatModel: chatModel, model: modelName}
}

// ChatWithContext 实现 Client
func (c *EinoClient) ChatWithContext(ctx context.Context, messages []Message, options GenerateOptions) (string, error) {
	input := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		input = append(input, &schema.Message{
			Role:    toSchemaRole(msg.Role),
			Content: msg.Content,
		})
	}

	opts := []model.Option{model.WithTemperature(float32(options.Temperature))}
	if options.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(options.MaxTokens))
	}
	if len(options.Stop) > 0 {
		opts = append(opts, model.WithStop(options.Stop))
	}

	out, err := c.chatModel.Generate(ctx, input, opts...)
	if err != nil {
		return "", fmt.Errorf("eino ChatModel generate failed: %w", err)
	}
	if out == nil {
		return "", fmt.Errorf("eino ChatModel 没有返回结果")
	}
	return out.Content, nil
}

// Model 返回模型名称
func (c *EinoClient) Model() string { return c.model }

// Provider 返回提供商名称
func (c *EinoClient) Provider() string { return "eino" }

func toSchemaRole(role string) schema.RoleType {
	switch role {
	case RoleSystem:
		return schema.System
	case RoleAssistant:
		return schema.Assistant
	default:
		return schema.User
	}
}
