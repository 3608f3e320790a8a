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

// Package app 统一装配：供 api 与 cli 复用，避免在 cmd 内写业务
package app

import (
	"context"
	"fmt"
	"time"

	"supplychain-agent/internal/agent"
	"supplychain-agent/internal/model/llm"
	"supplychain-agent/internal/tool/builtin"
	"supplychain-agent/internal/tool/registry"
	"supplychain-agent/pkg/config"
	"supplychain-agent/pkg/log"
	"supplychain-agent/pkg/secrets"
)

// Bootstrap 装配结果
type Bootstrap struct {
	Config *config.Config
	Logger *log.Logger
	LLM    llm.Client
	Tools  *registry.Registry
	Agent  *agent.Agent
}

// Option 装配选项
type Option func(*bootstrapOptions)

type bootstrapOptions struct {
	logger    *log.Logger
	llmClient llm.Client
	agentOpts []agent.Option
}

// WithLogger 使用外部 Logger（CLI 输出到 stderr 等）
func WithLogger(l *log.Logger) Option {
	return func(o *bootstrapOptions) { o.logger = l }
}

// WithLLMClient 替换模型客户端（测试或自定义 Provider）
func WithLLMClient(c llm.Client) Option {
	return func(o *bootstrapOptions) { o.llmClient = c }
}

// WithAgentOptions 追加 Agent 选项（如 Observer）
func WithAgentOptions(opts ...agent.Option) Option {
	return func(o *bootstrapOptions) { o.agentOpts = append(o.agentOpts, opts...) }
}

// NewBootstrap 根据配置创建 Bootstrap；凭据缺失只记录警告，不返回错误
func NewBootstrap(ctx context.Context, cfg *config.Config, opts ...Option) (*Bootstrap, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	o := &bootstrapOptions{}
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		var err error
		logger, err = log.NewLogger(&log.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File})
		if err != nil {
			return nil, fmt.Errorf("初始化日志失败: %w", err)
		}
	}

	resolveCredentials(ctx, cfg, logger)
	for _, key := range cfg.MissingCredentials() {
		logger.Warn("credential not set", "env", key)
	}

	client := o.llmClient
	if client == nil {
		inner, err := llm.NewClient(cfg.Model.Provider, cfg.Model.Name, cfg.Model.APIKey, cfg.Model.BaseURL,
			config.ParseDuration(cfg.Model.Timeout, 60*time.Second))
		if err != nil {
			return nil, fmt.Errorf("初始化模型客户端失败: %w", err)
		}
		client = llm.NewRateLimitedClient(inner, newRateLimiter(cfg.RateLimits))
	}

	reg, err := registry.New()
	if err != nil {
		return nil, err
	}
	if err := builtin.RegisterBuiltin(reg, builtin.NewsSearchConfig{
		APIKey:     cfg.Search.APIKey,
		BaseURL:    cfg.Search.BaseURL,
		Depth:      cfg.Search.Depth,
		MaxResults: cfg.Search.MaxResults,
		Timeout:    config.ParseDuration(cfg.Search.Timeout, 30*time.Second),
	}); err != nil {
		return nil, fmt.Errorf("注册内置工具失败: %w", err)
	}

	agentOpts := []agent.Option{
		agent.WithMaxSteps(cfg.Agent.MaxSteps),
		agent.WithTemperature(cfg.Model.Temperature),
		agent.WithMaxTokens(cfg.Model.MaxTokens),
		agent.WithLogger(logger),
	}
	agentOpts = append(agentOpts, o.agentOpts...)

	logger.Info("agent assembled",
		"provider", client.Provider(),
		"model", client.Model(),
		"tools", reg.Len(),
		"max_steps", cfg.Agent.MaxSteps,
	)

	return &Bootstrap{
		Config: cfg,
		Logger: logger,
		LLM:    client,
		Tools:  reg,
		Agent:  agent.New(client, reg, agentOpts...),
	}, nil
}

// resolveCredentials 配置与环境变量都为空时，从 secrets store 补齐 api key
func resolveCredentials(ctx context.Context, cfg *config.Config, logger *log.Logger) {
	if cfg.Secrets.Provider == "" || len(cfg.MissingCredentials()) == 0 {
		return
	}
	store, err := secrets.NewStore(secrets.Config{
		Provider: cfg.Secrets.Provider,
		Vault: secrets.VaultConfig{
			Address:    cfg.Secrets.Vault.Address,
			Token:      cfg.Secrets.Vault.Token,
			PathPrefix: cfg.Secrets.Vault.PathPrefix,
		},
	})
	if err != nil {
		logger.Warn("secret store unavailable", "provider", cfg.Secrets.Provider, "error", err)
		return
	}

	if v, err := secrets.Lookup(ctx, store, config.EnvOpenAIKey, cfg.Model.APIKey); err == nil {
		cfg.Model.APIKey = v
	} else {
		logger.Debug("secret lookup failed", "key", config.EnvOpenAIKey, "error", err)
	}
	if v, err := secrets.Lookup(ctx, store, config.EnvTavilyKey, cfg.Search.APIKey); err == nil {
		cfg.Search.APIKey = v
	} else {
		logger.Debug("secret lookup failed", "key", config.EnvTavilyKey, "error", err)
	}
}

// newRateLimiter 未配置任何 provider 限流时返回 nil
func newRateLimiter(cfg config.RateLimitsConfig) *llm.RateLimiter {
	if len(cfg.LLM) == 0 {
		return nil
	}
	limits := make(map[string]llm.LimitConfig, len(cfg.LLM))
	for provider, c := range cfg.LLM {
		limits[provider] = llm.LimitConfig{
			TokensPerMinute:   c.TokensPerMinute,
			RequestsPerMinute: c.RequestsPerMinute,
			MaxConcurrent:     c.MaxConcurrent,
		}
	}
	return llm.NewRateLimiter(limits, llm.LimitConfig{})
}
