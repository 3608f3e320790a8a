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

// Package agent 对外的可编程 Agent 门面：零配置接入供应链检索工具，可注册自定义工具
package agent

import (
	"context"
	"fmt"
	"os"
	"time"

	coreagent "supplychain-agent/internal/agent"
	"supplychain-agent/internal/model/llm"
	"supplychain-agent/internal/tool"
	"supplychain-agent/internal/tool/builtin"
	"supplychain-agent/internal/tool/registry"
)

// RunResult 单次 Run 的简化结果（最终回答、步数、耗时）
type RunResult struct {
	Answer   string        `json:"answer"`
	Outcome  string        `json:"outcome"`
	Steps    int           `json:"steps"`
	Duration time.Duration `json:"duration"`
}

// Agent 对外 Agent 门面：封装内部推理循环与工具 Registry，对外暴露 Tool()、Run()
type Agent struct {
	registry *registry.Registry
	inner    *coreagent.Agent
	initErr  error // 构造期注册失败，由 Run 返回
}

// Option 创建 Agent 时的可选配置
type Option func(*agentConfig)

type agentConfig struct {
	llmClient    llm.Client
	maxSteps     int
	temperature  float64
	searchAPIKey string
	noBuiltin    bool
	tools        []tool.Tool
}

// WithLLM 指定 LLM 客户端；不设置时从环境变量 OPENAI_API_KEY 创建默认 OpenAI 客户端
func WithLLM(client llm.Client) Option {
	return func(c *agentConfig) {
		c.llmClient = client
	}
}

// WithMaxSteps 设置单次 Run 默认最大步数
func WithMaxSteps(n int) Option {
	return func(c *agentConfig) {
		c.maxSteps = n
	}
}

// WithTemperature 设置采样温度
func WithTemperature(t float64) Option {
	return func(c *agentConfig) {
		c.temperature = t
	}
}

// WithSearchAPIKey 指定 Tavily key；不设置时检索工具在调用时读取 TAVILY_API_KEY
func WithSearchAPIKey(key string) Option {
	return func(c *agentConfig) {
		c.searchAPIKey = key
	}
}

// WithoutBuiltinTools 不注册内置检索工具
func WithoutBuiltinTools() Option {
	return func(c *agentConfig) {
		c.noBuiltin = true
	}
}

// WithTools 构造时注册额外工具，排在内置工具之后
func WithTools(tools ...tool.Tool) Option {
	return func(c *agentConfig) {
		c.tools = append(c.tools, tools...)
	}
}

// NewAgent 创建可编程 Agent；零配置时使用 OPENAI_API_KEY + gpt-4o
func NewAgent(opts ...Option) *Agent {
	cfg := &agentConfig{maxSteps: coreagent.DefaultMaxSteps}
	for _, o := range opts {
		o(cfg)
	}
	llmClient := cfg.llmClient
	if llmClient == nil {
		if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
			llmClient = llm.NewOpenAIClient("gpt-4o", apiKey, "", 60*time.Second)
		}
	}
	reg, initErr := newRegistry(cfg)
	inner := coreagent.New(llmClient, reg,
		coreagent.WithMaxSteps(cfg.maxSteps),
		coreagent.WithTemperature(cfg.temperature),
	)
	return &Agent{registry: reg, inner: inner, initErr: initErr}
}

// newRegistry 注册内置工具与 WithTools 工具；出错时返回已注册部分
func newRegistry(cfg *agentConfig) (*registry.Registry, error) {
	reg, err := registry.New()
	if err != nil {
		return reg, fmt.Errorf("create tool registry: %w", err)
	}
	if !cfg.noBuiltin {
		if err := builtin.RegisterBuiltin(reg, builtin.NewsSearchConfig{APIKey: cfg.searchAPIKey}); err != nil {
			return reg, fmt.Errorf("register builtin tools: %w", err)
		}
	}
	if err := builtin.RegisterBuiltinWithTools(reg, cfg.tools...); err != nil {
		return reg, fmt.Errorf("register tools: %w", err)
	}
	return reg, nil
}

// Err 构造期错误；非 nil 时 Run 直接返回该错误
func (a *Agent) Err() error { return a.initErr }

// Run 执行一次任务；每次 Run 使用全新的对话
func (a *Agent) Run(ctx context.Context, prompt string, opts ...RunOption) (*RunResult, error) {
	if a.initErr != nil {
		return nil, a.initErr
	}
	o := applyRunOptions(opts)
	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}
	var innerOpts []coreagent.Option
	if o.MaxSteps > 0 {
		innerOpts = append(innerOpts, coreagent.WithMaxSteps(o.MaxSteps))
	}
	res, err := a.inner.Run(ctx, prompt, innerOpts...)
	if err != nil {
		return nil, err
	}
	return &RunResult{
		Answer:   res.Answer,
		Outcome:  string(res.Outcome),
		Steps:    res.Steps,
		Duration: res.Duration,
	}, nil
}

// Ask 执行一次任务，错误以 "Error: ..." 文本返回
func (a *Agent) Ask(ctx context.Context, prompt string) string {
	if a.initErr != nil {
		return "Error: " + a.initErr.Error()
	}
	return a.inner.Ask(ctx, prompt, 0)
}

// RunOptions 单次 Run 的可选参数
type RunOptions struct {
	Timeout  time.Duration
	MaxSteps int
}

// RunOption 可选函数
type RunOption func(*RunOptions)

// WithTimeout 设置单次 Run 超时
func WithTimeout(d time.Duration) RunOption {
	return func(o *RunOptions) {
		o.Timeout = d
	}
}

// WithRunMaxSteps 设置单次 Run 最大步数（覆盖 Agent 默认）
func WithRunMaxSteps(n int) RunOption {
	return func(o *RunOptions) {
		o.MaxSteps = n
	}
}

func applyRunOptions(opts []RunOption) *RunOptions {
	o := &RunOptions{}
	for _, f := range opts {
		f(o)
	}
	return o
}
