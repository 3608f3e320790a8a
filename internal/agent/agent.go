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

// Package agent 推理循环控制器：组装 prompt，逐步调用模型，解析标签，分派工具，决定终止
package agent

import (
	"context"
	"time"

	"github.com/google/uuid"

	"supplychain-agent/internal/agent/parser"
	"supplychain-agent/internal/agent/prompt"
	"supplychain-agent/internal/model/llm"
	"supplychain-agent/internal/runtime/session"
	"supplychain-agent/internal/tool"
	"supplychain-agent/pkg/errors"
	"supplychain-agent/pkg/log"
	"supplychain-agent/pkg/metrics"
	"supplychain-agent/pkg/tracing"
)

// 终止时返回给调用方的固定文本
const (
	StuckAnswer     = "The agent could not find an answer or decide on the next step."
	ExhaustedAnswer = "The agent reached the maximum number of steps without finding an answer."
)

// DefaultMaxSteps 单次 Run 默认最大模型调用次数
const DefaultMaxSteps = 5

// Outcome Run 的结局
type Outcome string

const (
	OutcomeAnswered  Outcome = "answered"
	OutcomeStuck     Outcome = "stuck"
	OutcomeExhausted Outcome = "exhausted"
)

// RunResult Agent 单次 Run 的结果
type RunResult struct {
	RunID     string                   `json:"run_id"`
	Answer    string                   `json:"answer"`
	Outcome   Outcome                  `json:"outcome"`
	Steps     int                      `json:"steps"` // 模型调用次数
	Duration  time.Duration            `json:"duration"`
	ToolCalls []session.ToolCallRecord `json:"tool_calls,omitempty"`
}

// ToolSet 固定的工具集合（如 tool/registry.Registry），构造后只读
type ToolSet interface {
	List() []tool.Tool
	Get(name string) (tool.Tool, bool)
}

// Agent 入口：持有模型客户端与工具集合；不持有跨 Run 的可变状态，可并发调用 Run
type Agent struct {
	llm      llm.Client
	tools    ToolSet
	logger   *log.Logger
	defaults settings
}

// New 创建 Agent
func New(client llm.Client, tools ToolSet, opts ...Option) *Agent {
	a := &Agent{
		llm:      client,
		tools:    tools,
		logger:   log.Nop(),
		defaults: settings{maxSteps: DefaultMaxSteps},
	}
	for _, o := range opts {
		o(&a.defaults)
	}
	if a.defaults.logger != nil {
		a.logger = a.defaults.logger
	}
	return a
}

// Tools 返回已注册工具
func (a *Agent) Tools() []tool.Tool {
	if a.tools == nil {
		return nil
	}
	return a.tools.List()
}

// MaxSteps 默认最大步数
func (a *Agent) MaxSteps() int { return a.defaults.maxSteps }

// Ask 返回答案或终止文本；模型调用失败或 ctx 取消时返回以 "Error: " 开头的文本
func (a *Agent) Ask(ctx context.Context, query string, maxSteps int) string {
	res, err := a.Run(ctx, query, WithMaxSteps(maxSteps))
	if err != nil {
		return "Error: " + err.Error()
	}
	return res.Answer
}

// Run 执行一次推理循环
//
// 只有模型调用失败与 ctx 取消返回 error；工具失败、未知工具、卡住、步数耗尽都体现在 RunResult 中。
func (a *Agent) Run(ctx context.Context, query string, opts ...Option) (*RunResult, error) {
	if a.llm == nil {
		return nil, errors.Wrap(errors.ErrInvalidArg, "agent has no llm client")
	}
	cfg := a.defaults
	for _, o := range opts {
		o(&cfg)
	}

	start := time.Now()
	runID := "run-" + uuid.New().String()
	ctx, span := tracing.StartRunSpan(ctx, runID, cfg.maxSteps)

	r := &run{
		agent:  a,
		cfg:    cfg,
		logger: a.logger.With("run_id", runID),
		sess:   session.New(runID, prompt.Compose(a.Tools()), session.FormatUserQuery(query)),
	}
	r.logger.Info("run started", "query", query, "max_steps", cfg.maxSteps)

	outcome, answer, err := r.loop(ctx)
	res := &RunResult{
		RunID:     runID,
		Answer:    answer,
		Outcome:   outcome,
		Steps:     r.steps,
		Duration:  time.Since(start),
		ToolCalls: r.sess.CopyToolCalls(),
	}
	metrics.RunSteps.Observe(float64(res.Steps))
	metrics.RunDuration.Observe(res.Duration.Seconds())
	tracing.EndWithError(span, err)

	if err != nil {
		metrics.RunTotal.WithLabelValues("error").Inc()
		r.logger.Error("run failed", "steps", res.Steps, "error", err)
		return nil, err
	}
	metrics.RunTotal.WithLabelValues(string(outcome)).Inc()
	r.logger.Info("run finished", "outcome", outcome, "steps", res.Steps, "duration_ms", res.Duration.Milliseconds())
	return res, nil
}

// run 单次 Run 的私有状态
type run struct {
	agent  *Agent
	cfg    settings
	logger *log.Logger
	sess   *session.Session
	steps  int
}

func (r *run) loop(ctx context.Context) (Outcome, string, error) {
	for i := 1; i <= r.cfg.maxSteps; i++ {
		outcome, answer, done, err := r.step(ctx, i)
		if err != nil || done {
			return outcome, answer, err
		}
	}
	r.emit(Event{Kind: EventExhausted, Step: r.steps, Answer: ExhaustedAnswer})
	return OutcomeExhausted, ExhaustedAnswer, nil
}

func (r *run) step(ctx context.Context, index int) (outcome Outcome, answer string, done bool, err error) {
	ctx, span := tracing.StartStepSpan(ctx, index)
	defer func() { tracing.EndWithError(span, err) }()

	if err := ctx.Err(); err != nil {
		return "", "", true, errors.Wrap(err, "run cancelled")
	}
	r.emit(Event{Kind: EventStepStart, Step: index})
	r.logger.Debug("step started", "step", index, "messages", r.sess.Len())

	reply, err := r.agent.llm.ChatWithContext(ctx, r.sess.LLMMessages(), llm.GenerateOptions{
		Temperature: r.cfg.temperature,
		MaxTokens:   r.cfg.maxTokens,
	})
	r.steps++
	if err != nil {
		if ctx.Err() != nil {
			return "", "", true, errors.Wrap(ctx.Err(), "run cancelled")
		}
		return "", "", true, errors.Wrapf(err, "model call failed at step %d", index)
	}
	r.sess.AddAssistant(reply)

	parsed := parser.Parse(reply)
	if parsed.Thought != "" {
		r.emit(Event{Kind: EventThought, Step: index, Thought: parsed.Thought})
	}

	switch parsed.Kind {
	case parser.FinalAnswer:
		r.emit(Event{Kind: EventAnswer, Step: index, Answer: parsed.Answer})
		return OutcomeAnswered, parsed.Answer, true, nil
	case parser.ToolInvocation:
		if err := r.dispatch(ctx, index, parsed.Tool, parsed.Input); err != nil {
			return "", "", true, err
		}
		return "", "", false, nil
	default:
		r.logger.Warn("reply has neither answer nor tool tag", "step", index)
		r.emit(Event{Kind: EventStuck, Step: index, Answer: StuckAnswer})
		return OutcomeStuck, StuckAnswer, true, nil
	}
}

// dispatch 调用工具并追加 observation；未知工具以 observation 形式反馈给模型
func (r *run) dispatch(ctx context.Context, index int, name, input string) error {
	r.emit(Event{Kind: EventToolCall, Step: index, Tool: name, Input: input})
	r.logger.Info("tool call", "step", index, "tool", name, "input", input)

	var (
		output string
		found  bool
		t      tool.Tool
	)
	if r.agent.tools != nil {
		t, found = r.agent.tools.Get(name)
	}
	if found {
		toolCtx, span := tracing.StartToolSpan(ctx, name)
		output = t.Invoke(toolCtx, input)
		span.End()
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "run cancelled")
		}
	} else {
		metrics.ToolNotFoundTotal.Inc()
		r.logger.Warn("tool not found", "step", index, "tool", name)
		output = session.ToolNotFound(name)
	}

	r.sess.AddObservation(name, input, output, found)
	r.emit(Event{Kind: EventObservation, Step: index, Tool: name, Observation: output})
	r.logger.Debug("observation appended", "step", index, "tool", name, "bytes", len(output))
	return nil
}

func (r *run) emit(ev Event) {
	if r.cfg.observer == nil {
		return
	}
	ev.RunID = r.sess.ID
	r.cfg.observer(ev)
}
