package http

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"supplychain-agent/internal/agent"
	"supplychain-agent/internal/runtime/session"
	"supplychain-agent/internal/tool"
	"supplychain-agent/pkg/log"
	"supplychain-agent/pkg/metrics"
)

// maxAllowedSteps 单次请求允许的最大 max_steps
const maxAllowedSteps = 20

// AgentRunner Handler 依赖的 Agent 能力
type AgentRunner interface {
	Run(ctx context.Context, query string, opts ...agent.Option) (*agent.RunResult, error)
	Tools() []tool.Tool
	MaxSteps() int
}

// Handler HTTP 处理器
type Handler struct {
	agent      AgentRunner
	logger     *log.Logger
	runTimeout time.Duration
}

// NewHandler 创建新的 HTTP 处理器；runTimeout <= 0 时不额外限制单次 Run 时长
func NewHandler(a AgentRunner, logger *log.Logger, runTimeout time.Duration) *Handler {
	if logger == nil {
		logger = log.Nop()
	}
	return &Handler{agent: a, logger: logger, runTimeout: runTimeout}
}

// AskRequest POST /api/ask 请求体
type AskRequest struct {
	Query    string `json:"query"`
	MaxSteps int    `json:"max_steps"`
}

// AskResponse POST /api/ask 响应体
type AskResponse struct {
	RunID      string                   `json:"run_id"`
	Answer     string                   `json:"answer"`
	Outcome    agent.Outcome            `json:"outcome"`
	Steps      int                      `json:"steps"`
	DurationMS int64                    `json:"duration_ms"`
	ToolCalls  []session.ToolCallRecord `json:"tool_calls,omitempty"`
}

// ToolInfo GET /api/tools 列表项
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Details     string `json:"details"`
}

// HealthCheck 健康检查
// GET /api/health
func (h *Handler) HealthCheck(c context.Context, ctx *app.RequestContext) {
	resp := utils.H{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
		"service":   "supplychain-agent",
	}
	if h.agent != nil {
		resp["tools"] = len(h.agent.Tools())
		resp["max_steps"] = h.agent.MaxSteps()
	}
	ctx.JSON(consts.StatusOK, resp)
}

// Ask 运行一次推理循环
// POST /api/ask
func (h *Handler) Ask(c context.Context, ctx *app.RequestContext) {
	var req AskRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(consts.StatusBadRequest, map[string]string{
			"error": "invalid request",
		})
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		ctx.JSON(consts.StatusBadRequest, map[string]string{
			"error": "query is required",
		})
		return
	}
	if req.MaxSteps < 0 || req.MaxSteps > maxAllowedSteps {
		ctx.JSON(consts.StatusBadRequest, map[string]string{
			"error": "max_steps must be between 0 and 20",
		})
		return
	}
	if h.agent == nil {
		ctx.JSON(consts.StatusServiceUnavailable, map[string]string{
			"error": "agent is not configured",
		})
		return
	}

	runCtx := c
	if h.runTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(c, h.runTimeout)
		defer cancel()
	}

	res, err := h.agent.Run(runCtx, req.Query, agent.WithMaxSteps(req.MaxSteps))
	if err != nil {
		h.logger.Error("ask failed", "error", err)
		status := consts.StatusBadGateway
		if errors.Is(err, context.DeadlineExceeded) {
			status = consts.StatusGatewayTimeout
		}
		ctx.JSON(status, map[string]string{
			"error": err.Error(),
		})
		return
	}

	ctx.JSON(consts.StatusOK, AskResponse{
		RunID:      res.RunID,
		Answer:     res.Answer,
		Outcome:    res.Outcome,
		Steps:      res.Steps,
		DurationMS: res.Duration.Milliseconds(),
		ToolCalls:  res.ToolCalls,
	})
}

// ListTools 已注册工具
// GET /api/tools
func (h *Handler) ListTools(c context.Context, ctx *app.RequestContext) {
	list := []ToolInfo{}
	if h.agent != nil {
		for _, t := range h.agent.Tools() {
			list = append(list, ToolInfo{Name: t.Name(), Description: t.Description(), Details: t.Details()})
		}
	}
	ctx.JSON(consts.StatusOK, utils.H{"tools": list})
}

// Metrics Prometheus 文本格式
// GET /metrics
func (h *Handler) Metrics(c context.Context, ctx *app.RequestContext) {
	var buf bytes.Buffer
	if err := metrics.WritePrometheus(&buf); err != nil {
		ctx.JSON(consts.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
		return
	}
	ctx.Data(consts.StatusOK, "text/plain; version=0.0.4; charset=utf-8", buf.Bytes())
}
