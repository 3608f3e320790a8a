package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// 全局 Registry，供 API/CLI 注册与暴露
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(
		RunTotal, RunSteps, RunDuration,
		LLMCallDuration, LLMCallErrors,
		ToolDuration, ToolErrorTotal, ToolNotFoundTotal,
		RateLimitWaitSeconds,
	)
}

// RunTotal 推理循环总数（按结局）
var RunTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sca_run_total",
		Help: "推理循环总数（按结局）",
	},
	[]string{"outcome"}, // answered | stuck | exhausted | error
)

// RunSteps 单次 Run 消耗的模型调用次数
var RunSteps = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "sca_run_steps",
		Help:    "单次 Run 的步数",
		Buckets: []float64{1, 2, 3, 4, 5, 8, 10, 15, 20},
	},
)

// RunDuration 单次 Run 耗时（秒）
var RunDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "sca_run_duration_seconds",
		Help:    "单次 Run 耗时（秒）",
		Buckets: prometheus.DefBuckets,
	},
)

// LLMCallDuration 模型调用耗时（秒）
var LLMCallDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "sca_llm_call_duration_seconds",
		Help:    "模型调用耗时（秒）",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"provider"},
)

// LLMCallErrors 模型调用失败次数
var LLMCallErrors = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sca_llm_call_errors_total",
		Help: "模型调用失败次数",
	},
	[]string{"provider"},
)

// ToolDuration 工具调用耗时（秒）
var ToolDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "sca_tool_duration_seconds",
		Help:    "工具调用耗时（秒）",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"tool"},
)

// ToolErrorTotal 工具返回错误文本的次数
var ToolErrorTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sca_tool_error_total",
		Help: "工具返回错误文本的次数",
	},
	[]string{"tool"},
)

// ToolNotFoundTotal 模型请求了未注册工具的次数
var ToolNotFoundTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "sca_tool_not_found_total",
		Help: "模型请求未注册工具的次数",
	},
)

// RateLimitWaitSeconds 限流等待耗时
var RateLimitWaitSeconds = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "sca_rate_limit_wait_seconds",
		Help:    "限流等待耗时（秒）",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"kind", "name"},
)

// WritePrometheus 将 Prometheus 文本格式写入 w（供 Hertz 等复用）
func WritePrometheus(w io.Writer) error {
	families, err := DefaultRegistry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
