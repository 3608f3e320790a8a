package agent

import "supplychain-agent/pkg/log"

// settings New 时的默认值，Run 时可逐项覆盖
type settings struct {
	maxSteps    int
	temperature float64
	maxTokens   int
	observer    Observer
	logger      *log.Logger
}

// Option 可选配置，既可传给 New 也可传给 Run
type Option func(*settings)

// WithMaxSteps 设置最大步数；n <= 0 时保持原值
func WithMaxSteps(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxSteps = n
		}
	}
}

// WithTemperature 设置采样温度，默认 0
func WithTemperature(t float64) Option {
	return func(s *settings) {
		s.temperature = t
	}
}

// WithMaxTokens 设置单次回复 token 上限，0 为不限
func WithMaxTokens(n int) Option {
	return func(s *settings) {
		s.maxTokens = n
	}
}

// WithObserver 订阅步骤事件
func WithObserver(o Observer) Option {
	return func(s *settings) {
		s.observer = o
	}
}

// WithLogger 设置日志；仅在 New 时生效
func WithLogger(l *log.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}
