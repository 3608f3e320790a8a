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

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"supplychain-agent/pkg/errors"
)

// 凭据对应的环境变量名
const (
	EnvOpenAIKey = "OPENAI_API_KEY"
	EnvTavilyKey = "TAVILY_API_KEY"
)

// Config 应用配置结构体
type Config struct {
	Model      ModelConfig      `mapstructure:"model"`
	Agent      AgentConfig      `mapstructure:"agent"`
	Search     SearchConfig     `mapstructure:"search"`
	API        APIConfig        `mapstructure:"api"`
	Log        LogConfig        `mapstructure:"log"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	RateLimits RateLimitsConfig `mapstructure:"rate_limits"`
	Secrets    SecretsConfig    `mapstructure:"secrets"`
}

// ModelConfig 推理所用的语言模型
type ModelConfig struct {
	Provider    string  `mapstructure:"provider"` // openai | qwen | claude | gemini | eino
	Name        string  `mapstructure:"name"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Timeout     string  `mapstructure:"timeout"`
}

// AgentConfig 推理循环配置
type AgentConfig struct {
	MaxSteps int `mapstructure:"max_steps"`
}

// SearchConfig 新闻检索工具配置
type SearchConfig struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Depth      string `mapstructure:"depth"`
	MaxResults int    `mapstructure:"max_results"`
	Timeout    string `mapstructure:"timeout"`
}

// APIConfig HTTP 服务配置
type APIConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Timeout string `mapstructure:"timeout"` // 单次 /api/ask 的最长执行时间

	RequestsPerSecond float64 `mapstructure:"requests_per_second"` // /api/ask 令牌桶速率，0 为不限
	Burst             int     `mapstructure:"burst"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// MonitoringConfig 监控配置
type MonitoringConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
}

// PrometheusConfig Prometheus 配置
type PrometheusConfig struct {
	Enable bool `mapstructure:"enable"`
}

// TracingConfig 链路追踪配置（OpenTelemetry）
type TracingConfig struct {
	Enable         bool   `mapstructure:"enable"`
	ServiceName    string `mapstructure:"service_name"`
	ExportEndpoint string `mapstructure:"export_endpoint"`
	Insecure       bool   `mapstructure:"insecure"`
}

// RateLimitsConfig 限流配置
type RateLimitsConfig struct {
	LLM map[string]LLMRateLimitConfig `mapstructure:"llm"`
}

// LLMRateLimitConfig 单个 LLM Provider 的限流配置
type LLMRateLimitConfig struct {
	TokensPerMinute   int     `mapstructure:"tokens_per_minute"`
	RequestsPerMinute float64 `mapstructure:"requests_per_minute"`
	MaxConcurrent     int     `mapstructure:"max_concurrent"`
}

// SecretsConfig 凭据兜底来源：配置与环境变量都为空时再查询
type SecretsConfig struct {
	Provider string      `mapstructure:"provider"` // "" | env | memory | vault
	Vault    VaultConfig `mapstructure:"vault"`
}

// VaultConfig Vault 连接配置
type VaultConfig struct {
	Address    string `mapstructure:"address"`
	Token      string `mapstructure:"token"`
	PathPrefix string `mapstructure:"path_prefix"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("model.provider", "openai")
	v.SetDefault("model.name", "gpt-4o")
	v.SetDefault("model.api_key", "")
	v.SetDefault("model.base_url", "")
	v.SetDefault("model.temperature", 0.0)
	v.SetDefault("model.max_tokens", 0)
	v.SetDefault("model.timeout", "60s")
	v.SetDefault("agent.max_steps", 5)
	v.SetDefault("search.api_key", "")
	v.SetDefault("search.base_url", "https://api.tavily.com")
	v.SetDefault("search.depth", "advanced")
	v.SetDefault("search.max_results", 5)
	v.SetDefault("search.timeout", "30s")
	v.SetDefault("api.host", "")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.timeout", "120s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("monitoring.prometheus.enable", true)
	v.SetDefault("monitoring.tracing.enable", false)
	v.SetDefault("monitoring.tracing.service_name", "supplychain-agent")
	v.SetDefault("secrets.provider", "")
}

// LoadConfig 加载配置；configPath 为空时只使用默认值与环境变量
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	_ = v.BindEnv("model.api_key", EnvOpenAIKey)
	_ = v.BindEnv("search.api_key", EnvTavilyKey)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	replaceEnvVars(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDotEnv 将 .env 文件中的键写入进程环境（已存在的环境变量不覆盖）；文件不存在时静默跳过
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read env file %s: %w", path, err)
	}
	for _, key := range v.AllKeys() {
		name := strings.ToUpper(key)
		if _, exists := os.LookupEnv(name); exists {
			continue
		}
		if err := os.Setenv(name, v.GetString(key)); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
	}
	return nil
}

// replaceEnvVars 将 "${VAR}" 形式的凭据替换为环境变量值
func replaceEnvVars(cfg *Config) {
	cfg.Model.APIKey = expandEnv(cfg.Model.APIKey)
	cfg.Search.APIKey = expandEnv(cfg.Search.APIKey)
	cfg.Secrets.Vault.Token = expandEnv(cfg.Secrets.Vault.Token)
}

func expandEnv(s string) string {
	if !strings.HasPrefix(s, "$") {
		return s
	}
	name := strings.TrimPrefix(strings.TrimSuffix(s, "}"), "${")
	name = strings.TrimPrefix(name, "$")
	return os.Getenv(name)
}

// Validate 校验取值范围
func (c *Config) Validate() error {
	if c.Agent.MaxSteps <= 0 {
		return errors.Wrapf(errors.ErrInvalidArg, "agent.max_steps must be positive, got %d", c.Agent.MaxSteps)
	}
	if c.Search.MaxResults <= 0 {
		return errors.Wrapf(errors.ErrInvalidArg, "search.max_results must be positive, got %d", c.Search.MaxResults)
	}
	if c.Model.Temperature < 0 {
		return errors.Wrapf(errors.ErrInvalidArg, "model.temperature must not be negative, got %v", c.Model.Temperature)
	}
	return nil
}

// MissingCredentials 返回缺失凭据对应的环境变量名；缺失不是错误，工具在首次调用时返回错误文本
func (c *Config) MissingCredentials() []string {
	var missing []string
	if c.Model.APIKey == "" {
		missing = append(missing, EnvOpenAIKey)
	}
	if c.Search.APIKey == "" {
		missing = append(missing, EnvTavilyKey)
	}
	return missing
}

// ParseDuration 解析时长字符串，无效或空时返回 defaultVal
func ParseDuration(s string, defaultVal time.Duration) time.Duration {
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
