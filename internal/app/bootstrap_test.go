package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplychain-agent/internal/tool/builtin"
	"supplychain-agent/pkg/config"
	"supplychain-agent/pkg/log"
)

func loadDefaults(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv(config.EnvOpenAIKey, "")
	t.Setenv(config.EnvTavilyKey, "")
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	return cfg
}

func TestNewBootstrap_MissingCredentialsOnlyWarn(t *testing.T) {
	cfg := loadDefaults(t)
	var buf bytes.Buffer
	logger := log.NewLoggerWithWriter(&log.Config{Level: "info", Format: "text"}, &buf)

	b, err := NewBootstrap(context.Background(), cfg, WithLogger(logger))
	require.NoError(t, err)
	require.NotNil(t, b.Agent)

	_, ok := b.Tools.Get(builtin.NewsSearchToolName)
	assert.True(t, ok)
	assert.Equal(t, "openai", b.LLM.Provider())
	assert.Equal(t, "gpt-4o", b.LLM.Model())
	assert.Equal(t, 5, b.Agent.MaxSteps())
	assert.Contains(t, buf.String(), "OPENAI_API_KEY")
	assert.Contains(t, buf.String(), "TAVILY_API_KEY")
}

func TestNewBootstrap_UnknownProvider(t *testing.T) {
	cfg := loadDefaults(t)
	cfg.Model.Provider = "llama"
	_, err := NewBootstrap(context.Background(), cfg, WithLogger(log.Nop()))
	assert.Error(t, err)

	_, err = NewBootstrap(context.Background(), nil)
	assert.Error(t, err)
}

func TestNewBootstrap_RateLimitedClient(t *testing.T) {
	cfg := loadDefaults(t)
	cfg.RateLimits.LLM = map[string]config.LLMRateLimitConfig{"openai": {MaxConcurrent: 2}}
	b, err := NewBootstrap(context.Background(), cfg, WithLogger(log.Nop()))
	require.NoError(t, err)
	assert.Equal(t, "openai", b.LLM.Provider())
	assert.NotNil(t, newRateLimiter(cfg.RateLimits))
	assert.Nil(t, newRateLimiter(config.RateLimitsConfig{}))
}

func TestResolveCredentials_FromVault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/secret/data/OPENAI_API_KEY":
			_, _ = w.Write([]byte(`{"data":{"data":{"value":"sk-vault"}}}`))
		case "/v1/secret/data/TAVILY_API_KEY":
			_, _ = w.Write([]byte(`{"data":{"data":{"value":"tvly-vault"}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	cfg := loadDefaults(t)
	cfg.Secrets.Provider = "vault"
	cfg.Secrets.Vault = config.VaultConfig{Address: srv.URL, Token: "t", PathPrefix: "secret/data"}

	resolveCredentials(context.Background(), cfg, log.Nop())
	assert.Equal(t, "sk-vault", cfg.Model.APIKey)
	assert.Equal(t, "tvly-vault", cfg.Search.APIKey)
	assert.Empty(t, cfg.MissingCredentials())
}

func TestResolveCredentials_KeepsExplicitKeys(t *testing.T) {
	cfg := loadDefaults(t)
	cfg.Model.APIKey = "sk-explicit"
	cfg.Secrets.Provider = "memory"

	resolveCredentials(context.Background(), cfg, log.Nop())
	assert.Equal(t, "sk-explicit", cfg.Model.APIKey)
	assert.Empty(t, cfg.Search.APIKey)
}
