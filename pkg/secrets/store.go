// Copyright 2026 fanjia1024
// Secret management abstraction

// Package secrets 为模型与检索凭据提供兜底来源（环境变量 / 内存 / Vault）
package secrets

import (
	"context"
	"fmt"

	"supplychain-agent/pkg/errors"
)

// Store 只读 Secret 来源
type Store interface {
	// Get 获取 secret 值，不存在时返回 errors.ErrNotFound
	Get(ctx context.Context, key string) (string, error)
}

// Config Secret Store 配置
type Config struct {
	Provider string // env | memory | vault
	Vault    VaultConfig
}

// NewStore 创建 Secret Store
func NewStore(config Config) (Store, error) {
	switch config.Provider {
	case "memory":
		return NewMemoryStore(), nil
	case "env", "":
		return NewEnvStore(), nil
	case "vault":
		return NewVaultStore(config.Vault)
	default:
		return nil, fmt.Errorf("unsupported secret provider %q: %w", config.Provider, errors.ErrInvalidArg)
	}
}

// Lookup 当 current 非空时直接返回；否则从 store 读取 key，失败时返回空串与错误
func Lookup(ctx context.Context, store Store, key, current string) (string, error) {
	if current != "" || store == nil {
		return current, nil
	}
	return store.Get(ctx, key)
}
