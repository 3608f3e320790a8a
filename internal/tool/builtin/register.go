package builtin

import (
	"supplychain-agent/internal/tool"
	"supplychain-agent/internal/tool/registry"
)

// RegisterBuiltin 将内置工具注册到 Registry
func RegisterBuiltin(reg *registry.Registry, search NewsSearchConfig) error {
	return RegisterBuiltinWithTools(reg, NewNewsSearchTool(search))
}

// RegisterBuiltinWithTools 注册指定工具（用于测试或自定义装配）
func RegisterBuiltinWithTools(reg *registry.Registry, tools ...tool.Tool) error {
	if reg == nil {
		return nil
	}
	for _, t := range tools {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}
