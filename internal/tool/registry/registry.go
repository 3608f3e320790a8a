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

package registry

import (
	"strings"
	"sync"

	"supplychain-agent/internal/tool"
	"supplychain-agent/pkg/errors"
)

// Registry 有序工具注册表；名称唯一，构造完成后只读，可在并发的 Run 之间共享。
// nil *Registry 视为空注册表
type Registry struct {
	mu    sync.RWMutex
	tools []tool.Tool
}

// New 创建注册表并按顺序注册 tools
func New(tools ...tool.Tool) (*Registry, error) {
	r := &Registry{}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register 注册工具；空名称或重名返回错误
func (r *Registry) Register(t tool.Tool) error {
	if t == nil || strings.TrimSpace(t.Name()) == "" {
		return errors.Wrap(errors.ErrInvalidArg, "tool name is empty")
	}
	if r == nil {
		return errors.Wrap(errors.ErrInvalidArg, "registry is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tools {
		if existing.Name() == t.Name() {
			return errors.Wrapf(errors.ErrDuplicate, "tool %q", t.Name())
		}
	}
	r.tools = append(r.tools, t)
	return nil
}

// Get 按名称精确匹配（区分大小写）
func (r *Registry) Get(name string) (tool.Tool, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.tools {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// List 按注册顺序返回所有工具
func (r *Registry) List() []tool.Tool {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]tool.Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Len 已注册工具数
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Summary 紧凑索引：每行 "- name: description"
func (r *Registry) Summary() string {
	return tool.Summarize(r.List())
}

// Details 全部工具的 <tool_details> 块，换行拼接
func (r *Registry) Details() string {
	return tool.JoinDetails(r.List())
}
