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

// Package session 单次 Run 的对话状态：有序、只追加，Run 结束即丢弃
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"supplychain-agent/internal/model/llm"
)

// Session 单次 Run 的唯一状态载体
type Session struct {
	ID        string
	CreatedAt time.Time

	messages  []*Message       // 对话历史，只追加
	toolCalls []ToolCallRecord // 工具调用记录

	mu sync.RWMutex
}

// ToolCallRecord 一次工具分派
type ToolCallRecord struct {
	Tool   string    `json:"tool"`
	Input  string    `json:"input"`
	Output string    `json:"output"`
	Found  bool      `json:"found"`
	At     time.Time `json:"at"`
}

// New 以一条 system 与一条 user 消息开始对话；id 为空时生成 "run-<uuid>"
func New(id, systemPrompt, userMessage string) *Session {
	if id == "" {
		id = "run-" + uuid.New().String()
	}
	s := &Session{ID: id, CreatedAt: time.Now()}
	s.append(llm.RoleSystem, systemPrompt)
	s.append(llm.RoleUser, userMessage)
	return s
}

func (s *Session) append(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, &Message{Role: role, Content: content, Timestamp: time.Now()})
}

// AddAssistant 追加模型原始回复
func (s *Session) AddAssistant(content string) {
	s.append(llm.RoleAssistant, content)
}

// AddObservation 以 user 角色追加 observation，并记录工具调用
func (s *Session) AddObservation(tool, input, output string, found bool) {
	s.append(llm.RoleUser, FormatObservation(output))
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toolCalls = append(s.toolCalls, ToolCallRecord{
		Tool:   tool,
		Input:  input,
		Output: output,
		Found:  found,
		At:     time.Now(),
	})
}

// Len 当前消息数
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// CopyMessages 返回消息副本
func (s *Session) CopyMessages() []*Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Message, len(s.messages))
	for i, m := range s.messages {
		cp := *m
		out[i] = &cp
	}
	return out
}

// LLMMessages 返回发送给模型的完整对话
func (s *Session) LLMMessages() []llm.Message {
	return MessagesToLLM(s.CopyMessages())
}

// CopyToolCalls 返回 ToolCalls 的副本
func (s *Session) CopyToolCalls() []ToolCallRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.toolCalls) == 0 {
		return nil
	}
	out := make([]ToolCallRecord, len(s.toolCalls))
	copy(out, s.toolCalls)
	return out
}
