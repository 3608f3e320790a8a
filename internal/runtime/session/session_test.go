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

package session

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	s := New("run-1", "sys", FormatUserQuery("ports?"))
	if s.ID != "run-1" {
		t.Errorf("ID = %q", s.ID)
	}
	msgs := s.CopyMessages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != "system" || msgs[0].Content != "sys" {
		t.Errorf("first message: %+v", msgs[0])
	}
	if msgs[1].Role != "user" || msgs[1].Content != "My question is: ports?" {
		t.Errorf("second message: %+v", msgs[1])
	}
	if s2 := New("", "sys", "q"); !strings.HasPrefix(s2.ID, "run-") {
		t.Errorf("empty id should generate run id, got %q", s2.ID)
	}
}

func TestSession_AppendOnly(t *testing.T) {
	s := New("r", "sys", "q")
	s.AddAssistant("<thought>x</thought><tool>t</tool>")
	s.AddObservation("t", "in", "out", true)

	msgs := s.CopyMessages()
	if len(msgs) != 4 || s.Len() != 4 {
		t.Fatalf("expected 4 messages, got %d", len(msgs))
	}
	if msgs[2].Role != "assistant" {
		t.Errorf("third message role = %q", msgs[2].Role)
	}
	if msgs[3].Role != "user" || msgs[3].Content != "<observation>\nout\n</observation>" {
		t.Errorf("observation message: %+v", msgs[3])
	}

	// 修改副本不影响原对话
	msgs[0].Content = "changed"
	if s.CopyMessages()[0].Content != "sys" {
		t.Error("CopyMessages must return copies")
	}
}

func TestSession_ToolCalls(t *testing.T) {
	s := New("r", "sys", "q")
	if s.CopyToolCalls() != nil {
		t.Error("no tool calls expected")
	}
	s.AddObservation("ghost", "x", ToolNotFound("ghost"), false)
	calls := s.CopyToolCalls()
	if len(calls) != 1 || calls[0].Tool != "ghost" || calls[0].Found {
		t.Errorf("CopyToolCalls: %+v", calls)
	}
	if calls[0].Output != "Tool 'ghost' not found." {
		t.Errorf("output = %q", calls[0].Output)
	}
}

func TestSession_LLMMessages(t *testing.T) {
	s := New("r", "sys", "q")
	s.AddAssistant("a")
	got := s.LLMMessages()
	if len(got) != 3 || got[2].Role != "assistant" || got[2].Content != "a" {
		t.Errorf("LLMMessages: %+v", got)
	}
}
