// Copyright 2026 fanjia1024
// Tests for the sca command line

package main

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplychain-agent/internal/model/llm"
)

type fakeLLM struct {
	mu      sync.Mutex
	replies []string
	calls   int
}

func (f *fakeLLM) ChatWithContext(ctx context.Context, messages []llm.Message, options llm.GenerateOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.replies) == 0 {
		return "", nil
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r, nil
}

func (f *fakeLLM) Model() string    { return "fake" }
func (f *fakeLLM) Provider() string { return "fake" }

func execute(t *testing.T, client llm.Client, stdin string, args ...string) string {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("TAVILY_API_KEY", "tvly-test-1234")
	var out bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out, client)
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestAsk_PrintsAnalysis(t *testing.T) {
	client := &fakeLLM{replies: []string{"<thought>done</thought><answer>Ports are congested.</answer>"}}
	out := execute(t, client, "", "ask", "What", "about", "Shanghai?")

	assert.Contains(t, out, "Thinking...")
	assert.Contains(t, out, "--- Analysis ---")
	assert.Contains(t, out, "Ports are congested.")
	assert.Contains(t, out, strings.Repeat("-", 20))
	assert.NotContains(t, out, "OPENAI_API_KEY")
	assert.Equal(t, 1, client.calls)
}

func TestAsk_VerbosePrintsSteps(t *testing.T) {
	client := &fakeLLM{replies: []string{
		"<thought>search</thought><tool>nope</tool><tool_input>x</tool_input>",
		"<answer>ok</answer>",
	}}
	out := execute(t, client, "", "--verbose", "ask", "q")

	assert.Contains(t, out, "--- Step 1 ---")
	assert.Contains(t, out, "Agent wants to use tool: nope with input: 'x'")
	assert.Contains(t, out, "Observation: Tool 'nope' not found....")
	assert.Contains(t, out, "--- Step 2 ---")
	assert.Contains(t, out, "Agent has formulated the final answer.")
}

func TestAsk_MaxStepsFlag(t *testing.T) {
	client := &fakeLLM{replies: []string{
		"<tool>nope</tool><tool_input>a</tool_input>",
		"<tool>nope</tool><tool_input>b</tool_input>",
		"<tool>nope</tool><tool_input>c</tool_input>",
	}}
	out := execute(t, client, "", "--max-steps", "2", "ask", "q")

	assert.Contains(t, out, "maximum number of steps")
	assert.Equal(t, 2, client.calls)
}

func TestChat_LoopUntilExit(t *testing.T) {
	client := &fakeLLM{replies: []string{
		"<answer>first</answer>",
		"<answer>second</answer>",
	}}
	out := execute(t, client, "one\n\ntwo\nQUIT\nnever\n", "chat")

	assert.Contains(t, out, "--- Supply Chain Risk Analyst AI ---")
	assert.Equal(t, 4, strings.Count(out, "Ask a question > "))
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "second")
	assert.Contains(t, out, "Goodbye!")
	assert.Equal(t, 2, client.calls)
}

func TestChat_EOFEndsSession(t *testing.T) {
	out := execute(t, &fakeLLM{}, "", "chat")
	assert.Contains(t, out, "Session ended")
}

func TestTools_ListsNewsSearch(t *testing.T) {
	out := execute(t, &fakeLLM{}, "", "tools")
	assert.Contains(t, out, "- supply_chain_news_search:")
}

func TestConfig_MasksKeys(t *testing.T) {
	out := execute(t, nil, "", "--model", "gpt-4o-mini", "config")

	assert.Contains(t, out, "gpt-4o-mini")
	assert.Contains(t, out, "****1234")
	assert.NotContains(t, out, "tvly-test-1234")
	assert.Contains(t, out, "(not set)")
}

func TestVersion(t *testing.T) {
	out := execute(t, nil, "", "version")
	assert.Equal(t, "sca "+Version+"\n", out)
}

func TestAsk_RequiresQuestion(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(strings.NewReader(""), &out, &fakeLLM{})
	cmd.SetArgs([]string{"--env-file", "", "ask"})
	assert.Error(t, cmd.Execute())
}

func TestMask(t *testing.T) {
	assert.Equal(t, "(not set)", mask(""))
	assert.Equal(t, "****", mask("abc"))
	assert.Equal(t, "****wxyz", mask("sk-abcdwxyz"))
}
