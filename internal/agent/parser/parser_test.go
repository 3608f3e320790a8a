package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		tag  string
		want string
	}{
		{name: "simple", text: "<answer>42</answer>", tag: "answer", want: "42"},
		{name: "trims whitespace", text: "<tool>\n  search \t</tool>", tag: "tool", want: "search"},
		{name: "surrounding text", text: "pre <thought>think</thought> post", tag: "thought", want: "think"},
		{name: "first occurrence only", text: "<tool>a</tool><tool>b</tool>", tag: "tool", want: "a"},
		{name: "missing open", text: "answer</answer>", tag: "answer", want: ""},
		{name: "missing close", text: "<answer>never closed", tag: "answer", want: ""},
		{name: "close before open", text: "</answer>x<answer>y", tag: "answer", want: ""},
		{name: "close before open then closed", text: "</answer><answer>y</answer>", tag: "answer", want: "y"},
		{name: "empty content", text: "<answer></answer>", tag: "answer", want: ""},
		{name: "empty text", text: "", tag: "answer", want: ""},
		{name: "tool does not match tool_input", text: "<tool_input>q</tool_input>", tag: "tool", want: ""},
		{name: "multiline", text: "<answer>line1\nline2</answer>", tag: "answer", want: "line1\nline2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.text, tt.tag))
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("answer wins over tool", func(t *testing.T) {
		step := Parse("<thought>done</thought><tool>search</tool><tool_input>x</tool_input><answer>final</answer>")
		assert.Equal(t, FinalAnswer, step.Kind)
		assert.Equal(t, "final", step.Answer)
		assert.Equal(t, "done", step.Thought)
		assert.Empty(t, step.Tool)
	})

	t.Run("tool invocation", func(t *testing.T) {
		step := Parse("<thought>need data</thought>\n<tool>supply_chain_news_search</tool>\n<tool_input>Shanghai port congestion</tool_input>")
		assert.Equal(t, ToolInvocation, step.Kind)
		assert.Equal(t, "supply_chain_news_search", step.Tool)
		assert.Equal(t, "Shanghai port congestion", step.Input)
		assert.Equal(t, "need data", step.Thought)
	})

	t.Run("tool without input", func(t *testing.T) {
		step := Parse("<tool>search</tool>")
		assert.Equal(t, ToolInvocation, step.Kind)
		assert.Empty(t, step.Input)
	})

	t.Run("unclosed answer still classifies as answer", func(t *testing.T) {
		step := Parse("<answer>truncated")
		assert.Equal(t, FinalAnswer, step.Kind)
		assert.Empty(t, step.Answer)
	})

	t.Run("unparseable", func(t *testing.T) {
		step := Parse("<thought>hmm</thought> I am not sure.")
		assert.Equal(t, Unparseable, step.Kind)
		assert.Equal(t, "unparseable", step.Kind.String())
	})
}

func TestParse_Steps(t *testing.T) {
	tests := []struct {
		reply string
		want  Step
	}{
		{
			reply: "<thought>search first</thought><tool>supply_chain_news_search</tool><tool_input>Suez canal delays</tool_input>",
			want:  Step{Kind: ToolInvocation, Thought: "search first", Tool: "supply_chain_news_search", Input: "Suez canal delays"},
		},
		{
			reply: "<thought>enough</thought><answer>Delays of 3-5 days.</answer>",
			want:  Step{Kind: FinalAnswer, Thought: "enough", Answer: "Delays of 3-5 days."},
		},
		{
			reply: "I am not sure what to do.",
			want:  Step{Kind: Unparseable},
		},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, Parse(tt.reply)); diff != "" {
			t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.reply, diff)
		}
	}
}
