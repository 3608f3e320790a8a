package prompt

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"supplychain-agent/internal/tool"
	"supplychain-agent/internal/tool/builtin"
)

// fakeTool 与 pkg/agent 注册的函数工具一样，details 中不重复 description
type fakeTool struct{ name, desc string }

func (f fakeTool) Name() string        { return f.name }
func (f fakeTool) Description() string { return f.desc }
func (f fakeTool) Details() string {
	return tool.RenderDetails(f.name, "", []tool.Param{{Name: "query", Type: "string", Required: true, Description: "Input."}})
}
func (f fakeTool) Invoke(ctx context.Context, input string) string { return "" }

func TestCompose_ProtocolTags(t *testing.T) {
	out := Compose(nil)
	for _, tag := range []string{"<thought>", "<tool>", "<tool_input>", "<answer>", "<observation>"} {
		assert.Contains(t, out, tag)
	}
	assert.NotContains(t, out, "{tools_summary}")
	assert.NotContains(t, out, "{tools_details}")
	assert.True(t, strings.HasSuffix(out, "Begin your response with a `<thought>` tag.\n"))
}

func TestCompose_EachToolOnce(t *testing.T) {
	sets := [][]tool.Tool{
		{builtin.NewNewsSearchTool(builtin.NewsSearchConfig{})},
		{fakeTool{"port_status", "Returns port status."}, fakeTool{"tariff_lookup", "Looks up tariffs."}},
		{
			builtin.NewNewsSearchTool(builtin.NewsSearchConfig{}),
			fakeTool{"port_status", "Returns port status."},
			fakeTool{"freight_index", "Reports freight rates."},
		},
	}

	for i, tools := range sets {
		t.Run(fmt.Sprintf("set-%d", i), func(t *testing.T) {
			out := Compose(tools)
			for _, tl := range tools {
				line := fmt.Sprintf("- %s: %s", tl.Name(), tl.Description())
				assert.Equal(t, 1, strings.Count(out, line), "summary line for %s", tl.Name())
				assert.Equal(t, 1, strings.Count(out, tl.Description()), "description of %s", tl.Name())
				assert.Equal(t, 1, strings.Count(out, tl.Details()), "details of %s", tl.Name())
				// 名称出现两次：summary 行与 <name> 元素
				assert.Equal(t, 2, strings.Count(out, tl.Name()), "name of %s", tl.Name())
				assert.Equal(t, 1, strings.Count(out, "<name>"+tl.Name()+"</name>"), "<name> of %s", tl.Name())
			}
		})
	}
}

func TestCompose_SummaryBeforeDetails(t *testing.T) {
	out := Compose([]tool.Tool{fakeTool{"alpha", "Finds alpha."}})
	summary := strings.Index(out, "- alpha: Finds alpha.")
	details := strings.Index(out, "<tool_details>")
	assert.Greater(t, summary, 0)
	assert.Greater(t, details, summary)
}

func TestCompose_Deterministic(t *testing.T) {
	tools := []tool.Tool{fakeTool{"a", "x"}, fakeTool{"b", "y"}}
	assert.Equal(t, Compose(tools), Compose(tools))
}

func TestCompose_PlaceholderInToolText(t *testing.T) {
	out := Compose([]tool.Tool{fakeTool{"odd", "mentions {tools_details} literally"}})
	assert.Contains(t, out, "- odd: mentions {tools_details} literally")
}
