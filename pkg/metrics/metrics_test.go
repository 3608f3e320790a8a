package metrics

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunTotal_Increments(t *testing.T) {
	before := testutil.ToFloat64(RunTotal.WithLabelValues("answered"))
	RunTotal.WithLabelValues("answered").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(RunTotal.WithLabelValues("answered")))
}

func TestWritePrometheus(t *testing.T) {
	ToolErrorTotal.WithLabelValues("supply_chain_news_search").Inc()
	var buf bytes.Buffer
	require.NoError(t, WritePrometheus(&buf))
	assert.Contains(t, buf.String(), "sca_tool_error_total")
	assert.Contains(t, buf.String(), `tool="supply_chain_news_search"`)
}
