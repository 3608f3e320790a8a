// Copyright 2026 fanjia1024
// Tests for tool registry

package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supplychain-agent/pkg/errors"
)

type namedTool struct{ name, desc string }

func (n namedTool) Name() string                                    { return n.name }
func (n namedTool) Description() string                             { return n.desc }
func (n namedTool) Details() string                                 { return "<tool_details>" + n.name + "</tool_details>" }
func (n namedTool) Invoke(ctx context.Context, input string) string { return input }

func TestRegistry_OrderAndLookup(t *testing.T) {
	reg, err := New(namedTool{"b", "second"}, namedTool{"a", "first"})
	require.NoError(t, err)

	list := reg.List()
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Name())
	assert.Equal(t, "a", list[1].Name())
	assert.Equal(t, 2, reg.Len())

	got, ok := reg.Get("a")
	require.True(t, ok)
	assert.Equal(t, "first", got.Description())

	_, ok = reg.Get("A")
	assert.False(t, ok, "lookup is case-sensitive")
}

func TestRegistry_RejectsDuplicateAndEmpty(t *testing.T) {
	reg, err := New(namedTool{"search", "x"})
	require.NoError(t, err)

	err = reg.Register(namedTool{"search", "y"})
	assert.True(t, errors.Is(err, errors.ErrDuplicate))

	err = reg.Register(namedTool{" ", "blank"})
	assert.True(t, errors.Is(err, errors.ErrInvalidArg))

	err = reg.Register(nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidArg))

	_, err = New(namedTool{"dup", ""}, namedTool{"dup", ""})
	assert.Error(t, err)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_SummaryAndDetails(t *testing.T) {
	reg, err := New(namedTool{"a", "first"}, namedTool{"b", "second"})
	require.NoError(t, err)

	assert.Equal(t, "- a: first\n- b: second", reg.Summary())
	assert.Equal(t, "<tool_details>a</tool_details>\n<tool_details>b</tool_details>", reg.Details())

	empty, err := New()
	require.NoError(t, err)
	assert.Equal(t, "", empty.Summary())
}

func TestRegistry_NilIsEmpty(t *testing.T) {
	var reg *Registry

	_, ok := reg.Get("a")
	assert.False(t, ok)
	assert.Empty(t, reg.List())
	assert.Equal(t, 0, reg.Len())
	assert.Empty(t, reg.Summary())

	err := reg.Register(namedTool{"a", "first"})
	assert.True(t, errors.Is(err, errors.ErrInvalidArg))
}
