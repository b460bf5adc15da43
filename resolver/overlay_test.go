/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver_test

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/atpkg/internal/logger"
	"bennypowers.dev/atpkg/resolver"
	"bennypowers.dev/atpkg/value"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newState(t *testing.T, name string, options value.Map, declared map[string]value.Map) *resolver.TaskState {
	t.Helper()
	state, err := resolver.NewTaskState(name, options, declared)
	require.NoError(t, err)
	return state
}

func TestNewTaskState_RequestsMustBeStrings(t *testing.T) {
	tests := []struct {
		name    string
		options value.Map
	}{
		{"scalar use-overlays", value.Map{"use-overlays": value.StringLiteral("nope")}},
		{"mixed use-overlays", value.Map{"use-overlays": value.Array{value.StringLiteral("a"), value.BoolLiteral(true)}}},
		{"map overlay", value.Map{"overlay": value.Map{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.NewTaskState("p.a", tt.options, nil)
			require.ErrorIs(t, err, resolver.ErrUnsupportedOverlayValue)
			assert.Contains(t, err.Error(), `task "p.a"`)
		})
	}
}

func TestNewTaskState_LegacyOverlayKey(t *testing.T) {
	state := newState(t, "p.a", value.Map{
		"use-overlays": value.StringArray("a"),
		"overlay":      value.StringArray("b", "a"),
	}, nil)
	assert.Equal(t, []string{"a", "b"}, state.Requested)
}

func TestApplyOverlay_AppendsArrays(t *testing.T) {
	state := newState(t, "p.build", value.Map{
		"compile-options": value.StringArray("-D", "AWESOME"),
	}, nil)

	chained, err := resolver.ApplyOverlay(state, "more", value.Map{
		"compile-options": value.StringArray("-D", "MORE"),
		"link-options":    value.StringArray("-lm"),
	}, nil)
	require.NoError(t, err)
	assert.False(t, chained)

	assert.Equal(t, value.StringArray("-D", "AWESOME", "-D", "MORE"), state.Options["compile-options"])
	assert.Equal(t, value.StringArray("-lm"), state.Options["link-options"])
	assert.Equal(t, []string{"more"}, state.Applied)
	assert.True(t, state.IsApplied("more"))
}

func TestApplyOverlay_Scalars(t *testing.T) {
	state := newState(t, "p.build", value.Map{"tool": value.StringLiteral("shell")}, nil)

	_, err := resolver.ApplyOverlay(state, "flag", value.Map{"debug": value.BoolLiteral(true)}, nil)
	require.NoError(t, err)
	assert.Equal(t, value.BoolLiteral(true), state.Options["debug"])

	_, err = resolver.ApplyOverlay(state, "retool", value.Map{"tool": value.StringLiteral("atllbuild")}, nil)
	assert.ErrorIs(t, err, resolver.ErrOverlayConflict)
}

func TestApplyOverlay_AppendToScalarConflicts(t *testing.T) {
	state := newState(t, "p.build", value.Map{"tool": value.StringLiteral("shell")}, nil)
	_, err := resolver.ApplyOverlay(state, "bad", value.Map{"tool": value.StringArray("x")}, nil)
	assert.ErrorIs(t, err, resolver.ErrOverlayConflict)
}

func TestApplyOverlay_Reapplied(t *testing.T) {
	state := newState(t, "p.build", value.Map{}, nil)
	_, err := resolver.ApplyOverlay(state, "a", value.Map{}, nil)
	require.NoError(t, err)

	_, err = resolver.ApplyOverlay(state, "a", value.Map{}, nil)
	assert.ErrorIs(t, err, resolver.ErrOverlayReapplied)
}

func TestApplyOverlay_UnsupportedMap(t *testing.T) {
	state := newState(t, "p.build", value.Map{}, nil)
	_, err := resolver.ApplyOverlay(state, "a", value.Map{"nested": value.Map{}}, nil)
	assert.ErrorIs(t, err, resolver.ErrUnsupportedOverlayValue)
}

func TestApplyOverlay_ChainsUseOverlays(t *testing.T) {
	state := newState(t, "p.build", value.Map{}, nil)
	chained, err := resolver.ApplyOverlay(state, "a", value.Map{
		"use-overlays": value.StringArray("b"),
	}, nil)
	require.NoError(t, err)
	assert.True(t, chained)
	assert.Equal(t, []string{"b"}, state.Requested)
	assert.Equal(t, value.StringArray("b"), state.Options["use-overlays"])
}

func TestApplyOverlay_Conditional(t *testing.T) {
	fragment := value.Map{
		"overlays": value.Map{
			"linux": value.Map{"link-options": value.StringArray("-lpthread")},
			"osx":   value.Map{"link-options": value.StringArray("-framework")},
		},
	}

	state := newState(t, "p.build", value.Map{
		"link-options": value.StringArray("-lm"),
	}, nil)
	_, err := resolver.ApplyOverlay(state, "platform", fragment, []string{"linux"})
	require.NoError(t, err)
	assert.Equal(t, value.StringArray("-lm", "-lpthread"), state.Options["link-options"])
}

func TestApplyOverlay_ConditionalNonMap(t *testing.T) {
	state := newState(t, "p.build", value.Map{}, nil)
	_, err := resolver.ApplyOverlay(state, "platform", value.Map{
		"overlays": value.Map{"linux": value.StringLiteral("x")},
	}, []string{"linux"})
	assert.ErrorIs(t, err, resolver.ErrUnsupportedOverlayValue)
}

func TestResolve_Chaining(t *testing.T) {
	state := newState(t, "p.build", value.Map{
		"use-overlays": value.StringArray("a"),
	}, nil)
	table := map[string]value.Map{
		"a": {"use-overlays": value.StringArray("b"), "flags": value.StringArray("A")},
		"b": {"flags": value.StringArray("B")},
	}

	result, err := resolver.Resolve([]*resolver.TaskState{state}, table, resolver.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, state.Applied)
	assert.Equal(t, value.StringArray("A", "B"), state.Options["flags"])
	assert.GreaterOrEqual(t, result.Passes, 2)
}

func TestResolve_TaskOverlaysShadowPackage(t *testing.T) {
	state := newState(t, "p.build", value.Map{
		"use-overlays": value.StringArray("x"),
	}, map[string]value.Map{
		"x": {"flags": value.StringArray("task")},
	})
	table := map[string]value.Map{"x": {"flags": value.StringArray("package")}}

	_, err := resolver.Resolve([]*resolver.TaskState{state}, table, resolver.Options{})
	require.NoError(t, err)
	assert.Equal(t, value.StringArray("task"), state.Options["flags"])
}

func TestResolve_UnknownRequestedOverlay(t *testing.T) {
	state := newState(t, "p.build", value.Map{
		"use-overlays": value.StringArray("ghost"),
	}, nil)

	_, err := resolver.Resolve([]*resolver.TaskState{state}, nil, resolver.Options{})
	assert.ErrorIs(t, err, resolver.ErrUnknownOverlay)
}

func TestResolve_UnknownRequestedOverlaySoftFail(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(io.Discard) })

	state := newState(t, "p.build", value.Map{
		"use-overlays": value.StringArray("ghost"),
	}, nil)

	_, err := resolver.Resolve([]*resolver.TaskState{state}, nil, resolver.Options{SoftFail: true})
	require.NoError(t, err)
	assert.Empty(t, state.Applied)
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("ghost")))
}

func TestResolve_GlobalOverlays(t *testing.T) {
	build := newState(t, "p.build", value.Map{
		"compile-options": value.StringArray("-D", "AWESOME"),
	}, nil)
	test := newState(t, "p.test", value.Map{}, nil)
	table := map[string]value.Map{
		"more-awesome": {"compile-options": value.StringArray("-D", "MORE_AWESOME")},
	}

	result, err := resolver.Resolve([]*resolver.TaskState{build, test}, table, resolver.Options{
		Global: []string{"more-awesome", "nobody-knows", "atbuild.platform.linux"},
	})
	require.NoError(t, err)

	assert.Equal(t, value.StringArray("-D", "AWESOME", "-D", "MORE_AWESOME"), build.Options["compile-options"])
	assert.Equal(t, []string{"more-awesome"}, result.Used)
	assert.Equal(t, []string{"nobody-knows"}, result.Unused)
}

func TestResolve_GlobalMissDoesNotHideChainedRequest(t *testing.T) {
	table := map[string]value.Map{
		"g": {"use-overlays": value.StringArray("missing")},
	}
	global := resolver.Options{Global: []string{"g", "missing"}}

	state := newState(t, "p.a", value.Map{}, nil)
	_, err := resolver.Resolve([]*resolver.TaskState{state}, table, global)
	require.ErrorIs(t, err, resolver.ErrUnknownOverlay)
	assert.Contains(t, err.Error(), `"missing" requested by task "p.a"`)

	global.SoftFail = true
	state = newState(t, "p.a", value.Map{}, nil)
	result, err := resolver.Resolve([]*resolver.TaskState{state}, table, global)
	require.NoError(t, err)
	assert.Equal(t, []string{"g"}, state.Applied)
	assert.Equal(t, []string{"missing"}, result.Unused)
}

func TestResolve_OrderIndependentForDisjointKeys(t *testing.T) {
	table := map[string]value.Map{
		"a": {"x": value.StringArray("1")},
		"b": {"y": value.StringLiteral("2")},
	}

	first := newState(t, "t", value.Map{"use-overlays": value.StringArray("a", "b")}, nil)
	second := newState(t, "t", value.Map{"use-overlays": value.StringArray("b", "a")}, nil)

	_, err := resolver.Resolve([]*resolver.TaskState{first, second}, table, resolver.Options{})
	require.NoError(t, err)

	assert.Equal(t, first.Options["x"], second.Options["x"])
	assert.Equal(t, first.Options["y"], second.Options["y"])
}

func TestResolve_DoesNotMutateInputs(t *testing.T) {
	options := value.Map{"flags": value.StringArray("base")}
	table := map[string]value.Map{"a": {"flags": value.StringArray("more")}}

	state := newState(t, "t", options, nil)
	_, err := resolver.Resolve([]*resolver.TaskState{state}, table, resolver.Options{Global: []string{"a"}})
	require.NoError(t, err)

	assert.Equal(t, value.StringArray("base"), options["flags"])
	assert.Equal(t, value.StringArray("more"), table["a"]["flags"])
}

func TestUnused(t *testing.T) {
	opts := resolver.Options{
		Global:           []string{"a", "b", "internal.x", "a"},
		ReservedPrefixes: []string{"internal."},
	}
	assert.Equal(t, []string{"b"}, resolver.Unused(opts, map[string]bool{"a": true}))
}
