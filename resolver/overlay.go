/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package resolver applies overlays and mixins to tasks and orders tasks by
// their dependencies.
package resolver

import (
	"fmt"
	"slices"
	"strings"

	"bennypowers.dev/atpkg/internal/logger"
	"bennypowers.dev/atpkg/value"
)

// DefaultReservedPrefixes are overlay namespaces used for build-system
// signalling. Global overlays under them never produce "had no effect".
var DefaultReservedPrefixes = []string{"atbuild."}

// Options controls overlay resolution.
type Options struct {
	// Global lists overlays requested for every task, like feature flags.
	Global []string

	// SoftFail turns a task's request for an unknown overlay into a warning.
	SoftFail bool

	// ReservedPrefixes exempts matching global overlays from the unused
	// report. Nil means DefaultReservedPrefixes.
	ReservedPrefixes []string
}

func (o Options) reserved(name string) bool {
	prefixes := o.ReservedPrefixes
	if prefixes == nil {
		prefixes = DefaultReservedPrefixes
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// Result summarizes a resolution run.
type Result struct {
	// Used lists global overlays applied to at least one task, sorted.
	Used []string

	// Unused lists global overlays applied to no task, excluding reserved
	// names, in request order.
	Unused []string

	// Passes is the number of passes taken to reach the fixed point.
	Passes int
}

// Resolve applies overlays to states until no task gains a new overlay
// request. table holds package-level overlays; a task's own declared
// overlays shadow it.
func Resolve(states []*TaskState, table map[string]value.Map, opts Options) (*Result, error) {
	used := make(map[string]bool)
	result := &Result{}

	for {
		result.Passes++
		progressed := false

		for _, state := range states {
			// Requested can grow while we walk it.
			for i := 0; i < len(state.Requested); i++ {
				name := state.Requested[i]
				if state.applied[name] || state.warned[name] {
					continue
				}

				fragment, ok := state.lookup(name, table)
				if !ok {
					if !opts.SoftFail {
						return nil, fmt.Errorf("%w: %q requested by task %q", ErrUnknownOverlay, name, state.Name)
					}
					logger.Warn("task %s requested unknown overlay %s", state.Name, name)
					state.warned[name] = true
					continue
				}

				chained, err := ApplyOverlay(state, name, fragment, opts.Global)
				if err != nil {
					return nil, err
				}
				progressed = progressed || chained
			}

			for _, name := range opts.Global {
				if state.applied[name] || state.absent[name] {
					continue
				}

				fragment, ok := state.lookup(name, table)
				if !ok {
					if !opts.reserved(name) {
						logger.Debug("task %s does not declare global overlay %s", state.Name, name)
					}
					state.absent[name] = true
					continue
				}

				chained, err := ApplyOverlay(state, name, fragment, opts.Global)
				if err != nil {
					return nil, err
				}
				used[name] = true
				progressed = progressed || chained
			}
		}

		if !progressed {
			break
		}
	}

	for _, name := range opts.Global {
		if used[name] {
			if !slices.Contains(result.Used, name) {
				result.Used = append(result.Used, name)
			}
			continue
		}
		if !opts.reserved(name) && !slices.Contains(result.Unused, name) {
			result.Unused = append(result.Unused, name)
		}
	}
	slices.Sort(result.Used)

	return result, nil
}

// Unused returns the global overlays not present in used, excluding
// reserved names. It lets callers aggregate Result.Used over many runs.
func Unused(opts Options, used map[string]bool) []string {
	var unused []string
	for _, name := range opts.Global {
		if !used[name] && !opts.reserved(name) && !slices.Contains(unused, name) {
			unused = append(unused, name)
		}
	}
	return unused
}

// ApplyOverlay merges fragment into state under name. It reports whether
// the fragment requested further overlays, which means another pass of
// Resolve is needed.
func ApplyOverlay(state *TaskState, name string, fragment value.Map, global []string) (bool, error) {
	if state.applied[name] {
		return false, fmt.Errorf("%w: %q on task %q", ErrOverlayReapplied, name, state.Name)
	}
	state.markApplied(name)

	chained := false
	for _, key := range fragment.Keys() {
		switch v := fragment[key].(type) {
		case value.Array:
			if err := appendOption(state, key, v, name); err != nil {
				return false, err
			}
			if key == KeyUseOverlays || key == KeyOverlay {
				chained = true
				names, ok := value.Strings(v)
				if !ok {
					return false, fmt.Errorf("%w: overlay %q: %s must hold strings", ErrUnsupportedOverlayValue, name, key)
				}
				state.request(names...)
			}

		case value.Map:
			if key != KeyOverlays {
				return false, fmt.Errorf("%w: overlay %q: map value for %q", ErrUnsupportedOverlayValue, name, key)
			}
			if err := applyConditional(state, name, v, global); err != nil {
				return false, err
			}

		default:
			if existing, ok := state.Options[key]; ok {
				return false, fmt.Errorf("%w: overlay %q sets %q on task %q, which already has %s",
					ErrOverlayConflict, name, key, state.Name, existing)
			}
			state.Options[key] = value.Clone(v)
		}
	}

	return chained, nil
}

func appendOption(state *TaskState, key string, items value.Array, overlay string) error {
	var existing value.Array
	if current, ok := state.Options[key]; ok {
		arr, ok := current.(value.Array)
		if !ok {
			return fmt.Errorf("%w: overlay %q appends to %q on task %q, which holds a %s",
				ErrOverlayConflict, overlay, key, state.Name, current.Kind())
		}
		existing = arr
	}

	merged := make(value.Array, 0, len(existing)+len(items))
	merged = append(merged, existing...)
	for _, item := range items {
		merged = append(merged, value.Clone(item))
	}
	state.Options[key] = merged
	return nil
}

// applyConditional merges each inner set of an overlays map whose name is a
// global overlay.
func applyConditional(state *TaskState, overlay string, sets value.Map, global []string) error {
	for _, set := range sets.Keys() {
		if !slices.Contains(global, set) {
			continue
		}
		inner, ok := sets[set].(value.Map)
		if !ok {
			return fmt.Errorf("%w: overlay %q: %s.%s is a %s, not a map",
				ErrUnsupportedOverlayValue, overlay, KeyOverlays, set, sets[set].Kind())
		}

		merged, err := value.Merge(state.Options, inner)
		if err != nil {
			return fmt.Errorf("overlay %q: %w", overlay, err)
		}
		state.Options = merged
	}
	return nil
}
