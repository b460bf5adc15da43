/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import (
	"fmt"
	"slices"

	"bennypowers.dev/atpkg/value"
)

// Keys with special meaning to the overlay engine.
const (
	KeyUseOverlays = "use-overlays"
	KeyOverlay     = "overlay"
	KeyOverlays    = "overlays"
)

// TaskState is the mutable stage of a task while overlays are being applied.
// Once resolution converges its Options and Applied are frozen by the caller.
type TaskState struct {
	// Name identifies the task in errors and logs, normally its qualified name.
	Name string

	// Options is the task's option bag. Overlays add to it in place.
	Options value.Map

	// Declared holds overlays declared by the task itself. They shadow
	// package-level overlays of the same name.
	Declared map[string]value.Map

	// Requested lists overlay names the task asked for, in request order.
	Requested []string

	// Applied lists applied overlay names in application order.
	Applied []string

	applied map[string]bool
	// warned holds requested overlays that were missing under soft-fail.
	warned map[string]bool
	// absent holds global overlays the task does not declare.
	absent map[string]bool
}

// NewTaskState creates the builder state for a task. The options are cloned;
// the initial requests come from use-overlays and the legacy overlay key,
// both of which must be arrays of strings when present.
func NewTaskState(name string, options value.Map, declared map[string]value.Map) (*TaskState, error) {
	opts := options.Clone()
	if opts == nil {
		opts = value.Map{}
	}

	s := &TaskState{
		Name:     name,
		Options:  opts,
		Declared: declared,
		applied:  make(map[string]bool),
		warned:   make(map[string]bool),
		absent:   make(map[string]bool),
	}

	for _, key := range []string{KeyUseOverlays, KeyOverlay} {
		if _, present := opts[key]; !present {
			continue
		}
		names, ok := opts.GetStrings(key)
		if !ok {
			return nil, fmt.Errorf("%w: %s of task %q must be an array of strings, got %s",
				ErrUnsupportedOverlayValue, key, name, opts[key].Kind())
		}
		s.request(names...)
	}
	return s, nil
}

// IsApplied reports whether the named overlay has been applied.
func (s *TaskState) IsApplied(name string) bool {
	return s.applied[name]
}

func (s *TaskState) request(names ...string) {
	for _, name := range names {
		if !slices.Contains(s.Requested, name) {
			s.Requested = append(s.Requested, name)
		}
	}
}

func (s *TaskState) markApplied(name string) {
	s.applied[name] = true
	s.Applied = append(s.Applied, name)
}

func (s *TaskState) lookup(name string, table map[string]value.Map) (value.Map, bool) {
	if fragment, ok := s.Declared[name]; ok {
		return fragment, true
	}
	fragment, ok := table[name]
	return fragment, ok
}
