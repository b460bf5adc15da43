/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package atpkg

import (
	"maps"
	"slices"

	"bennypowers.dev/atpkg/resolver"
	"bennypowers.dev/atpkg/value"
)

// Task is a named build step with its resolved options.
// Tasks are immutable once their package has loaded; accessors return copies.
type Task struct {
	pkg          *Package
	name         string
	options      value.Map
	declared     map[string]value.Map
	applied      []string
	importedPath string
}

// Package returns the package that declares the task.
func (t *Task) Package() *Package { return t.pkg }

// Name returns the unqualified task name.
func (t *Task) Name() string { return t.name }

// QualifiedName returns the package-prefixed name, e.g. "basic.build".
func (t *Task) QualifiedName() string {
	return t.pkg.Name + Separator + t.name
}

// ImportedPath returns the directory of the file that declares the task.
// Relative paths in the task's options are relative to it.
func (t *Task) ImportedPath() string { return t.importedPath }

// Options returns a copy of the task's resolved options.
func (t *Task) Options() value.Map { return t.options.Clone() }

// Option returns a copy of a single option.
func (t *Task) Option(key string) (value.Value, bool) {
	v, ok := t.options[key]
	if !ok {
		return nil, false
	}
	return value.Clone(v), true
}

// Tool returns the task's tool, or "" if unset.
func (t *Task) Tool() string {
	tool, _ := t.options.GetString(KeyTool)
	return tool
}

// Dependencies returns the names of tasks this task depends on, in
// declaration order.
func (t *Task) Dependencies() []string {
	deps, _ := t.options.GetStrings(KeyDependencies)
	return deps
}

// Sources returns the task's source patterns as written.
func (t *Task) Sources() []string {
	sources, _ := t.options.GetStrings(KeySources)
	return sources
}

// RequestedOverlays returns the overlays the task asked for through
// use-overlays or the legacy overlay key, including chained requests.
func (t *Task) RequestedOverlays() []string {
	var out []string
	for _, key := range []string{KeyUseOverlays, KeyOverlay} {
		names, _ := t.options.GetStrings(key)
		for _, name := range names {
			if !slices.Contains(out, name) {
				out = append(out, name)
			}
		}
	}
	return out
}

// AppliedOverlays returns the overlays applied to the task, in order.
func (t *Task) AppliedOverlays() []string { return slices.Clone(t.applied) }

// DeclaredOverlays returns the names of overlays declared on the task itself.
func (t *Task) DeclaredOverlays() []string {
	return slices.Sorted(maps.Keys(t.declared))
}

// OnlyPlatforms returns the platforms the task is restricted to.
// An empty result means every platform.
func (t *Task) OnlyPlatforms() []string {
	platforms, _ := t.options.GetStrings(KeyOnlyPlatforms)
	return platforms
}

// SupportsPlatform reports whether the task may run on platform.
func (t *Task) SupportsPlatform(platform string) bool {
	only := t.OnlyPlatforms()
	return len(only) == 0 || slices.Contains(only, platform)
}

// RequiredOverlays returns the task's required-overlays OR-groups.
func (t *Task) RequiredOverlays() ([][]string, error) {
	return resolver.RequiredGroups(t.options)
}

// CheckRequiredOverlays verifies each required group has an applied member.
func (t *Task) CheckRequiredOverlays() error {
	groups, err := t.RequiredOverlays()
	if err != nil {
		return &PackageError{File: t.pkg.Path, Key: KeyTasks + "." + t.name, Err: err}
	}
	return resolver.CheckRequiredOverlays(t.QualifiedName(), groups, t.applied)
}
