/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package atpkg builds the queryable package model from parsed atpkg files:
// tasks, imports, external dependencies, overlays and binary channels.
package atpkg

import (
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/go-multierror"

	"bennypowers.dev/atpkg/resolver"
	"bennypowers.dev/atpkg/value"
)

// Package is a loaded package file together with everything it imports.
type Package struct {
	// Name is the package name used to qualify its tasks and overlays.
	Name string

	// Version is the optional package version.
	Version string

	// Payload is an optional free-form string.
	Payload string

	// Path is the package file path as loaded.
	Path string

	// ImportedPath is the directory of Path.
	ImportedPath string

	// Imports are the loaded packages of import-packages followed by any
	// fetched external dependencies, in declaration order.
	Imports []*Package

	// External lists every external-packages entry, active or not.
	External []*ExternalDependency

	// Binaries lists the binary channels, sorted by name.
	Binaries []BinaryChannel

	// Mixins maps configuration names to array-only option fragments.
	Mixins map[string]value.Map

	// UnusedOverlays lists global overlays no task in the tree used. It is
	// only set on the root package of a load.
	UnusedOverlays []string

	tasks            map[string]*Task
	taskList         []*Task
	ownTasks         []*Task
	childOverlays    map[string]value.Map
	importedOverlays map[string]value.Map
	properties       value.Map
}

// Task looks up a task by unqualified or qualified name.
func (p *Package) Task(name string) (*Task, bool) {
	t, ok := p.tasks[name]
	return t, ok
}

// TaskNames returns every name the task table answers to, sorted.
func (p *Package) TaskNames() []string {
	return slices.Sorted(maps.Keys(p.tasks))
}

// Tasks returns each distinct task once: the package's own tasks first,
// then imported ones.
func (p *Package) Tasks() []*Task {
	return slices.Clone(p.taskList)
}

// OwnTasks returns the tasks declared in this package's file.
func (p *Package) OwnTasks() []*Task {
	return slices.Clone(p.ownTasks)
}

// ChildOverlays returns the overlays declared by this package, keyed by
// bare name.
func (p *Package) ChildOverlays() map[string]value.Map {
	return cloneFragments(p.childOverlays)
}

// ImportedOverlays returns overlays exported by imports. A direct import's
// overlays are keyed "<import>.<overlay>"; deeper ones keep their names.
func (p *Package) ImportedOverlays() map[string]value.Map {
	return cloneFragments(p.importedOverlays)
}

// Overlays returns the union of child and imported overlays.
func (p *Package) Overlays() map[string]value.Map {
	out := cloneFragments(p.importedOverlays)
	maps.Copy(out, cloneFragments(p.childOverlays))
	return out
}

// OverlayNames returns the names of all overlays visible in the package.
func (p *Package) OverlayNames() []string {
	return slices.Sorted(maps.Keys(p.Overlays()))
}

// Property returns a copy of a raw top-level property.
func (p *Package) Property(key string) (value.Value, bool) {
	v, ok := p.properties[key]
	if !ok {
		return nil, false
	}
	return value.Clone(v), true
}

// Lookup resolves a dependency name declared by owner. Names resolve in
// the package that declares owner.
func (p *Package) Lookup(owner *Task, name string) (*Task, error) {
	pkg := p
	if owner != nil && owner.pkg != nil {
		pkg = owner.pkg
	}
	t, ok := pkg.tasks[name]
	if !ok {
		return nil, &PackageError{
			File: pkg.Path,
			Key:  KeyDependencies,
			Err:  fmt.Errorf("%w: %q", ErrUnknownTask, name),
		}
	}
	return t, nil
}

// PrunedDependencyGraph returns task and its transitive dependencies, each
// once, dependencies first.
func (p *Package) PrunedDependencyGraph(task *Task) ([]*Task, error) {
	return resolver.PrunedDependencyGraph(task, p.Lookup)
}

// DependencyGraph builds the dependency graph of every task in the package.
func (p *Package) DependencyGraph() (*resolver.DependencyGraph, error) {
	return resolver.BuildDependencyGraph(p.taskList, func(owner *Task, name string) (string, error) {
		t, err := p.Lookup(owner, name)
		if err != nil {
			return "", err
		}
		return t.QualifiedName(), nil
	})
}

// OverlayedConfig returns the task's resolved options merged with
// overrides, which typically come from the command line or a
// configuration file. Arrays concatenate; scalars must keep their kind.
func (p *Package) OverlayedConfig(task *Task, overrides value.Map) (value.Map, error) {
	merged, err := value.Merge(task.options, overrides)
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", task.QualifiedName(), err)
	}
	return merged, nil
}

// CheckRequiredOverlays checks every task in the package tree and returns
// all failures together.
func (p *Package) CheckRequiredOverlays() error {
	var result *multierror.Error
	for _, t := range p.taskList {
		if err := t.CheckRequiredOverlays(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func cloneFragments(in map[string]value.Map) map[string]value.Map {
	out := make(map[string]value.Map, len(in))
	for k, v := range in {
		out[k] = v.Clone()
	}
	return out
}
