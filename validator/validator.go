/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package validator checks loaded atpkg projects for problems that loading
// alone does not report.
package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"bennypowers.dev/atpkg/atpkg"
	"bennypowers.dev/atpkg/load"
	"bennypowers.dev/atpkg/resolver"
	"bennypowers.dev/atpkg/substitution"
	"bennypowers.dev/atpkg/value"
)

// ErrUnusedOverlays is reported in strict mode when a requested overlay
// applied to no task.
var ErrUnusedOverlays = errors.New("overlays had no effect")

// ValidationError represents one problem in a package.
type ValidationError struct {
	// FilePath is the package file containing the problem.
	FilePath string
	// Path is the task, and option if any, with the problem.
	Path string
	// Suggestion provides an actionable fix.
	Suggestion string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var sb strings.Builder
	if e.FilePath != "" {
		sb.WriteString(e.FilePath)
		sb.WriteString(": ")
	}
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Err.Error())
	if e.Suggestion != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Suggestion)
		sb.WriteString(")")
	}
	return sb.String()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Options configures validation.
type Options struct {
	// Strict reports requested overlays that had no effect.
	Strict bool
}

// Validate checks required overlays, dependency names and cycles, and
// ${...} placeholders in task options. Every problem is returned in a
// *multierror.Error of *ValidationError.
func Validate(proj *load.Project, opts Options) error {
	var result *multierror.Error
	pkg := proj.Package

	for _, task := range pkg.Tasks() {
		if err := task.CheckRequiredOverlays(); err != nil {
			result = multierror.Append(result, &ValidationError{
				FilePath:   task.Package().Path,
				Path:       task.QualifiedName(),
				Suggestion: "apply one with --overlay",
				Err:        err,
			})
		}
	}

	dangling := false
	for _, task := range pkg.Tasks() {
		for _, dep := range task.Dependencies() {
			if _, err := pkg.Lookup(task, dep); err != nil {
				result = multierror.Append(result, &ValidationError{
					Path: task.QualifiedName() + "." + atpkg.KeyDependencies,
					Err:  err,
				})
				dangling = true
			}
		}
	}

	// Graph construction stops at the first unknown name.
	if !dangling {
		result = checkCycles(pkg, result)
	}

	subs := proj.Substitutions()
	for _, task := range pkg.OwnTasks() {
		options := task.Options()
		for _, key := range options.Keys() {
			for _, text := range stringsIn(options[key]) {
				if err := checkPlaceholders(pkg, subs, text); err != nil {
					result = multierror.Append(result, &ValidationError{
						FilePath:   pkg.Path,
						Path:       task.QualifiedName() + "." + key,
						Suggestion: suggestPlaceholder(err),
						Err:        err,
					})
				}
			}
		}
	}

	if opts.Strict && len(pkg.UnusedOverlays) > 0 {
		result = multierror.Append(result, &ValidationError{
			FilePath:   pkg.Path,
			Suggestion: "check the overlay names",
			Err:        fmt.Errorf("%w: %s", ErrUnusedOverlays, strings.Join(pkg.UnusedOverlays, ", ")),
		})
	}

	return result.ErrorOrNil()
}

func checkCycles(pkg *atpkg.Package, result *multierror.Error) *multierror.Error {
	graph, err := pkg.DependencyGraph()
	if err != nil {
		return multierror.Append(result, &ValidationError{FilePath: pkg.Path, Err: err})
	}
	if cycle := graph.FindCycle(); cycle != nil {
		return multierror.Append(result, &ValidationError{
			FilePath: pkg.Path,
			Err:      fmt.Errorf("%w: %s", resolver.ErrCircularDependency, strings.Join(cycle, " -> ")),
		})
	}
	return result
}

// checkPlaceholders resolves constants and checks that collect_sources
// names a task, without walking the filesystem.
func checkPlaceholders(pkg *atpkg.Package, subs substitution.Resolver, text string) error {
	for _, name := range substitution.Names(text) {
		if taskName, ok := strings.CutPrefix(name, substitution.CollectSourcesPrefix); ok {
			if _, found := pkg.Task(taskName); !found {
				return fmt.Errorf("%s: %w: %q", name, atpkg.ErrUnknownTask, taskName)
			}
			continue
		}
		if _, err := subs.Resolve(name); err != nil {
			return err
		}
	}
	return nil
}

func suggestPlaceholder(err error) string {
	if errors.Is(err, substitution.ErrUnknownSubstitution) {
		return "define it under constants in .config/atpkg.yaml"
	}
	return ""
}

// stringsIn returns v if it is a string, or the string elements of an array.
func stringsIn(v value.Value) []string {
	switch x := v.(type) {
	case value.StringLiteral:
		return []string{string(x)}
	case value.Array:
		var out []string
		for _, item := range x {
			if s, ok := item.(value.StringLiteral); ok {
				out = append(out, string(s))
			}
		}
		return out
	}
	return nil
}
