/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package substitution

import (
	"errors"
	"fmt"
	"strings"

	"bennypowers.dev/atpkg/atpkg"
	"bennypowers.dev/atpkg/sources"
)

// CollectSourcesPrefix introduces a placeholder that expands to a task's
// collected sources, e.g. ${collect_sources:default}.
const CollectSourcesPrefix = "collect_sources:"

// ErrNoSources indicates a collect_sources task without a sources array.
var ErrNoSources = errors.New("task has no sources")

// DefaultConstants are the placeholders every package resolves.
var DefaultConstants = map[string]string{
	"test_substitution": "test_substitution",
}

// PackageResolver resolves placeholders against a loaded package.
type PackageResolver struct {
	// Package is where collect_sources looks tasks up.
	Package *atpkg.Package

	// Collector expands source patterns. Required for collect_sources.
	Collector sources.Collector

	// Constants extend and override DefaultConstants.
	Constants map[string]string
}

// Resolve implements Resolver.
func (r *PackageResolver) Resolve(name string) (string, error) {
	if taskName, ok := strings.CutPrefix(name, CollectSourcesPrefix); ok {
		return r.collectSources(taskName)
	}

	if text, ok := r.Constants[name]; ok {
		return text, nil
	}
	if text, ok := DefaultConstants[name]; ok {
		return text, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownSubstitution, name)
}

func (r *PackageResolver) collectSources(taskName string) (string, error) {
	if r.Package == nil || r.Collector == nil {
		return "", fmt.Errorf("%w: %s%s needs a package and a source collector", ErrUnknownSubstitution, CollectSourcesPrefix, taskName)
	}

	task, ok := r.Package.Task(taskName)
	if !ok {
		return "", fmt.Errorf("%s%s: %w: %q", CollectSourcesPrefix, taskName, atpkg.ErrUnknownTask, taskName)
	}

	if _, ok := task.Option(atpkg.KeySources); !ok {
		return "", fmt.Errorf("%s%s: %w", CollectSourcesPrefix, taskName, ErrNoSources)
	}
	patterns := task.Sources()
	if patterns == nil {
		return "", fmt.Errorf("%s%s: %w: sources must be an array of strings", CollectSourcesPrefix, taskName, ErrNoSources)
	}

	collected, err := r.Collector.Collect(task.ImportedPath(), patterns)
	if err != nil {
		return "", fmt.Errorf("%s%s: %w", CollectSourcesPrefix, taskName, err)
	}
	return strings.Join(collected, " "), nil
}
