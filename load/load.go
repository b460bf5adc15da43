/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package load provides a high-level API for loading atpkg projects.
package load

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"bennypowers.dev/atpkg/atpkg"
	"bennypowers.dev/atpkg/config"
	"bennypowers.dev/atpkg/fs"
	"bennypowers.dev/atpkg/sources"
	"bennypowers.dev/atpkg/substitution"
	"bennypowers.dev/atpkg/value"
)

// Options configures how a project is loaded.
type Options struct {
	// Root is the project directory. Relative package paths and the
	// .config directory are resolved against it. Defaults to ".".
	Root string

	// FS is the filesystem to use. Defaults to OS filesystem if nil.
	FS fs.FileSystem

	// Overlays are added to the config file's global overlays.
	Overlays []string

	// SoftFail enables soft-fail loading. The config file can also enable it.
	SoftFail bool

	// Platform takes precedence over config file if set.
	Platform string

	// ReservedPrefixes takes precedence over config file if set.
	ReservedPrefixes []string

	// Configurations takes precedence over config file if set.
	Configurations []string

	// Constants are merged over the config file's constants.
	Constants map[string]string

	// Overrides are merged after the config file's overrides.
	Overrides value.Map
}

// Project is a loaded package with its effective configuration.
type Project struct {
	// Package is the root package.
	Package *atpkg.Package

	// Config is the configuration file, or defaults.
	Config *config.Config

	// Overrides are merged over task options by TaskConfig.
	Overrides value.Map

	// Constants are the effective substitution constants.
	Constants map[string]string

	fs fs.FileSystem
}

// Load loads a package file with full overlay resolution.
//
// The loading process:
//  1. Optionally loads config from .config/atpkg.yaml
//  2. Applies Options values (they take precedence over config)
//  3. Parses the package file and its imports
//  4. Resolves mixins and overlays for every task
//
// An empty path means the config file's package, or build.atpkg.
func Load(ctx context.Context, path string, opts Options) (*Project, error) {
	filesystem := opts.FS
	if filesystem == nil {
		filesystem = fs.NewOSFileSystem()
	}

	root := opts.Root
	if root == "" {
		root = "."
	}
	if !filepath.IsAbs(root) {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path: %w", err)
		}
		root = absRoot
	}

	cfg, err := config.Load(filesystem, root)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg == nil {
		cfg = config.Default()
	}

	if path == "" {
		path = cfg.PackageFile()
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}

	loaderOpts := effectiveOptions(cfg, opts)

	cfgOverrides, err := cfg.OverrideMap()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	overrides, err := value.Merge(cfgOverrides, opts.Overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to merge overrides: %w", err)
	}

	constants := maps.Clone(cfg.Constants)
	if constants == nil {
		constants = make(map[string]string, len(opts.Constants))
	}
	maps.Copy(constants, opts.Constants)

	pkg, err := atpkg.NewLoader(filesystem, loaderOpts).LoadContext(ctx, path)
	if err != nil {
		return nil, err
	}

	return &Project{
		Package:   pkg,
		Config:    cfg,
		Overrides: overrides,
		Constants: constants,
		fs:        filesystem,
	}, nil
}

func effectiveOptions(cfg *config.Config, opts Options) atpkg.Options {
	out := cfg.LoaderOptions()

	for _, name := range opts.Overlays {
		if !slices.Contains(out.Overlays, name) {
			out.Overlays = append(out.Overlays, name)
		}
	}

	out.SoftFail = out.SoftFail || opts.SoftFail

	if opts.Platform != "" {
		out.Platform = opts.Platform
	}
	if len(opts.ReservedPrefixes) > 0 {
		out.ReservedPrefixes = opts.ReservedPrefixes
	}
	if len(opts.Configurations) > 0 {
		out.Configurations = opts.Configurations
	}
	return out
}

// Task looks a task up by qualified or unqualified name.
func (p *Project) Task(name string) (*atpkg.Task, error) {
	task, ok := p.Package.Task(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", atpkg.ErrUnknownTask, name)
	}
	return task, nil
}

// TaskConfig returns a task's resolved options merged with the project overrides.
func (p *Project) TaskConfig(name string) (value.Map, error) {
	task, err := p.Task(name)
	if err != nil {
		return nil, err
	}
	return p.Package.OverlayedConfig(task, p.Overrides)
}

// Substitutions returns a resolver for ${...} placeholders in this project.
func (p *Project) Substitutions() *substitution.PackageResolver {
	return &substitution.PackageResolver{
		Package:   p.Package,
		Collector: sources.NewFSCollector(p.fs),
		Constants: p.Constants,
	}
}

// Evaluate expands placeholders in a string option of a task.
func (p *Project) Evaluate(taskName, option string) (string, error) {
	cfg, err := p.TaskConfig(taskName)
	if err != nil {
		return "", err
	}

	text, ok := cfg.GetString(option)
	if !ok {
		if _, present := cfg[option]; !present {
			return "", fmt.Errorf("task %s has no option %q", taskName, option)
		}
		return "", fmt.Errorf("%w: task %s option %q is %s", atpkg.ErrInvalidDataType, taskName, option, cfg[option].Kind())
	}
	return substitution.Evaluate(text, p.Substitutions())
}
