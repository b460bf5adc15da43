/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package sources expands task source patterns into file paths.
package sources

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	atfs "bennypowers.dev/atpkg/fs"
)

// Collector expands source patterns relative to a base directory.
type Collector interface {
	Collect(base string, patterns []string) ([]string, error)
}

// FSCollector collects sources by walking a filesystem.
//
// A pattern ending in "**.<ext>" means every .<ext> file below that
// directory, at any depth. Other patterns containing glob characters are
// matched with doublestar. Anything else is passed through unchanged.
type FSCollector struct {
	FS atfs.FileSystem
}

// NewFSCollector creates a collector over filesystem.
func NewFSCollector(filesystem atfs.FileSystem) *FSCollector {
	return &FSCollector{FS: filesystem}
}

// Collect implements Collector. Results keep pattern order; matches of one
// pattern are in lexical walk order.
func (c *FSCollector) Collect(base string, patterns []string) ([]string, error) {
	var result []string
	for _, pattern := range patterns {
		expanded, err := c.expand(filepath.Join(base, pattern))
		if err != nil {
			return nil, err
		}
		result = append(result, expanded...)
	}
	return result, nil
}

func (c *FSCollector) expand(pattern string) ([]string, error) {
	pattern = rewriteRecursive(pattern)
	if !containsGlob(pattern) {
		return []string{pattern}, nil
	}
	return expandGlob(c.FS, pattern)
}

// rewriteRecursive turns "dir/**.ext" into the doublestar form "dir/**/*.ext".
func rewriteRecursive(pattern string) string {
	dir, file := filepath.Split(pattern)
	if strings.HasPrefix(file, "**.") {
		return dir + "**/*" + strings.TrimPrefix(file, "**")
	}
	return pattern
}

// containsGlob returns true if the pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// expandGlob expands a glob pattern against the filesystem.
func expandGlob(filesystem atfs.FileSystem, pattern string) ([]string, error) {
	baseDir := pattern
	for containsGlob(baseDir) {
		baseDir = filepath.Dir(baseDir)
	}

	relPattern := strings.TrimPrefix(pattern, baseDir)
	relPattern = strings.TrimPrefix(relPattern, string(filepath.Separator))

	if !filesystem.Exists(baseDir) {
		return nil, fmt.Errorf("collecting %s: %w", pattern, fs.ErrNotExist)
	}

	var matches []string
	err := fs.WalkDir(filesystem, baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		relPath := strings.TrimPrefix(path, baseDir)
		relPath = strings.TrimPrefix(relPath, string(filepath.Separator))

		if matched, _ := doublestar.Match(relPattern, relPath); matched {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collecting %s: %w", pattern, err)
	}

	return matches, nil
}
