/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package config provides project configuration loading for atpkg.
package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"bennypowers.dev/atpkg/atpkg"
	"bennypowers.dev/atpkg/value"
)

// Config represents the project configuration.
type Config struct {
	// Package is the package file to load, relative to the project root.
	Package string `yaml:"package" json:"package"`

	// Overlays are requested globally for every task.
	Overlays StringList `yaml:"overlays" json:"overlays"`

	// SoftFail tolerates missing imports and unknown task overlays.
	SoftFail bool `yaml:"softFail" json:"softFail"`

	// Platform adds the atbuild.platform.<platform> overlay.
	Platform string `yaml:"platform" json:"platform"`

	// ReservedPrefixes exempts overlays from the "had no effect" warning.
	ReservedPrefixes []string `yaml:"reservedPrefixes" json:"reservedPrefixes"`

	// Configurations selects package mixins.
	Configurations StringList `yaml:"configurations" json:"configurations"`

	// Constants are extra ${name} substitutions.
	Constants map[string]string `yaml:"constants" json:"constants"`

	// Overrides are merged over every task's options on output.
	Overrides map[string]any `yaml:"overrides" json:"overrides"`
}

// StringList accepts either a single string or a list of strings.
type StringList []string

// UnmarshalYAML handles both scalar and sequence forms.
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*l = StringList{node.Value}
		return nil
	}

	var items []string
	if err := node.Decode(&items); err != nil {
		return err
	}
	*l = items
	return nil
}

// UnmarshalJSON handles both string and array forms.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = StringList{s}
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// Default returns a config with default values.
func Default() *Config {
	return &Config{
		Package: atpkg.DefaultFile,
	}
}

// PackageFile returns the configured package file or the default.
func (c *Config) PackageFile() string {
	if c.Package == "" {
		return atpkg.DefaultFile
	}
	return c.Package
}

// LoaderOptions converts the configuration to package loader options.
func (c *Config) LoaderOptions() atpkg.Options {
	return atpkg.Options{
		Overlays:         []string(c.Overlays),
		SoftFail:         c.SoftFail,
		Platform:         c.Platform,
		ReservedPrefixes: c.ReservedPrefixes,
		Configurations:   []string(c.Configurations),
	}
}

// OverrideMap converts Overrides to option values.
func (c *Config) OverrideMap() (value.Map, error) {
	if len(c.Overrides) == 0 {
		return value.Map{}, nil
	}
	m, err := value.MapFromAny(c.Overrides)
	if err != nil {
		return nil, fmt.Errorf("overrides: %w", err)
	}
	return m, nil
}
