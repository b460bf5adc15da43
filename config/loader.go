/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"bennypowers.dev/atpkg/fs"
)

// ConfigFileName is the base name of the config file without extension.
const ConfigFileName = "atpkg"

// ConfigDir is the directory where config files are stored.
const ConfigDir = ".config"

// configExtensions are the supported config file extensions in priority order.
var configExtensions = []string{".yaml", ".yml", ".json", ".jsonc"}

// Find returns the path of the first config file present under rootDir.
func Find(filesystem fs.FileSystem, rootDir string) (string, bool) {
	for _, ext := range configExtensions {
		configPath := filepath.Join(rootDir, ConfigDir, ConfigFileName+ext)
		if filesystem.Exists(configPath) {
			return configPath, true
		}
	}
	return "", false
}

// Load reads .config/atpkg.{yaml,yml,json,jsonc} under rootDir.
// Returns nil if no config found (not an error).
// JSON files may contain comments and trailing commas.
func Load(filesystem fs.FileSystem, rootDir string) (*Config, error) {
	configPath, ok := Find(filesystem, rootDir)
	if !ok {
		return nil, nil
	}

	data, err := filesystem.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := decode(filepath.Ext(configPath), data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

func decode(ext string, data []byte, cfg *Config) error {
	switch ext {
	case ".json", ".jsonc":
		return json.Unmarshal(jsonc.ToJSON(data), cfg)
	default:
		return yaml.Unmarshal(data, cfg)
	}
}

// LoadOrDefault returns config or defaults if not found or invalid.
func LoadOrDefault(filesystem fs.FileSystem, rootDir string) *Config {
	cfg, err := Load(filesystem, rootDir)
	if err != nil || cfg == nil {
		return Default()
	}
	return cfg
}
