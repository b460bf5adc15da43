/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"slices"
	"testing"

	"bennypowers.dev/atpkg/atpkg"
	"bennypowers.dev/atpkg/internal/mapfs"
	"bennypowers.dev/atpkg/testutil"
	"bennypowers.dev/atpkg/value"
)

func TestLoad_YAML(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/config/yaml", "/project")

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg == nil {
		t.Fatal("expected config, got nil")
	}

	if cfg.PackageFile() != "build/main.atpkg" {
		t.Errorf("expected package 'build/main.atpkg', got %q", cfg.PackageFile())
	}

	if !slices.Equal(cfg.Overlays, StringList{"more-awesome", "release"}) {
		t.Errorf("expected overlays [more-awesome release], got %v", cfg.Overlays)
	}

	if !cfg.SoftFail {
		t.Error("expected softFail to be true")
	}

	if cfg.Platform != "linux" {
		t.Errorf("expected platform 'linux', got %q", cfg.Platform)
	}

	if len(cfg.ReservedPrefixes) != 2 || cfg.ReservedPrefixes[1] != "internal." {
		t.Errorf("expected reserved prefixes [atbuild. internal.], got %v", cfg.ReservedPrefixes)
	}

	if cfg.Constants["version"] != "1.2.3" {
		t.Errorf("expected constant version '1.2.3', got %q", cfg.Constants["version"])
	}
}

func TestLoad_JSONWithComments(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/config/json", "/project")

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg == nil {
		t.Fatal("expected config, got nil")
	}

	if !slices.Equal(cfg.Overlays, StringList{"more-awesome"}) {
		t.Errorf("expected overlays [more-awesome], got %v", cfg.Overlays)
	}

	if cfg.SoftFail {
		t.Error("expected softFail to be false")
	}

	if cfg.Constants["version"] != "2.0.0" {
		t.Errorf("expected constant version '2.0.0', got %q", cfg.Constants["version"])
	}

	if cfg.PackageFile() != atpkg.DefaultFile {
		t.Errorf("expected default package file, got %q", cfg.PackageFile())
	}
}

func TestLoad_ScalarLists(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/config/scalar", "/project")

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !slices.Equal(cfg.Overlays, StringList{"more-awesome"}) {
		t.Errorf("expected overlays [more-awesome], got %v", cfg.Overlays)
	}

	if !slices.Equal(cfg.Configurations, StringList{"release"}) {
		t.Errorf("expected configurations [release], got %v", cfg.Configurations)
	}
}

func TestLoad_Invalid(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/config/invalid", "/project")

	cfg, err := Load(mfs, "/project")
	if err == nil {
		t.Fatalf("expected error, got config %+v", cfg)
	}
}

func TestLoad_NoConfig(t *testing.T) {
	mfs := mapfs.New()

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg != nil {
		t.Errorf("expected nil config, got %+v", cfg)
	}
}

func TestLoadOrDefault(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/config/invalid", "/project")

	cfg := LoadOrDefault(mfs, "/project")
	if cfg.Package != atpkg.DefaultFile {
		t.Errorf("expected default package file, got %q", cfg.Package)
	}
	if len(cfg.Overlays) != 0 {
		t.Errorf("expected no overlays, got %v", cfg.Overlays)
	}
}

func TestConfig_LoaderOptions(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/config/yaml", "/project")

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	opts := cfg.LoaderOptions()
	if !opts.SoftFail {
		t.Error("expected SoftFail to carry over")
	}
	if opts.Platform != "linux" {
		t.Errorf("expected platform 'linux', got %q", opts.Platform)
	}
	if !slices.Equal(opts.Configurations, []string{"release"}) {
		t.Errorf("expected configurations [release], got %v", opts.Configurations)
	}
}

func TestConfig_OverrideMap(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/config/yaml", "/project")

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	overrides, err := cfg.OverrideMap()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	flags, ok := overrides.GetStrings("compile-options")
	if !ok || !slices.Equal(flags, []string{"-DCI"}) {
		t.Errorf("expected compile-options [-DCI], got %v", overrides["compile-options"])
	}

	if debug, ok := overrides.GetBool("debug"); !ok || !debug {
		t.Errorf("expected debug true, got %v", overrides["debug"])
	}

	if !value.Equal(overrides["optimization"], value.IntegerLiteral(2)) {
		t.Errorf("expected optimization 2, got %v", overrides["optimization"])
	}
}

func TestConfig_OverrideMapEmpty(t *testing.T) {
	overrides, err := Default().OverrideMap()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(overrides) != 0 {
		t.Errorf("expected empty overrides, got %v", overrides)
	}
}

func TestFind(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/project/.config/atpkg.json", "{}", 0644)
	mfs.AddFile("/project/.config/atpkg.yml", "softFail: true\n", 0644)

	path, ok := Find(mfs, "/project")
	if !ok {
		t.Fatal("expected to find a config file")
	}
	if path != "/project/.config/atpkg.yml" {
		t.Errorf("expected yml to win over json, got %q", path)
	}

	if _, ok := Find(mfs, "/elsewhere"); ok {
		t.Error("expected no config under /elsewhere")
	}
}

func TestLoad_JSONC(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/project/.config/atpkg.jsonc", `{
  /* block comment */
  "platform": "osx", // trailing
}`, 0644)

	cfg, err := Load(mfs, "/project")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Platform != "osx" {
		t.Errorf("expected platform 'osx', got %q", cfg.Platform)
	}
}
