/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package version provides version information for the atpkg CLI.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is set at build time via
// -ldflags "-X bennypowers.dev/atpkg/internal/version.Version=v1.2.3".
var Version = "dev"

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit,omitempty" yaml:"commit,omitempty"`
	Time      string `json:"time,omitempty" yaml:"time,omitempty"`
	Dirty     bool   `json:"dirty,omitempty" yaml:"dirty,omitempty"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
}

// Read collects build information from ldflags and the VCS stamp the Go
// toolchain embeds.
func Read() BuildInfo {
	info := BuildInfo{Version: Version, GoVersion: runtime.Version()}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Commit = s.Value
		case "vcs.time":
			info.Time = s.Value
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	return info
}

// Get returns the version string for the application.
func Get() string {
	info := Read()
	if info.Version != "dev" || info.Commit == "" {
		return info.Version
	}

	v := "dev-" + shortCommit(info.Commit)
	if info.Dirty {
		v += "-dirty"
	}
	return v
}

// Full returns the version with its commit, if known.
func Full() string {
	info := Read()
	if info.Commit == "" {
		return Get()
	}
	return fmt.Sprintf("%s (commit: %s)", Get(), info.Commit)
}

func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
