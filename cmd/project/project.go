/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package project loads the package named by the root command's flags.
package project

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/atpkg/load"
)

// Viper keys for the root persistent flags.
const (
	KeyFile          = "file"
	KeyOverlay       = "overlay"
	KeySoftFail      = "soft-fail"
	KeyPlatform      = "platform"
	KeyConfiguration = "configuration"
	KeyDebug         = "debug"
)

// File returns the package file from the flag or ATPKG_FILE.
// Empty means the config file's package, or build.atpkg.
func File() string {
	return viper.GetString(KeyFile)
}

// Options builds load options from flags and ATPKG_* environment variables.
func Options() load.Options {
	return load.Options{
		Root:           ".",
		Overlays:       viper.GetStringSlice(KeyOverlay),
		SoftFail:       viper.GetBool(KeySoftFail),
		Platform:       viper.GetString(KeyPlatform),
		Configurations: viper.GetStringSlice(KeyConfiguration),
	}
}

// Load loads the project for a command.
func Load(cmd *cobra.Command) (*load.Project, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return load.Load(ctx, File(), Options())
}
