/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cmd provides CLI commands for atpkg.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/atpkg/cmd/deps"
	"bennypowers.dev/atpkg/cmd/eval"
	"bennypowers.dev/atpkg/cmd/project"
	"bennypowers.dev/atpkg/cmd/show"
	"bennypowers.dev/atpkg/cmd/tasks"
	"bennypowers.dev/atpkg/cmd/validate"
	"bennypowers.dev/atpkg/cmd/version"
	"bennypowers.dev/atpkg/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "atpkg",
	Short: "Parse and resolve atpkg build packages",
	Long: `atpkg parses .atpkg package files, follows their imports, and resolves
overlays and mixins into the effective configuration of each task.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetDebug(viper.GetBool(project.KeyDebug))
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP(project.KeyFile, "f", "", "Package file (default: from .config/atpkg.yaml, or build.atpkg)")
	flags.StringSliceP(project.KeyOverlay, "o", nil, "Overlay to apply to every task (repeatable)")
	flags.Bool(project.KeySoftFail, false, "Warn instead of failing on missing imports and unknown overlays")
	flags.String(project.KeyPlatform, "", "Target platform, applies the atbuild.platform.<name> overlay")
	flags.StringSliceP(project.KeyConfiguration, "c", nil, "Mixin configuration to apply (repeatable)")
	flags.Bool(project.KeyDebug, false, "Print debug output")

	viper.SetEnvPrefix("atpkg")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlags(flags)

	rootCmd.AddCommand(tasks.Cmd)
	rootCmd.AddCommand(show.Cmd)
	rootCmd.AddCommand(deps.Cmd)
	rootCmd.AddCommand(eval.Cmd)
	rootCmd.AddCommand(validate.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
