/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package show provides the show command for atpkg.
package show

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bennypowers.dev/atpkg/cmd/project"
	"bennypowers.dev/atpkg/cmd/render"
)

// Cmd is the show cobra command.
var Cmd = &cobra.Command{
	Use:   "show <task>",
	Short: "Show the effective options of a task",
	Long: `Show a task's options after mixins, overlays, and configured overrides
have been applied.`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().String("format", "yaml", "Output format: yaml, json")
	Cmd.Flags().Bool("overlays", false, "Print applied overlays before the options")
}

func run(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	showOverlays, _ := cmd.Flags().GetBool("overlays")

	proj, err := project.Load(cmd)
	if err != nil {
		return err
	}

	task, err := proj.Task(args[0])
	if err != nil {
		return err
	}

	options, err := proj.TaskConfig(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if showOverlays {
		applied := task.AppliedOverlays()
		list := "none"
		if len(applied) > 0 {
			list = strings.Join(applied, ", ")
		}
		if _, err := fmt.Fprintf(cmd.ErrOrStderr(), "# %s overlays: %s\n", task.QualifiedName(), list); err != nil {
			return err
		}
	}
	return render.Encode(out, format, options)
}
