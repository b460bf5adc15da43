/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package eval provides the eval command for atpkg.
package eval

import (
	"fmt"

	"github.com/spf13/cobra"

	"bennypowers.dev/atpkg/cmd/project"
	"bennypowers.dev/atpkg/substitution"
)

// Cmd is the eval cobra command.
var Cmd = &cobra.Command{
	Use:   "eval [<task> <option>]",
	Short: "Expand ${...} placeholders",
	Long: `Expand ${...} placeholders in a task option, or in literal text
given with --string.

Examples:
  # Expand a task's script
  atpkg eval build script

  # Expand literal text against the package
  atpkg eval --string 'swiftc ${collect_sources:build}'`,
	Args: cobra.RangeArgs(0, 2),
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("string", "s", "", "Evaluate this text instead of a task option")
}

func run(cmd *cobra.Command, args []string) error {
	text, _ := cmd.Flags().GetString("string")
	literal := cmd.Flags().Changed("string")

	switch {
	case literal && len(args) != 0:
		return fmt.Errorf("--string and <task> <option> are mutually exclusive")
	case !literal && len(args) != 2:
		return fmt.Errorf("expected <task> <option> or --string")
	}

	proj, err := project.Load(cmd)
	if err != nil {
		return err
	}

	var result string
	if literal {
		result, err = substitution.Evaluate(text, proj.Substitutions())
	} else {
		result, err = proj.Evaluate(args[0], args[1])
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), result)
	return err
}
