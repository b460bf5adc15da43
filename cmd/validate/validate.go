/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package validate provides the validate command for atpkg.
package validate

import (
	"fmt"

	"github.com/spf13/cobra"

	"bennypowers.dev/atpkg/cmd/project"
	"bennypowers.dev/atpkg/validator"
)

// Cmd is the validate cobra command.
var Cmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a package",
	Long: `Validate a package and its imports: required overlays, dependency
names and cycles, and ${...} placeholders in task options.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().Bool("strict", false, "Fail when requested overlays had no effect")
	Cmd.Flags().Bool("quiet", false, "Only output errors")
}

func run(cmd *cobra.Command, args []string) error {
	strict, _ := cmd.Flags().GetBool("strict")
	quiet, _ := cmd.Flags().GetBool("quiet")

	proj, err := project.Load(cmd)
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Validating %s...\n", proj.Package.Path)
	}

	if err := validator.Validate(proj, validator.Options{Strict: strict}); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return fmt.Errorf("validation failed")
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "  %d tasks, all valid.\n", len(proj.Package.Tasks()))
	}
	return nil
}
