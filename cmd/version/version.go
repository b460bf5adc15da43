/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package version provides the version command for atpkg.
package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"bennypowers.dev/atpkg/cmd/render"
	"bennypowers.dev/atpkg/internal/version"
)

// Cmd is the version cobra command that prints version and build information.
var Cmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print version information for atpkg.`,
	Args:  cobra.NoArgs,
	RunE:  run,
}

func init() {
	Cmd.Flags().String("format", "text", "Output format (text, json, yaml)")
	Cmd.Flags().Bool("verbose", false, "Include the commit in text output")
}

func run(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("error reading format flag: %w", err)
	}
	verbose, _ := cmd.Flags().GetBool("verbose")

	switch format {
	case "text":
		v := version.Get()
		if verbose {
			v = version.Full()
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "atpkg %s\n", v)
		return err
	default:
		return render.Encode(cmd.OutOrStdout(), format, version.Read())
	}
}
