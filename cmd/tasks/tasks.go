/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package tasks provides the tasks command for atpkg.
package tasks

import (
	"strings"

	"github.com/spf13/cobra"

	"bennypowers.dev/atpkg/cmd/project"
	"bennypowers.dev/atpkg/cmd/render"
)

// Cmd is the tasks cobra command.
var Cmd = &cobra.Command{
	Use:   "tasks",
	Short: "List tasks of a package",
	Long:  `List every task of a package and its imports, with optional filtering and formatting.`,
	Args:  cobra.NoArgs,
	RunE:  run,
}

func init() {
	Cmd.Flags().String("tool", "", "Filter by tool")
	Cmd.Flags().String("prefix", "", "Filter by qualified name prefix")
	Cmd.Flags().Bool("own", false, "Only list tasks declared by the root package")
	Cmd.Flags().Bool("external", false, "List external dependencies instead of tasks")
	Cmd.Flags().String("format", "table", "Output format: table, json, yaml")
}

func run(cmd *cobra.Command, args []string) error {
	tool, _ := cmd.Flags().GetString("tool")
	prefix, _ := cmd.Flags().GetString("prefix")
	own, _ := cmd.Flags().GetBool("own")
	external, _ := cmd.Flags().GetBool("external")
	format, _ := cmd.Flags().GetString("format")

	proj, err := project.Load(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if external {
		rows := render.ComputeExternalRows(proj.Package.External)
		if format == "table" {
			return render.WriteExternalTable(out, rows)
		}
		return render.Encode(out, format, rows)
	}

	rows := filterRows(render.ComputeRows(proj.Package), tool, prefix, own)

	if format == "table" {
		return render.WriteTable(out, rows)
	}
	return render.Encode(out, format, rows)
}

// filterRows filters task rows by tool, name prefix, and origin.
func filterRows(rows []render.Row, tool, prefix string, own bool) []render.Row {
	filtered := make([]render.Row, 0, len(rows))
	for _, r := range rows {
		if tool != "" && r.Tool != tool {
			continue
		}
		if prefix != "" && !strings.HasPrefix(r.Name, prefix) {
			continue
		}
		if own && r.Imported {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}
