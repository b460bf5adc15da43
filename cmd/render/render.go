/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package render provides shared rendering functions for CLI output.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"bennypowers.dev/atpkg/atpkg"
	"bennypowers.dev/atpkg/value"
)

// Row holds computed display values for a single task.
type Row struct {
	Name         string   `json:"name" yaml:"name"`                                     // Qualified task name
	Tool         string   `json:"tool" yaml:"tool"`                                     // Tool or "-"
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"` // Dependency names as written
	Overlays     []string `json:"overlays,omitempty" yaml:"overlays,omitempty"`         // Applied overlays in order
	Imported     bool     `json:"imported,omitempty" yaml:"imported,omitempty"`         // Whether the task comes from an import
}

// ExternalRow holds computed display values for an external dependency.
type ExternalRow struct {
	Name   string `json:"name" yaml:"name"`
	Type   string `json:"type" yaml:"type"`
	Method string `json:"method" yaml:"method"`
	Pin    string `json:"pin" yaml:"pin"`
	Active bool   `json:"active" yaml:"active"`
	URL    string `json:"url" yaml:"url"`
}

// ComputeRows transforms a package's tasks into display rows.
func ComputeRows(pkg *atpkg.Package) []Row {
	tasks := pkg.Tasks()
	rows := make([]Row, 0, len(tasks))
	for _, t := range tasks {
		row := Row{
			Name:         t.QualifiedName(),
			Tool:         t.Tool(),
			Dependencies: t.Dependencies(),
			Overlays:     t.AppliedOverlays(),
			Imported:     t.Package() != pkg,
		}
		if row.Tool == "" {
			row.Tool = "-"
		}
		rows = append(rows, row)
	}
	return rows
}

// ComputeExternalRows transforms external dependencies into display rows.
func ComputeExternalRows(deps []*atpkg.ExternalDependency) []ExternalRow {
	rows := make([]ExternalRow, 0, len(deps))
	for _, dep := range deps {
		pin := dep.Ref
		if dep.Method == atpkg.VersionList {
			pin = strings.Join(dep.Versions, ", ")
		}
		if pin == "" {
			pin = "-"
		}
		rows = append(rows, ExternalRow{
			Name:   dep.Name(),
			Type:   dep.Type.String(),
			Method: toTitleCase(dep.Method.String()),
			Pin:    pin,
			Active: dep.Active,
			URL:    dep.URL,
		})
	}
	return rows
}

// ColumnWidths calculates the max width needed for each column.
func ColumnWidths(rows []Row) (name, tool int) {
	name, tool = 4, 4 // minimums for headers
	for _, r := range rows {
		if len(r.Name) > name {
			name = len(r.Name)
		}
		if len(r.Tool) > tool {
			tool = len(r.Tool)
		}
	}
	return
}

// WriteTable writes task rows as an aligned table.
func WriteTable(w io.Writer, rows []Row) error {
	nameW, toolW := ColumnWidths(rows)
	if _, err := fmt.Fprintf(w, "%-*s  %-*s  %s\n", nameW, "NAME", toolW, "TOOL", "DEPENDENCIES"); err != nil {
		return err
	}
	for _, r := range rows {
		deps := strings.Join(r.Dependencies, ", ")
		if deps == "" {
			deps = "-"
		}
		if _, err := fmt.Fprintf(w, "%-*s  %-*s  %s\n", nameW, r.Name, toolW, r.Tool, deps); err != nil {
			return err
		}
	}
	return nil
}

// WriteExternalTable writes external dependency rows as an aligned table.
func WriteExternalTable(w io.Writer, rows []ExternalRow) error {
	nameW := 4
	for _, r := range rows {
		nameW = max(nameW, len(r.Name))
	}
	for _, r := range rows {
		state := "active"
		if !r.Active {
			state = "inactive"
		}
		if _, err := fmt.Fprintf(w, "%-*s  %-8s  %-7s %-20s %-8s  %s\n", nameW, r.Name, r.Type, r.Method, r.Pin, state, r.URL); err != nil {
			return err
		}
	}
	return nil
}

// Encode writes data as "json" or "yaml". Option maps are converted to
// plain data first.
func Encode(w io.Writer, format string, data any) error {
	if m, ok := data.(value.Map); ok {
		data = value.ToAny(m)
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}

// toTitleCase converts a string to Title Case.
func toTitleCase(s string) string {
	caser := cases.Title(language.English)
	return caser.String(s)
}
