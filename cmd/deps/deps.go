/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package deps provides the deps command for atpkg.
package deps

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bennypowers.dev/atpkg/atpkg"
	"bennypowers.dev/atpkg/cmd/project"
)

// Cmd is the deps cobra command.
var Cmd = &cobra.Command{
	Use:   "deps [task]",
	Short: "Print a task's dependencies in build order",
	Long: `Print the task and its transitive dependencies, each once, with
dependencies before the tasks that need them.

With --all, print every task in the package tree in build order instead.
With --direct or --dependents, print only the task's immediate
dependencies or the tasks that depend on it.`,
	Args: cobra.RangeArgs(0, 1),
	RunE: run,
}

func init() {
	Cmd.Flags().Bool("exclude-self", false, "Omit the task itself")
	Cmd.Flags().Bool("all", false, "Print every task in build order")
	Cmd.Flags().Bool("direct", false, "Print only immediate dependencies")
	Cmd.Flags().Bool("dependents", false, "Print the tasks that depend on the task")
	Cmd.MarkFlagsMutuallyExclusive("all", "direct", "dependents")
}

// Mode selects what List prints.
type Mode int

const (
	// Transitive lists the task and everything it needs, dependencies first.
	Transitive Mode = iota
	// All lists every task of the package tree, dependencies first.
	All
	// Direct lists the task's immediate dependencies.
	Direct
	// Dependents lists the tasks that name the task as a dependency.
	Dependents
)

// List returns qualified task names for mode. task is ignored for All.
func List(pkg *atpkg.Package, task *atpkg.Task, mode Mode, excludeSelf bool) ([]string, error) {
	if mode == Transitive {
		ordered, err := pkg.PrunedDependencyGraph(task)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(ordered))
		for _, t := range ordered {
			if excludeSelf && t == task {
				continue
			}
			names = append(names, t.QualifiedName())
		}
		return names, nil
	}

	graph, err := pkg.DependencyGraph()
	if err != nil {
		return nil, err
	}
	switch mode {
	case All:
		return graph.TopologicalSort()
	case Direct:
		return graph.Dependencies(task.QualifiedName()), nil
	case Dependents:
		return graph.Dependents(task.QualifiedName()), nil
	default:
		return nil, fmt.Errorf("unknown mode %d", mode)
	}
}

func run(cmd *cobra.Command, args []string) error {
	excludeSelf, _ := cmd.Flags().GetBool("exclude-self")
	all, _ := cmd.Flags().GetBool("all")
	direct, _ := cmd.Flags().GetBool("direct")
	dependents, _ := cmd.Flags().GetBool("dependents")

	mode := Transitive
	switch {
	case all:
		mode = All
	case direct:
		mode = Direct
	case dependents:
		mode = Dependents
	}

	if mode == All && len(args) > 0 {
		return errors.New("--all takes no task argument")
	}
	if mode != All && len(args) == 0 {
		return errors.New("a task name is required unless --all is set")
	}

	proj, err := project.Load(cmd)
	if err != nil {
		return err
	}

	var task *atpkg.Task
	if mode != All {
		if task, err = proj.Task(args[0]); err != nil {
			return err
		}
	}

	names, err := List(proj.Package, task, mode, excludeSelf)
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
			return err
		}
	}
	return nil
}
