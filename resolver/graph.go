/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import (
	"fmt"
	"strings"
)

// Node is a task as seen by dependency ordering.
type Node interface {
	QualifiedName() string
	Dependencies() []string
}

// DependencyGraph is a directed graph of task dependencies, keyed by
// qualified name. Nodes keep their insertion order so traversal is stable.
type DependencyGraph struct {
	order        []string
	dependencies map[string][]string
	dependents   map[string][]string
	nodes        map[string]bool
}

// BuildDependencyGraph builds a graph from nodes. resolve maps a node and one
// of its dependency names to the dependency's qualified name; an error from
// resolve aborts the build.
func BuildDependencyGraph[N Node](nodes []N, resolve func(N, string) (string, error)) (*DependencyGraph, error) {
	graph := &DependencyGraph{
		dependencies: make(map[string][]string),
		dependents:   make(map[string][]string),
		nodes:        make(map[string]bool),
	}

	for _, n := range nodes {
		name := n.QualifiedName()
		if !graph.nodes[name] {
			graph.nodes[name] = true
			graph.order = append(graph.order, name)
		}
	}

	for _, n := range nodes {
		name := n.QualifiedName()
		if _, done := graph.dependencies[name]; done {
			continue
		}
		deps := []string{}
		for _, dep := range n.Dependencies() {
			target, err := resolve(n, dep)
			if err != nil {
				return nil, err
			}
			deps = append(deps, target)
			graph.dependents[target] = append(graph.dependents[target], name)
		}
		graph.dependencies[name] = deps
	}

	return graph, nil
}

// Dependencies returns the qualified names the given task depends on.
func (g *DependencyGraph) Dependencies(name string) []string {
	if deps, ok := g.dependencies[name]; ok {
		return deps
	}
	return []string{}
}

// Dependents returns the qualified names of tasks depending on the given task.
func (g *DependencyGraph) Dependents(name string) []string {
	if deps, ok := g.dependents[name]; ok {
		return deps
	}
	return []string{}
}

// FindCycle returns the cycle path if one exists, or nil if no cycle.
// The path starts and ends with the same name.
func (g *DependencyGraph) FindCycle() []string {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)

	for _, node := range g.order {
		if cycle := g.findCycleDFS(node, visited, recStack, nil); cycle != nil {
			return cycle
		}
	}
	return nil
}

func (g *DependencyGraph) findCycleDFS(node string, visited, recStack map[string]bool, path []string) []string {
	if recStack[node] {
		cycleStart := -1
		for i, n := range path {
			if n == node {
				cycleStart = i
				break
			}
		}
		if cycleStart == -1 {
			panic(fmt.Sprintf("cycle detection invariant violated: node %q in recStack but not in path %v", node, path))
		}
		return append(append([]string{}, path[cycleStart:]...), node)
	}
	if visited[node] {
		return nil
	}

	visited[node] = true
	recStack[node] = true
	path = append(path, node)

	for _, dep := range g.dependencies[node] {
		if cycle := g.findCycleDFS(dep, visited, recStack, path); cycle != nil {
			return cycle
		}
	}

	recStack[node] = false
	return nil
}

// TopologicalSort returns every task in dependency order (dependencies first).
// Returns an error if the graph contains a cycle.
func (g *DependencyGraph) TopologicalSort() ([]string, error) {
	if cycle := g.FindCycle(); cycle != nil {
		return nil, fmt.Errorf("%w: %s", ErrCircularDependency, strings.Join(cycle, " -> "))
	}

	visited := make(map[string]bool)
	result := []string{}

	for _, node := range g.order {
		if !visited[node] {
			g.topologicalSortDFS(node, visited, &result)
		}
	}

	return result, nil
}

func (g *DependencyGraph) topologicalSortDFS(node string, visited map[string]bool, stack *[]string) {
	visited[node] = true

	for _, dep := range g.dependencies[node] {
		if !visited[dep] {
			g.topologicalSortDFS(dep, visited, stack)
		}
	}

	*stack = append(*stack, node)
}
