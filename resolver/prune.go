/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import (
	"fmt"
	"slices"
	"strings"
)

// PrunedDependencyGraph returns root and everything it transitively depends
// on, each exactly once, with dependencies before dependents. Siblings keep
// their declaration order. lookup resolves a dependency name in the context
// of the task that declares it.
func PrunedDependencyGraph[N Node](root N, lookup func(owner N, name string) (N, error)) ([]N, error) {
	p := &pruner[N]{
		lookup:   lookup,
		seen:     make(map[string]bool),
		visiting: make(map[string]bool),
	}
	if err := p.visit(root); err != nil {
		return nil, err
	}
	return p.out, nil
}

type pruner[N Node] struct {
	lookup   func(N, string) (N, error)
	seen     map[string]bool
	visiting map[string]bool
	path     []string
	out      []N
}

func (p *pruner[N]) visit(n N) error {
	name := n.QualifiedName()
	if p.visiting[name] {
		cycle := append(append([]string{}, p.path[slices.Index(p.path, name):]...), name)
		return fmt.Errorf("%w: %s", ErrCircularDependency, strings.Join(cycle, " -> "))
	}
	if p.seen[name] {
		return nil
	}

	p.visiting[name] = true
	p.path = append(p.path, name)

	for _, depName := range n.Dependencies() {
		dep, err := p.lookup(n, depName)
		if err != nil {
			return err
		}
		if err := p.visit(dep); err != nil {
			return err
		}
	}

	p.path = p.path[:len(p.path)-1]
	p.visiting[name] = false
	p.seen[name] = true
	p.out = append(p.out, n)
	return nil
}
