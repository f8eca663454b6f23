// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package puzzle turns a resolved package universe into an install plan:
// it drives the mixology engine, retries with overrides when asked to, and
// post-processes the result graph into per-package depth, category and
// optionality.
package puzzle

import (
	"github.com/wraiser/poetry/packages"
)

// nodeID identifies a traversal node: the same underlying package reached
// under a different group or optionality context is a distinct node. The
// aggregation pass is what later merges nodes per name.
type nodeID struct {
	completeName string
	groups       string
	optional     bool
}

// seenList is the traversal memo shared by every node spawned from one
// root: a single mutable list, aliased across siblings and descendants,
// which is what terminates expansion on diamonds. One traversal, one list.
type seenList struct {
	pkgs []*packages.Package
}

func (s *seenList) has(pkg *packages.Package) bool {
	for _, p := range s.pkgs {
		if p == pkg {
			return true
		}
	}
	return false
}

func (s *seenList) add(pkg *packages.Package) {
	s.pkgs = append(s.pkgs, pkg)
}

// PackageNode wraps a resolved package during the depth/category
// traversal. Nodes live for one traversal and are discarded; only the
// category/optional writes onto the underlying packages survive.
type PackageNode struct {
	pkg  *packages.Package
	pkgs []*packages.Package
	seen *seenList

	previous    *PackageNode
	previousDep *packages.Dependency

	// dep is the root-most edge that established this branch, not
	// necessarily the immediate edge: children inherit their parent's
	// dep when the parent has one. previousDep is always the immediate
	// edge. The divergence between the two feeds the edge-replay guard
	// in Reachable.
	dep *packages.Dependency

	id       nodeID
	name     string
	baseName string

	depth    int
	category string
	groups   map[string]struct{}
	optional bool
}

// NewRootNode starts a traversal at root over the resolved set pkgs.
func NewRootNode(root *packages.Package, pkgs []*packages.Package) *PackageNode {
	return newPackageNode(root, pkgs, &seenList{}, nil, nil, nil)
}

func newPackageNode(pkg *packages.Package, pkgs []*packages.Package, seen *seenList,
	previous *PackageNode, previousDep, dep *packages.Dependency) *PackageNode {

	n := &PackageNode{
		pkg:         pkg,
		pkgs:        pkgs,
		seen:        seen,
		previous:    previous,
		previousDep: previousDep,
		dep:         dep,
		depth:       -1,
	}

	switch {
	case previous == nil:
		n.category = packages.CategoryDev
		n.groups = map[string]struct{}{}
		n.optional = true
	case dep != nil:
		if dep.InGroup(packages.MainGroup) {
			n.category = packages.CategoryMain
		} else {
			n.category = packages.CategoryDev
		}
		n.groups = dep.Groups()
		n.optional = dep.IsOptional()
	default:
		panic("puzzle: non-root PackageNode requires both previous and dep")
	}

	n.id = nodeID{
		completeName: pkg.CompleteName(),
		groups:       groupsKey(n.groups),
		optional:     n.optional,
	}
	n.name = pkg.CompleteName()
	n.baseName = pkg.Name()

	return n
}

func (n *PackageNode) Package() *packages.Package { return n.pkg }

// Reachable enumerates this node's children: one node per resolved
// candidate satisfying a requirement of the package.
func (n *PackageNode) Reachable() []*PackageNode {
	var children []*PackageNode

	// A package already expanded anywhere in this traversal contributes
	// no further edges.
	if n.seen.has(n.pkg) {
		return nil
	}
	n.seen.add(n.pkg)

	// When the branch edge and the immediate edge are different objects
	// sharing a name, this node is a replay of the same logical edge
	// under another feature qualification; do not expand it again.
	if n.dep != nil && n.previousDep != nil && n.previousDep != n.dep &&
		n.previousDep.Name() == n.dep.Name() {
		return nil
	}

	for _, dependency := range n.pkg.AllRequires() {
		// Length-2 cycle back to the parent. Longer cycles are the DFS
		// coloring's problem.
		if n.previous != nil && n.previous.name == dependency.Name() {
			continue
		}

		for _, pkg := range n.pkgs {
			if pkg.CompleteName() != dependency.CompleteName() {
				continue
			}
			if !dependencyAdmits(dependency, pkg.Version()) {
				continue
			}
			if hasChild(children, pkg.Name(), dependency.Groups()) {
				continue
			}

			branch := n.dep
			if branch == nil {
				branch = dependency
			}
			children = append(children,
				newPackageNode(pkg, n.pkgs, n.seen, n, dependency, branch))
		}
	}

	return children
}

// Visit computes the node's depth from its parents. The root, with no
// parents, lands on -1 so its direct dependencies sit at depth 0. A parent
// of the same base name contributes depth-1 instead of depth, so feature
// variants do not inflate the depth of their base.
func (n *PackageNode) Visit(parents []*PackageNode) {
	max := -2
	for _, parent := range parents {
		d := parent.depth
		if parent.baseName == n.baseName {
			d--
		}
		if d > max {
			max = d
		}
	}
	n.depth = 1 + max
}

func (n *PackageNode) String() string {
	return n.pkg.String()
}

func dependencyAdmits(dep *packages.Dependency, v *packages.Version) bool {
	if dep.Constraint().Allows(v) {
		return true
	}
	return dep.AllowsPrereleases() && v.IsUnstable() && dep.Constraint().Allows(v.Stable())
}

func hasChild(children []*PackageNode, name string, groups map[string]struct{}) bool {
	for _, child := range children {
		if child.pkg.Name() == name && sameGroupSets(child.groups, groups) {
			return true
		}
	}
	return false
}
