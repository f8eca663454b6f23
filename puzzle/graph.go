// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package puzzle

import (
	"sort"
	"strings"

	"github.com/wraiser/poetry/packages"
)

type visitedState uint8

const (
	unvisited visitedState = iota
	partiallyVisited
	visited
)

// packageDepth is one aggregated output entry.
type packageDepth struct {
	pkg   *packages.Package
	depth int
}

// aggregator folds the per-name node group (plus the reachability
// projection of those nodes) into a single (package, depth) entry.
type aggregator func(nodes, children []*PackageNode) packageDepth

// depthFirstSearch orders the graph rooted at source, computes each node's
// depth from its back edges, and emits one aggregated entry per name in
// topological order (parents before children within a connected subgraph).
func depthFirstSearch(source *PackageNode, aggregate aggregator) []packageDepth {
	backEdges := make(map[nodeID][]*PackageNode)
	visitedNodes := make(map[nodeID]visitedState)
	var topoSorted []*PackageNode

	dfsVisit(source, backEdges, visitedNodes, &topoSorted)

	// Combine the nodes by name. The Reachable call here runs against
	// the traversal's shared seen list, which already holds every
	// expanded package; it contributes children only for nodes that were
	// never expanded during the DFS. Depth does not depend on it - depth
	// flows from the back edges.
	combinedNodes := make(map[string][]*PackageNode)
	nameChildren := make(map[string][]*PackageNode)
	for _, node := range topoSorted {
		node.Visit(backEdges[node.id])
		nameChildren[node.name] = append(nameChildren[node.name], node.Reachable()...)
		combinedNodes[node.name] = append(combinedNodes[node.name], node)
	}

	var out []packageDepth
	for _, node := range topoSorted {
		nodes, ok := combinedNodes[node.name]
		if !ok {
			continue
		}
		delete(combinedNodes, node.name)
		out = append(out, aggregate(nodes, nameChildren[node.name]))
	}

	return out
}

// dfsVisit is a standard three-color visit. A PartiallyVisited node on
// re-entry is a cycle; the resolved set is already consistent, so the
// cycle is skipped rather than an error.
func dfsVisit(node *PackageNode, backEdges map[nodeID][]*PackageNode,
	visitedNodes map[nodeID]visitedState, sorted *[]*PackageNode) {

	switch visitedNodes[node.id] {
	case visited, partiallyVisited:
		return
	}

	visitedNodes[node.id] = partiallyVisited
	for _, neighbor := range node.Reachable() {
		backEdges[neighbor.id] = append(backEdges[neighbor.id], node)
		dfsVisit(neighbor, backEdges, visitedNodes, sorted)
	}
	visitedNodes[node.id] = visited

	// Prepend, so the final list reads parents before children.
	*sorted = append([]*PackageNode{node}, *sorted...)
}

// aggregatePackageNodes merges every node of one name, writing the merged
// depth, category and optionality back onto the nodes and the underlying
// package.
func aggregatePackageNodes(nodes, children []*PackageNode) packageDepth {
	pkg := nodes[0].pkg

	depth := nodes[0].depth
	for _, n := range nodes[1:] {
		if n.depth > depth {
			depth = n.depth
		}
	}

	category := packages.CategoryDev
	optional := true
	for _, n := range append(children[:len(children):len(children)], nodes...) {
		if _, ok := n.groups[packages.MainGroup]; ok {
			category = packages.CategoryMain
		}
		if !n.optional {
			optional = false
		}
	}

	for _, n := range nodes {
		n.depth = depth
		n.category = category
		n.optional = optional
	}

	pkg.Category = category
	pkg.Optional = optional

	return packageDepth{pkg: pkg, depth: depth}
}

func groupsKey(groups map[string]struct{}) string {
	if len(groups) == 0 {
		return ""
	}
	gs := make([]string, 0, len(groups))
	for g := range groups {
		gs = append(gs, g)
	}
	sort.Strings(gs)
	return strings.Join(gs, ",")
}

func sameGroupSets(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for g := range a {
		if _, ok := b[g]; !ok {
			return false
		}
	}
	return true
}
