// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package puzzle

import (
	"testing"

	"github.com/wraiser/poetry/packages"
)

func runDFS(root *packages.Package, pool []*packages.Package) map[string]int {
	results := depthFirstSearch(NewRootNode(root, pool), aggregatePackageNodes)
	depths := make(map[string]int, len(results))
	for _, r := range results {
		depths[r.pkg.CompleteName()] = r.depth
	}
	return depths
}

func TestDFSRootDepth(t *testing.T) {
	root := mkPkg("root 1.0.0", "a >=1.0")
	pool := []*packages.Package{mkPkg("a 1.0.0", "b >=1.0"), mkPkg("b 1.0.0")}

	depths := runDFS(root, pool)
	if depths["root"] != -1 {
		t.Errorf("root depth = %d, want -1", depths["root"])
	}
	if depths["a"] != 0 || depths["b"] != 1 {
		t.Errorf("depths = %v, want a=0 b=1", depths)
	}
}

func TestDFSDiamondDepth(t *testing.T) {
	root := mkPkg("root 1.0.0", "a >=1.0", "b >=1.0")
	pool := []*packages.Package{
		mkPkg("a 1.0.0", "shared >=1.0"),
		mkPkg("b 1.0.0", "shared >=1.0"),
		mkPkg("shared 1.0.0"),
	}

	depths := runDFS(root, pool)
	if depths["shared"] != 1 {
		t.Errorf("shared depth = %d, want 1", depths["shared"])
	}
}

func TestDFSCycleTerminates(t *testing.T) {
	root := mkPkg("root 1.0.0", "a >=1.0")
	pool := []*packages.Package{
		mkPkg("a 1.0.0", "b >=1.0"),
		mkPkg("b 1.0.0", "c >=1.0"),
		mkPkg("c 1.0.0", "a >=1.0"),
	}

	depths := runDFS(root, pool)
	if depths["a"] != 0 || depths["b"] != 1 || depths["c"] != 2 {
		t.Errorf("depths = %v, want a=0 b=1 c=2", depths)
	}
}

func TestDFSTopologicalOutputOrder(t *testing.T) {
	root := mkPkg("root 1.0.0", "a >=1.0")
	pool := []*packages.Package{
		mkPkg("a 1.0.0", "b >=1.0"),
		mkPkg("b 1.0.0", "c >=1.0"),
		mkPkg("c 1.0.0"),
	}

	results := depthFirstSearch(NewRootNode(root, pool), aggregatePackageNodes)
	pos := make(map[string]int, len(results))
	for i, r := range results {
		pos[r.pkg.CompleteName()] = i
	}

	// Parents before children for every direct non-cyclic edge.
	for _, edge := range [][2]string{{"root", "a"}, {"a", "b"}, {"b", "c"}} {
		if pos[edge[0]] > pos[edge[1]] {
			t.Errorf("%s emitted after its dependency %s", edge[0], edge[1])
		}
	}
}

func TestDFSNodeIdentityByGroupContext(t *testing.T) {
	// The same package reached under different group contexts is two
	// distinct traversal nodes, merged only at aggregation.
	root := mkPkg("root 1.0.0", "a >=1.0", "d >=1.0 dev")
	pool := []*packages.Package{
		mkPkg("a 1.0.0", "shared >=1.0"),
		mkPkg("d 1.0.0", "shared >=1.0"),
		mkPkg("shared 1.0.0"),
	}

	results := depthFirstSearch(NewRootNode(root, pool), aggregatePackageNodes)
	count := 0
	for _, r := range results {
		if r.pkg.Name() == "shared" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("shared aggregated %d times, want once", count)
	}
}

func TestNonRootNodeWithoutDepPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for non-root node without dep")
		}
	}()

	pool := []*packages.Package{mkPkg("a 1.0.0")}
	rootNode := NewRootNode(mkPkg("root 1.0.0"), pool)
	newPackageNode(pool[0], pool, rootNode.seen, rootNode, nil, nil)
}
