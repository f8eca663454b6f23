// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package puzzle

import (
	"io"

	"github.com/emicklei/dot"
	"github.com/pkg/errors"

	"github.com/wraiser/poetry/packages"
)

// WriteDot renders a transaction's resolved graph in DOT format: one node
// per package labeled name@version, one edge per requirement satisfied
// within the resolved set. Development-only packages are drawn dashed.
func WriteDot(w io.Writer, t *Transaction) error {
	g := dot.NewGraph(dot.Directed)

	root := g.Node(t.RootPackage().Name())
	root.Label(t.RootPackage().String())
	root.Attr("penwidth", "2")

	byCompleteName := make(map[string]dot.Node, len(t.ResultPackages()))
	for _, rp := range t.ResultPackages() {
		n := g.Node(rp.Package.CompleteName())
		n.Label(rp.Package.String())
		if rp.Package.Category == packages.CategoryDev {
			n.Attr("style", "dashed")
		}
		byCompleteName[rp.Package.CompleteName()] = n
	}

	addEdges(g, root, t.RootPackage(), t, byCompleteName)
	for _, rp := range t.ResultPackages() {
		addEdges(g, byCompleteName[rp.Package.CompleteName()], rp.Package, t, byCompleteName)
	}

	if g.String() == "" {
		return errors.New("graph is empty")
	}

	g.Write(w)
	return nil
}

func addEdges(g *dot.Graph, from dot.Node, pkg *packages.Package, t *Transaction, nodes map[string]dot.Node) {
	for _, dep := range pkg.AllRequires() {
		target, ok := nodes[dep.CompleteName()]
		if !ok {
			continue
		}
		for _, rp := range t.ResultPackages() {
			if rp.Package.CompleteName() == dep.CompleteName() &&
				dependencyAdmits(dep, rp.Package.Version()) {
				g.Edge(from, target)
				break
			}
		}
	}
}
