// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package puzzle

import (
	"fmt"
	"strings"

	"github.com/wraiser/poetry/packages"
	"github.com/wraiser/poetry/repositories"
)

// mkPkg builds a package from terse fixture strings. The first string is
// "name version", where the name may carry a feature qualifier
// ("pkg[extra] 1.0.0"). Each subsequent string is a requirement in mkDep
// form. Panics on malformed input - bad fixture data should not make it
// past authoring.
func mkPkg(info string, deps ...string) *packages.Package {
	fields := strings.Fields(info)
	if len(fields) != 2 {
		panic(fmt.Sprintf("malformed package info string %q", info))
	}

	name, features := splitFeatures(fields[0])
	pkg := packages.NewPackage(name, packages.MustVersion(fields[1]), features...)
	for _, d := range deps {
		pkg.AddDependency(mkDep(d))
	}
	return pkg
}

// mkDep builds a dependency from a terse fixture string:
//
//	"name constraint [flag...]"
//
// where name may carry a feature qualifier and flags are any of
// "optional", "pre" (allow prereleases), or "group=x" ("dev" shorthand
// for "group=dev").
func mkDep(info string) *packages.Dependency {
	fields := strings.Fields(info)
	if len(fields) < 2 {
		panic(fmt.Sprintf("malformed dependency info string %q", info))
	}

	name, features := splitFeatures(fields[0])
	constraint := packages.MustConstraint(fields[1])

	opts := []packages.DependencyOption{}
	if len(features) > 0 {
		opts = append(opts, packages.WithFeatures(features...))
	}
	for _, flag := range fields[2:] {
		switch {
		case flag == "optional":
			opts = append(opts, packages.Optional())
		case flag == "pre":
			opts = append(opts, packages.AllowPrereleases())
		case flag == "dev":
			opts = append(opts, packages.WithGroups("dev"))
		case strings.HasPrefix(flag, "group="):
			opts = append(opts, packages.WithGroups(strings.TrimPrefix(flag, "group=")))
		default:
			panic(fmt.Sprintf("unknown dependency flag %q in %q", flag, info))
		}
	}

	return packages.NewDependency(name, constraint, opts...)
}

func splitFeatures(name string) (string, []string) {
	i := strings.IndexByte(name, '[')
	if i < 0 {
		return name, nil
	}
	if !strings.HasSuffix(name, "]") {
		panic(fmt.Sprintf("malformed feature qualifier in %q", name))
	}
	return name[:i], strings.Split(name[i+1:len(name)-1], ",")
}

// solveFixture runs a full solve over an in-memory universe.
func solveFixture(root *packages.Package, pool, locked []*packages.Package, useLatest []string) (*Transaction, error) {
	s := NewSolver(root,
		repositories.NewPool(repositories.NewRepository(pool...)),
		repositories.NewRepository(),
		repositories.NewRepository(locked...),
		nil, nil)
	return s.Solve(useLatest)
}

// renderResults flattens a transaction for comparison: one line per
// resolved package with depth, category and optionality.
func renderResults(t *Transaction) []string {
	out := make([]string, len(t.ResultPackages()))
	for i, rp := range t.ResultPackages() {
		out[i] = fmt.Sprintf("%s %d %s optional=%v",
			rp.Package, rp.Depth, rp.Package.Category, rp.Package.Optional)
	}
	return out
}
