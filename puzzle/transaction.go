// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package puzzle

import (
	"github.com/wraiser/poetry/packages"
)

// ResultPackage is one resolved package with its aggregated depth.
type ResultPackage struct {
	Package *packages.Package
	Depth   int
}

// Transaction is the solver's output bundle, consumed by install
// planning: the previously locked set, the freshly resolved set with
// depths, the currently installed set, and the root package.
type Transaction struct {
	lockedPackages    []*packages.Package
	resultPackages    []ResultPackage
	installedPackages []*packages.Package
	rootPackage       *packages.Package
}

func NewTransaction(locked []*packages.Package, results []ResultPackage,
	installed []*packages.Package, root *packages.Package) *Transaction {

	return &Transaction{
		lockedPackages:    locked,
		resultPackages:    results,
		installedPackages: installed,
		rootPackage:       root,
	}
}

func (t *Transaction) LockedPackages() []*packages.Package { return t.lockedPackages }

func (t *Transaction) ResultPackages() []ResultPackage { return t.resultPackages }

func (t *Transaction) InstalledPackages() []*packages.Package { return t.installedPackages }

func (t *Transaction) RootPackage() *packages.Package { return t.rootPackage }

// CalculateOperations diffs the resolved set against the installed set.
// Resolved packages not installed become installs; installed at another
// version become updates; already satisfied become skipped installs. With
// withUninstalls, installed packages absent from the result become
// uninstalls. Deeper packages are ordered first so dependencies land
// before their dependents.
func (t *Transaction) CalculateOperations(withUninstalls bool) []Operation {
	ordered := make([]ResultPackage, len(t.resultPackages))
	copy(ordered, t.resultPackages)
	sortByDepthDesc(ordered)

	var ops []Operation
	for _, rp := range ordered {
		installed := findByName(t.installedPackages, rp.Package.Name())
		switch {
		case installed == nil:
			ops = append(ops, &Install{Pkg: rp.Package})
		case !installed.Version().Equal(rp.Package.Version()):
			ops = append(ops, &Update{From: installed, To: rp.Package})
		default:
			ops = append(ops, &Install{Pkg: rp.Package, SkipReason: "already installed"})
		}
	}

	if withUninstalls {
		for _, installed := range t.installedPackages {
			if findResult(t.resultPackages, installed.Name()) == nil &&
				installed.Name() != t.rootPackage.Name() {
				ops = append(ops, &Uninstall{Pkg: installed})
			}
		}
	}

	return ops
}

func sortByDepthDesc(rps []ResultPackage) {
	// Insertion sort keeps the engine's relative order among equal
	// depths, which the operation log relies on for stable output.
	for i := 1; i < len(rps); i++ {
		for j := i; j > 0 && rps[j].Depth > rps[j-1].Depth; j-- {
			rps[j], rps[j-1] = rps[j-1], rps[j]
		}
	}
}

func findByName(pkgs []*packages.Package, name string) *packages.Package {
	for _, p := range pkgs {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

func findResult(rps []ResultPackage, name string) *packages.Package {
	for _, rp := range rps {
		if rp.Package.Name() == name {
			return rp.Package
		}
	}
	return nil
}
