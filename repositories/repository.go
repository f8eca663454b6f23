// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package repositories

import (
	"github.com/armon/go-radix"

	"github.com/wraiser/poetry/packages"
)

// A Repository enumerates candidate packages.
type Repository interface {
	// Packages returns every package, in insertion order.
	Packages() []*packages.Package

	// FindPackages returns the candidates admissible for dep: same
	// complete name, version allowed by the constraint either directly
	// or - when the dependency opts into prereleases - through the
	// stable projection of an unstable version.
	FindPackages(dep *packages.Dependency) []*packages.Package

	// Package returns the exact entry for a complete name and version,
	// or nil.
	Package(completeName string, version *packages.Version) *packages.Package

	Has(pkg *packages.Package) bool
}

// InMemoryRepository keeps its packages in memory, indexed by name through
// a radix tree so prefix scans stay cheap for large universes.
type InMemoryRepository struct {
	pkgs []*packages.Package
	idx  pkgTrie
}

var _ Repository = (*InMemoryRepository)(nil)

// NewRepository builds an in-memory repository from pkgs.
func NewRepository(pkgs ...*packages.Package) *InMemoryRepository {
	r := &InMemoryRepository{idx: newPkgTrie()}
	for _, p := range pkgs {
		r.Add(p)
	}
	return r
}

// Add registers a package. Duplicate (complete name, version) entries are
// kept; lookup order follows insertion order.
func (r *InMemoryRepository) Add(pkg *packages.Package) {
	r.pkgs = append(r.pkgs, pkg)
	cur, _ := r.idx.Get(pkg.Name())
	r.idx.Insert(pkg.Name(), append(cur, pkg))
}

func (r *InMemoryRepository) Packages() []*packages.Package {
	return r.pkgs
}

func (r *InMemoryRepository) FindPackages(dep *packages.Dependency) []*packages.Package {
	named, _ := r.idx.Get(dep.Name())

	var out []*packages.Package
	for _, pkg := range named {
		if pkg.CompleteName() != dep.CompleteName() {
			continue
		}
		if VersionAdmissible(dep, pkg.Version()) {
			out = append(out, pkg)
		}
	}
	return out
}

func (r *InMemoryRepository) Package(completeName string, version *packages.Version) *packages.Package {
	for _, pkg := range r.pkgs {
		if pkg.CompleteName() == completeName && pkg.Version().Equal(version) {
			return pkg
		}
	}
	return nil
}

func (r *InMemoryRepository) Has(pkg *packages.Package) bool {
	return r.Package(pkg.CompleteName(), pkg.Version()) != nil
}

// VersionAdmissible applies the candidate predicate shared by repositories
// and the resolved-graph traversal: the constraint allows the version
// outright, or the dependency allows prereleases, the version is unstable,
// and the constraint allows its stable projection.
func VersionAdmissible(dep *packages.Dependency, v *packages.Version) bool {
	if dep.Constraint().Allows(v) {
		return true
	}
	return dep.AllowsPrereleases() && v.IsUnstable() && dep.Constraint().Allows(v.Stable())
}

// pkgTrie is a typed wrapper over a radix tree holding package slices, so
// call sites never type assert.
type pkgTrie struct {
	t *radix.Tree
}

func newPkgTrie() pkgTrie {
	return pkgTrie{t: radix.New()}
}

func (t pkgTrie) Get(name string) ([]*packages.Package, bool) {
	if v, has := t.t.Get(name); has {
		return v.([]*packages.Package), true
	}
	return nil, false
}

func (t pkgTrie) Insert(name string, pkgs []*packages.Package) {
	t.t.Insert(name, pkgs)
}

func (t pkgTrie) Len() int {
	return t.t.Len()
}

// WalkPrefix visits every entry under a name prefix.
func (t pkgTrie) WalkPrefix(prefix string, fn func(name string, pkgs []*packages.Package) bool) {
	t.t.WalkPrefix(prefix, func(s string, v interface{}) bool {
		return fn(s, v.([]*packages.Package))
	})
}
