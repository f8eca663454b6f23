// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package repositories

import (
	"github.com/wraiser/poetry/packages"
)

// Pool is an ordered collection of repositories searched as one unit.
// Exact lookups stop at the first repository that has the entry; candidate
// searches union results in repository order.
type Pool struct {
	repos []Repository
}

var _ Repository = (*Pool)(nil)

func NewPool(repos ...Repository) *Pool {
	return &Pool{repos: repos}
}

// AddRepository appends a repository with lowest precedence.
func (p *Pool) AddRepository(r Repository) {
	p.repos = append(p.repos, r)
}

func (p *Pool) Repositories() []Repository {
	return p.repos
}

func (p *Pool) Packages() []*packages.Package {
	var out []*packages.Package
	for _, r := range p.repos {
		out = append(out, r.Packages()...)
	}
	return out
}

func (p *Pool) FindPackages(dep *packages.Dependency) []*packages.Package {
	var out []*packages.Package
	for _, r := range p.repos {
		out = append(out, r.FindPackages(dep)...)
	}
	return out
}

func (p *Pool) Package(completeName string, version *packages.Version) *packages.Package {
	for _, r := range p.repos {
		if pkg := r.Package(completeName, version); pkg != nil {
			return pkg
		}
	}
	return nil
}

func (p *Pool) Has(pkg *packages.Package) bool {
	for _, r := range p.repos {
		if r.Has(pkg) {
			return true
		}
	}
	return false
}
