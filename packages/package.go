// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package packages

import (
	"fmt"
	"strings"
)

// Category classification values written by the resolution post-pass.
const (
	CategoryMain = "main"
	CategoryDev  = "dev"
)

// Package is a named, versioned artifact. Feature variants of the same
// artifact ("pkg[extra]") are distinct Package values sharing a name and
// version but differing in complete name.
//
// Category and Optional are outputs: the solver's aggregation pass writes
// them once the package's position in the resolved graph is known.
type Package struct {
	name     string
	version  *Version
	features []string

	requires    []*Dependency
	devRequires []*Dependency

	Category string
	Optional bool
}

// NewPackage builds a package with the given (lowercased) name and version.
func NewPackage(name string, version *Version, features ...string) *Package {
	return &Package{
		name:     strings.ToLower(name),
		version:  version,
		features: normalizeFeatures(features),
		Category: CategoryMain,
	}
}

func (p *Package) Name() string { return p.name }

// CompleteName is the name plus any feature qualifier.
func (p *Package) CompleteName() string {
	return completeName(p.name, p.features)
}

func (p *Package) Version() *Version { return p.version }

func (p *Package) Features() []string { return p.features }

// IsFeaturePackage reports whether this is a feature variant rather than a
// base package.
func (p *Package) IsFeaturePackage() bool {
	return len(p.features) > 0
}

// Requires returns the production requirement list. The solver's feature
// merge appends to it through AddDependency.
func (p *Package) Requires() []*Dependency { return p.requires }

// DevRequires returns requirements declared in non-default groups. Only
// the root project carries any in practice.
func (p *Package) DevRequires() []*Dependency { return p.devRequires }

// AllRequires is the full requirement list across every group.
func (p *Package) AllRequires() []*Dependency {
	if len(p.devRequires) == 0 {
		return p.requires
	}
	all := make([]*Dependency, 0, len(p.requires)+len(p.devRequires))
	all = append(all, p.requires...)
	all = append(all, p.devRequires...)
	return all
}

// AddDependency appends to the requirement list for the dependency's
// groups. It does not deduplicate; callers check HasDependency first where
// that matters.
func (p *Package) AddDependency(dep *Dependency) {
	if dep.InGroup(MainGroup) {
		p.requires = append(p.requires, dep)
	} else {
		p.devRequires = append(p.devRequires, dep)
	}
}

// HasDependency reports whether an equal dependency is already declared in
// the production requirement list.
func (p *Package) HasDependency(dep *Dependency) bool {
	for _, d := range p.requires {
		if d.Equal(dep) {
			return true
		}
	}
	return false
}

// IsSamePackageAs reports identity equivalence: same name and features.
func (p *Package) IsSamePackageAs(other *Package) bool {
	return p.CompleteName() == other.CompleteName()
}

// Equal is the equivalence used by the override merge: same identity at
// the same version.
func (p *Package) Equal(other *Package) bool {
	return p.CompleteName() == other.CompleteName() &&
		p.version.Equal(other.version)
}

// ToDependency projects the package to an exact pin on itself, preserving
// its feature set.
func (p *Package) ToDependency() *Dependency {
	c := MustConstraint("==" + p.version.String())
	opts := []DependencyOption{}
	if len(p.features) > 0 {
		opts = append(opts, WithFeatures(p.features...))
	}
	return NewDependency(p.name, c, opts...)
}

func (p *Package) String() string {
	return fmt.Sprintf("%s@%s", p.CompleteName(), p.version)
}
