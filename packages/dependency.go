// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package packages

import (
	"sort"
	"strings"
)

// MainGroup is the distinguished dependency group marking production
// requirements.
const MainGroup = "default"

// SourceKind discriminates where a dependency's artifact comes from. The
// resolution core never branches on it; it exists so that directory, file,
// URL and VCS requirements flow through the same Dependency value with
// their provenance intact.
type SourceKind uint8

const (
	// SourceRegistry is the ordinary case: the package index.
	SourceRegistry SourceKind = iota
	SourceDirectory
	SourceFile
	SourceURL
	SourceVCS
)

// Dependency declares which versions of a named package satisfy a
// requirement, tagged with the groups that want it and whether it is
// optional (pulled in only through a feature).
type Dependency struct {
	name       string
	features   []string
	constraint *Constraint

	groups      map[string]struct{}
	optional    bool
	prereleases bool

	// Source provenance. Unused by resolution; carried for downstream
	// consumers.
	Kind      SourceKind
	Source    string
	Reference string
}

// DependencyOption mutates a Dependency under construction.
type DependencyOption func(*Dependency)

// WithGroups replaces the default group set.
func WithGroups(groups ...string) DependencyOption {
	return func(d *Dependency) {
		d.groups = make(map[string]struct{}, len(groups))
		for _, g := range groups {
			d.groups[g] = struct{}{}
		}
	}
}

// WithFeatures marks the dependency as targeting a feature variant of the
// package ("name[extra]").
func WithFeatures(features ...string) DependencyOption {
	return func(d *Dependency) {
		d.features = normalizeFeatures(features)
	}
}

// Optional marks the dependency as reachable only through a feature.
func Optional() DependencyOption {
	return func(d *Dependency) { d.optional = true }
}

// AllowPrereleases opts the dependency into unstable candidate versions.
func AllowPrereleases() DependencyOption {
	return func(d *Dependency) { d.prereleases = true }
}

// WithSource attaches provenance to the dependency.
func WithSource(kind SourceKind, source, reference string) DependencyOption {
	return func(d *Dependency) {
		d.Kind = kind
		d.Source = source
		d.Reference = reference
	}
}

// NewDependency builds a dependency on name within constraint. With no
// options it is a mandatory production requirement on the package index.
func NewDependency(name string, constraint *Constraint, opts ...DependencyOption) *Dependency {
	d := &Dependency{
		name:       strings.ToLower(name),
		constraint: constraint,
		groups:     map[string]struct{}{MainGroup: {}},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dependency) Name() string { return d.name }

// CompleteName is the name plus any feature qualifier, e.g. "pkg[extra]".
func (d *Dependency) CompleteName() string {
	return completeName(d.name, d.features)
}

func (d *Dependency) Features() []string { return d.features }

func (d *Dependency) Constraint() *Constraint { return d.constraint }

// Groups returns the group set. The returned map is the live set; callers
// must not mutate it.
func (d *Dependency) Groups() map[string]struct{} { return d.groups }

// InGroup reports membership in a single group.
func (d *Dependency) InGroup(group string) bool {
	_, ok := d.groups[group]
	return ok
}

func (d *Dependency) IsOptional() bool { return d.optional }

func (d *Dependency) AllowsPrereleases() bool { return d.prereleases }

// IsSamePackageAs reports whether other targets the same package identity:
// same name and same feature set.
func (d *Dependency) IsSamePackageAs(other *Dependency) bool {
	return d.CompleteName() == other.CompleteName()
}

// IsSamePackage reports whether the dependency targets pkg's identity.
func (d *Dependency) IsSamePackage(pkg *Package) bool {
	return d.CompleteName() == pkg.CompleteName()
}

// Equal is the equivalence used when deduplicating requirement lists:
// same complete name and same constraint spelling.
func (d *Dependency) Equal(other *Dependency) bool {
	return d.CompleteName() == other.CompleteName() &&
		d.constraint.Equal(other.constraint)
}

func (d *Dependency) String() string {
	return d.CompleteName() + " (" + d.constraint.String() + ")"
}

// GroupsKey is a canonical encoding of the group set, used where groups
// participate in map keys.
func (d *Dependency) GroupsKey() string {
	return groupsKey(d.groups)
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

func normalizeFeatures(features []string) []string {
	if len(features) == 0 {
		return nil
	}
	fs := make([]string, len(features))
	for i, f := range features {
		fs[i] = strings.ToLower(f)
	}
	sort.Strings(fs)
	return fs
}

func completeName(name string, features []string) string {
	if len(features) == 0 {
		return name
	}
	return name + "[" + strings.Join(features, ",") + "]"
}
