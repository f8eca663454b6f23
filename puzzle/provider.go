// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package puzzle

import (
	"log"
	"sort"
	"strings"

	"github.com/wraiser/poetry/mixology"
	"github.com/wraiser/poetry/packages"
	"github.com/wraiser/poetry/repositories"
)

// Env is an opaque target-environment binding. Marker evaluation against
// it happens outside the resolution core; the core only scopes which
// environment is active.
type Env struct {
	Name string
}

// Provider serves the engine candidates out of a repository pool. It is
// exclusively owned by one Solver for the duration of a solve; SetOverrides
// mutates provider-global state.
type Provider struct {
	root *packages.Package
	pool repositories.Repository
	tl   *log.Logger

	overrides map[string]*packages.Dependency
	env       *Env
	progress  bool
}

var _ mixology.Provider = (*Provider)(nil)

// NewProvider builds a provider over pool. traceLogger may be nil for
// silence.
func NewProvider(root *packages.Package, pool repositories.Repository, traceLogger *log.Logger) *Provider {
	return &Provider{root: root, pool: pool, tl: traceLogger}
}

// SearchFor enumerates candidates for dep, newest first. An active
// override for the dependency's name replaces the requirement before the
// pool is consulted.
func (p *Provider) SearchFor(dep *packages.Dependency) []*packages.DependencyPackage {
	if ov, ok := p.overrides[dep.Name()]; ok {
		dep = ov
	}

	pkgs := p.pool.FindPackages(dep)
	sort.SliceStable(pkgs, func(i, j int) bool {
		return pkgs[i].Version().Compare(pkgs[j].Version()) > 0
	})

	out := make([]*packages.DependencyPackage, len(pkgs))
	for i, pkg := range pkgs {
		out[i] = packages.NewDependencyPackage(dep, pkg)
	}
	return out
}

// Complete returns the candidate with its full requirement list. Pool
// repositories serve complete metadata, so this is the identity; it stays
// on the interface because providers backed by lazier sources are not.
func (p *Provider) Complete(dp *packages.DependencyPackage) (*packages.DependencyPackage, error) {
	return dp, nil
}

// SetOverrides pins the given packages for subsequent searches.
func (p *Provider) SetOverrides(overrides map[string]*packages.Dependency) {
	p.overrides = overrides
}

// Overrides reports the currently active override set.
func (p *Provider) Overrides() map[string]*packages.Dependency {
	return p.overrides
}

// Progress opens the provider's progress scope. The returned release
// function must run on every exit path.
func (p *Provider) Progress() func() {
	p.progress = true
	p.Debug("resolving dependencies...")
	return func() {
		p.progress = false
	}
}

// UseEnvironment binds the provider to a target environment for the
// duration of the scope; the returned release restores the previous
// binding.
func (p *Provider) UseEnvironment(env *Env) func() {
	prev := p.env
	p.env = env
	return func() {
		p.env = prev
	}
}

// Environment returns the active binding, nil outside any scope.
func (p *Provider) Environment() *Env {
	return p.env
}

// Debug emits one trace line through the injected logger.
func (p *Provider) Debug(message string) {
	if p.tl == nil {
		return
	}
	for _, line := range strings.Split(strings.TrimSuffix(message, "\n"), "\n") {
		p.tl.Printf("| %s\n", line)
	}
}
