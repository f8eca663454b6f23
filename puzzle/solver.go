// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package puzzle

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/wraiser/poetry/mixology"
	"github.com/wraiser/poetry/packages"
	"github.com/wraiser/poetry/repositories"
)

// SolverProvider is what the Solver needs from its provider: the engine's
// candidate surface plus override pinning and the two scoped acquisitions.
// *Provider implements it; tests substitute their own.
type SolverProvider interface {
	mixology.Provider

	SetOverrides(map[string]*packages.Dependency)
	Overrides() map[string]*packages.Dependency
	Progress() func()
	UseEnvironment(env *Env) func()
}

// Solver is the resolution façade: it owns a Provider, drives the engine,
// retries under overrides when the engine asks for them, and post-processes
// the resolved set into a Transaction.
//
// A Solver is single-use state-wise only in that its override history
// accumulates across Solve calls; it is not safe for concurrent use.
type Solver struct {
	pkg       *packages.Package
	pool      repositories.Repository
	installed repositories.Repository
	locked    repositories.Repository

	provider  SolverProvider
	overrides []map[string]*packages.Dependency
}

// NewSolver readies a Solver. provider may be nil, in which case one is
// built over pool with the given trace logger.
func NewSolver(pkg *packages.Package, pool repositories.Repository, installed, locked repositories.Repository,
	traceLogger *log.Logger, provider SolverProvider) *Solver {

	if provider == nil {
		provider = NewProvider(pkg, pool, traceLogger)
	}

	return &Solver{
		pkg:       pkg,
		pool:      pool,
		installed: installed,
		locked:    locked,
		provider:  provider,
	}
}

func (s *Solver) Provider() SolverProvider {
	return s.provider
}

// UseEnvironment scopes the solver to a target environment. The returned
// release function restores the previous binding; callers defer it so the
// binding is released on every exit path.
func (s *Solver) UseEnvironment(env *Env) func() {
	return s.provider.UseEnvironment(env)
}

// Solve computes a Transaction for the root package. Names in useLatest
// bypass the locked repository and are resolved freshly.
func (s *Solver) Solve(useLatest []string) (*Transaction, error) {
	var pkgs []*packages.Package
	var depths []int

	err := func() error {
		defer s.provider.Progress()()

		start := time.Now()
		var err error
		pkgs, depths, err = s.solve(useLatest)
		if err != nil {
			return err
		}

		if len(s.overrides) > 1 {
			s.provider.Debug(fmt.Sprintf(
				"complete version solving took %.3f seconds with %d overrides",
				time.Since(start).Seconds(), len(s.overrides)))
			s.provider.Debug("resolved with overrides: " + formatOverrides(s.overrides))
		}
		return nil
	}()
	if err != nil {
		return nil, err
	}

	results := make([]ResultPackage, len(pkgs))
	for i, pkg := range pkgs {
		results[i] = ResultPackage{Package: pkg, Depth: depths[i]}
	}

	return NewTransaction(s.locked.Packages(), results, s.installed.Packages(), s.pkg), nil
}

// solveInCompatibilityMode re-runs the inner solve once per override set
// and merges the results: packages keep their first-appearance position,
// depths are promoted to the maximum observed, and requirement lists are
// unioned so the merged set is constraint-complete for every override.
func (s *Solver) solveInCompatibilityMode(overrides []map[string]*packages.Dependency, useLatest []string) ([]*packages.Package, []int, error) {
	var pkgs []*packages.Package
	var depths []int

	for _, override := range overrides {
		s.provider.Debug(fmt.Sprintf(
			"retrying dependency resolution with the following overrides (%s)",
			formatOverride(override)))
		s.provider.SetOverrides(override)

		newPkgs, newDepths, err := s.solve(useLatest)
		if err != nil {
			return nil, nil, err
		}

		for i, pkg := range newPkgs {
			idx := -1
			for j, existing := range pkgs {
				if existing.Equal(pkg) {
					idx = j
					break
				}
			}
			if idx < 0 {
				pkgs = append(pkgs, pkg)
				depths = append(depths, newDepths[i])
				continue
			}

			if newDepths[i] > depths[idx] {
				depths[idx] = newDepths[i]
			}
			for _, dep := range pkg.Requires() {
				if !pkgs[idx].HasDependency(dep) {
					pkgs[idx].AddDependency(dep)
				}
			}
		}
	}

	return pkgs, depths, nil
}

// solve is a single engine pass plus post-processing: DFS depth
// computation and folding of feature packages into their bases. The
// returned slices preserve the engine's package order.
func (s *Solver) solve(useLatest []string) ([]*packages.Package, []int, error) {
	if ov := s.provider.Overrides(); len(ov) > 0 {
		s.overrides = append(s.overrides, ov)
	}

	locked := make(map[string]*packages.DependencyPackage)
	for _, pkg := range s.locked.Packages() {
		locked[pkg.Name()] = packages.NewDependencyPackage(pkg.ToDependency(), pkg)
	}

	result, err := mixology.ResolveVersion(s.pkg, s.provider, locked, useLatest)
	if err != nil {
		var on *mixology.OverrideNeeded
		if errors.As(err, &on) {
			return s.solveInCompatibilityMode(on.Overrides, useLatest)
		}
		var sf *mixology.SolveFailure
		if errors.As(err, &sf) {
			return nil, nil, &SolverProblemError{Failure: sf}
		}
		return nil, nil, err
	}

	pkgs := result.Packages()

	// A fresh seen list per invocation, so repeated solves on one Solver
	// do not bleed traversal state into each other.
	results := depthFirstSearch(NewRootNode(s.pkg, pkgs), aggregatePackageNodes)
	depthOf := make(map[*packages.Package]int, len(results))
	for _, r := range results {
		depthOf[r.pkg] = r.depth
	}

	// Fold feature packages into their bases: the base of the same name
	// and version absorbs the feature's extra requirements, and the
	// feature variant itself is not emitted.
	var finalPkgs []*packages.Package
	var depths []int
	for _, pkg := range pkgs {
		if pkg.IsFeaturePackage() {
			for _, base := range pkgs {
				if base.Name() != pkg.Name() || base.IsSamePackageAs(pkg) ||
					!base.Version().Equal(pkg.Version()) {
					continue
				}
				for _, dep := range pkg.Requires() {
					if dep.IsSamePackage(base) {
						continue
					}
					if !base.HasDependency(dep) {
						base.AddDependency(dep)
					}
				}
			}
			continue
		}

		finalPkgs = append(finalPkgs, pkg)
		depths = append(depths, depthOf[pkg])
	}

	return finalPkgs, depths, nil
}

func formatOverrides(overrides []map[string]*packages.Dependency) string {
	parts := make([]string, len(overrides))
	for i, ov := range overrides {
		parts[i] = "(" + formatOverride(ov) + ")"
	}
	return strings.Join(parts, ", ")
}

func formatOverride(override map[string]*packages.Dependency) string {
	names := make([]string, 0, len(override))
	for name := range override {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %s", name, override[name])
	}
	return strings.Join(parts, ", ")
}
