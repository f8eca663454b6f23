// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mixology

import (
	"errors"
	"fmt"

	"github.com/wraiser/poetry/packages"
)

// Result is a successful resolution: one concrete package per complete
// name, covering the root's transitive requirements.
type Result struct {
	root     *packages.Package
	pkgs     []*packages.Package
	attempts int
}

// Packages returns the resolved set in selection order. The root package
// itself is not included.
func (r *Result) Packages() []*packages.Package {
	return r.pkgs
}

// Attempts reports how many times the solver advanced past a failed
// candidate before converging.
func (r *Result) Attempts() int {
	return r.attempts
}

// ResolveVersion computes a consistent version assignment for root's
// requirement closure.
//
// locked maps package name to the previously-locked choice; locked
// versions are tried before any other candidate unless the name appears in
// useLatest. The error is *OverrideNeeded when the provider reports that
// resolution cannot converge without pins, *SolveFailure when the
// constraint set is unsatisfiable.
func ResolveVersion(root *packages.Package, provider Provider, locked map[string]*packages.DependencyPackage, useLatest []string) (*Result, error) {
	s := &solverState{
		root:     root,
		provider: provider,
		locked:   locked,
		latest:   make(map[string]bool, len(useLatest)),
		selIdx:   make(map[string]*packages.DependencyPackage),
		deps:     make(map[string][]*depRecord),
	}
	for _, name := range useLatest {
		s.latest[name] = true
	}

	queue := make([]*depRecord, 0, len(root.AllRequires()))
	for _, d := range root.AllRequires() {
		if d.Name() == root.Name() {
			continue
		}
		queue = append(queue, &depRecord{depender: nil, dep: d})
	}

	if err := s.solve(queue); err != nil {
		var on *OverrideNeeded
		if errors.As(err, &on) {
			return nil, on
		}
		return nil, &SolveFailure{Cause: err}
	}

	pkgs := make([]*packages.Package, len(s.sel))
	for i, dp := range s.sel {
		pkgs[i] = dp.Package
	}

	provider.Debug(fmt.Sprintf("version solving done after %d attempts, %d packages", s.attempts, len(pkgs)))
	return &Result{root: root, pkgs: pkgs, attempts: s.attempts}, nil
}

type solverState struct {
	root     *packages.Package
	provider Provider
	locked   map[string]*packages.DependencyPackage
	latest   map[string]bool

	// Selection stack: candidates that passed every check so far, in the
	// order they were admitted. selIdx keys by complete name.
	sel    []*packages.DependencyPackage
	selIdx map[string]*packages.DependencyPackage

	// Accumulated requirements per complete name, used to vet candidates
	// and to report who rejected one.
	deps map[string][]*depRecord

	attempts int
}

// solve processes the work queue depth first. On return with a non-nil
// error, the state is exactly as it was on entry, so a caller can advance
// its own candidate queue and retry.
func (s *solverState) solve(queue []*depRecord) error {
	if len(queue) == 0 {
		return nil
	}

	rec := queue[0]
	rest := queue[1:]
	cn := rec.dep.CompleteName()

	s.pushDep(cn, rec)

	if selected, ok := s.selIdx[cn]; ok {
		// Name already pinned; the new requirement either tolerates the
		// pinned version or the whole branch is dead.
		if admissible(rec.dep, selected.Version()) {
			if err := s.solve(rest); err != nil {
				s.popDep(cn)
				return err
			}
			return nil
		}
		s.popDep(cn)
		return &constraintNotAllowedFailure{
			depender: rec.depender,
			dep:      rec.dep,
			selected: selected.Package,
		}
	}

	vq := newVersionQueue(rec.dep, s.lockedFor(rec.dep), s.provider)

	for !vq.isExhausted() {
		cand := vq.current()

		if fail := s.vetCandidate(cn, cand); fail != nil {
			vq.advance(fail)
			continue
		}

		completed, err := s.provider.Complete(cand)
		if err != nil {
			var on *OverrideNeeded
			if errors.As(err, &on) {
				// Not recoverable at this level; the retry loop above
				// the engine owns override handling.
				s.popDep(cn)
				return on
			}
			vq.advance(err)
			continue
		}

		s.selectCandidate(cn, completed)

		next := s.childRecords(completed)
		next = append(next, rest...)

		err = s.solve(next)
		if err == nil {
			return nil
		}

		var on *OverrideNeeded
		if errors.As(err, &on) {
			s.unselectCandidate(cn)
			s.popDep(cn)
			return on
		}

		// The candidate led to a dead end somewhere below; back out and
		// try the next version.
		s.unselectCandidate(cn)
		s.attempts++
		vq.advance(err)
	}

	s.popDep(cn)
	return &noVersionFailure{dep: rec.dep, fails: vq.fails}
}

// vetCandidate checks a candidate against every requirement accumulated
// for its complete name, returning the rejection when one disallows it.
func (s *solverState) vetCandidate(cn string, cand *packages.DependencyPackage) error {
	var failparent []*depRecord
	for _, rec := range s.deps[cn] {
		if !admissible(rec.dep, cand.Version()) {
			failparent = append(failparent, rec)
		}
	}
	if len(failparent) == 0 {
		return nil
	}
	return &versionNotAllowedFailure{goal: cand.Package, failparent: failparent}
}

func (s *solverState) selectCandidate(cn string, dp *packages.DependencyPackage) {
	s.sel = append(s.sel, dp)
	s.selIdx[cn] = dp
}

func (s *solverState) unselectCandidate(cn string) {
	s.sel = s.sel[:len(s.sel)-1]
	delete(s.selIdx, cn)
}

// childRecords expands a selected candidate into the requirements it
// introduces. Requirements naming the root are elided; the root is not a
// solvable unit.
func (s *solverState) childRecords(dp *packages.DependencyPackage) []*depRecord {
	reqs := dp.Package.Requires()
	out := make([]*depRecord, 0, len(reqs))
	for _, d := range reqs {
		if d.Name() == s.root.Name() {
			continue
		}
		out = append(out, &depRecord{depender: dp.Package, dep: d})
	}
	return out
}

func (s *solverState) pushDep(cn string, rec *depRecord) {
	s.deps[cn] = append(s.deps[cn], rec)
}

func (s *solverState) popDep(cn string) {
	ds := s.deps[cn]
	s.deps[cn] = ds[:len(ds)-1]
}

// lockedFor returns the locked choice applicable to dep: same name, same
// feature set, not marked for re-resolution.
func (s *solverState) lockedFor(dep *packages.Dependency) *packages.DependencyPackage {
	if s.latest[dep.Name()] {
		return nil
	}
	lp, ok := s.locked[dep.Name()]
	if !ok || lp.Package.CompleteName() != dep.CompleteName() {
		return nil
	}
	return lp
}

// admissible applies the shared candidate predicate: the constraint allows
// the version, or prereleases are allowed and the stable projection is.
func admissible(dep *packages.Dependency, v *packages.Version) bool {
	if dep.Constraint().Allows(v) {
		return true
	}
	return dep.AllowsPrereleases() && v.IsUnstable() && dep.Constraint().Allows(v.Stable())
}
