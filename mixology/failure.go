// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mixology

import (
	"bytes"
	"fmt"

	"github.com/wraiser/poetry/packages"
)

// SolveFailure is the terminal resolution error: no assignment of versions
// satisfies the constraint set. It wraps the conflict that exhausted the
// search.
type SolveFailure struct {
	Cause error
}

func (f *SolveFailure) Error() string {
	return fmt.Sprintf("version solving failed: %s", f.Cause)
}

func (f *SolveFailure) Unwrap() error {
	return f.Cause
}

// OverrideNeeded indicates that resolution cannot converge without pinning
// some packages; each map is one suggested set of pins to retry under.
type OverrideNeeded struct {
	Overrides []map[string]*packages.Dependency
}

func (o *OverrideNeeded) Error() string {
	return fmt.Sprintf("resolution requires %d override set(s)", len(o.Overrides))
}

type traceError interface {
	traceString() string
}

// failedVersion records one candidate version and why it was rejected.
type failedVersion struct {
	v *packages.Version
	f error
}

// noVersionFailure is returned when a dependency's candidate queue is
// exhausted without finding an admissible version.
type noVersionFailure struct {
	dep   *packages.Dependency
	fails []failedVersion
}

func (e *noVersionFailure) Error() string {
	if len(e.fails) == 0 {
		return fmt.Sprintf("no versions found for %s within %s", e.dep.CompleteName(), e.dep.Constraint())
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "no versions of %s met constraints:", e.dep.CompleteName())
	for _, f := range e.fails {
		fmt.Fprintf(&buf, "\n\t%s: %s", f.v, f.f.Error())
	}
	return buf.String()
}

func (e *noVersionFailure) traceString() string {
	if len(e.fails) == 0 {
		return "no versions found"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "no versions of %s met constraints:", e.dep.CompleteName())
	for _, f := range e.fails {
		if te, ok := f.f.(traceError); ok {
			fmt.Fprintf(&buf, "\n  %s: %s", f.v, te.traceString())
		} else {
			fmt.Fprintf(&buf, "\n  %s: %s", f.v, f.f.Error())
		}
	}
	return buf.String()
}

// constraintNotAllowedFailure indicates a requirement whose constraint does
// not admit the already-selected version of its target.
type constraintNotAllowedFailure struct {
	depender *packages.Package
	dep      *packages.Dependency
	selected *packages.Package
}

func (e *constraintNotAllowedFailure) Error() string {
	return fmt.Sprintf(
		"could not introduce %s, as it depends on %s with constraint %s, which does not allow the currently selected %s",
		e.depender, e.dep.CompleteName(), e.dep.Constraint(), e.selected,
	)
}

func (e *constraintNotAllowedFailure) traceString() string {
	return fmt.Sprintf(
		"%s depends on %s with %s, but that's already selected at %s",
		e.depender, e.dep.CompleteName(), e.dep.Constraint(), e.selected.Version(),
	)
}

// versionNotAllowedFailure indicates a candidate rejected by accumulated
// constraints from other dependers.
type versionNotAllowedFailure struct {
	goal       *packages.Package
	failparent []*depRecord
}

func (e *versionNotAllowedFailure) Error() string {
	if len(e.failparent) == 1 {
		return fmt.Sprintf(
			"could not introduce %s, as it is not allowed by constraint %s from %s",
			e.goal, e.failparent[0].dep.Constraint(), e.failparent[0].dependerName(),
		)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "could not introduce %s, as it is not allowed by constraints from the following packages:\n", e.goal)
	for _, f := range e.failparent {
		fmt.Fprintf(&buf, "\t%s from %s\n", f.dep.Constraint(), f.dependerName())
	}
	return buf.String()
}

func (e *versionNotAllowedFailure) traceString() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s not allowed:\n", e.goal)
	for _, f := range e.failparent {
		fmt.Fprintf(&buf, "  %s from %s\n", f.dep.Constraint(), f.dependerName())
	}
	return buf.String()
}

// depRecord ties a requirement to the package that declared it; the root
// project is represented by a nil depender.
type depRecord struct {
	depender *packages.Package
	dep      *packages.Dependency
}

func (r *depRecord) dependerName() string {
	if r.depender == nil {
		return "(root)"
	}
	return r.depender.String()
}
