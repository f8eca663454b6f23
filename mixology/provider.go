// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mixology performs version resolution: given a root package and a
// provider of candidates, it selects one concrete version per package name
// such that every requirement constraint is satisfied, backtracking through
// conflicts.
package mixology

import (
	"github.com/wraiser/poetry/packages"
)

// Provider is the engine's window onto the package universe. One Provider
// is exclusively owned by one resolution at a time; implementations need
// not be safe for concurrent use.
type Provider interface {
	// SearchFor enumerates the candidates admissible for dep, newest
	// first. Prerelease versions appear only when the dependency opts in.
	SearchFor(dep *packages.Dependency) []*packages.DependencyPackage

	// Complete fills in the full requirement list of a candidate. It may
	// fail with *OverrideNeeded when the candidate's requirements cannot
	// be reconciled without pinning, in which case the error carries the
	// suggested override maps.
	Complete(dp *packages.DependencyPackage) (*packages.DependencyPackage, error)

	// Debug emits a diagnostic line.
	Debug(message string)
}
