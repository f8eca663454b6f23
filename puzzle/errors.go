// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package puzzle

import (
	"github.com/wraiser/poetry/mixology"
)

// SolverProblemError is the one user-visible resolution failure: it wraps
// the engine's SolveFailure and carries its diagnostic.
type SolverProblemError struct {
	Failure *mixology.SolveFailure
}

func (e *SolverProblemError) Error() string {
	return e.Failure.Error()
}

func (e *SolverProblemError) Unwrap() error {
	return e.Failure
}
