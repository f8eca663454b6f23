// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package packages

import (
	"fmt"

	"deps.dev/util/semver"
)

// Constraint is set membership over versions, expressed in PEP440
// specifier syntax (">=1.0,<2.0", "==1.2.3", "*", ...).
type Constraint struct {
	text string
	c    *semver.Constraint
}

// AnyConstraint admits every stable version. As with any constraint,
// prerelease versions pass only through the dependency's prerelease opt-in
// (see Allows).
var AnyConstraint = mustConstraint("*")

// NewConstraint parses a PEP440 version specifier.
func NewConstraint(text string) (*Constraint, error) {
	c, err := semver.PyPI.ParseConstraint(text)
	if err != nil {
		return nil, fmt.Errorf("invalid constraint %q: %s", text, err)
	}
	return &Constraint{text: text, c: c}, nil
}

// MustConstraint is NewConstraint, panicking on bad input. For fixtures and
// statically-known strings only.
func MustConstraint(text string) *Constraint {
	return mustConstraint(text)
}

func mustConstraint(text string) *Constraint {
	c, err := NewConstraint(text)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Constraint) String() string {
	return c.text
}

// Allows reports whether v is a member of the constraint's version set.
// Prerelease versions are only admitted where the specifier itself names
// them; callers wanting the looser prerelease rule go through
// Dependency.AllowsPrereleases and the stable projection.
func (c *Constraint) Allows(v *Version) bool {
	return c.c.MatchVersion(v.Semver())
}

// IsAny reports whether the constraint is the match-anything specifier
// ("*" or empty).
func (c *Constraint) IsAny() bool {
	return c.text == "*" || c.text == ""
}

// Equal compares by specifier text. Two different spellings of the same
// version set are deliberately unequal, matching the equivalence used when
// deduplicating requirement lists.
func (c *Constraint) Equal(o *Constraint) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.text == o.text
}
