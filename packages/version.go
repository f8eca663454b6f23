// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package packages

import (
	"fmt"
	"regexp"
	"strings"

	"deps.dev/util/semver"
)

// Version is a single concrete PEP440 version. Ordering and constraint
// matching are delegated to the PyPI system of deps.dev/util/semver; the
// pre/post/dev segmentation needed for the stable projection is tracked
// here, since the underlying library does not export it.
type Version struct {
	text string
	v    *semver.Version

	pre   string // "a1", "rc2", ... empty if absent
	post  string // "post1", ... empty if absent
	dev   string // "dev3", ... empty if absent
	local string // "+local" suffix content, empty if absent
}

// The canonical PEP440 shape, case-insensitive, with the usual separator
// laxness. Groups: epoch, release, pre label+num, implicit post, post
// label+num, dev num, local.
var pep440Re = regexp.MustCompile(`(?i)^v?(?:(\d+)!)?(\d+(?:\.\d+)*)` +
	`(?:[-_.]?(a|b|c|rc|alpha|beta|pre|preview)[-_.]?(\d*))?` +
	`(?:(?:-(\d+))|(?:[-_.]?(post|rev|r)[-_.]?(\d*)))?` +
	`(?:[-_.]?(dev)[-_.]?(\d*))?` +
	`(?:\+([a-z0-9]+(?:[-_.][a-z0-9]+)*))?$`)

// NewVersion parses a PEP440 version string.
func NewVersion(text string) (*Version, error) {
	text = strings.TrimSpace(text)
	v, err := semver.PyPI.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %s", text, err)
	}

	ver := &Version{text: text, v: v}

	m := pep440Re.FindStringSubmatch(strings.ToLower(text))
	if m != nil {
		if m[3] != "" {
			ver.pre = m[3] + m[4]
		}
		if m[5] != "" {
			ver.post = "post" + m[5]
		} else if m[6] != "" {
			ver.post = "post" + m[7]
		}
		if m[8] != "" {
			ver.dev = "dev" + m[9]
		}
		ver.local = m[10]
	}

	return ver, nil
}

// MustVersion is NewVersion, panicking on bad input. For fixtures and
// statically-known strings only.
func MustVersion(text string) *Version {
	v, err := NewVersion(text)
	if err != nil {
		panic(err)
	}
	return v
}

func (v *Version) String() string {
	return v.text
}

// Semver exposes the parsed form for constraint matching.
func (v *Version) Semver() *semver.Version {
	return v.v
}

// Compare returns -1, 0 or 1 per PEP440 ordering.
func (v *Version) Compare(o *Version) int {
	return v.v.Compare(o.v)
}

func (v *Version) Equal(o *Version) bool {
	if v == nil || o == nil {
		return v == o
	}
	return v.Compare(o) == 0
}

// IsUnstable reports whether the version carries a pre-release or
// dev-release segment.
func (v *Version) IsUnstable() bool {
	return v.pre != "" || v.dev != ""
}

// Stable returns the stable projection of the version: pre, dev and local
// segments stripped, epoch, release and post segments kept. A version with
// no pre, dev or local segment projects to itself.
func (v *Version) Stable() *Version {
	if !v.IsUnstable() && v.local == "" {
		return v
	}

	m := pep440Re.FindStringSubmatch(strings.ToLower(v.text))
	if m == nil {
		return v
	}

	var b strings.Builder
	if m[1] != "" {
		fmt.Fprintf(&b, "%s!", m[1])
	}
	b.WriteString(m[2])
	if m[5] != "" {
		fmt.Fprintf(&b, ".post%s", m[5])
	} else if m[6] != "" {
		fmt.Fprintf(&b, ".post%s", m[7])
	}

	sv, err := NewVersion(b.String())
	if err != nil {
		// The release segment of a version that parsed is itself a
		// valid version; getting here means the regexp and the parser
		// disagree, which is a bug.
		panic(fmt.Sprintf("stable projection of %q failed: %s", v.text, err))
	}
	return sv
}
