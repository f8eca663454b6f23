// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mixology

import (
	"fmt"
	"strings"

	"github.com/wraiser/poetry/packages"
)

// versionQueue walks the candidate versions for one dependency. The locked
// candidate, when present, goes first (the solver vets it against the
// accumulated constraints like any other candidate); the provider's
// newest-first enumeration follows.
type versionQueue struct {
	dep   *packages.Dependency
	pi    []*packages.DependencyPackage
	fails []failedVersion
}

func newVersionQueue(dep *packages.Dependency, locked *packages.DependencyPackage, provider Provider) *versionQueue {
	vq := &versionQueue{dep: dep}

	if locked != nil {
		vq.pi = append(vq.pi, locked.WithDep(dep))
	}

	for _, dp := range provider.SearchFor(dep) {
		if locked != nil && dp.Version().Equal(locked.Version()) {
			continue
		}
		vq.pi = append(vq.pi, dp)
	}

	return vq
}

func (vq *versionQueue) current() *packages.DependencyPackage {
	if len(vq.pi) > 0 {
		return vq.pi[0]
	}
	return nil
}

// advance pops the current candidate, recording the failure that
// eliminated it.
func (vq *versionQueue) advance(fail error) {
	if len(vq.pi) == 0 {
		return
	}
	vq.fails = append(vq.fails, failedVersion{v: vq.pi[0].Version(), f: fail})
	vq.pi = vq.pi[1:]
}

func (vq *versionQueue) isExhausted() bool {
	return len(vq.pi) == 0
}

func (vq *versionQueue) String() string {
	var vs []string
	for _, dp := range vq.pi {
		vs = append(vs, dp.Version().String())
	}
	return fmt.Sprintf("[%s]", strings.Join(vs, ", "))
}
