// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package packages

// DependencyPackage pairs a dependency with the package resolved for it.
// The locked set handed to the engine is a map of name to these.
type DependencyPackage struct {
	Dep     *Dependency
	Package *Package
}

func NewDependencyPackage(dep *Dependency, pkg *Package) *DependencyPackage {
	return &DependencyPackage{Dep: dep, Package: pkg}
}

func (dp *DependencyPackage) Name() string { return dp.Package.Name() }

func (dp *DependencyPackage) Version() *Version { return dp.Package.Version() }

// WithDep rebinds the pairing to a different originating dependency,
// keeping the resolved package.
func (dp *DependencyPackage) WithDep(dep *Dependency) *DependencyPackage {
	return &DependencyPackage{Dep: dep, Package: dp.Package}
}

func (dp *DependencyPackage) String() string {
	return dp.Package.String()
}
