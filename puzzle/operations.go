// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package puzzle

import (
	"fmt"

	"github.com/wraiser/poetry/packages"
)

// Operation is one step of an install plan derived from a Transaction.
type Operation interface {
	JobType() string
	Skipped() bool
	fmt.Stringer
}

// Install adds a package that is not currently present.
type Install struct {
	Pkg        *packages.Package
	SkipReason string
}

func (o *Install) JobType() string { return "install" }

func (o *Install) Skipped() bool { return o.SkipReason != "" }

func (o *Install) String() string {
	if o.Skipped() {
		return fmt.Sprintf("install %s (skipped: %s)", o.Pkg, o.SkipReason)
	}
	return fmt.Sprintf("install %s", o.Pkg)
}

// Update replaces an installed version with the resolved one.
type Update struct {
	From *packages.Package
	To   *packages.Package
}

func (o *Update) JobType() string { return "update" }

func (o *Update) Skipped() bool { return false }

func (o *Update) String() string {
	return fmt.Sprintf("update %s -> %s", o.From, o.To)
}

// Uninstall removes an installed package that the resolved set no longer
// wants.
type Uninstall struct {
	Pkg *packages.Package
}

func (o *Uninstall) JobType() string { return "uninstall" }

func (o *Uninstall) Skipped() bool { return false }

func (o *Uninstall) String() string {
	return fmt.Sprintf("uninstall %s", o.Pkg)
}
