// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package packages

import (
	"testing"
)

func TestDependencyCompleteName(t *testing.T) {
	d := NewDependency("Requests", MustConstraint(">=2.0"))
	if d.Name() != "requests" || d.CompleteName() != "requests" {
		t.Errorf("plain dependency: name=%s complete=%s", d.Name(), d.CompleteName())
	}

	d = NewDependency("pkg", MustConstraint(">=1.0"), WithFeatures("Zoo", "alpha"))
	if d.CompleteName() != "pkg[alpha,zoo]" {
		t.Errorf("feature qualifier = %s, want pkg[alpha,zoo] (lowercased, sorted)", d.CompleteName())
	}
}

func TestDependencyGroupsDefault(t *testing.T) {
	d := NewDependency("x", MustConstraint("*"))
	if !d.InGroup(MainGroup) {
		t.Errorf("default-constructed dependency not in the default group")
	}

	d = NewDependency("x", MustConstraint("*"), WithGroups("dev"))
	if d.InGroup(MainGroup) || !d.InGroup("dev") {
		t.Errorf("WithGroups did not replace the group set: %v", d.Groups())
	}
}

func TestDependencySameness(t *testing.T) {
	a := NewDependency("pkg", MustConstraint(">=1.0"))
	b := NewDependency("pkg", MustConstraint("<2.0"))
	if !a.IsSamePackageAs(b) {
		t.Errorf("same name, no features: should target the same package")
	}
	if a.Equal(b) {
		t.Errorf("different constraints should not be Equal")
	}

	c := NewDependency("pkg", MustConstraint(">=1.0"), WithFeatures("extra"))
	if a.IsSamePackageAs(c) {
		t.Errorf("feature variant should be a different package identity")
	}
}

func TestPackageToDependency(t *testing.T) {
	p := NewPackage("pkg", MustVersion("1.2.3"), "extra")
	d := p.ToDependency()

	if d.CompleteName() != "pkg[extra]" {
		t.Errorf("projection lost features: %s", d.CompleteName())
	}
	if !d.Constraint().Allows(MustVersion("1.2.3")) {
		t.Errorf("projection does not pin its own version")
	}
	if d.Constraint().Allows(MustVersion("1.2.4")) {
		t.Errorf("projection admits a foreign version")
	}
}

func TestPackageRequireRouting(t *testing.T) {
	p := NewPackage("root", MustVersion("1.0"))
	p.AddDependency(NewDependency("a", MustConstraint("*")))
	p.AddDependency(NewDependency("b", MustConstraint("*"), WithGroups("dev")))

	if len(p.Requires()) != 1 || len(p.DevRequires()) != 1 {
		t.Fatalf("requires=%d dev=%d, want 1/1", len(p.Requires()), len(p.DevRequires()))
	}
	if len(p.AllRequires()) != 2 {
		t.Errorf("AllRequires length = %d, want 2", len(p.AllRequires()))
	}
}

func TestPackageEquality(t *testing.T) {
	a := NewPackage("pkg", MustVersion("1.0.0"))
	b := NewPackage("pkg", MustVersion("1.0"))
	if !a.Equal(b) {
		t.Errorf("same identity and version should be Equal")
	}

	f := NewPackage("pkg", MustVersion("1.0.0"), "extra")
	if a.Equal(f) || a.IsSamePackageAs(f) {
		t.Errorf("feature variant conflated with base")
	}
	if !f.IsFeaturePackage() {
		t.Errorf("feature variant not flagged")
	}
}
