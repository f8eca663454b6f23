// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package repositories

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wraiser/poetry/packages"
)

func pkg(name, version string) *packages.Package {
	return packages.NewPackage(name, packages.MustVersion(version))
}

func dep(name, constraint string, opts ...packages.DependencyOption) *packages.Dependency {
	return packages.NewDependency(name, packages.MustConstraint(constraint), opts...)
}

func versionsOf(pkgs []*packages.Package) []string {
	out := make([]string, len(pkgs))
	for i, p := range pkgs {
		out[i] = p.Version().String()
	}
	return out
}

func TestFindPackagesFiltersByConstraint(t *testing.T) {
	r := NewRepository(
		pkg("x", "0.9.0"),
		pkg("x", "1.2.0"),
		pkg("x", "1.8.0"),
		pkg("x", "2.0.0"),
		pkg("y", "1.2.0"),
	)

	got := versionsOf(r.FindPackages(dep("x", ">=1.0,<2.0")))
	if diff := cmp.Diff([]string{"1.2.0", "1.8.0"}, got); diff != "" {
		t.Errorf("unexpected candidates (-want +got):\n%s", diff)
	}
}

func TestFindPackagesPrereleaseRule(t *testing.T) {
	r := NewRepository(
		pkg("x", "1.2.0"),
		pkg("x", "1.9.0b1"),
	)

	got := versionsOf(r.FindPackages(dep("x", ">=1.0,<2.0")))
	if diff := cmp.Diff([]string{"1.2.0"}, got); diff != "" {
		t.Errorf("without opt-in (-want +got):\n%s", diff)
	}

	got = versionsOf(r.FindPackages(dep("x", ">=1.0,<2.0", packages.AllowPrereleases())))
	if diff := cmp.Diff([]string{"1.2.0", "1.9.0b1"}, got); diff != "" {
		t.Errorf("with opt-in (-want +got):\n%s", diff)
	}
}

func TestFindPackagesFeatureIdentity(t *testing.T) {
	base := pkg("x", "1.0.0")
	feat := packages.NewPackage("x", packages.MustVersion("1.0.0"), "extra")
	r := NewRepository(base, feat)

	got := r.FindPackages(dep("x", ">=1.0"))
	if len(got) != 1 || got[0] != base {
		t.Fatalf("plain dependency matched %d packages, want the base only", len(got))
	}

	got = r.FindPackages(dep("x", ">=1.0", packages.WithFeatures("extra")))
	if len(got) != 1 || got[0] != feat {
		t.Fatalf("feature dependency matched %d packages, want the variant only", len(got))
	}
}

func TestRepositoryExactLookup(t *testing.T) {
	a := pkg("a", "1.0.0")
	r := NewRepository(a, pkg("a", "2.0.0"))

	if got := r.Package("a", packages.MustVersion("1.0.0")); got != a {
		t.Errorf("exact lookup returned %v", got)
	}
	if got := r.Package("a", packages.MustVersion("3.0.0")); got != nil {
		t.Errorf("missing version returned %v", got)
	}
	if !r.Has(a) {
		t.Errorf("Has(a) = false")
	}
}

func TestPoolOrderAndUnion(t *testing.T) {
	first := NewRepository(pkg("x", "1.0.0"))
	second := NewRepository(pkg("x", "1.5.0"), pkg("y", "1.0.0"))
	p := NewPool(first, second)

	got := versionsOf(p.FindPackages(dep("x", ">=1.0")))
	if diff := cmp.Diff([]string{"1.0.0", "1.5.0"}, got); diff != "" {
		t.Errorf("pool union (-want +got):\n%s", diff)
	}

	if p.Package("y", packages.MustVersion("1.0.0")) == nil {
		t.Errorf("pool exact lookup missed the second repository")
	}
	if len(p.Packages()) != 3 {
		t.Errorf("pool enumerates %d packages, want 3", len(p.Packages()))
	}
}
