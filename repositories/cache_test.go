// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package repositories

import (
	"path/filepath"
	"testing"

	"github.com/wraiser/poetry/packages"
)

// countingRepo wraps a repository and counts FindPackages calls, to
// observe whether the cache actually absorbs lookups.
type countingRepo struct {
	*InMemoryRepository
	finds int
}

func (c *countingRepo) FindPackages(dep *packages.Dependency) []*packages.Package {
	c.finds++
	return c.InMemoryRepository.FindPackages(dep)
}

func TestBoltCacheReadThrough(t *testing.T) {
	src := &countingRepo{InMemoryRepository: NewRepository(
		pkg("x", "1.0.0"),
		pkg("x", "1.5.0"),
	)}

	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := NewBoltCache(path, 0, src, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	got := c.FindPackages(dep("x", ">=1.0"))
	if len(got) != 2 {
		t.Fatalf("first lookup returned %d candidates, want 2", len(got))
	}
	if src.finds != 1 {
		t.Fatalf("backing source consulted %d times, want 1", src.finds)
	}

	// Second lookup, different constraint, same name: served from the
	// cached name group.
	got = c.FindPackages(dep("x", ">=1.2"))
	if len(got) != 1 || got[0].Version().String() != "1.5.0" {
		t.Fatalf("cached lookup returned %v", versionsOf(got))
	}
	if src.finds != 1 {
		t.Errorf("backing source consulted %d times after caching, want 1", src.finds)
	}
}

func TestBoltCachePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	src := &countingRepo{InMemoryRepository: NewRepository(pkg("x", "1.0.0"))}
	c, err := NewBoltCache(path, 0, src, nil)
	if err != nil {
		t.Fatal(err)
	}
	c.FindPackages(dep("x", ">=1.0"))
	c.Close()

	// Reopen over an empty source; the entry must come from disk.
	c, err = NewBoltCache(path, 0, NewRepository(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	got := c.FindPackages(dep("x", ">=1.0"))
	if len(got) != 1 || got[0].Version().String() != "1.0.0" {
		t.Fatalf("reopened cache returned %v", versionsOf(got))
	}
}

func TestBoltCacheRoundTripsRequirements(t *testing.T) {
	rich := pkg("x", "1.0.0")
	rich.AddDependency(dep("y", ">=2.0", packages.Optional(), packages.AllowPrereleases()))
	src := NewRepository(rich)

	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := NewBoltCache(path, 0, src, nil)
	if err != nil {
		t.Fatal(err)
	}
	c.FindPackages(dep("x", ">=1.0"))
	c.Close()

	c, err = NewBoltCache(path, 0, NewRepository(), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	got := c.FindPackages(dep("x", ">=1.0"))
	if len(got) != 1 {
		t.Fatalf("lookup returned %d candidates, want 1", len(got))
	}
	reqs := got[0].Requires()
	if len(reqs) != 1 {
		t.Fatalf("requirements lost in round trip: %v", reqs)
	}
	if !reqs[0].IsOptional() || !reqs[0].AllowsPrereleases() {
		t.Errorf("requirement flags lost in round trip: %s", reqs[0])
	}
}

func TestBoltCacheEpochInvalidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	src := &countingRepo{InMemoryRepository: NewRepository(pkg("x", "1.0.0"))}
	c, err := NewBoltCache(path, 0, src, nil)
	if err != nil {
		t.Fatal(err)
	}
	c.FindPackages(dep("x", ">=1.0"))
	c.Close()

	// An epoch far in the future rejects everything on disk.
	fresh := &countingRepo{InMemoryRepository: NewRepository(pkg("x", "1.0.0"))}
	c, err = NewBoltCache(path, 1<<62, fresh, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	c.FindPackages(dep("x", ">=1.0"))
	if fresh.finds != 1 {
		t.Errorf("stale entry served despite epoch: source consulted %d times", fresh.finds)
	}
}
