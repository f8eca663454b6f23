// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package repositories

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"

	"github.com/wraiser/poetry/packages"
)

var cacheBucket = []byte("packages")

// BoltCache is a read-through package metadata cache backed by a BoltDB
// file. It fronts a slower repository (typically one that would pay
// network or disk costs per lookup) and satisfies the Repository interface
// itself, so it can sit in a Pool like any other repository.
//
// Cached entries do not expire; the epoch passed at construction
// invalidates anything written before it.
type BoltCache struct {
	db     *bolt.DB
	epoch  int64
	source Repository
	logger *log.Logger
}

var _ Repository = (*BoltCache)(nil)

// NewBoltCache opens (creating if needed) the cache file at path, fronting
// source. logger may be nil for silence.
func NewBoltCache(path string, epoch int64, source Repository, logger *log.Logger) (*BoltCache, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open cache file %q", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cacheBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to initialize cache bucket")
	}

	return &BoltCache{db: db, epoch: epoch, source: source, logger: logger}, nil
}

// Close releases the underlying database file.
func (c *BoltCache) Close() error {
	return c.db.Close()
}

// cachedDep is the serialized form of a requirement.
type cachedDep struct {
	Name        string   `json:"name"`
	Features    []string `json:"features,omitempty"`
	Constraint  string   `json:"constraint"`
	Groups      []string `json:"groups,omitempty"`
	Optional    bool     `json:"optional,omitempty"`
	Prereleases bool     `json:"prereleases,omitempty"`
}

// cachedPkg is the serialized form of a package's metadata.
type cachedPkg struct {
	Name     string      `json:"name"`
	Version  string      `json:"version"`
	Features []string    `json:"features,omitempty"`
	Requires []cachedDep `json:"requires,omitempty"`
	Written  int64       `json:"written"`
}

type cachedName struct {
	Pkgs []cachedPkg `json:"pkgs"`
}

func (c *BoltCache) FindPackages(dep *packages.Dependency) []*packages.Package {
	if pkgs, ok := c.get(dep.Name()); ok {
		var out []*packages.Package
		for _, pkg := range pkgs {
			if pkg.CompleteName() == dep.CompleteName() && VersionAdmissible(dep, pkg.Version()) {
				out = append(out, pkg)
			}
		}
		return out
	}

	// Miss: pull the whole name from the backing source and persist it,
	// so subsequent constraint variations on the same name stay local.
	named := c.pullName(dep.Name())

	var out []*packages.Package
	for _, pkg := range named {
		if pkg.CompleteName() == dep.CompleteName() && VersionAdmissible(dep, pkg.Version()) {
			out = append(out, pkg)
		}
	}
	return out
}

func (c *BoltCache) Package(completeName string, version *packages.Version) *packages.Package {
	name := completeName
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}

	pkgs, ok := c.get(name)
	if !ok {
		pkgs = c.pullName(name)
	}
	for _, pkg := range pkgs {
		if pkg.CompleteName() == completeName && pkg.Version().Equal(version) {
			return pkg
		}
	}
	return nil
}

func (c *BoltCache) Has(pkg *packages.Package) bool {
	return c.Package(pkg.CompleteName(), pkg.Version()) != nil
}

// Packages enumerates the backing source, bypassing the cache; full
// enumeration has no per-name key to serve it from.
func (c *BoltCache) Packages() []*packages.Package {
	return c.source.Packages()
}

// pullName loads every package for name from the backing source and
// writes the group to the cache.
func (c *BoltCache) pullName(name string) []*packages.Package {
	probe := packages.NewDependency(name, packages.AnyConstraint, packages.AllowPrereleases())
	named := c.source.FindPackages(probe)

	// The probe carries no features, so feature variants ("name[extra]")
	// do not match it; collect them from the source by name.
	for _, pkg := range c.source.Packages() {
		if pkg.Name() == name && pkg.IsFeaturePackage() {
			named = append(named, pkg)
		}
	}

	if err := c.put(name, named); err != nil && c.logger != nil {
		c.logger.Printf("cache: failed to store %q: %s", name, err)
	}
	return named
}

func (c *BoltCache) get(name string) ([]*packages.Package, bool) {
	var raw []byte
	c.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(cacheBucket).Get([]byte(name)); v != nil {
			raw = make([]byte, len(v))
			copy(raw, v)
		}
		return nil
	})
	if raw == nil {
		return nil, false
	}

	var cn cachedName
	if err := json.Unmarshal(raw, &cn); err != nil {
		return nil, false
	}

	out := make([]*packages.Package, 0, len(cn.Pkgs))
	for _, cp := range cn.Pkgs {
		if cp.Written < c.epoch {
			return nil, false
		}
		pkg, err := decodePkg(cp)
		if err != nil {
			return nil, false
		}
		out = append(out, pkg)
	}
	return out, true
}

func (c *BoltCache) put(name string, pkgs []*packages.Package) error {
	now := time.Now().Unix()
	cn := cachedName{Pkgs: make([]cachedPkg, 0, len(pkgs))}
	for _, pkg := range pkgs {
		cn.Pkgs = append(cn.Pkgs, encodePkg(pkg, now))
	}

	raw, err := json.Marshal(cn)
	if err != nil {
		return errors.Wrap(err, "failed to encode cache entry")
	}

	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cacheBucket).Put([]byte(name), raw)
	})
}

func encodePkg(pkg *packages.Package, now int64) cachedPkg {
	cp := cachedPkg{
		Name:     pkg.Name(),
		Version:  pkg.Version().String(),
		Features: pkg.Features(),
		Written:  now,
	}
	for _, d := range pkg.Requires() {
		cd := cachedDep{
			Name:        d.Name(),
			Features:    d.Features(),
			Constraint:  d.Constraint().String(),
			Optional:    d.IsOptional(),
			Prereleases: d.AllowsPrereleases(),
		}
		for g := range d.Groups() {
			cd.Groups = append(cd.Groups, g)
		}
		cp.Requires = append(cp.Requires, cd)
	}
	return cp
}

func decodePkg(cp cachedPkg) (*packages.Package, error) {
	v, err := packages.NewVersion(cp.Version)
	if err != nil {
		return nil, err
	}
	pkg := packages.NewPackage(cp.Name, v, cp.Features...)

	for _, cd := range cp.Requires {
		con, err := packages.NewConstraint(cd.Constraint)
		if err != nil {
			return nil, err
		}
		opts := []packages.DependencyOption{}
		if len(cd.Groups) > 0 {
			opts = append(opts, packages.WithGroups(cd.Groups...))
		}
		if len(cd.Features) > 0 {
			opts = append(opts, packages.WithFeatures(cd.Features...))
		}
		if cd.Optional {
			opts = append(opts, packages.Optional())
		}
		if cd.Prereleases {
			opts = append(opts, packages.AllowPrereleases())
		}
		pkg.AddDependency(packages.NewDependency(cd.Name, con, opts...))
	}
	return pkg, nil
}
