// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package poetry wires a project manifest to the resolution core: it reads
// the manifest into a root package whose requirement groups feed the
// puzzle solver.
package poetry

import (
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/wraiser/poetry/packages"
)

// ManifestName is the file the project root is read from.
const ManifestName = "poetry.toml"

// ReadManifestFile loads the manifest at path on fs and builds the root
// package.
func ReadManifestFile(fs afero.Fs, path string) (*packages.Package, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read manifest %s", path)
	}
	return ReadManifest(raw)
}

// ReadManifest builds the root package from raw manifest bytes.
//
// The manifest names the project and declares its requirement groups:
//
//	[package]
//	name = "my-service"
//	version = "1.2.0"
//
//	[dependencies]
//	requests = ">=2.0,<3.0"
//	redis = { version = ">=4.0", optional = true, features = ["hiredis"] }
//
//	[group.dev.dependencies]
//	pytest = ">=6.0"
func ReadManifest(raw []byte) (*packages.Package, error) {
	tree, err := toml.LoadBytes(raw)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse manifest")
	}

	name, ok := tree.Get("package.name").(string)
	if !ok || name == "" {
		return nil, errors.New("manifest must declare package.name")
	}
	versionStr, ok := tree.Get("package.version").(string)
	if !ok || versionStr == "" {
		return nil, errors.New("manifest must declare package.version")
	}
	version, err := packages.NewVersion(versionStr)
	if err != nil {
		return nil, errors.Wrap(err, "invalid package.version")
	}

	root := packages.NewPackage(name, version)

	if deps, ok := tree.Get("dependencies").(*toml.Tree); ok {
		if err := readGroup(root, deps, packages.MainGroup); err != nil {
			return nil, err
		}
	}

	if groups, ok := tree.Get("group").(*toml.Tree); ok {
		for _, group := range groups.Keys() {
			sub, ok := groups.Get(group).(*toml.Tree)
			if !ok {
				continue
			}
			deps, ok := sub.Get("dependencies").(*toml.Tree)
			if !ok {
				continue
			}
			if err := readGroup(root, deps, group); err != nil {
				return nil, err
			}
		}
	}

	return root, nil
}

func readGroup(root *packages.Package, deps *toml.Tree, group string) error {
	for _, depName := range deps.Keys() {
		dep, err := readDependency(depName, deps.Get(depName), group)
		if err != nil {
			return err
		}
		root.AddDependency(dep)
	}
	return nil
}

// readDependency interprets one manifest entry, either the shorthand
// constraint string or the long table form.
func readDependency(name string, entry interface{}, group string) (*packages.Dependency, error) {
	opts := []packages.DependencyOption{}
	if group != packages.MainGroup {
		opts = append(opts, packages.WithGroups(group))
	}

	switch v := entry.(type) {
	case string:
		constraint, err := packages.NewConstraint(v)
		if err != nil {
			return nil, errors.Wrapf(err, "dependency %s", name)
		}
		return packages.NewDependency(name, constraint, opts...), nil

	case *toml.Tree:
		versionStr, ok := v.Get("version").(string)
		if !ok || versionStr == "" {
			return nil, errors.Errorf("dependency %s must declare a version constraint", name)
		}
		constraint, err := packages.NewConstraint(versionStr)
		if err != nil {
			return nil, errors.Wrapf(err, "dependency %s", name)
		}

		if optional, ok := v.Get("optional").(bool); ok && optional {
			opts = append(opts, packages.Optional())
		}
		if pre, ok := v.Get("prereleases").(bool); ok && pre {
			opts = append(opts, packages.AllowPrereleases())
		}
		if raw, ok := v.Get("features").([]interface{}); ok {
			features := make([]string, 0, len(raw))
			for _, f := range raw {
				if fs, ok := f.(string); ok {
					features = append(features, fs)
				}
			}
			if len(features) > 0 {
				opts = append(opts, packages.WithFeatures(features...))
			}
		}
		if source, ok := v.Get("source").(string); ok && source != "" {
			opts = append(opts, packages.WithSource(sourceKind(v), source, stringOr(v, "reference")))
		}

		return packages.NewDependency(name, constraint, opts...), nil

	default:
		return nil, errors.Errorf("dependency %s has an unsupported declaration form", name)
	}
}

func sourceKind(t *toml.Tree) packages.SourceKind {
	switch stringOr(t, "kind") {
	case "directory":
		return packages.SourceDirectory
	case "file":
		return packages.SourceFile
	case "url":
		return packages.SourceURL
	case "vcs", "git":
		return packages.SourceVCS
	default:
		return packages.SourceRegistry
	}
}

func stringOr(t *toml.Tree, key string) string {
	if s, ok := t.Get(key).(string); ok {
		return s
	}
	return ""
}
