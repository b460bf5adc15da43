/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package atpkg

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/go-version"

	"bennypowers.dev/atpkg/value"
)

// VersioningMethod says how an external dependency pins its revision.
type VersioningMethod int

const (
	// VersionList pins to tags matching a list of version constraints.
	VersionList VersioningMethod = iota
	// Commit pins to a commit hash.
	Commit
	// Branch tracks a branch.
	Branch
	// Tag pins to a single tag.
	Tag
)

func (m VersioningMethod) String() string {
	switch m {
	case VersionList:
		return "version"
	case Commit:
		return "commit"
	case Branch:
		return "branch"
	case Tag:
		return "tag"
	}
	return fmt.Sprintf("VersioningMethod(%d)", int(m))
}

// DependencyType distinguishes repository dependencies from bare manifests.
type DependencyType int

const (
	// Git dependencies are repositories fetched into external/<name>.
	Git DependencyType = iota
	// Manifest dependencies point directly at a package file.
	Manifest
)

func (t DependencyType) String() string {
	if t == Manifest {
		return "manifest"
	}
	return "git"
}

// ExternalDependency is one entry of a package's external-packages list.
type ExternalDependency struct {
	// URL locates the repository or manifest.
	URL string

	// Method is how the revision is pinned.
	Method VersioningMethod

	// Versions holds the constraints when Method is VersionList.
	Versions []string

	// Ref holds the commit, branch or tag for the other methods.
	Ref string

	// Channels lists binary channels to prefer, if any.
	Channels []string

	// IfIncluding guards the dependency: when non-empty it is only active
	// if one of these overlays is requested globally.
	IfIncluding []string

	// Type is Manifest when URL names a package file, Git otherwise.
	Type DependencyType

	// Active is false when an if-including guard was not satisfied.
	Active bool
}

// Name derives the dependency name from the last URL path component,
// without its .git or .atpkg suffix.
func (d *ExternalDependency) Name() string {
	last := strings.TrimRight(d.URL, "/")
	if i := strings.LastIndexAny(last, "/:"); i >= 0 {
		last = last[i+1:]
	}
	last = strings.TrimSuffix(last, ".git")
	return strings.TrimSuffix(last, Extension)
}

// Constraints parses Versions as version constraints, e.g. ">= 1.0, < 2".
func (d *ExternalDependency) Constraints() (version.Constraints, error) {
	if d.Method != VersionList {
		return nil, fmt.Errorf("%w: %s is pinned by %s, not version", ErrInvalidExternalDependency, d.Name(), d.Method)
	}

	var all version.Constraints
	for _, v := range d.Versions {
		c, err := version.NewConstraint(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidExternalDependency, d.Name(), err)
		}
		all = append(all, c...)
	}
	return all, nil
}

// Matches reports whether tag satisfies the dependency's version constraints.
func (d *ExternalDependency) Matches(tag string) (bool, error) {
	constraints, err := d.Constraints()
	if err != nil {
		return false, err
	}
	v, err := version.NewVersion(tag)
	if err != nil {
		return false, nil
	}
	return constraints.Check(v), nil
}

// parseExternal builds an ExternalDependency from one external-packages entry.
func parseExternal(file string, index int, raw value.Value, global []string) (*ExternalDependency, error) {
	key := fmt.Sprintf("%s[%d]", KeyExternalPackages, index)
	entry, ok := raw.(value.Map)
	if !ok {
		return nil, invalidType(file, key, "map", raw.Kind())
	}

	fail := func(format string, args ...any) error {
		return &PackageError{
			File: file,
			Key:  key,
			Err:  fmt.Errorf("%w: "+format, append([]any{ErrInvalidExternalDependency}, args...)...),
		}
	}

	u, ok := entry.GetString(KeyURL)
	if !ok || u == "" {
		return nil, fail("missing url")
	}

	dep := &ExternalDependency{URL: u, Type: Git, Active: true}
	if strings.HasSuffix(u, Extension) {
		dep.Type = Manifest
	}

	var methods []string
	if _, present := entry[KeyVersion]; present {
		versions, ok := entry.GetStrings(KeyVersion)
		if !ok {
			return nil, fail("version must be an array of strings")
		}
		dep.Method = VersionList
		dep.Versions = versions
		methods = append(methods, KeyVersion)
	}
	for _, m := range []struct {
		key    string
		method VersioningMethod
	}{
		{KeyCommit, Commit},
		{KeyBranch, Branch},
		{KeyTag, Tag},
	} {
		if _, present := entry[m.key]; !present {
			continue
		}
		ref, ok := entry.GetString(m.key)
		if !ok {
			return nil, fail("%s must be a string", m.key)
		}
		dep.Method = m.method
		dep.Ref = ref
		methods = append(methods, m.key)
	}
	if len(methods) != 1 {
		return nil, fail("%s needs exactly one of version, commit, branch or tag, got %d", u, len(methods))
	}

	if _, present := entry[KeyChannels]; present {
		channels, ok := entry.GetStrings(KeyChannels)
		if !ok {
			return nil, fail("channels must be an array of strings")
		}
		dep.Channels = channels
	}

	if _, present := entry[KeyIfIncluding]; present {
		guards, ok := entry.GetStrings(KeyIfIncluding)
		if !ok {
			return nil, fail("if-including must be an array of strings")
		}
		dep.IfIncluding = guards
		dep.Active = len(guards) == 0 || slices.ContainsFunc(guards, func(name string) bool {
			return slices.Contains(global, name)
		})
	}

	return dep, nil
}
