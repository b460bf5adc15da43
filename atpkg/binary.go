/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package atpkg

import (
	"cmp"
	"fmt"
	"net/url"
	"slices"

	"github.com/hashicorp/go-version"

	"bennypowers.dev/atpkg/value"
)

// BinaryChannel is a named stream of prebuilt releases, e.g. "stable" or
// "linux".
type BinaryChannel struct {
	Name     string
	Versions []BinaryVersion
}

// BinaryVersion points at one release tarball.
type BinaryVersion struct {
	Version string
	URL     *url.URL
}

// Latest returns the newest version in the channel, if any.
func (c BinaryChannel) Latest() (BinaryVersion, bool) {
	if len(c.Versions) == 0 {
		return BinaryVersion{}, false
	}
	return c.Versions[len(c.Versions)-1], true
}

// parseBinaries reads the binaries map: channel → version → {:url "..."}.
// Channels sort by name and versions by semantic version where possible.
func parseBinaries(file string, raw value.Value) ([]BinaryChannel, error) {
	channels, ok := raw.(value.Map)
	if !ok {
		return nil, invalidType(file, KeyBinaries, "map", raw.Kind())
	}

	var out []BinaryChannel
	for _, name := range channels.Keys() {
		key := KeyBinaries + "." + name
		versions, ok := channels[name].(value.Map)
		if !ok {
			return nil, invalidType(file, key, "map", channels[name].Kind())
		}

		channel := BinaryChannel{Name: name}
		for _, v := range versions.Keys() {
			vkey := key + "." + v
			entry, ok := versions[v].(value.Map)
			if !ok {
				return nil, invalidType(file, vkey, "map", versions[v].Kind())
			}
			raw, ok := entry.GetString(KeyURL)
			if !ok {
				return nil, &PackageError{File: file, Key: vkey, Err: fmt.Errorf("%w: missing url", ErrInvalidBinary)}
			}
			u, err := url.Parse(raw)
			if err != nil {
				return nil, &PackageError{File: file, Key: vkey, Err: fmt.Errorf("%w: %w", ErrInvalidBinary, err)}
			}
			channel.Versions = append(channel.Versions, BinaryVersion{Version: v, URL: u})
		}
		slices.SortStableFunc(channel.Versions, func(a, b BinaryVersion) int {
			return compareVersions(a.Version, b.Version)
		})
		out = append(out, channel)
	}
	return out, nil
}

func compareVersions(a, b string) int {
	va, errA := version.NewVersion(a)
	vb, errB := version.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}
	return cmp.Compare(a, b)
}
