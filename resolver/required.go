/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import (
	"fmt"
	"slices"

	"bennypowers.dev/atpkg/value"
)

// KeyRequiredOverlays names the task option holding OR-groups of overlays.
const KeyRequiredOverlays = "required-overlays"

// RequiredGroups reads a task's required-overlays option: an array of
// arrays of overlay names.
func RequiredGroups(options value.Map) ([][]string, error) {
	raw, ok := options[KeyRequiredOverlays]
	if !ok {
		return nil, nil
	}

	arr, ok := raw.(value.Array)
	if !ok {
		return nil, fmt.Errorf("%s must be an array of arrays, got %s", KeyRequiredOverlays, raw.Kind())
	}

	groups := make([][]string, 0, len(arr))
	for i, item := range arr {
		inner, ok := item.(value.Array)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be an array, got %s", KeyRequiredOverlays, i, item.Kind())
		}
		names, ok := value.Strings(inner)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must hold strings", KeyRequiredOverlays, i)
		}
		groups = append(groups, names)
	}
	return groups, nil
}

// CheckRequiredOverlays fails with a *RequiredOverlayError for the first
// group of which no member is in applied.
func CheckRequiredOverlays(task string, groups [][]string, applied []string) error {
	for _, group := range groups {
		if !slices.ContainsFunc(group, func(name string) bool {
			return slices.Contains(applied, name)
		}) {
			return &RequiredOverlayError{
				Task:    task,
				Group:   slices.Clone(group),
				Applied: slices.Clone(applied),
			}
		}
	}
	return nil
}
