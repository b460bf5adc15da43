/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import (
	"fmt"

	"bennypowers.dev/atpkg/value"
)

// ApplyMixins appends every array option of mixin to state.
// Mixins only concatenate; any non-array option is an error.
func ApplyMixins(state *TaskState, name string, mixin value.Map) error {
	for _, key := range mixin.Keys() {
		items, ok := mixin[key].(value.Array)
		if !ok {
			return fmt.Errorf("%w: %q sets %q to a %s; mixins may only hold arrays",
				ErrInvalidMixin, name, key, mixin[key].Kind())
		}
		if err := appendOption(state, key, items, name); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidMixin, err)
		}
	}
	return nil
}
