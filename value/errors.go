/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package value

import (
	"errors"
	"fmt"
)

// Sentinel errors for value operations.
var (
	// ErrTypeMismatch indicates two values of different kinds met in a merge.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrUnsupportedType indicates decoded data has no Value representation.
	ErrUnsupportedType = errors.New("unsupported value type")
)

// TypeError reports a merge between values of different kinds.
type TypeError struct {
	// Key is the dotted path of the conflicting key.
	Key string

	// Value is the incoming value that could not be merged.
	Value Value

	// Expected is the kind already present under Key.
	Expected Kind
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: key %q: cannot merge %s %s into existing %s",
		ErrTypeMismatch, e.Key, e.Value.Kind(), e.Value, e.Expected)
}

// Unwrap returns ErrTypeMismatch.
func (e *TypeError) Unwrap() error {
	return ErrTypeMismatch
}
