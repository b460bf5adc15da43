/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package atpkg

import (
	"errors"
	"fmt"
)

// Sentinel errors for package construction.
var (
	// ErrInvalidDeclaration indicates a top-level form other than (package ...).
	ErrInvalidDeclaration = errors.New("invalid declaration type")

	// ErrMissingName indicates a package without a non-empty :name.
	ErrMissingName = errors.New("package has no name")

	// ErrInvalidDataType indicates a value of the wrong kind for its key.
	ErrInvalidDataType = errors.New("invalid data type")

	// ErrInvalidTaskName indicates a task name containing the qualifier separator.
	ErrInvalidTaskName = errors.New("invalid task name")

	// ErrInvalidExternalDependency indicates a malformed external-packages entry.
	ErrInvalidExternalDependency = errors.New("invalid external dependency")

	// ErrInvalidBinary indicates a malformed binaries entry.
	ErrInvalidBinary = errors.New("invalid binary channel")

	// ErrImportCycle indicates a package that imports itself, directly or not.
	ErrImportCycle = errors.New("import cycle")

	// ErrUnknownTask indicates a task name that does not resolve in its package.
	ErrUnknownTask = errors.New("unknown task")
)

// PackageError locates a construction error in a package file.
type PackageError struct {
	// File is the package file path.
	File string

	// Key is the offending key path, e.g. "tasks.build", if any.
	Key string

	// Err is the underlying error, usually one of the sentinels above.
	Err error
}

func (e *PackageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %v", e.File, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.File, e.Key, e.Err)
}

func (e *PackageError) Unwrap() error {
	return e.Err
}

// invalidType builds the error for a value of the wrong kind.
func invalidType(file, key, want string, got fmt.Stringer) error {
	return &PackageError{
		File: file,
		Key:  key,
		Err:  fmt.Errorf("%w: expected %s, got %s", ErrInvalidDataType, want, got),
	}
}
