/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for overlay resolution and dependency ordering.
var (
	ErrOverlayReapplied        = errors.New("overlay already applied")
	ErrOverlayConflict         = errors.New("overlay conflicts with existing option")
	ErrUnsupportedOverlayValue = errors.New("unsupported overlay value")
	ErrUnknownOverlay          = errors.New("unknown overlay")
	ErrInvalidMixin            = errors.New("invalid mixin")
	ErrRequiredOverlay         = errors.New("required overlay not applied")
	ErrCircularDependency      = errors.New("circular dependency")
)

// RequiredOverlayError reports a required-overlays group of which no member
// was applied to a task.
type RequiredOverlayError struct {
	Task    string
	Group   []string
	Applied []string
}

func (e *RequiredOverlayError) Error() string {
	applied := "none"
	if len(e.Applied) > 0 {
		applied = strings.Join(e.Applied, ", ")
	}
	return fmt.Sprintf("%s: task %q requires one of [%s]; applied: %s",
		ErrRequiredOverlay, e.Task, strings.Join(e.Group, ", "), applied)
}

func (e *RequiredOverlayError) Unwrap() error {
	return ErrRequiredOverlay
}
