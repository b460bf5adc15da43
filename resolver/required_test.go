/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/atpkg/resolver"
	"bennypowers.dev/atpkg/value"
)

func TestCheckRequiredOverlays(t *testing.T) {
	groups := [][]string{{"x", "y"}}

	err := resolver.CheckRequiredOverlays("p.build", groups, []string{"z"})
	require.ErrorIs(t, err, resolver.ErrRequiredOverlay)

	var reqErr *resolver.RequiredOverlayError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "p.build", reqErr.Task)
	assert.Equal(t, []string{"x", "y"}, reqErr.Group)
	assert.Equal(t, []string{"z"}, reqErr.Applied)
	assert.Contains(t, err.Error(), "requires one of [x, y]; applied: z")

	assert.NoError(t, resolver.CheckRequiredOverlays("p.build", groups, []string{"y"}))
	assert.NoError(t, resolver.CheckRequiredOverlays("p.build", groups, []string{"x", "z"}))
}

func TestCheckRequiredOverlays_NoneApplied(t *testing.T) {
	err := resolver.CheckRequiredOverlays("t", [][]string{{"a"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "applied: none")
}

func TestRequiredGroups(t *testing.T) {
	groups, err := resolver.RequiredGroups(value.Map{
		"required-overlays": value.Array{value.StringArray("x", "y"), value.StringArray("z")},
	})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"x", "y"}, {"z"}}, groups)

	groups, err = resolver.RequiredGroups(value.Map{})
	require.NoError(t, err)
	assert.Nil(t, groups)

	_, err = resolver.RequiredGroups(value.Map{"required-overlays": value.StringArray("x")})
	assert.Error(t, err)
}
