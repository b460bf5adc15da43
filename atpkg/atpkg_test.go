/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package atpkg_test

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"bennypowers.dev/atpkg/atpkg"
	"bennypowers.dev/atpkg/internal/logger"
	"bennypowers.dev/atpkg/internal/mapfs"
	"bennypowers.dev/atpkg/testutil"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func fixtures(t *testing.T) *mapfs.MapFileSystem {
	t.Helper()
	return testutil.NewFixtureFS(t, "fixtures/packages", "/project")
}

func load(t *testing.T, file string, opts atpkg.Options) *atpkg.Package {
	t.Helper()
	pkg, err := atpkg.NewLoader(fixtures(t), opts).Load("/project/" + file)
	require.NoError(t, err)
	return pkg
}

func task(t *testing.T, pkg *atpkg.Package, name string) *atpkg.Task {
	t.Helper()
	tk, ok := pkg.Task(name)
	require.True(t, ok, "task %q not found; have %v", name, pkg.TaskNames())
	return tk
}
