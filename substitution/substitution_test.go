/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package substitution_test

import (
	"errors"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/atpkg/atpkg"
	"bennypowers.dev/atpkg/internal/logger"
	"bennypowers.dev/atpkg/sources"
	"bennypowers.dev/atpkg/substitution"
	"bennypowers.dev/atpkg/testutil"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

var constants = substitution.ResolverFunc(func(name string) (string, error) {
	if name == "x" {
		return "X", nil
	}
	return "", errors.New("unexpected " + name)
})

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello", "hello"},
		{"placeholder", "${x}", "X"},
		{"surrounded", "a ${x} b ${x}", "a X b X"},
		{"escaped placeholder", `\${x}`, "${x}"},
		{"escaped backslash", `\\${x}`, `\X`},
		{"dollar without brace", "$HOME", "$HOME"},
		{"dollar then escape", `$\n`, "$n"},
		{"double dollar", "$$", "$$"},
		{"trailing backslash dropped", `a\`, "a"},
		{"trailing dollar dropped", "a$", "a"},
		{"unterminated placeholder dropped", "a${x", "a"},
		{"unicode", "ü${x}ö", "üXö"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := substitution.Evaluate(tt.input, constants)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_ResolverError(t *testing.T) {
	_, err := substitution.Evaluate("${nope}", constants)
	assert.EqualError(t, err, "unexpected nope")
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"a", "collect_sources:b"}, substitution.Names(`${a} \${skip} ${collect_sources:b}`))
	assert.Nil(t, substitution.Names("nothing"))
}

func loadPackage(t *testing.T, fixture, file string) (*atpkg.Package, *sources.FSCollector) {
	t.Helper()
	mfs := testutil.NewFixtureFS(t, fixture, "/project")
	pkg, err := atpkg.NewLoader(mfs, atpkg.Options{}).Load("/project/" + file)
	require.NoError(t, err)
	return pkg, sources.NewFSCollector(mfs)
}

func TestPackageResolver_Constants(t *testing.T) {
	pkg, collector := loadPackage(t, "fixtures/packages", "basic.atpkg")
	r := &substitution.PackageResolver{Package: pkg, Collector: collector}

	got, err := substitution.Evaluate("${test_substitution}", r)
	require.NoError(t, err)
	assert.Equal(t, "test_substitution", got)

	got, err = substitution.Evaluate("foobly-doobly-doo ${test_substitution} doobly-doo", r)
	require.NoError(t, err)
	assert.Equal(t, "foobly-doobly-doo test_substitution doobly-doo", got)

	got, err = substitution.Evaluate(`foobly-doobly-doo \${test_substitution} doobly-doo`, r)
	require.NoError(t, err)
	assert.Equal(t, "foobly-doobly-doo ${test_substitution} doobly-doo", got)

	_, err = substitution.Evaluate("${nope}", r)
	assert.ErrorIs(t, err, substitution.ErrUnknownSubstitution)
}

func TestPackageResolver_CustomConstants(t *testing.T) {
	r := &substitution.PackageResolver{Constants: map[string]string{
		"version":           "1.2.3",
		"test_substitution": "overridden",
	}}

	got, err := substitution.Evaluate("v${version} ${test_substitution}", r)
	require.NoError(t, err)
	assert.Equal(t, "v1.2.3 overridden", got)
}

func TestPackageResolver_CollectSources(t *testing.T) {
	pkg, collector := loadPackage(t, "fixtures/packages", "collect_sources/build.atpkg")
	r := &substitution.PackageResolver{Package: pkg, Collector: collector}

	got, err := substitution.Evaluate("${collect_sources:default}", r)
	require.NoError(t, err)
	assert.Equal(t,
		"/project/collect_sources/src/a.swift /project/collect_sources/src/b.swift /project/collect_sources/src/nested/c.swift",
		got)
}

func TestPackageResolver_CollectSourcesFromOption(t *testing.T) {
	pkg, collector := loadPackage(t, "fixtures/packages", "collect_sources/build.atpkg")
	r := &substitution.PackageResolver{Package: pkg, Collector: collector}

	task, ok := pkg.Task("default")
	require.True(t, ok)
	script, ok := task.Options().GetString("script")
	require.True(t, ok)

	got, err := substitution.Evaluate(script, r)
	require.NoError(t, err)
	assert.Contains(t, got, "swiftc /project/collect_sources/src/a.swift ")
}

func TestPackageResolver_CollectSourcesErrors(t *testing.T) {
	pkg, collector := loadPackage(t, "fixtures/packages", "basic.atpkg")
	r := &substitution.PackageResolver{Package: pkg, Collector: collector}

	_, err := substitution.Evaluate("${collect_sources:ghost}", r)
	assert.ErrorIs(t, err, atpkg.ErrUnknownTask)

	// basic's build task spells its key "source", not "sources".
	_, err = substitution.Evaluate("${collect_sources:build}", r)
	assert.ErrorIs(t, err, substitution.ErrNoSources)

	_, err = substitution.Evaluate("${collect_sources:build}", &substitution.PackageResolver{})
	assert.ErrorIs(t, err, substitution.ErrUnknownSubstitution)
}
