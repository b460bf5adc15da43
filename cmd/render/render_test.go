/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package render

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"bennypowers.dev/atpkg/atpkg"
	"bennypowers.dev/atpkg/internal/logger"
	"bennypowers.dev/atpkg/testutil"
	"bennypowers.dev/atpkg/value"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func rowsByName(rows []Row) map[string]Row {
	out := make(map[string]Row, len(rows))
	for _, r := range rows {
		out[r.Name] = r
	}
	return out
}

func TestComputeRows(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/packages", "/project")
	pkg, err := atpkg.NewLoader(mfs, atpkg.Options{}).Load("/project/import-src.atpkg")
	require.NoError(t, err)

	rows := ComputeRows(pkg)
	require.NotEmpty(t, rows)
	assert.Equal(t, "import_src.publish", rows[0].Name)

	byName := rowsByName(rows)

	publish := byName["import_src.publish"]
	assert.Equal(t, "shell", publish.Tool)
	assert.Equal(t, []string{"import_dst.publish"}, publish.Dependencies)
	assert.False(t, publish.Imported)

	build, ok := byName["import_dst.build"]
	require.True(t, ok)
	assert.Equal(t, "lldb-build", build.Tool)
	assert.True(t, build.Imported)
}

func TestComputeExternalRows(t *testing.T) {
	deps := []*atpkg.ExternalDependency{
		{URL: "https://example.com/lib.git", Method: atpkg.VersionList, Versions: []string{">= 1.0", "< 2"}, Active: true},
		{URL: "https://example.com/tool.git", Method: atpkg.Branch, Ref: "main"},
		{URL: "https://example.com/pkg/extra.atpkg", Method: atpkg.Tag, Ref: "v1.0", Type: atpkg.Manifest, Active: true},
	}

	rows := ComputeExternalRows(deps)
	require.Len(t, rows, 3)

	assert.Equal(t, ExternalRow{Name: "lib", Type: "git", Method: "Version", Pin: ">= 1.0, < 2", Active: true, URL: "https://example.com/lib.git"}, rows[0])
	assert.Equal(t, "Branch", rows[1].Method)
	assert.Equal(t, "main", rows[1].Pin)
	assert.False(t, rows[1].Active)
	assert.Equal(t, "extra", rows[2].Name)
	assert.Equal(t, "manifest", rows[2].Type)
}

func TestColumnWidths(t *testing.T) {
	name, tool := ColumnWidths(nil)
	assert.Equal(t, 4, name)
	assert.Equal(t, 4, tool)

	name, tool = ColumnWidths([]Row{{Name: "app.build", Tool: "atllbuild"}, {Name: "x", Tool: "sh"}})
	assert.Equal(t, 9, name)
	assert.Equal(t, 9, tool)
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTable(&buf, []Row{
		{Name: "app.build", Tool: "atllbuild"},
		{Name: "app.test", Tool: "shell", Dependencies: []string{"build", "lint"}},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "NAME       TOOL       DEPENDENCIES", lines[0])
	assert.Equal(t, "app.build  atllbuild  -", lines[1])
	assert.Equal(t, "app.test   shell      build, lint", lines[2])
}

func TestEncode(t *testing.T) {
	options := value.Map{
		"tool":            value.StringLiteral("atllbuild"),
		"compile-options": value.StringArray("-g", "-O"),
		"debug":           value.BoolLiteral(true),
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, "json", options))

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "atllbuild", decoded["tool"])
		assert.Equal(t, []any{"-g", "-O"}, decoded["compile-options"])
		assert.Equal(t, true, decoded["debug"])
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, "yaml", options))

		var decoded map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "atllbuild", decoded["tool"])
		assert.Equal(t, []any{"-g", "-O"}, decoded["compile-options"])
		assert.Equal(t, true, decoded["debug"])
	})

	t.Run("unknown format", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, Encode(&buf, "toml", options))
	})
}

func TestToTitleCase(t *testing.T) {
	assert.Equal(t, "Version", toTitleCase("version"))
	assert.Equal(t, "Commit", toTitleCase("commit"))
}
