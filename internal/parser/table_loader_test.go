package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDat(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "EP1_N4.dat")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTable_SkipsBlankLines(t *testing.T) {
	path := writeDat(t, "0 0\n0.5 0.25\n\n1 1\n")

	table, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 0}, {0.5, 0.25}, {1, 1}}, table.Rows)
	assert.Equal(t, path, table.Source)
}

func TestLoadTable_Rationals(t *testing.T) {
	path := writeDat(t, "1/2 3/4\n")

	table, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.5, 0.75}}, table.Rows)
}

func TestLoadTable_MixedEncodingsAndWhitespace(t *testing.T) {
	path := writeDat(t, "  3/8\t0.375  \r\n   \n\t\n1/4    1/8\n")

	table, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.375, 0.375}, {0.25, 0.125}}, table.Rows)
}

func TestLoadTable_MalformedTokenReturnsNoTable(t *testing.T) {
	path := writeDat(t, "0 0\n1 abc\n2 2\n")

	table, err := LoadTable(path)
	require.Error(t, err)
	assert.Nil(t, table)
	assert.True(t, errors.Is(err, ErrParse))

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "abc", pe.Token)
	assert.Equal(t, 2, pe.Line)
	assert.Equal(t, path, pe.Path)
	assert.Contains(t, err.Error(), `"abc"`)
}

func TestLoadTable_NotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "EP2_N16.dat")

	table, err := LoadTable(path)
	require.Error(t, err)
	assert.Nil(t, table)
	assert.True(t, errors.Is(err, ErrResourceNotFound))
	assert.False(t, errors.Is(err, ErrParse))

	var nf *ResourceNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, path, nf.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadTable_DirectoryIsNotAResource(t *testing.T) {
	_, err := LoadTable(t.TempDir())
	assert.True(t, errors.Is(err, ErrResourceNotFound))
}

func TestLoadTable_Idempotent(t *testing.T) {
	path := writeDat(t, "0 0\n1/3 2/3\n1 1\n")

	first, err := LoadTable(path)
	require.NoError(t, err)
	second, err := LoadTable(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	first.Rows[0][0] = 42
	assert.Equal(t, 0.0, second.Rows[0][0])
}

func TestLoadTable_RaggedRows(t *testing.T) {
	path := writeDat(t, "0 0\n1 1 1\n2\n")

	table, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	w, ok := table.Width()
	assert.Equal(t, 2, w)
	assert.False(t, ok)
	assert.Equal(t, 1, table.MinWidth())

	_, err = LoadTable(path, WithRectangular())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRaggedRow))

	var re *RaggedRowError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 2, re.Line)
	assert.Equal(t, 2, re.Want)
	assert.Equal(t, 3, re.Got)
}

func TestLoadTable_EmptyFile(t *testing.T) {
	path := writeDat(t, "\n\n")

	table, err := LoadTable(path, WithRectangular())
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	w, ok := table.Width()
	assert.Equal(t, 0, w)
	assert.True(t, ok)
}

func TestLoadTableFS(t *testing.T) {
	fsys := fstest.MapFS{
		"data/EP1_N2.dat": {Data: []byte("0 0\n1/2 1/4\n")},
		"data/bad.dat":    {Data: []byte("1/2/3 0\n")},
	}

	table, err := LoadTableFS(fsys, "data/EP1_N2.dat")
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 0}, {0.5, 0.25}}, table.Rows)

	_, err = LoadTableFS(fsys, "data/missing.dat")
	assert.True(t, errors.Is(err, ErrResourceNotFound))

	_, err = LoadTableFS(fsys, "data")
	assert.True(t, errors.Is(err, ErrResourceNotFound))

	_, err = LoadTableFS(fsys, "data/bad.dat")
	assert.True(t, errors.Is(err, ErrParse))
}

func TestReadTable(t *testing.T) {
	table, err := ReadTable(strings.NewReader("1 2\n3 4"), "inline")
	require.NoError(t, err)
	assert.Equal(t, "inline", table.Source)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, table.Rows)
}

func TestTable_Column(t *testing.T) {
	table := &Table{Source: "t", Rows: [][]float64{{0, 1}, {2, 3}, {4}}}

	col, err := table.Column(0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2, 4}, col)

	_, err = table.Column(1)
	assert.Error(t, err)

	_, err = table.Column(-1)
	assert.Error(t, err)
}
