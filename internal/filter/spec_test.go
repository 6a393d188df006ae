package filter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Empty(t *testing.T) {
	spec, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, KindNone, spec.Kind)
	assert.True(t, spec.IsNone())
	assert.True(t, spec.Match("anything"))
}

func TestResolve_Literal(t *testing.T) {
	spec, err := Resolve("BRCA1")
	require.NoError(t, err)
	assert.Equal(t, KindLiteral, spec.Kind)
	assert.Equal(t, []string{"BRCA1"}, spec.Values)
	assert.True(t, spec.Match("BRCA1"))
	assert.False(t, spec.Match("BRCA2"))
	assert.False(t, spec.Match("brca1"))
}

func TestResolve_List(t *testing.T) {
	spec, err := Resolve("BRCA1,TP53")
	require.NoError(t, err)
	assert.Equal(t, KindList, spec.Kind)
	assert.Equal(t, []string{"BRCA1", "TP53"}, spec.Values)
	assert.True(t, spec.Match("BRCA1"))
	assert.True(t, spec.Match("TP53"))
	assert.False(t, spec.Match("EGFR"))
}

func TestResolve_ListIsVerbatim(t *testing.T) {
	// List elements are not trimmed; the field contract is byte-exact.
	spec, err := Resolve("BRCA1, TP53")
	require.NoError(t, err)
	assert.Equal(t, []string{"BRCA1", " TP53"}, spec.Values)
	assert.False(t, spec.Match("TP53"))
	assert.True(t, spec.Match(" TP53"))
}

func TestResolve_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genes.txt")
	content := "BRCA1\textra\tcolumns\n" +
		"\n" +
		"TP53\n" +
		"  EGFR  \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	spec, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, KindFile, spec.Kind)
	assert.Equal(t, path, spec.Raw)
	assert.Equal(t, []string{"BRCA1", "TP53", "EGFR"}, spec.Values)
	assert.True(t, spec.Match("EGFR"))
	assert.False(t, spec.Match("extra"))
}

func TestResolve_FileBeatsComma(t *testing.T) {
	// A value that names an existing file is read as one even if it
	// contains a comma.
	dir := t.TempDir()
	path := filepath.Join(dir, "a,b.txt")
	require.NoError(t, os.WriteFile(path, []byte("P1\n"), 0o644))

	spec, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, KindFile, spec.Kind)
	assert.Equal(t, []string{"P1"}, spec.Values)
}

func TestResolve_DirectoryIsNotAFile(t *testing.T) {
	dir := t.TempDir()
	spec, err := Resolve(dir)
	require.NoError(t, err)
	assert.Equal(t, KindLiteral, spec.Kind)
	assert.Equal(t, []string{dir}, spec.Values)
}

func TestResolve_EmptyFileMatchesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	spec, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, KindFile, spec.Kind)
	assert.Empty(t, spec.Values)
	assert.False(t, spec.Match("anything"))
	assert.False(t, spec.IsNone())
}

func TestSpec_NilIsNone(t *testing.T) {
	var spec *Spec
	assert.True(t, spec.IsNone())
	assert.True(t, spec.Match("x"))
}
