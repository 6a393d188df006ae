package mpc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenChunkSet_ListsRegularFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "part_b.csv"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "part_a.csv"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	set, err := OpenChunkSet(dir)
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())
	assert.Equal(t, "part_a.csv", set.Name(0))
	assert.Equal(t, "part_b.csv", set.Name(1))
}

func TestOpenChunkSet_EmptyDirectory(t *testing.T) {
	_, err := OpenChunkSet(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no chunk files")
}

func TestOpenChunkSet_MissingDirectory(t *testing.T) {
	_, err := OpenChunkSet(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestChunkSet_Read(t *testing.T) {
	dir := t.TempDir()
	// Pre-chunked files may order columns differently; the header decides.
	content := "MPC,chrom,pos,ref,alt,PolyPhen\n" +
		"2.5,chr1,100,A,G,probably damaging(0.98)\n" +
		",chr2,200,C,T,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scores.csv"), []byte(content), 0o644))

	set, err := OpenChunkSet(dir)
	require.NoError(t, err)
	records, err := set.Read(0)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "chr1|100|A|G", records[0].Key())
	assert.Equal(t, "probably damaging(0.98)", records[0].PolyPhen)
	assert.Equal(t, "2.5", records[0].MPC)
	assert.Equal(t, "chr2|200|C|T", records[1].Key())
	assert.Equal(t, "", records[1].MPC)
}

func TestChunkSet_Read_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.csv"),
		[]byte("chrom,pos,ref,alt,PolyPhen,MPC\n"), 0o644))

	set, err := OpenChunkSet(dir)
	require.NoError(t, err)
	records, err := set.Read(0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestChunkSet_Read_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "zero byte file",
			content: "",
			wantErr: "missing header",
		},
		{
			name:    "missing columns",
			content: "chrom,pos\n1,100\n",
			wantErr: "missing required columns: ref, alt, PolyPhen, MPC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.csv"), []byte(tt.content), 0o644))

			set, err := OpenChunkSet(dir)
			require.NoError(t, err)
			_, err = set.Read(0)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
