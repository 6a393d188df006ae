package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/mpcannot/internal/annotate"
	"github.com/inodb/mpcannot/internal/mutation"
	"github.com/inodb/mpcannot/internal/pathway"
)

func testRun() RunInfo {
	return RunInfo{
		ID:    "11111111-2222-3333-4444-555555555555",
		Start: time.Date(2024, 3, 5, 14, 30, 9, 0, time.UTC),
		User:  "analyst",
	}
}

func sampleRecord() *annotate.Record {
	return &annotate.Record{
		ID:                  4,
		ChildID:             "P1",
		Key:                 "chr1|100|A|T",
		Chr:                 "chr1",
		Position:            "100",
		Ref:                 "A",
		Alt:                 "T",
		Consequence:         "synonymous_variant",
		Genes:               "BRCA1, TP53",
		Pathways:            "apoptosis, wnt",
		PathwayCount:        2,
		MPC:                 "1.5",
		Pph2Prediction:      "benign",
		Pph2Value:           "0.2",
		AdjustedConsequence: "synonymous_variant",
	}
}

func TestAnnotationWriter_Layout(t *testing.T) {
	var buf bytes.Buffer
	aw := NewAnnotationWriter(&buf)
	require.NoError(t, aw.WriteHeader())
	require.NoError(t, aw.Write(sampleRecord()))
	require.NoError(t, aw.Flush())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		"id,Child_id,Key,Chr,Pos,Ref,Alt,Consequence,HGNC_Symbol,Pathway,"+
			"Num_Affected_Pathways,MPC,pph2_Prediction,pph2_Value,Adj_Consequence",
		lines[0])
	// Aggregated fields carry the list separator and must come out quoted.
	assert.Equal(t,
		`4,P1,chr1|100|A|T,chr1,100,A,T,synonymous_variant,"BRCA1, TP53","apoptosis, wnt",2,1.5,benign,0.2,synonymous_variant`,
		lines[1])
}

func TestExportAnnotations(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, err := ExportAnnotations(dir, testRun(), []*annotate.Record{sampleRecord()})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "MPC-pph2-annotations-2024-03-05_14-30-09.csv"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "4,P1,"))
}

func TestExportAnnotations_EmptySetWritesHeader(t *testing.T) {
	dir := t.TempDir()

	path, err := ExportAnnotations(dir, testRun(), nil)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "id,Child_id,"))
}

func TestExportMatrix(t *testing.T) {
	dir := t.TempDir()
	m := pathway.NewMatrix([]*mutation.MatrixRow{
		{ChildID: "P1", Key: "chr1|100|A|T", Pathways: "apoptosis, wnt"},
		{ChildID: "P2", Key: "chr2|200|C|G", Pathways: "wnt"},
	})
	records := []*annotate.Record{sampleRecord()}

	path, err := ExportMatrix(dir, testRun(), records, m)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "MPC-pph2-pathways-annotations-2024-03-05_14-30-09.csv"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], ",Adj_Consequence,apoptosis,wnt"))
	assert.True(t, strings.HasSuffix(lines[1], ",synonymous_variant,1,1"))
}
