package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/mpcannot/internal/mutation"
)

func TestAnnotator_EndToEnd(t *testing.T) {
	rows := mutation.BuildMatrix([]*mutation.Record{
		{ChildID: "P1", Chr: "chr1", Position: "100", Ref: "A", Alt: "T",
			Consequence: "missense_variant", HGNCSymbol: "GENE1"},
	}, nil)
	chunks := memChunks{
		{refRecord("chr1", "100", "A", "T", "probably damaging(0.98)", "1.2")},
	}

	out, err := NewAnnotator().Annotate(rows, chunks)
	require.NoError(t, err)
	require.Len(t, out, 1)

	rec := out[0]
	assert.Equal(t, 1, rec.ID)
	assert.Equal(t, "P1", rec.ChildID)
	assert.Equal(t, "chr1|100|A|T", rec.Key)
	assert.Equal(t, "GENE1", rec.Genes)
	assert.Equal(t, "1.2", rec.MPC)
	assert.Equal(t, "probably damaging", rec.Pph2Prediction)
	assert.Equal(t, "0.98", rec.Pph2Value)
	assert.Equal(t, "Missense3", rec.AdjustedConsequence)
}

func TestAnnotator_UnmatchedNonMissenseKeepsSentinels(t *testing.T) {
	rows := mutation.BuildMatrix([]*mutation.Record{
		{ChildID: "P1", Chr: "chr1", Position: "100", Ref: "A", Alt: "T",
			Consequence: "stop_gained", HGNCSymbol: "GENE1"},
	}, nil)
	chunks := memChunks{
		{refRecord("chr9", "999", "G", "C", "benign(0.1)", "0.4")},
	}

	out, err := NewAnnotator().Annotate(rows, chunks)
	require.NoError(t, err)
	require.Len(t, out, 1)

	rec := out[0]
	assert.Equal(t, UnavailableMPC, rec.MPC)
	assert.Equal(t, "unavailable", rec.Pph2Prediction)
	assert.Equal(t, "unavailable", rec.Pph2Value)
	assert.Equal(t, "PTV", rec.AdjustedConsequence)
}

func TestAnnotator_PatientMissedByMatchingChunksAppearsOnce(t *testing.T) {
	rows := mutation.BuildMatrix([]*mutation.Record{
		{ChildID: "P1", Chr: "chr1", Position: "100", Ref: "A", Alt: "T",
			Consequence: "missense_variant", HGNCSymbol: "GENE1"},
		{ChildID: "P2", Chr: "chr5", Position: "500", Ref: "G", Alt: "A",
			Consequence: "stop_gained", HGNCSymbol: "GENE2"},
	}, nil)
	chunks := memChunks{
		{refRecord("chr1", "100", "A", "T", "probably damaging(0.99)", "2.5")},
	}

	out, err := NewAnnotator().Annotate(rows, chunks)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "P1", out[0].ChildID)
	assert.Equal(t, "2.5", out[0].MPC)
	assert.Equal(t, "Missense3", out[0].AdjustedConsequence)

	assert.Equal(t, "P2", out[1].ChildID)
	assert.Equal(t, UnavailableMPC, out[1].MPC)
	assert.Equal(t, "PTV", out[1].AdjustedConsequence)
	assert.Equal(t, 2, out[1].ID)
}

func TestAnnotator_UnmatchedMissenseIsDropped(t *testing.T) {
	rows := mutation.BuildMatrix([]*mutation.Record{
		{ChildID: "P1", Chr: "chr1", Position: "100", Ref: "A", Alt: "T",
			Consequence: "missense_variant", HGNCSymbol: "GENE1"},
		{ChildID: "P1", Chr: "chr2", Position: "200", Ref: "C", Alt: "G",
			Consequence: "stop_gained", HGNCSymbol: "GENE2"},
	}, nil)
	chunks := memChunks{
		{refRecord("chr2", "200", "C", "G", "benign(0.1)", "0.4")},
	}

	out, err := NewAnnotator().Annotate(rows, chunks)
	require.NoError(t, err)
	require.Len(t, out, 1, "missense without reference evidence is not exportable")
	assert.Equal(t, "chr2|200|C|G", out[0].Key)
	assert.Equal(t, 1, out[0].ID)
}

func TestAnnotator_MalformedPredictionFails(t *testing.T) {
	rows := mutation.BuildMatrix([]*mutation.Record{
		{ChildID: "P1", Chr: "chr1", Position: "100", Ref: "A", Alt: "T",
			Consequence: "missense_variant", HGNCSymbol: "GENE1"},
	}, nil)
	chunks := memChunks{
		{refRecord("chr1", "100", "A", "T", "not-a-prediction", "1.2")},
	}

	_, err := NewAnnotator().Annotate(rows, chunks)
	require.Error(t, err)
	var ferr *PredictionFormatError
	assert.ErrorAs(t, err, &ferr)
}
