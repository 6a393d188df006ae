// Package annotate joins patient mutations against the reference score
// chunks and derives the adjusted consequence for each record.
package annotate

import "github.com/inodb/mpcannot/internal/mutation"

// Sentinel values carried by records whose locus never matched the reference
// dataset.
const (
	UnavailableMPC      = "unavailable"
	UnavailablePolyPhen = "unavailable(unavailable)"
)

// Record is one patient mutation moving through the annotation pipeline,
// from the join through classification to the curated output set.
type Record struct {
	// ID is assigned by Curate after deduplication; zero until then.
	ID      int
	ChildID string
	Key     string

	Chr         string
	Position    string
	Ref         string
	Alt         string
	Consequence string

	Genes        string
	Pathways     string
	PathwayCount int

	MPC      string
	PolyPhen string

	// Pph2Prediction and Pph2Value are split out of PolyPhen by
	// ParsePredictions.
	Pph2Prediction string
	Pph2Value      string

	AdjustedConsequence string

	// Join provenance, used to order the superset deterministically before
	// deduplication. Row is the base-matrix row index, Chunk the ordinal of
	// the chunk that produced this copy (-1 for the completeness fill), and
	// Matched whether the copy carries reference values rather than
	// sentinels.
	Row     int
	Chunk   int
	Matched bool
}

// newRecord copies a base-matrix row into a pipeline record.
func newRecord(row *mutation.MatrixRow, chunk int, polyPhen, mpcScore string, matched bool) *Record {
	return &Record{
		ChildID:      row.ChildID,
		Key:          row.Key,
		Chr:          row.Chr,
		Position:     row.Position,
		Ref:          row.Ref,
		Alt:          row.Alt,
		Consequence:  row.Consequence,
		Genes:        row.Genes,
		Pathways:     row.Pathways,
		PathwayCount: row.PathwayCount,
		MPC:          mpcScore,
		PolyPhen:     polyPhen,
		Row:          row.Index,
		Chunk:        chunk,
		Matched:      matched,
	}
}

// MPCAbsent reports whether an MPC value counts as missing: the join
// sentinel, an empty reference cell, or the upstream "NA" null.
func MPCAbsent(v string) bool {
	return v == "" || v == "NA" || v == UnavailableMPC
}
