// Package mpc stages the reference score dataset as bounded chunk files and
// reads them back for the annotation join.
package mpc

import "github.com/inodb/mpcannot/internal/locus"

// Column headers of the reference dataset. Only these six are staged into
// chunks; any other column in the source file is dropped.
const (
	ColChrom    = "chrom"
	ColPos      = "pos"
	ColRef      = "ref"
	ColAlt      = "alt"
	ColPolyPhen = "PolyPhen"
	ColMPC      = "MPC"
)

// Record is one reference row. Values stay strings end to end: the locus key
// contract forbids numeric re-rendering, and MPC is only read numerically at
// classification time.
type Record struct {
	Chrom    string
	Pos      string
	Ref      string
	Alt      string
	PolyPhen string
	MPC      string
}

// Key returns the record's locus key.
func (r *Record) Key() string {
	return locus.Key(r.Chrom, r.Pos, r.Ref, r.Alt)
}

// chunkColumns is the staged chunk header, in write order.
var chunkColumns = []string{ColChrom, ColPos, ColRef, ColAlt, ColPolyPhen, ColMPC}
