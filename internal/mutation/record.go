// Package mutation parses patient mutation files and prepares the base
// matrix the annotation join runs over.
package mutation

import "github.com/inodb/mpcannot/internal/locus"

// Required column headers of the patient mutations file. The exact names are
// part of the input contract; no header remapping is performed.
const (
	ColChildID     = "child_id"
	ColChr         = "Chr"
	ColPosition    = "Position"
	ColRef         = "Ref"
	ColAlt         = "Alt"
	ColConsequence = "consequence"
	ColHGNCSymbol  = "HGNC_symbol"
)

// Record is one row of the patient mutations file. Values are carried as raw
// strings: the locus key is built from the original rendering, and any
// reformatting (case, leading zeros) silently breaks the reference join.
type Record struct {
	ChildID     string
	Chr         string
	Position    string
	Ref         string
	Alt         string
	Consequence string
	HGNCSymbol  string
}

// Key returns the record's locus key.
func (r *Record) Key() string {
	return locus.Key(r.Chr, r.Position, r.Ref, r.Alt)
}
