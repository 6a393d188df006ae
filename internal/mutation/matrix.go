package mutation

import (
	"sort"
	"strings"

	"github.com/inodb/mpcannot/internal/locus"
)

// ListSeparator joins aggregated gene and pathway names in a matrix row.
const ListSeparator = ", "

// MatrixRow is one row of the base matrix: a patient's distinct mutation at a
// locus with a given consequence, with gene and pathway annotations
// aggregated across the records that collapsed into it.
type MatrixRow struct {
	// Index is the row's position in the matrix. The join stamps it onto
	// its output so later sorting can restore matrix order exactly.
	Index        int
	ChildID      string
	Chr          string
	Position     string
	Ref          string
	Alt          string
	Consequence  string
	Genes        string
	Pathways     string
	PathwayCount int
	Key          string
}

type groupKey struct {
	child string
	chr   string
	pos   string
	ref   string
	alt   string
	cons  string
}

type group struct {
	genes    map[string]struct{}
	pathways map[string]struct{}
}

// BuildMatrix collapses records into one row per (patient, chromosome,
// position, ref, alt, consequence), aggregating the distinct gene symbols and
// pathway memberships of each group. genePathways maps a gene symbol to the
// pathways containing it; when it is non-nil, records whose gene appears in
// no pathway are dropped, since the pathway tables define the analysis
// universe. Pass nil to build the matrix without pathway annotations.
//
// Rows are ordered by the group key and aggregated names are sorted, so the
// matrix is identical across runs regardless of input order.
func BuildMatrix(records []*Record, genePathways map[string][]string) []*MatrixRow {
	groups := make(map[groupKey]*group)
	for _, r := range records {
		var pathways []string
		if genePathways != nil {
			pathways = genePathways[r.HGNCSymbol]
			if len(pathways) == 0 {
				continue
			}
		}

		k := groupKey{
			child: r.ChildID,
			chr:   r.Chr,
			pos:   r.Position,
			ref:   r.Ref,
			alt:   r.Alt,
			cons:  r.Consequence,
		}
		g := groups[k]
		if g == nil {
			g = &group{
				genes:    make(map[string]struct{}),
				pathways: make(map[string]struct{}),
			}
			groups[k] = g
		}
		g.genes[r.HGNCSymbol] = struct{}{}
		for _, p := range pathways {
			g.pathways[p] = struct{}{}
		}
	}

	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return lessGroupKey(keys[i], keys[j])
	})

	rows := make([]*MatrixRow, 0, len(keys))
	for i, k := range keys {
		g := groups[k]
		rows = append(rows, &MatrixRow{
			Index:        i,
			ChildID:      k.child,
			Chr:          k.chr,
			Position:     k.pos,
			Ref:          k.ref,
			Alt:          k.alt,
			Consequence:  k.cons,
			Genes:        joinSorted(g.genes),
			Pathways:     joinSorted(g.pathways),
			PathwayCount: len(g.pathways),
			Key:          locus.Key(k.chr, k.pos, k.ref, k.alt),
		})
	}
	return rows
}

func lessGroupKey(a, b groupKey) bool {
	if a.child != b.child {
		return a.child < b.child
	}
	if a.chr != b.chr {
		return a.chr < b.chr
	}
	if a.pos != b.pos {
		return a.pos < b.pos
	}
	if a.ref != b.ref {
		return a.ref < b.ref
	}
	if a.alt != b.alt {
		return a.alt < b.alt
	}
	return a.cons < b.cons
}

func joinSorted(set map[string]struct{}) string {
	if len(set) == 0 {
		return ""
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ListSeparator)
}
