package pathway

import (
	"sort"
	"strings"

	"github.com/inodb/mpcannot/internal/mutation"
)

// Matrix holds binary pathway membership per patient and locus, collapsed
// across the consequence groups of the base matrix.
type Matrix struct {
	columns []string
	members map[memberKey]map[string]struct{}
}

type memberKey struct {
	child string
	key   string
}

// NewMatrix derives the membership matrix from base-matrix rows. Columns are
// the pathway names seen across the rows, sorted; a patient-locus belongs to
// a pathway if any of its consequence groups does.
func NewMatrix(rows []*mutation.MatrixRow) *Matrix {
	columns := make(map[string]struct{})
	members := make(map[memberKey]map[string]struct{})

	for _, row := range rows {
		if row.Pathways == "" {
			continue
		}
		k := memberKey{child: row.ChildID, key: row.Key}
		if members[k] == nil {
			members[k] = make(map[string]struct{})
		}
		for _, name := range strings.Split(row.Pathways, mutation.ListSeparator) {
			columns[name] = struct{}{}
			members[k][name] = struct{}{}
		}
	}

	sorted := make([]string, 0, len(columns))
	for name := range columns {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	return &Matrix{columns: sorted, members: members}
}

// Columns returns the pathway names in column order.
func (m *Matrix) Columns() []string {
	return m.columns
}

// Row renders the 0/1 membership flags of a patient's locus, in column
// order. Unknown patient-locus pairs are members of nothing.
func (m *Matrix) Row(childID, key string) []string {
	set := m.members[memberKey{child: childID, key: key}]
	out := make([]string, len(m.columns))
	for i, name := range m.columns {
		if _, ok := set[name]; ok {
			out[i] = "1"
		} else {
			out[i] = "0"
		}
	}
	return out
}
