package annotate

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/mpcannot/internal/mpc"
	"github.com/inodb/mpcannot/internal/mutation"
)

// ChunkSource yields the reference chunks one at a time.
type ChunkSource interface {
	Len() int
	Name(i int) string
	Read(i int) ([]*mpc.Record, error)
}

// Joiner links the patient base matrix against reference chunks by locus
// key.
type Joiner struct {
	logger *zap.Logger
}

// NewJoiner creates a Joiner.
func NewJoiner() *Joiner {
	return &Joiner{logger: zap.NewNop()}
}

// SetLogger sets the logger for per-chunk progress messages.
func (j *Joiner) SetLogger(l *zap.Logger) {
	j.logger = l
}

// Join visits every chunk once and emits one record per (reference row,
// matching matrix row) pair, preserving intra-chunk row order. A chunk that
// matches nothing re-emits the entire patient set with sentinel values
// instead; the duplicates this produces are resolved later by Curate.
// Matrix rows that appear in no chunk output at all are appended once with
// sentinels in a final completeness pass, so every input row survives to the
// output at least once.
func (j *Joiner) Join(rows []*mutation.MatrixRow, chunks ChunkSource) ([]*Record, error) {
	byKey := make(map[string][]*mutation.MatrixRow)
	for _, row := range rows {
		byKey[row.Key] = append(byKey[row.Key], row)
	}

	emitted := make(map[int]bool, len(rows))
	var out []*Record

	for i := 0; i < chunks.Len(); i++ {
		refs, err := chunks.Read(i)
		if err != nil {
			return nil, fmt.Errorf("joining chunk %s: %w", chunks.Name(i), err)
		}

		var chunkOut []*Record
		for _, ref := range refs {
			for _, row := range byKey[ref.Key()] {
				chunkOut = append(chunkOut, newRecord(row, i, ref.PolyPhen, ref.MPC, true))
				emitted[row.Index] = true
			}
		}

		if len(chunkOut) == 0 {
			for _, row := range rows {
				chunkOut = append(chunkOut, newRecord(row, i, UnavailablePolyPhen, UnavailableMPC, false))
				emitted[row.Index] = true
			}
		}

		j.logger.Debug("joined chunk",
			zap.String("chunk", chunks.Name(i)),
			zap.Int("reference_rows", len(refs)),
			zap.Int("emitted", len(chunkOut)))
		out = append(out, chunkOut...)
	}

	for _, row := range rows {
		if !emitted[row.Index] {
			out = append(out, newRecord(row, -1, UnavailablePolyPhen, UnavailableMPC, false))
		}
	}

	j.logger.Info("joined reference chunks",
		zap.Int("chunks", chunks.Len()),
		zap.Int("matrix_rows", len(rows)),
		zap.Int("joined_rows", len(out)))
	return out, nil
}
