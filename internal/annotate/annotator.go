package annotate

import (
	"go.uber.org/zap"

	"github.com/inodb/mpcannot/internal/mutation"
)

// Annotator runs the annotation pipeline over a patient base matrix: join
// against the reference chunks, split the compound predictions, classify,
// curate.
type Annotator struct {
	joiner *Joiner
	logger *zap.Logger
}

// NewAnnotator creates an Annotator.
func NewAnnotator() *Annotator {
	return &Annotator{
		joiner: NewJoiner(),
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for progress messages.
func (a *Annotator) SetLogger(l *zap.Logger) {
	a.logger = l
	a.joiner.SetLogger(l)
}

// Annotate produces the curated annotated record set for the given matrix
// rows and reference chunks.
func (a *Annotator) Annotate(rows []*mutation.MatrixRow, chunks ChunkSource) ([]*Record, error) {
	joined, err := a.joiner.Join(rows, chunks)
	if err != nil {
		return nil, err
	}
	if err := ParsePredictions(joined); err != nil {
		return nil, err
	}
	AdjustConsequences(joined)

	curated := Curate(joined)
	a.logger.Info("curated annotated records",
		zap.Int("joined", len(joined)),
		zap.Int("curated", len(curated)))
	return curated, nil
}
