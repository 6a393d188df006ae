package output

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/inodb/mpcannot/internal/filter"
)

// auditFilePattern names the audit log after the run timestamp, pairing it
// with the exports of the same run.
const auditFilePattern = "MPC-pph2_logINFO_%s.log"

// Audit records a run's parameters, filter applications and written outputs
// in a log file.
type Audit struct {
	logger *zap.Logger
	path   string
}

// NewAudit opens the audit log for a run under dir and records the run
// identity.
func NewAudit(dir string, run RunInfo) (*Audit, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf(auditFilePattern, run.Timestamp()))

	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}

	logger.Info("annotation run started",
		zap.String("run_id", run.ID),
		zap.Time("started", run.Start),
		zap.String("user", run.User))
	return &Audit{logger: logger, path: path}, nil
}

// Path returns the audit log location.
func (a *Audit) Path() string {
	return a.path
}

// Logger exposes the run logger so pipeline stages share the audit trail.
func (a *Audit) Logger() *zap.Logger {
	return a.logger
}

// Parameters records the resolved run inputs.
func (a *Audit) Parameters(mutationsFile, pathwaysDir, referencePath string) {
	a.logger.Info("run parameters",
		zap.String("mutations_file", mutationsFile),
		zap.String("pathways_dir", pathwaysDir),
		zap.String("reference", referencePath))
}

// Filter records one filter application with its resolved value set. A nil
// application, meaning the filter was a no-op, is skipped.
func (a *Audit) Filter(applied *filter.Applied) {
	if applied == nil {
		return
	}
	a.logger.Info("filter applied",
		zap.String("field", applied.Field),
		zap.String("mode", applied.Mode),
		zap.String("raw", applied.Raw),
		zap.Strings("values", applied.Values),
		zap.Int("records_in", applied.In),
		zap.Int("records_out", applied.Out))
}

// Export records one written output file.
func (a *Audit) Export(kind, path string, rows int) {
	a.logger.Info("wrote output",
		zap.String("kind", kind),
		zap.String("path", path),
		zap.Int("rows", rows))
}

// Close flushes the audit log.
func (a *Audit) Close() error {
	return a.logger.Sync()
}
