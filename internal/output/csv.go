package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/inodb/mpcannot/internal/annotate"
	"github.com/inodb/mpcannot/internal/pathway"
)

const (
	annotationsFilePattern = "MPC-pph2-annotations-%s.csv"
	matrixFilePattern      = "MPC-pph2-pathways-annotations-%s.csv"
)

// annotationColumns is the canonical export layout.
var annotationColumns = []string{
	"id",
	"Child_id",
	"Key",
	"Chr",
	"Pos",
	"Ref",
	"Alt",
	"Consequence",
	"HGNC_Symbol",
	"Pathway",
	"Num_Affected_Pathways",
	"MPC",
	"pph2_Prediction",
	"pph2_Value",
	"Adj_Consequence",
}

func annotationRow(rec *annotate.Record) []string {
	return []string{
		strconv.Itoa(rec.ID),
		rec.ChildID,
		rec.Key,
		rec.Chr,
		rec.Position,
		rec.Ref,
		rec.Alt,
		rec.Consequence,
		rec.Genes,
		rec.Pathways,
		strconv.Itoa(rec.PathwayCount),
		rec.MPC,
		rec.Pph2Prediction,
		rec.Pph2Value,
		rec.AdjustedConsequence,
	}
}

// AnnotationWriter writes annotated records as CSV. Aggregated gene and
// pathway fields contain the list separator, so CSV quoting is load-bearing
// here.
type AnnotationWriter struct {
	w *csv.Writer
}

// NewAnnotationWriter creates a writer emitting the canonical layout.
func NewAnnotationWriter(w io.Writer) *AnnotationWriter {
	return &AnnotationWriter{w: csv.NewWriter(w)}
}

// WriteHeader writes the column header.
func (aw *AnnotationWriter) WriteHeader() error {
	return aw.w.Write(annotationColumns)
}

// Write writes a single record.
func (aw *AnnotationWriter) Write(rec *annotate.Record) error {
	return aw.w.Write(annotationRow(rec))
}

// Flush flushes buffered rows to the underlying writer.
func (aw *AnnotationWriter) Flush() error {
	aw.w.Flush()
	return aw.w.Error()
}

// MatrixWriter writes the annotation layout extended with one binary
// membership column per pathway.
type MatrixWriter struct {
	w      *csv.Writer
	matrix *pathway.Matrix
}

// NewMatrixWriter creates a writer for the membership export.
func NewMatrixWriter(w io.Writer, m *pathway.Matrix) *MatrixWriter {
	return &MatrixWriter{w: csv.NewWriter(w), matrix: m}
}

// WriteHeader writes the annotation columns followed by the pathway names.
func (mw *MatrixWriter) WriteHeader() error {
	return mw.w.Write(append(append([]string{}, annotationColumns...), mw.matrix.Columns()...))
}

// Write writes a single record with its membership flags.
func (mw *MatrixWriter) Write(rec *annotate.Record) error {
	return mw.w.Write(append(annotationRow(rec), mw.matrix.Row(rec.ChildID, rec.Key)...))
}

// Flush flushes buffered rows to the underlying writer.
func (mw *MatrixWriter) Flush() error {
	mw.w.Flush()
	return mw.w.Error()
}

// ExportAnnotations writes the annotated set into dir, named by the run
// timestamp, and returns the file path. An empty record set still produces
// a file with the header.
func ExportAnnotations(dir string, run RunInfo, records []*annotate.Record) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf(annotationsFilePattern, run.Timestamp()))
	err := writeFile(dir, path, func(f io.Writer) error {
		aw := NewAnnotationWriter(f)
		if err := aw.WriteHeader(); err != nil {
			return err
		}
		for _, rec := range records {
			if err := aw.Write(rec); err != nil {
				return err
			}
		}
		return aw.Flush()
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// ExportMatrix writes the membership export into dir and returns the file
// path.
func ExportMatrix(dir string, run RunInfo, records []*annotate.Record, m *pathway.Matrix) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf(matrixFilePattern, run.Timestamp()))
	err := writeFile(dir, path, func(f io.Writer) error {
		mw := NewMatrixWriter(f, m)
		if err := mw.WriteHeader(); err != nil {
			return err
		}
		for _, rec := range records {
			if err := mw.Write(rec); err != nil {
				return err
			}
		}
		return mw.Flush()
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

func writeFile(dir, path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
