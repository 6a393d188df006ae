package mpc

import (
	"bufio"
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// DefaultChunkSize bounds rows per chunk when no size is configured.
const DefaultChunkSize = 100000

// chunkFilePattern names staged chunk files; the ordinal starts at 1.
const chunkFilePattern = "chunk_%d.csv"

// ParseError describes a malformed line in the reference source file.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("reference line %d: %s", e.Line, e.Message)
}

// Partitioner splits a large tab-separated reference file into bounded CSV
// chunk files. The source is streamed row by row, so memory use is
// independent of its size.
type Partitioner struct {
	chunkSize int
	logger    *zap.Logger
}

// NewPartitioner creates a Partitioner writing at most chunkSize rows per
// chunk. chunkSize must be at least 1.
func NewPartitioner(chunkSize int) (*Partitioner, error) {
	if chunkSize < 1 {
		return nil, fmt.Errorf("chunk size must be at least 1, got %d", chunkSize)
	}
	return &Partitioner{
		chunkSize: chunkSize,
		logger:    zap.NewNop(),
	}, nil
}

// SetLogger sets the logger for progress messages.
func (p *Partitioner) SetLogger(l *zap.Logger) {
	p.logger = l
}

// Ensure resolves refPath to a chunk directory. A directory is used as-is; a
// file is partitioned into stagingDir first. The dispatch is on the path's
// actual type, never guessed from errors.
func (p *Partitioner) Ensure(refPath, stagingDir string) (string, error) {
	info, err := os.Stat(refPath)
	if err != nil {
		return "", fmt.Errorf("reference path: %w", err)
	}
	if info.IsDir() {
		return refPath, nil
	}
	if _, err := p.Partition(refPath, stagingDir); err != nil {
		return "", err
	}
	return stagingDir, nil
}

// Partition streams the reference file at srcPath into chunk files under dir
// and returns the number of chunks written. Existing staged chunks in dir are
// removed first, so re-partitioning the same source is idempotent. On failure
// the in-progress chunk file is removed and the returned error reports the
// directory as incomplete.
func (p *Partitioner) Partition(srcPath, dir string) (int, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return 0, fmt.Errorf("open reference file: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return 0, fmt.Errorf("opening gzip stream: %w", err)
		}
		defer gz.Close()
		br = bufio.NewReader(gz)
	}

	scanner := bufio.NewScanner(br)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)

	idx, lineNum, err := readSourceHeader(scanner)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create chunk directory: %w", err)
	}
	if err := removeStagedChunks(dir); err != nil {
		return 0, err
	}

	var (
		chunks    int
		rows      int
		chunkRows int
		out       *os.File
		w         *csv.Writer
	)

	// fail closes and removes the chunk being written so a partial file
	// never looks like a complete chunk.
	fail := func(cause error) (int, error) {
		if out != nil {
			out.Close()
			os.Remove(out.Name())
		}
		return 0, fmt.Errorf("chunk directory %s is incomplete: %w", dir, cause)
	}

	closeChunk := func() error {
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
		return out.Close()
	}

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) <= idx.max() {
			return fail(&ParseError{
				Line:    lineNum,
				Message: fmt.Sprintf("expected at least %d columns, got %d", idx.max()+1, len(fields)),
			})
		}

		if out == nil {
			chunks++
			name := filepath.Join(dir, fmt.Sprintf(chunkFilePattern, chunks))
			out, err = os.Create(name)
			if err != nil {
				return fail(err)
			}
			w = csv.NewWriter(out)
			if err := w.Write(chunkColumns); err != nil {
				return fail(err)
			}
			chunkRows = 0
		}

		row := []string{
			fields[idx.chrom],
			fields[idx.pos],
			fields[idx.ref],
			fields[idx.alt],
			fields[idx.polyPhen],
			fields[idx.mpc],
		}
		if err := w.Write(row); err != nil {
			return fail(err)
		}
		rows++
		chunkRows++

		if chunkRows == p.chunkSize {
			if err := closeChunk(); err != nil {
				return fail(err)
			}
			out = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fail(err)
	}
	if out != nil {
		if err := closeChunk(); err != nil {
			return fail(err)
		}
	}

	p.logger.Info("partitioned reference file",
		zap.String("source", srcPath),
		zap.String("dir", dir),
		zap.Int("rows", rows),
		zap.Int("chunks", chunks),
		zap.Int("chunk_size", p.chunkSize))
	return chunks, nil
}

type sourceIndices struct {
	chrom    int
	pos      int
	ref      int
	alt      int
	polyPhen int
	mpc      int
}

func (idx sourceIndices) max() int {
	m := idx.chrom
	for _, i := range []int{idx.pos, idx.ref, idx.alt, idx.polyPhen, idx.mpc} {
		if i > m {
			m = i
		}
	}
	return m
}

func readSourceHeader(scanner *bufio.Scanner) (sourceIndices, int, error) {
	idx := sourceIndices{chrom: -1, pos: -1, ref: -1, alt: -1, polyPhen: -1, mpc: -1}
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}

		for i, name := range strings.Split(line, "\t") {
			switch strings.TrimSpace(name) {
			case ColChrom:
				idx.chrom = i
			case ColPos:
				idx.pos = i
			case ColRef:
				idx.ref = i
			case ColAlt:
				idx.alt = i
			case ColPolyPhen:
				idx.polyPhen = i
			case ColMPC:
				idx.mpc = i
			}
		}

		var missing []string
		for _, c := range []struct {
			name string
			pos  int
		}{
			{ColChrom, idx.chrom},
			{ColPos, idx.pos},
			{ColRef, idx.ref},
			{ColAlt, idx.alt},
			{ColPolyPhen, idx.polyPhen},
			{ColMPC, idx.mpc},
		} {
			if c.pos < 0 {
				missing = append(missing, c.name)
			}
		}
		if len(missing) > 0 {
			return idx, lineNum, &ParseError{
				Line:    lineNum,
				Message: fmt.Sprintf("header missing required columns: %s", strings.Join(missing, ", ")),
			}
		}
		return idx, lineNum, nil
	}
	if err := scanner.Err(); err != nil {
		return idx, lineNum, err
	}
	return idx, lineNum, &ParseError{Line: lineNum, Message: "no header line found"}
}

// removeStagedChunks deletes chunk files left over from a previous run.
// Without this, partitioning a smaller source into a reused directory would
// leave stale high-numbered chunks behind.
func removeStagedChunks(dir string) error {
	matches, err := filepath.Glob(filepath.Join(dir, "chunk_*.csv"))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return fmt.Errorf("remove stale chunk: %w", err)
		}
	}
	return nil
}
