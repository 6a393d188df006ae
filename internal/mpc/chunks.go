package mpc

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ChunkSet lists and reads the chunk files of a directory. Every regular,
// non-hidden file counts as a chunk, so pre-partitioned directories do not
// need to follow the staged naming scheme. Files are visited in name order.
type ChunkSet struct {
	dir   string
	names []string
}

// OpenChunkSet scans dir for chunk files. A directory with no chunk files is
// an error, since joining against nothing is always a misconfiguration.
func OpenChunkSet(dir string) (*ChunkSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("open chunk directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("chunk directory %s contains no chunk files", dir)
	}

	return &ChunkSet{dir: dir, names: names}, nil
}

// Len returns the number of chunk files.
func (s *ChunkSet) Len() int {
	return len(s.names)
}

// Name returns the file name of chunk i.
func (s *ChunkSet) Name(i int) string {
	return s.names[i]
}

// Read loads chunk i into memory. Only one chunk is ever materialized at a
// time by callers iterating the set.
func (s *ChunkSet) Read(i int) ([]*Record, error) {
	name := s.names[i]
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("open chunk %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("chunk %s: missing header", name)
	}
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", name, err)
	}

	cols := map[string]int{}
	for j, col := range header {
		cols[strings.TrimSpace(col)] = j
	}
	var missing []string
	for _, c := range chunkColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("chunk %s: header missing required columns: %s",
			name, strings.Join(missing, ", "))
	}

	var records []*Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", name, err)
		}
		records = append(records, &Record{
			Chrom:    row[cols[ColChrom]],
			Pos:      row[cols[ColPos]],
			Ref:      row[cols[ColRef]],
			Alt:      row[cols[ColAlt]],
			PolyPhen: row[cols[ColPolyPhen]],
			MPC:      row[cols[ColMPC]],
		})
	}
}
