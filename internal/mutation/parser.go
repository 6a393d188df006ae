package mutation

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"strings"
)

// ParseError describes a malformed line in a mutations file.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("mutations line %d: %s", e.Line, e.Message)
}

// ColumnIndices holds the positions of the required columns as found in the
// header line.
type ColumnIndices struct {
	ChildID     int
	Chr         int
	Position    int
	Ref         int
	Alt         int
	Consequence int
	HGNCSymbol  int
}

// Parser reads a tab-separated patient mutations file. The file must carry a
// header line naming all required columns; extra columns are ignored. Rows
// with a missing or "NA" patient ID or gene symbol are skipped and counted
// rather than treated as errors, since upstream exports routinely contain
// them.
type Parser struct {
	scanner *bufio.Scanner
	indices ColumnIndices
	lineNum int
	skipped int
}

// NewParser creates a Parser for r and reads the header line. Gzip input is
// detected from the magic bytes.
func NewParser(r io.Reader) (*Parser, error) {
	br := bufio.NewReader(r)

	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		br = bufio.NewReader(gz)
	}

	scanner := bufio.NewScanner(br)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)

	p := &Parser{scanner: scanner}
	if err := p.parseHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) parseHeader() error {
	for p.scanner.Scan() {
		p.lineNum++
		line := p.scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		idx := ColumnIndices{
			ChildID:     -1,
			Chr:         -1,
			Position:    -1,
			Ref:         -1,
			Alt:         -1,
			Consequence: -1,
			HGNCSymbol:  -1,
		}
		for i, name := range fields {
			switch strings.TrimSpace(name) {
			case ColChildID:
				idx.ChildID = i
			case ColChr:
				idx.Chr = i
			case ColPosition:
				idx.Position = i
			case ColRef:
				idx.Ref = i
			case ColAlt:
				idx.Alt = i
			case ColConsequence:
				idx.Consequence = i
			case ColHGNCSymbol:
				idx.HGNCSymbol = i
			}
		}

		var missing []string
		if idx.ChildID < 0 {
			missing = append(missing, ColChildID)
		}
		if idx.Chr < 0 {
			missing = append(missing, ColChr)
		}
		if idx.Position < 0 {
			missing = append(missing, ColPosition)
		}
		if idx.Ref < 0 {
			missing = append(missing, ColRef)
		}
		if idx.Alt < 0 {
			missing = append(missing, ColAlt)
		}
		if idx.Consequence < 0 {
			missing = append(missing, ColConsequence)
		}
		if idx.HGNCSymbol < 0 {
			missing = append(missing, ColHGNCSymbol)
		}
		if len(missing) > 0 {
			return &ParseError{
				Line:    p.lineNum,
				Message: fmt.Sprintf("header missing required columns: %s", strings.Join(missing, ", ")),
			}
		}

		p.indices = idx
		return nil
	}
	if err := p.scanner.Err(); err != nil {
		return err
	}
	return &ParseError{Line: p.lineNum, Message: "no header line found"}
}

// Indices returns the column positions resolved from the header.
func (p *Parser) Indices() ColumnIndices {
	return p.indices
}

// Skipped returns the number of data rows dropped for a missing patient ID or
// gene symbol.
func (p *Parser) Skipped() int {
	return p.skipped
}

// Next returns the next record, or (nil, nil) at end of input.
func (p *Parser) Next() (*Record, error) {
	for p.scanner.Scan() {
		p.lineNum++
		line := p.scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		max := p.maxIndex()
		if len(fields) <= max {
			return nil, &ParseError{
				Line:    p.lineNum,
				Message: fmt.Sprintf("expected at least %d columns, got %d", max+1, len(fields)),
			}
		}

		rec := &Record{
			ChildID:     strings.TrimSpace(fields[p.indices.ChildID]),
			Chr:         strings.TrimSpace(fields[p.indices.Chr]),
			Position:    strings.TrimSpace(fields[p.indices.Position]),
			Ref:         strings.TrimSpace(fields[p.indices.Ref]),
			Alt:         strings.TrimSpace(fields[p.indices.Alt]),
			Consequence: strings.TrimSpace(fields[p.indices.Consequence]),
			HGNCSymbol:  strings.TrimSpace(fields[p.indices.HGNCSymbol]),
		}
		if absent(rec.ChildID) || absent(rec.HGNCSymbol) {
			p.skipped++
			continue
		}
		return rec, nil
	}
	if err := p.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, nil
}

// ReadAll consumes the remaining input and returns every record.
func (p *Parser) ReadAll() ([]*Record, error) {
	var records []*Record
	for {
		rec, err := p.Next()
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return records, nil
		}
		records = append(records, rec)
	}
}

func (p *Parser) maxIndex() int {
	max := p.indices.ChildID
	for _, i := range []int{
		p.indices.Chr,
		p.indices.Position,
		p.indices.Ref,
		p.indices.Alt,
		p.indices.Consequence,
		p.indices.HGNCSymbol,
	} {
		if i > max {
			max = i
		}
	}
	return max
}

// absent reports whether a field value counts as missing. "NA" is the
// conventional null in the upstream exports.
func absent(v string) bool {
	return v == "" || v == "NA"
}
