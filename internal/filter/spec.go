// Package filter narrows annotated record sets by field-specific
// specifications given as a literal, a comma-separated list, or a path to a
// set file.
package filter

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Kind tags how a raw filter argument was interpreted.
type Kind int

const (
	KindNone Kind = iota
	KindLiteral
	KindList
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindLiteral:
		return "literal"
	case KindList:
		return "list"
	case KindFile:
		return "file"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Spec is a filter argument resolved once into a normalized value set.
type Spec struct {
	Kind   Kind
	Raw    string
	Values []string

	set map[string]struct{}
}

// Resolve interprets a raw filter argument. A path to an existing regular
// file wins, then a comma-separated list, then a bare literal; a value that
// happens to name an existing file is always read as one. The empty string
// resolves to a no-op spec.
func Resolve(raw string) (*Spec, error) {
	if raw == "" {
		return &Spec{Kind: KindNone}, nil
	}

	if info, err := os.Stat(raw); err == nil && info.Mode().IsRegular() {
		values, err := readSetFile(raw)
		if err != nil {
			return nil, err
		}
		return newSpec(KindFile, raw, values), nil
	}

	if strings.Contains(raw, ",") {
		return newSpec(KindList, raw, strings.Split(raw, ",")), nil
	}
	return newSpec(KindLiteral, raw, []string{raw}), nil
}

func newSpec(kind Kind, raw string, values []string) *Spec {
	s := &Spec{
		Kind:   kind,
		Raw:    raw,
		Values: values,
		set:    make(map[string]struct{}, len(values)),
	}
	for _, v := range values {
		s.set[v] = struct{}{}
	}
	return s
}

// IsNone reports whether the spec filters nothing.
func (s *Spec) IsNone() bool {
	return s == nil || s.Kind == KindNone
}

// Match reports whether a field value passes the spec.
func (s *Spec) Match(v string) bool {
	if s.IsNone() {
		return true
	}
	_, ok := s.set[v]
	return ok
}

// readSetFile reads a value set from the first column of a newline- or
// tab-delimited file, preserving order and skipping blank lines. An empty
// resulting set is valid and simply matches nothing.
func readSetFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open filter file: %w", err)
	}
	defer f.Close()

	var values []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		value, _, _ := strings.Cut(line, "\t")
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		values = append(values, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading filter file %s: %w", path, err)
	}
	return values, nil
}
