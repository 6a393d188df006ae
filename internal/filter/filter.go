package filter

import (
	"fmt"
	"strconv"

	"github.com/inodb/mpcannot/internal/annotate"
)

// Filterable annotation fields.
const (
	FieldPatient     = "patient"
	FieldGene        = "gene"
	FieldConsequence = "consequence"
	FieldPph2        = "pph2"
	FieldAdjusted    = "adjusted"
	FieldMPC         = "mpc"
)

// Applied describes one filter application, for the audit log.
type Applied struct {
	Field  string
	Raw    string
	Mode   string
	Values []string
	In     int
	Out    int
}

// Apply narrows records to those whose field value matches spec. A nil or
// no-op spec returns the input unchanged with no Applied entry. The gene
// field matches against the aggregated gene rendering of each record, so
// multi-gene rows only match their full joined form.
func Apply(records []*annotate.Record, field string, spec *Spec) ([]*annotate.Record, *Applied, error) {
	value, err := fieldValue(field)
	if err != nil {
		return nil, nil, err
	}
	if spec.IsNone() {
		return records, nil, nil
	}

	out := make([]*annotate.Record, 0, len(records))
	for _, rec := range records {
		if spec.Match(value(rec)) {
			out = append(out, rec)
		}
	}
	return out, &Applied{
		Field:  field,
		Raw:    spec.Raw,
		Mode:   spec.Kind.String(),
		Values: spec.Values,
		In:     len(records),
		Out:    len(out),
	}, nil
}

// ApplyMPCThreshold keeps records whose MPC is present and at least min,
// given as its raw string form. Records with an absent MPC never pass. An
// unparsable threshold is a caller error, not a no-op.
func ApplyMPCThreshold(records []*annotate.Record, raw string) ([]*annotate.Record, *Applied, error) {
	if raw == "" {
		return records, nil, nil
	}
	threshold, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid MPC threshold %q: %w", raw, err)
	}

	out := make([]*annotate.Record, 0, len(records))
	for _, rec := range records {
		if annotate.MPCAbsent(rec.MPC) {
			continue
		}
		if annotate.LenientScore(rec.MPC) >= threshold {
			out = append(out, rec)
		}
	}
	return out, &Applied{
		Field:  FieldMPC,
		Raw:    raw,
		Mode:   "threshold",
		Values: []string{raw},
		In:     len(records),
		Out:    len(out),
	}, nil
}

func fieldValue(field string) (func(*annotate.Record) string, error) {
	switch field {
	case FieldPatient:
		return func(r *annotate.Record) string { return r.ChildID }, nil
	case FieldGene:
		return func(r *annotate.Record) string { return r.Genes }, nil
	case FieldConsequence:
		return func(r *annotate.Record) string { return r.Consequence }, nil
	case FieldPph2:
		return func(r *annotate.Record) string { return r.Pph2Prediction }, nil
	case FieldAdjusted:
		return func(r *annotate.Record) string { return r.AdjustedConsequence }, nil
	default:
		return nil, fmt.Errorf("unknown filter field %q", field)
	}
}
