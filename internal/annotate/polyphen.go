package annotate

import (
	"fmt"
	"strings"
)

// PredictionFormatError reports a compound prediction string that cannot be
// split into label and score.
type PredictionFormatError struct {
	Value string
}

func (e *PredictionFormatError) Error() string {
	return fmt.Sprintf("malformed prediction %q: want label(score)", e.Value)
}

// ParsePrediction splits a compound "label(score)" string on its first
// parenthesis pair: the label is everything before the opening parenthesis,
// the score everything up to the next closing one. The sentinel
// "unavailable(unavailable)" parses like any other value.
func ParsePrediction(s string) (label, score string, err error) {
	open := strings.Index(s, "(")
	if open < 0 {
		return "", "", &PredictionFormatError{Value: s}
	}
	rest := s[open+1:]
	end := strings.Index(rest, ")")
	if end < 0 {
		return "", "", &PredictionFormatError{Value: s}
	}
	return s[:open], rest[:end], nil
}

// ParsePredictions resolves the compound PolyPhen field of every record into
// its Pph2Prediction and Pph2Value fields. Any malformed value aborts with
// an error naming the offending record.
func ParsePredictions(records []*Record) error {
	for _, rec := range records {
		label, score, err := ParsePrediction(rec.PolyPhen)
		if err != nil {
			return fmt.Errorf("record %s at %s: %w", rec.ChildID, rec.Key, err)
		}
		rec.Pph2Prediction = label
		rec.Pph2Value = score
	}
	return nil
}
