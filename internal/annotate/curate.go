package annotate

import "sort"

// Curate turns the joined superset into the final annotated set. The records
// are first ordered by base-matrix row, with matched copies ahead of
// sentinel fills and ties broken by chunk ordinal, so the outcome does not
// depend on filesystem listing order. Invalid missense records are then
// dropped, one record survives per locus key, and survivors receive dense
// 1-based IDs.
func Curate(records []*Record) []*Record {
	ordered := make([]*Record, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		if a.Matched != b.Matched {
			return a.Matched
		}
		return a.Chunk < b.Chunk
	})

	seen := make(map[string]bool)
	var curated []*Record
	for _, rec := range ordered {
		if invalidMissense(rec) {
			continue
		}
		if seen[rec.Key] {
			continue
		}
		seen[rec.Key] = true
		curated = append(curated, rec)
	}

	for i, rec := range curated {
		rec.ID = i + 1
	}
	return curated
}

// invalidMissense reports a missense record with no usable prediction
// evidence: either PolyPhen came back unknown with a zero score, or MPC is
// missing altogether.
func invalidMissense(rec *Record) bool {
	if rec.Consequence != ConsequenceMissense {
		return false
	}
	if rec.Pph2Prediction == "unknown" && LenientScore(rec.Pph2Value) == 0 {
		return true
	}
	return MPCAbsent(rec.MPC)
}
