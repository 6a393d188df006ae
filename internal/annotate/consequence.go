package annotate

import "strconv"

// Consequence terms with special classification behavior.
const (
	ConsequenceMissense       = "missense_variant"
	ConsequenceFrameshift     = "frameshift_variant"
	ConsequenceSpliceAcceptor = "splice_acceptor_variant"
	ConsequenceSpliceDonor    = "splice_donor_variant"
	ConsequenceStopGained     = "stop_gained"
)

// Adjusted consequence categories.
const (
	AdjustedMissense3 = "Missense3"
	AdjustedMissense  = "Missense"
	AdjustedPTV       = "PTV"
)

// labelProbablyDamaging is the PolyPhen prediction that promotes a missense
// variant to Missense3 regardless of its MPC score.
const labelProbablyDamaging = "probably damaging"

// damagingMPC is the inclusive MPC threshold with the same effect.
const damagingMPC = 2

// ptvConsequences are the protein-truncating consequence terms.
var ptvConsequences = map[string]bool{
	ConsequenceFrameshift:     true,
	ConsequenceSpliceAcceptor: true,
	ConsequenceSpliceDonor:    true,
	ConsequenceStopGained:     true,
}

// LenientScore reads a numeric score from its string form. Anything that
// does not parse, including the "unavailable" sentinel and empty cells,
// scores 0 so it never clears a positive threshold. Every numeric threshold
// in the pipeline goes through this one coercion.
func LenientScore(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// AdjustConsequence maps a record's consequence, PolyPhen prediction and MPC
// score to its adjusted consequence category. Rules apply in order, first
// match wins:
//
//  1. missense with a "probably damaging" prediction or MPC >= 2 is
//     Missense3
//  2. any other missense is Missense
//  3. frameshift, splice acceptor/donor and stop gained are PTV
//  4. everything else passes through unchanged
func AdjustConsequence(consequence, pph2Prediction, mpcScore string) string {
	switch {
	case consequence == ConsequenceMissense &&
		(pph2Prediction == labelProbablyDamaging || LenientScore(mpcScore) >= damagingMPC):
		return AdjustedMissense3
	case consequence == ConsequenceMissense:
		return AdjustedMissense
	case ptvConsequences[consequence]:
		return AdjustedPTV
	default:
		return consequence
	}
}

// AdjustConsequences classifies every record in place.
func AdjustConsequences(records []*Record) {
	for _, rec := range records {
		rec.AdjustedConsequence = AdjustConsequence(rec.Consequence, rec.Pph2Prediction, rec.MPC)
	}
}
