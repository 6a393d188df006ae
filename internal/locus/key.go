// Package locus builds the composite genomic-locus key shared by the patient
// and reference sides of the annotation join.
package locus

// Separator joins the key components.
const Separator = "|"

// Key renders the canonical locus key for a chromosome, position and allele
// change: chrom|pos|ref|alt. Components are joined verbatim; the key contract
// is byte-equality on the original string rendering, so callers must never
// reformat a component (no case folding, no numeric re-rendering of the
// position). Two records describe the same locus iff their keys are equal.
func Key(chrom, pos, ref, alt string) string {
	return chrom + Separator + pos + Separator + ref + Separator + alt
}
