// Package snpeff decodes SnpEff "EFF=" annotations and ranks them by severity.
package snpeff

// Impact labels written by SnpEff.
const (
	ImpactHigh     = "HIGH"
	ImpactModerate = "MODERATE"
	ImpactLow      = "LOW"
	ImpactModifier = "MODIFIER"
)

// effectFieldCount is the number of positional fields in an Effect,
// including the effect type itself.
const effectFieldCount = 10

// Effect is one predicted functional consequence on a transcript.
type Effect struct {
	Effect          string // Effect type (e.g., NON_SYNONYMOUS_CODING)
	Impact          string // HIGH, MODERATE, LOW, MODIFIER
	FunctionalClass string // NONE, SILENT, MISSENSE, NONSENSE
	CodonChange     string // e.g., "Ggt/Tgt"
	AminoAcidChange string // e.g., "G12C"
	Gene            string // Gene symbol
	GeneBiotype     string // e.g., protein_coding
	Coding          string // CODING or NON_CODING
	Transcript      string // Transcript identifier
	Exon            string // Exon rank
}

// newEffect builds an Effect from exactly effectFieldCount positional attributes.
func newEffect(attrs []string) Effect {
	return Effect{
		Effect:          attrs[0],
		Impact:          attrs[1],
		FunctionalClass: attrs[2],
		CodonChange:     attrs[3],
		AminoAcidChange: attrs[4],
		Gene:            attrs[5],
		GeneBiotype:     attrs[6],
		Coding:          attrs[7],
		Transcript:      attrs[8],
		Exon:            attrs[9],
	}
}
