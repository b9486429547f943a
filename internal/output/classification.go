package output

import "github.com/inodb/snpeff2maf/internal/vcf"

// Split frame shift effect types.
const (
	effectFrameShift    = "FRAME_SHIFT"
	effectFrameShiftIns = "FRAME_SHIFT_INS"
	effectFrameShiftDel = "FRAME_SHIFT_DEL"
)

// snpEffToMAF maps SnpEff effect types to TCGA MAF Variant_Classification values.
var snpEffToMAF = map[string]string{
	"RARE_AMINO_ACID":                   "Missense_Mutation",
	"SPLICE_SITE_ACCEPTOR":              "Splice_Site",
	"SPLICE_SITE_DONOR":                 "Splice_Site",
	"START_LOST":                        "Missense_Mutation",
	"EXON_DELETED":                      "Frame_Shift_Del",
	effectFrameShiftIns:                 "Frame_Shift_Ins",
	effectFrameShiftDel:                 "Frame_Shift_Del",
	"STOP_GAINED":                       "Nonsense_Mutation",
	"STOP_LOST":                         "Nonstop_Mutation",
	"NON_SYNONYMOUS_CODING":             "Missense_Mutation",
	"CODON_CHANGE":                      "Missense_Mutation",
	"CODON_INSERTION":                   "In_Frame_Ins",
	"CODON_CHANGE_PLUS_CODON_INSERTION": "In_Frame_Ins",
	"CODON_DELETION":                    "In_Frame_Del",
	"CODON_CHANGE_PLUS_CODON_DELETION":  "In_Frame_Del",
	"UTR_5_DELETED":                     "5'UTR",
	"UTR_3_DELETED":                     "3'UTR",
	"SYNONYMOUS_START":                  "Silent",
	"NON_SYNONYMOUS_START":              "Missense_Mutation",
	"START_GAINED":                      "De_novo_Start_InFrame",
	"SYNONYMOUS_CODING":                 "Silent",
	"SYNONYMOUS_STOP":                   "Silent",
	"NON_SYNONYMOUS_STOP":               "Nonsense_Mutation",
	"UTR_5_PRIME":                       "5'UTR",
	"UTR_3_PRIME":                       "3'UTR",
	"REGULATION":                        "5'Flank",
	"UPSTREAM":                          "5'Flank",
	"DOWNSTREAM":                        "3'Flank",
	"GENE":                              "Targeted_Region",
	"TRANSCRIPT":                        "RNA",
	"EXON":                              "Targeted_Region",
	"INTRON_CONSERVED":                  "Intron",
	"INTRON":                            "Intron",
	"INTRAGENIC":                        "Targeted_Region",
	"INTERGENIC":                        "IGR",
	"INTERGENIC_CONSERVED":              "IGR",
	"NONE":                              "",
	"CHROMOSOME":                        "",
	"CUSTOM":                            "",
	"CDS":                               "Targeted_Region",
}

// SplitFrameShift resolves FRAME_SHIFT into FRAME_SHIFT_INS when the
// alternate allele is longer than the reference and FRAME_SHIFT_DEL
// otherwise. Other effect types are returned unchanged.
func SplitFrameShift(effect string, r *vcf.Record) string {
	if effect != effectFrameShift {
		return effect
	}
	if r != nil && r.IsInsertion() {
		return effectFrameShiftIns
	}
	return effectFrameShiftDel
}

// Classify converts a SnpEff effect type to a MAF Variant_Classification.
// Unknown effect types classify as "".
func Classify(effect string, r *vcf.Record) string {
	return snpEffToMAF[SplitFrameShift(effect, r)]
}

// VariantType returns the MAF variant type of raw VCF alleles:
// SNP, DNP, TNP, ONP, INS or DEL.
func VariantType(ref, alt string) string {
	if len(ref) <= 1 && len(alt) <= 1 {
		return "SNP"
	}
	switch {
	case len(ref) > len(alt):
		return "DEL"
	case len(ref) < len(alt):
		return "INS"
	}
	switch len(ref) {
	case 2:
		return "DNP"
	case 3:
		return "TNP"
	default:
		return "ONP"
	}
}
