package vcf

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// NoCall is the base substituted for a "." allele.
const NoCall = "N"

// Genotype separators.
const (
	SepUnphased = "/"
	SepPhased   = "|"
)

// ResolveGenotype converts a sample's GT allele indices into bases.
//
// The GT value is split on "|" when phased and "/" otherwise. Index 0 is REF
// and 1..n are the comma-separated ALT alleles; "." becomes NoCall. Unphased
// genotypes are sorted by base so that 1/0 and 0/1 resolve identically.
//
//	REF=A ALT=C: 0/1 -> A/C, 1|0 (phased) -> C|A, ./1 -> C/N
func ResolveGenotype(r *Record, sample string, phased bool) (string, error) {
	sg, err := r.Sample(sample)
	if err != nil {
		return "", err
	}
	gt, ok := sg["GT"]
	if !ok {
		return "", &LookupError{Kind: LookupField, Key: "GT", Line: r.line, Message: "sample " + sample}
	}

	sep := SepUnphased
	if phased {
		sep = SepPhased
	}

	candidates := append([]string{r.Ref()}, strings.Split(r.Alt(), ",")...)

	tokens := strings.Split(gt, sep)
	bases := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok == "." {
			bases = append(bases, NoCall)
			continue
		}
		idx, err := strconv.Atoi(tok)
		if err != nil || idx < 0 || idx >= len(candidates) {
			return "", &LookupError{
				Kind:    LookupAllele,
				Key:     tok,
				Line:    r.line,
				Message: fmt.Sprintf("sample %s GT %s with %d candidate alleles", sample, gt, len(candidates)),
			}
		}
		bases = append(bases, candidates[idx])
	}

	if !phased {
		sort.Strings(bases)
	}
	return strings.Join(bases, sep), nil
}
