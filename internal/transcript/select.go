package transcript

import "github.com/inodb/snpeff2maf/internal/snpeff"

// SelectPerGene picks one transcript for each gene in counts.
//
// Only transcripts with an entry in lengths are considered; a gene with none
// is left out of the result. The transcript with the most counts of HIGH
// impact effects wins. Ties go to the longest transcript, then to the
// lexicographically smallest transcript ID.
func SelectPerGene(counts Counts, impacts Impacts, lengths map[string]int) map[string]string {
	selected := make(map[string]string)
	for gene, t2e := range counts {
		if t, ok := selectTranscript(t2e, impacts, lengths); ok {
			selected[gene] = t
		}
	}
	return selected
}

// highImpactCount sums the counts of effects whose impact is exactly HIGH.
// An effect with no recorded impact does not count.
func highImpactCount(e2c map[string]int, impacts Impacts) int {
	n := 0
	for e, c := range e2c {
		if impacts[e] == snpeff.ImpactHigh {
			n += c
		}
	}
	return n
}

func selectTranscript(t2e map[string]map[string]int, impacts Impacts, lengths map[string]int) (string, bool) {
	var (
		best      string
		bestScore int
		bestLen   int
		found     bool
	)
	for t, e2c := range t2e {
		length, ok := lengths[t]
		if !ok {
			continue
		}
		score := highImpactCount(e2c, impacts)
		if !found || better(score, length, t, bestScore, bestLen, best) {
			best, bestScore, bestLen, found = t, score, length, true
		}
	}
	return best, found
}

// better reports whether candidate (score, length, id) beats the current best.
func better(score, length int, id string, bestScore, bestLen int, bestID string) bool {
	if score != bestScore {
		return score > bestScore
	}
	if length != bestLen {
		return length > bestLen
	}
	return id < bestID
}
