package snpeff

// DefaultPriority lists SnpEff effect types from most to least severe.
var DefaultPriority = []string{
	"RARE_AMINO_ACID",
	"SPLICE_SITE_ACCEPTOR",
	"SPLICE_SITE_DONOR",
	"START_LOST",
	"EXON_DELETED",
	"FRAME_SHIFT",
	"STOP_GAINED",
	"STOP_LOST",
	"NON_SYNONYMOUS_CODING",
	"CODON_CHANGE",
	"CODON_INSERTION",
	"CODON_CHANGE_PLUS_CODON_INSERTION",
	"CODON_DELETION",
	"CODON_CHANGE_PLUS_CODON_DELETION",
	"UTR_5_DELETED",
	"UTR_3_DELETED",
	"SYNONYMOUS_START",
	"NON_SYNONYMOUS_START",
	"START_GAINED",
	"SYNONYMOUS_CODING",
	"SYNONYMOUS_STOP",
	"NON_SYNONYMOUS_STOP",
	"UTR_5_PRIME",
	"UTR_3_PRIME",
	"REGULATION",
	"UPSTREAM",
	"DOWNSTREAM",
	"GENE",
	"TRANSCRIPT",
	"EXON",
	"INTRON_CONSERVED",
	"INTRON",
	"INTRAGENIC",
	"INTERGENIC",
	"INTERGENIC_CONSERVED",
	"NONE",
	"CHROMOSOME",
	"CUSTOM",
	"CDS",
}

// PriorityTable ranks effect types; a lower rank is more severe.
// A table is immutable once built.
type PriorityTable struct {
	order []string
	rank  map[string]int
}

// NewPriorityTable builds a table where each effect's rank is its position
// in order. A repeated effect keeps its first position.
func NewPriorityTable(order []string) *PriorityTable {
	pt := &PriorityTable{
		order: make([]string, 0, len(order)),
		rank:  make(map[string]int, len(order)),
	}
	for _, e := range order {
		if _, ok := pt.rank[e]; ok {
			continue
		}
		pt.rank[e] = len(pt.order)
		pt.order = append(pt.order, e)
	}
	return pt
}

// DefaultPriorityTable returns a table built from DefaultPriority.
func DefaultPriorityTable() *PriorityTable {
	return NewPriorityTable(DefaultPriority)
}

// Rank returns the rank of effect and whether the table knows it.
func (pt *PriorityTable) Rank(effect string) (int, bool) {
	r, ok := pt.rank[effect]
	return r, ok
}

// Order returns a copy of the ranked effect types.
func (pt *PriorityTable) Order() []string {
	out := make([]string, len(pt.order))
	copy(out, pt.order)
	return out
}

// Len returns the number of ranked effect types.
func (pt *PriorityTable) Len() int {
	return len(pt.order)
}
