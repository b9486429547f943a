// Package transcript aggregates SnpEff effect counts across VCF files and
// selects one representative transcript per gene.
package transcript

import (
	"fmt"
	"sort"
)

// Counts maps gene -> transcript -> effect type -> occurrence count.
type Counts map[string]map[string]map[string]int

// Impacts maps an effect type to the impact label it was first seen with.
type Impacts map[string]string

// ConsistencyError reports an effect type observed with two different impacts.
// It means the inputs were annotated with different SnpEff versions or
// priority tables, and aborts the whole scan.
type ConsistencyError struct {
	Effect      string
	Existing    string
	Conflicting string
	Source      string // input name, when known
	Line        int
}

func (e *ConsistencyError) Error() string {
	msg := fmt.Sprintf("multiple impacts for effect %s: %s, %s", e.Effect, e.Conflicting, e.Existing)
	if e.Source != "" {
		msg += " (" + e.Source
		if e.Line > 0 {
			msg += fmt.Sprintf(" line %d", e.Line)
		}
		msg += ")"
	}
	return msg
}

// Add increments the count for (gene, transcript, effect) by n.
func (c Counts) Add(gene, transcript, effect string, n int) {
	t2e, ok := c[gene]
	if !ok {
		t2e = make(map[string]map[string]int)
		c[gene] = t2e
	}
	e2c, ok := t2e[transcript]
	if !ok {
		e2c = make(map[string]int)
		t2e[transcript] = e2c
	}
	e2c[effect] += n
}

// Get returns the count for (gene, transcript, effect).
func (c Counts) Get(gene, transcript, effect string) int {
	return c[gene][transcript][effect]
}

// Total returns the sum of all counts.
func (c Counts) Total() int {
	n := 0
	for _, t2e := range c {
		for _, e2c := range t2e {
			for _, cnt := range e2c {
				n += cnt
			}
		}
	}
	return n
}

// Genes returns the gene names in sorted order.
func (c Counts) Genes() []string {
	genes := make([]string, 0, len(c))
	for g := range c {
		genes = append(genes, g)
	}
	sort.Strings(genes)
	return genes
}

// Observe records impact for effect. The first observation wins; a later
// observation with a different impact is a ConsistencyError.
func (im Impacts) Observe(effect, impact string) error {
	existing, ok := im[effect]
	if !ok {
		im[effect] = impact
		return nil
	}
	if existing != impact {
		return &ConsistencyError{Effect: effect, Existing: existing, Conflicting: impact}
	}
	return nil
}

// Merge adds src into dst. The impacts of src are checked against dst before
// any count is added, so a conflict leaves dst unchanged.
func Merge(dst Counts, dstImpacts Impacts, src Counts, srcImpacts Impacts) error {
	effects := make([]string, 0, len(srcImpacts))
	for e := range srcImpacts {
		effects = append(effects, e)
	}
	sort.Strings(effects)

	for _, e := range effects {
		if existing, ok := dstImpacts[e]; ok && existing != srcImpacts[e] {
			return &ConsistencyError{Effect: e, Existing: existing, Conflicting: srcImpacts[e]}
		}
	}
	for _, e := range effects {
		dstImpacts[e] = srcImpacts[e]
	}

	for g, t2e := range src {
		for t, e2c := range t2e {
			for e, n := range e2c {
				dst.Add(g, t, e, n)
			}
		}
	}
	return nil
}
