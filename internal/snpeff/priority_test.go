package snpeff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPriorityTable(t *testing.T) {
	pt := DefaultPriorityTable()
	assert.Equal(t, 39, pt.Len())

	stop, ok := pt.Rank("STOP_GAINED")
	assert.True(t, ok)
	syn, _ := pt.Rank("SYNONYMOUS_CODING")
	inter, _ := pt.Rank("INTERGENIC")
	assert.Less(t, stop, syn)
	assert.Less(t, syn, inter)

	first, _ := pt.Rank("RARE_AMINO_ACID")
	assert.Equal(t, 0, first)

	_, ok = pt.Rank("frameshift_variant")
	assert.False(t, ok)
}

func TestNewPriorityTable(t *testing.T) {
	pt := NewPriorityTable([]string{"B", "A", "B", "C"})

	assert.Equal(t, []string{"B", "A", "C"}, pt.Order())
	r, _ := pt.Rank("B")
	assert.Equal(t, 0, r)
	r, _ = pt.Rank("C")
	assert.Equal(t, 2, r)

	_, ok := pt.Rank("STOP_GAINED")
	assert.False(t, ok, "a replacement list is not merged with the default")
}

func TestPriorityTable_OrderIsCopy(t *testing.T) {
	pt := DefaultPriorityTable()
	order := pt.Order()
	order[0] = "X"
	r, ok := pt.Rank("RARE_AMINO_ACID")
	assert.True(t, ok)
	assert.Equal(t, 0, r)
	assert.Equal(t, "RARE_AMINO_ACID", DefaultPriority[0])
}
