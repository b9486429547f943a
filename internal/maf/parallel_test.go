package maf

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/snpeff2maf/internal/snpeff"
	"github.com/inodb/snpeff2maf/internal/somatic"
	"github.com/inodb/snpeff2maf/internal/vcf"
)

var itemSchema = vcf.Schema{"CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO", "FORMAT", "NORMAL", "TUMOR"}

func makeItems(t *testing.T, n int) <-chan WorkItem {
	t.Helper()
	ch := make(chan WorkItem, n)
	for i := range n {
		r, err := vcf.NewRecord(itemSchema, []string{
			"1", strconv.Itoa(100 + i), ".", "A", "T", ".", "PASS",
			"SS=2;EFF=" + brafMissense, "GT", "0/0", "0/1",
		}, i+1)
		require.NoError(t, err)
		ch <- WorkItem{Seq: i, Record: r}
	}
	close(ch)
	return ch
}

var itemSamples = Samples{Normal: "NORMAL", Tumor: "TUMOR"}

func TestParallelConvert_OrderPreservation(t *testing.T) {
	c := NewConverter(snpeff.NewDecoder(nil), somatic.VarScan)

	results := c.ParallelConvert(makeItems(t, 200), itemSamples, 8)

	var collected []int
	err := OrderedCollect(results, func(r WorkResult) error {
		require.NoError(t, r.Err)
		collected = append(collected, r.Seq)
		assert.Equal(t, strconv.Itoa(100+r.Seq), r.Variant.Record.Pos())
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, collected, 200)
	for i, seq := range collected {
		assert.Equal(t, i, seq, "result %d out of order", i)
	}
}

func TestParallelConvert_SingleWorker(t *testing.T) {
	c := NewConverter(snpeff.NewDecoder(nil), somatic.VarScan)

	results := c.ParallelConvert(makeItems(t, 50), itemSamples, 1)

	var collected []int
	err := OrderedCollect(results, func(r WorkResult) error {
		collected = append(collected, r.Seq)
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, collected, 50)
	for i, seq := range collected {
		assert.Equal(t, i, seq)
	}
}

func TestParallelConvert_EmptyInput(t *testing.T) {
	c := NewConverter(snpeff.NewDecoder(nil), somatic.VarScan)

	ch := make(chan WorkItem)
	close(ch)
	results := c.ParallelConvert(ch, itemSamples, 4)

	count := 0
	err := OrderedCollect(results, func(r WorkResult) error {
		count++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestOrderedCollect_EarlyError(t *testing.T) {
	c := NewConverter(snpeff.NewDecoder(nil), somatic.VarScan)

	results := c.ParallelConvert(makeItems(t, 100), itemSamples, 4)

	count := 0
	err := OrderedCollect(results, func(r WorkResult) error {
		count++
		if count == 5 {
			return fmt.Errorf("stop at 5")
		}
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, 5, count)
}

func TestParallelConvert_ProducesRows(t *testing.T) {
	c := NewConverter(snpeff.NewDecoder(nil), somatic.VarScan)

	results := c.ParallelConvert(makeItems(t, 5), itemSamples, 2)

	err := OrderedCollect(results, func(r WorkResult) error {
		require.NoError(t, r.Err)
		require.Len(t, r.Effects, 1)
		assert.Equal(t, "ENST00000288602", r.Effects[0].Transcript)
		assert.Equal(t, "Somatic", r.Variant.SomaticStatus)
		assert.Equal(t, [2]string{"A", "T"}, r.Variant.Tumor)
		return nil
	})
	require.NoError(t, err)
}
