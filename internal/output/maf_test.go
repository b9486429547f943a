package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/snpeff2maf/internal/snpeff"
)

func TestMAFWriter_Header(t *testing.T) {
	var buf bytes.Buffer
	w := NewMAFWriter(&buf, "S1", nil, DefaultOptions())
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	cols := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\t")
	assert.Len(t, cols, 34)
	assert.Equal(t, "Hugo_Symbol", cols[0])
	assert.Equal(t, "amino_acid_change", cols[33])
	assert.Equal(t, cols, Columns())
}

func TestMAFWriter_WriteRow(t *testing.T) {
	var buf bytes.Buffer
	w := NewMAFWriter(&buf, "S1", map[string]string{"BRAF": "673"}, DefaultOptions())

	v := &Variant{
		Record:        testRecord(t, "rs113488022", "A", "T"),
		SomaticStatus: "Somatic",
		Tumor:         SplitAlleles("A/T"),
		Normal:        SplitAlleles("A/A"),
	}
	eff := &snpeff.Effect{
		Effect:          "NON_SYNONYMOUS_CODING",
		Impact:          snpeff.ImpactModerate,
		AminoAcidChange: "V600E",
		Gene:            "BRAF",
		Transcript:      "ENST00000288602",
	}
	require.NoError(t, w.WriteRow(v, eff))
	require.NoError(t, w.Flush())

	cols := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\t")
	require.Len(t, cols, 34)
	assert.Equal(t, "BRAF_ENST00000288602", cols[0])
	assert.Equal(t, "673", cols[1])
	assert.Equal(t, "sequencing.center", cols[2])
	assert.Equal(t, "37", cols[3])
	assert.Equal(t, "7", cols[4])
	assert.Equal(t, "140453136", cols[5])
	assert.Equal(t, "140453136", cols[6])
	assert.Equal(t, "+", cols[7])
	assert.Equal(t, "Missense_Mutation", cols[8])
	assert.Equal(t, "SNP", cols[9])
	assert.Equal(t, "A", cols[10])
	assert.Equal(t, "A", cols[11])
	assert.Equal(t, "T", cols[12])
	assert.Equal(t, "rs113488022", cols[13])
	assert.Equal(t, "S1", cols[15])
	assert.Equal(t, "S1", cols[16])
	assert.Equal(t, "A", cols[17])
	assert.Equal(t, "A", cols[18])
	assert.Equal(t, "Somatic", cols[25])
	assert.Equal(t, "WES", cols[27])
	assert.Equal(t, "Illumina HiSeq", cols[31])
	assert.Equal(t, "ENST00000288602", cols[32])
	assert.Equal(t, "p.V600E", cols[33])
}

func TestMAFWriter_GeneOnlyAndNovel(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Center = "example.org"
	w := NewMAFWriter(&buf, "S2", nil, opts)
	w.SetGeneOnly(true)

	v := &Variant{
		Record: testRecord(t, ".", "ACG", "A"),
		Tumor:  SplitAlleles("ACG/A"),
		Normal: SplitAlleles("ACG"),
	}
	eff := &snpeff.Effect{Effect: "FRAME_SHIFT", Gene: "EGFR", Transcript: "ENST00000275493"}
	require.NoError(t, w.WriteRow(v, eff))
	require.NoError(t, w.Flush())

	cols := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\t")
	require.Len(t, cols, 34)
	assert.Equal(t, "EGFR", cols[0])
	assert.Equal(t, "", cols[1])
	assert.Equal(t, "example.org", cols[2])
	assert.Equal(t, "140453138", cols[6])
	assert.Equal(t, "Frame_Shift_Del", cols[8])
	assert.Equal(t, "DEL", cols[9])
	assert.Equal(t, "novel", cols[13])
	assert.Equal(t, "ACG", cols[17])
	assert.Equal(t, "ACG", cols[18])
	assert.Equal(t, "", cols[33])
}

func TestMAFWriter_NoEffect(t *testing.T) {
	var buf bytes.Buffer
	w := NewMAFWriter(&buf, "S1", nil, DefaultOptions())
	v := &Variant{
		Record: testRecord(t, ".", "A", "T"),
		Tumor:  SplitAlleles("A/T"),
		Normal: SplitAlleles("A/A"),
	}
	require.NoError(t, w.WriteRow(v, nil))
	require.NoError(t, w.Flush())

	cols := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\t")
	require.Len(t, cols, 34)
	assert.Equal(t, "", cols[0])
	assert.Equal(t, "", cols[8])
	assert.Equal(t, "SNP", cols[9])
	assert.Equal(t, "", cols[32])
}

func TestSplitAlleles(t *testing.T) {
	assert.Equal(t, [2]string{"A", "T"}, SplitAlleles("A/T"))
	assert.Equal(t, [2]string{"N", "N"}, SplitAlleles("N/N"))
	assert.Equal(t, [2]string{"C", "C"}, SplitAlleles("C"))
	assert.Equal(t, [2]string{"A", "C"}, SplitAlleles("A/C/G"))
}
