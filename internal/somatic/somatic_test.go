package somatic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/snpeff2maf/internal/vcf"
)

var schema = vcf.Schema{"CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO", "FORMAT", "N1", "T1"}

func record(t *testing.T, info string) *vcf.Record {
	t.Helper()
	r, err := vcf.NewRecord(schema, []string{"1", "1", ".", "A", "C", ".", "PASS", info, "GT", "0/0", "0/1"}, 5)
	require.NoError(t, err)
	return r
}

func TestVarScanStatus(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"0", "Reference"},
		{"1", "Germline"},
		{"2", "Somatic"},
		{"3", "LOH"},
		{"5", "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := VarScanStatus(record(t, "DP=3;SS="+tt.code+";SSC=20"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVarScanStatus_Errors(t *testing.T) {
	for _, info := range []string{"DP=3", "SS=4", "."} {
		_, err := VarScanStatus(record(t, info))
		var le *vcf.LookupError
		assert.ErrorAs(t, err, &le, info)
	}
}

func TestCaller_Status(t *testing.T) {
	s, err := GATKSomaticIndelDetector.Status(record(t, "."))
	require.NoError(t, err)
	assert.Equal(t, "Somatic", s)

	s, err = VarScan.Status(record(t, "SS=3"))
	require.NoError(t, err)
	assert.Equal(t, "LOH", s)
}

func TestCaller_Samples(t *testing.T) {
	n, tu, err := VarScan.Samples(schema, "NORMAL", "TUMOR")
	require.NoError(t, err)
	assert.Equal(t, []string{"NORMAL", "TUMOR"}, []string{n, tu})

	n, tu, err = GATKSomaticIndelDetector.Samples(schema, "NORMAL", "TUMOR")
	require.NoError(t, err)
	assert.Equal(t, []string{"N1", "T1"}, []string{n, tu})

	_, _, err = GATKSomaticIndelDetector.Samples(schema[:10], "NORMAL", "TUMOR")
	assert.Error(t, err)
}

func TestParseCaller(t *testing.T) {
	c, err := ParseCaller("varscan")
	require.NoError(t, err)
	assert.Equal(t, VarScan, c)

	_, err = ParseCaller("mutect")
	assert.Error(t, err)
}
