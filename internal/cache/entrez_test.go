package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeneEntrez(t *testing.T) {
	input := "KRAS\t3845\n" +
		"TP53\t7157\textra\n" +
		"EMPTY\t\n" +
		"\t999\n" +
		"SHORT\n" +
		"BRAF\t673\r\n"

	g2e, err := parseGeneEntrez(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, GeneEntrez{"KRAS": "3845", "TP53": "7157", "BRAF": "673"}, g2e)
}

func TestLoadGeneEntrez(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g2e.tsv")
	require.NoError(t, os.WriteFile(path, []byte("EGFR\t1956\n"), 0644))

	g2e, err := LoadGeneEntrez(path)
	require.NoError(t, err)
	assert.Equal(t, "1956", g2e["EGFR"])

	_, err = LoadGeneEntrez(filepath.Join(t.TempDir(), "missing.tsv"))
	assert.Error(t, err)
}

func TestParseTranscriptLengths(t *testing.T) {
	input := "transcript\tlength\n" +
		"ENST00000311936\t5765\n" +
		"\n" +
		"ENST00000256078\t 5430\n"

	lengths, err := parseTranscriptLengths(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, TranscriptLengths{"ENST00000311936": 5765, "ENST00000256078": 5430}, lengths)
}

func TestParseTranscriptLengths_Errors(t *testing.T) {
	_, err := parseTranscriptLengths(strings.NewReader("T1\t10\nT2\tlong\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, err = parseTranscriptLengths(strings.NewReader("T1\t10\nT2\n"))
	assert.Error(t, err)
}
