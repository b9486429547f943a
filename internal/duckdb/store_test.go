package duckdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/snpeff2maf/internal/transcript"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "counts.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopening an existing database keeps the schema.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	runs, err := s.Runs()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestWriteAndLoadCounts(t *testing.T) {
	s := openInMemory(t)

	counts := transcript.Counts{
		"KRAS": {
			"ENST00000311936": {"NON_SYNONYMOUS_CODING": 4, "STOP_GAINED": 1},
			"ENST00000256078": {"NON_SYNONYMOUS_CODING": 4},
		},
		"TP53": {"ENST00000269305": {"FRAME_SHIFT": 2}},
	}
	impacts := transcript.Impacts{"NON_SYNONYMOUS_CODING": "MODERATE", "STOP_GAINED": "HIGH", "FRAME_SHIFT": "HIGH"}

	runID, err := s.WriteCounts(counts, impacts, false, []string{"a.vcf", "b.vcf"})
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
	assert.Equal(t, []string{"a.vcf", "b.vcf"}, runs[0].Inputs)
	assert.False(t, runs[0].HighestOnly)

	gotCounts, gotImpacts, err := s.LoadCounts()
	require.NoError(t, err)
	assert.Equal(t, counts, gotCounts)
	assert.Equal(t, impacts, gotImpacts)
}

func TestLoadCounts_MergesRuns(t *testing.T) {
	s := openInMemory(t)

	first, err := s.WriteCounts(transcript.Counts{"G": {"T1": {"STOP_GAINED": 1}}}, transcript.Impacts{"STOP_GAINED": "HIGH"}, false, nil)
	require.NoError(t, err)
	second, err := s.WriteCounts(transcript.Counts{"G": {"T1": {"STOP_GAINED": 2}}}, transcript.Impacts{"STOP_GAINED": "HIGH"}, true, nil)
	require.NoError(t, err)

	counts, _, err := s.LoadCounts()
	require.NoError(t, err)
	assert.Equal(t, 3, counts.Get("G", "T1", "STOP_GAINED"))

	counts, _, err = s.LoadCounts(second)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Get("G", "T1", "STOP_GAINED"))

	require.NoError(t, s.DeleteRun(first))
	counts, _, err = s.LoadCounts()
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Get("G", "T1", "STOP_GAINED"))

	_, _, err = s.LoadCounts(first)
	assert.Error(t, err, "deleted run")
}

func TestLoadCounts_ConflictingRuns(t *testing.T) {
	s := openInMemory(t)

	_, err := s.WriteCounts(transcript.Counts{"G": {"T1": {"STOP_GAINED": 1}}}, transcript.Impacts{"STOP_GAINED": "HIGH"}, false, nil)
	require.NoError(t, err)
	_, err = s.WriteCounts(transcript.Counts{"G": {"T1": {"STOP_GAINED": 1}}}, transcript.Impacts{"STOP_GAINED": "LOW"}, false, nil)
	require.NoError(t, err)

	_, _, err = s.LoadCounts()
	var ce *transcript.ConsistencyError
	assert.ErrorAs(t, err, &ce)
}

func TestWriteCounts_Empty(t *testing.T) {
	s := openInMemory(t)

	_, err := s.WriteCounts(transcript.Counts{}, transcript.Impacts{}, false, nil)
	require.NoError(t, err)

	counts, impacts, err := s.LoadCounts()
	require.NoError(t, err)
	assert.Empty(t, counts)
	assert.Empty(t, impacts)
}

func TestWriteCounts_FailureLeavesNoRun(t *testing.T) {
	s := openInMemory(t)

	orig := newRunID
	newRunID = func() string { return "run-1" }
	t.Cleanup(func() { newRunID = orig })

	// A leftover impact row for the same run makes the impact insert fail
	// after the counts were appended.
	_, err := s.DB().Exec(`INSERT INTO effect_impacts VALUES ('run-1', 'STOP_GAINED', 'HIGH')`)
	require.NoError(t, err)

	counts := make(transcript.Counts)
	counts.Add("G", "T1", "STOP_GAINED", 2)
	_, err = s.WriteCounts(counts, transcript.Impacts{"STOP_GAINED": "HIGH"}, false, []string{"a.vcf"})
	require.Error(t, err)

	runs, err := s.Runs()
	require.NoError(t, err)
	assert.Empty(t, runs)

	for _, table := range []string{"effect_counts", "effect_impacts", "scan_runs"} {
		var n int
		require.NoError(t, s.DB().QueryRow("SELECT count(*) FROM "+table).Scan(&n))
		assert.Zero(t, n, table)
	}
}
