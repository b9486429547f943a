package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testImpacts = Impacts{
	"STOP_GAINED": "HIGH",
	"FRAME_SHIFT": "HIGH",
	"INTRON":      "MODIFIER",
	"CODON_LOWER": "high",
}

func TestSelectPerGene(t *testing.T) {
	tests := []struct {
		name    string
		t2e     map[string]map[string]int
		lengths map[string]int
		want    string
	}{
		{
			name:    "tie broken by length",
			t2e:     map[string]map[string]int{"T1": {"STOP_GAINED": 3}, "T2": {"STOP_GAINED": 3}},
			lengths: map[string]int{"T1": 100, "T2": 200},
			want:    "T2",
		},
		{
			name:    "score beats length",
			t2e:     map[string]map[string]int{"T1": {"STOP_GAINED": 5}, "T2": {"STOP_GAINED": 3}},
			lengths: map[string]int{"T1": 100, "T2": 200},
			want:    "T1",
		},
		{
			name:    "only HIGH effects score",
			t2e:     map[string]map[string]int{"T1": {"INTRON": 50, "FRAME_SHIFT": 1}, "T2": {"CODON_LOWER": 9}},
			lengths: map[string]int{"T1": 10, "T2": 900},
			want:    "T1",
		},
		{
			name:    "HIGH effects are summed",
			t2e:     map[string]map[string]int{"T1": {"STOP_GAINED": 2, "FRAME_SHIFT": 2}, "T2": {"STOP_GAINED": 3}},
			lengths: map[string]int{"T1": 10, "T2": 900},
			want:    "T1",
		},
		{
			name:    "unusable transcript ignored despite counts",
			t2e:     map[string]map[string]int{"T1": {"STOP_GAINED": 9}, "T2": {"INTRON": 1}},
			lengths: map[string]int{"T2": 50},
			want:    "T2",
		},
		{
			name:    "residual tie picks smallest id",
			t2e:     map[string]map[string]int{"T3": {"STOP_GAINED": 1}, "T1": {"STOP_GAINED": 1}, "T2": {"STOP_GAINED": 1}},
			lengths: map[string]int{"T1": 70, "T2": 70, "T3": 70},
			want:    "T1",
		},
		{
			name:    "no high impact anywhere falls back to length",
			t2e:     map[string]map[string]int{"T1": {"INTRON": 4}, "T2": {"INTRON": 1}},
			lengths: map[string]int{"T1": 10, "T2": 20},
			want:    "T2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 20 {
				got := SelectPerGene(Counts{"G": tt.t2e}, testImpacts, tt.lengths)
				assert.Equal(t, map[string]string{"G": tt.want}, got)
			}
		})
	}
}

func TestSelectPerGene_OmitsGenesWithoutUsableTranscripts(t *testing.T) {
	counts := Counts{
		"G1": {"T1": {"STOP_GAINED": 3}},
		"G2": {"T8": {"STOP_GAINED": 3}, "T9": {"INTRON": 1}},
	}
	got := SelectPerGene(counts, testImpacts, map[string]int{"T1": 10})

	assert.Equal(t, map[string]string{"G1": "T1"}, got)
	assert.NotContains(t, got, "G2")
}

func TestSelectPerGene_Empty(t *testing.T) {
	assert.Empty(t, SelectPerGene(Counts{}, Impacts{}, nil))
}
