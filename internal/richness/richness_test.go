// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package richness

import (
	"math"
	"testing"

	"github.com/pdiddy/ethos-engine/pkg/types"
)

func bundle(tokens int, posTags ...string) *types.LinguisticBundle {
	dist := make(map[string]int, len(posTags))
	for _, tag := range posTags {
		dist[tag]++
	}
	return &types.LinguisticBundle{TokenCount: tokens, POSDistribution: dist}
}

func TestScore(t *testing.T) {
	cfg := types.RichnessConfig{TokenNorm: 20, POSNorm: 5}

	tests := []struct {
		name   string
		bundle *types.LinguisticBundle
		want   float64
	}{
		{"calibration point", bundle(20, "NOUN", "VERB", "ADJ", "ADV", "PRON"), 1.0},
		{"half the tokens", bundle(10, "NOUN", "VERB", "ADJ", "ADV", "PRON"), 0.5},
		{"clamped above one", bundle(40, "NOUN", "VERB", "ADJ", "ADV", "PRON", "DET", "ADP", "AUX", "NUM", "PART"), 1.0},
		{"fourteen tokens four categories", bundle(14, "NOUN", "VERB", "ADJ", "ADV"), 0.56},
		{"empty bundle", bundle(0), 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.bundle, cfg)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreIgnoresZeroCountCategories(t *testing.T) {
	b := bundle(20, "NOUN", "VERB", "ADJ", "ADV", "PRON")
	b.POSDistribution["X"] = 0

	got := Score(b, types.RichnessConfig{TokenNorm: 20, POSNorm: 5})
	if got != 1.0 {
		t.Errorf("Score() = %v, want 1.0 (zero-count category must not add diversity)", got)
	}
}

func TestScoreDefaultsNorms(t *testing.T) {
	got := Score(bundle(20, "NOUN", "VERB", "ADJ", "ADV", "PRON"), types.RichnessConfig{})
	if got != 1.0 {
		t.Errorf("Score() with zero norms = %v, want 1.0 via defaults", got)
	}
}
