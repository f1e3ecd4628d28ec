// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package richness derives a linguistic-quality signal from token and POS
// statistics. The score rewards volume and grammatical variety
// multiplicatively, capped at 1.0.
package richness

import "github.com/pdiddy/ethos-engine/pkg/types"

// Score computes min(1, (tokenCount/tokenNorm) * (posDiversity/posNorm)).
// The norms are calibration points for a fully rich short utterance; zero
// or negative norms fall back to the defaults (20 tokens, 5 categories).
func Score(bundle *types.LinguisticBundle, cfg types.RichnessConfig) float64 {
	tokenNorm := cfg.TokenNorm
	if tokenNorm <= 0 {
		tokenNorm = 20
	}
	posNorm := cfg.POSNorm
	if posNorm <= 0 {
		posNorm = 5
	}

	score := (float64(bundle.TokenCount) / tokenNorm) * (float64(bundle.POSDiversity()) / posNorm)
	if score > 1 {
		return 1
	}
	return score
}
