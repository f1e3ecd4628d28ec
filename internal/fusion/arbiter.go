// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fusion composes the compliance verdict, richness score, and
// concept density into a single coherence score and assembles the unified
// result record. Fusion is a pure aggregation: one computed field
// (Coherence), one decision (which weights apply), and an unmodified
// passthrough of every input signal.
package fusion

import "github.com/pdiddy/ethos-engine/pkg/types"

// Arbiter carries the fusion tuning. A zero-value Arbiter is unusable;
// construct one from a validated EngineConfig.
type Arbiter struct {
	structural  types.StructuralWeights
	fusion      types.FusionWeights
	conceptNorm float64
}

// NewArbiter builds an Arbiter from a validated config. ConceptNorm
// defaults to 5 when unset.
func NewArbiter(cfg types.EngineConfig) *Arbiter {
	conceptNorm := cfg.ConceptNorm
	if conceptNorm <= 0 {
		conceptNorm = 5
	}
	return &Arbiter{
		structural:  cfg.Structural,
		fusion:      cfg.Fusion,
		conceptNorm: conceptNorm,
	}
}

// Passthrough holds the signals the arbiter copies into the result
// unmodified.
type Passthrough struct {
	Bundle        *types.LinguisticBundle
	Entities      []types.Entity
	Concepts      []types.Concept
	Relationships []types.Relationship
	Sentiment     *types.SentimentSignal
	Interaction   *types.InteractionContext
}

// Fuse computes the coherence score and assembles the FusionResult. It is
// a pure function of its inputs: fusing the same compliance result,
// richness, and concept count twice yields the same coherence.
//
// structuralScore = compliant*wC + richness*wR + conceptScore*wK with
// conceptScore = min(1, conceptCount/K). Without a sentiment signal the
// structural score is authoritative; with one, coherence blends the two
// under the configured fusion weights. The result is clamped to [0,1].
func (a *Arbiter) Fuse(compliance types.ComplianceResult, richness float64, pass Passthrough) types.FusionResult {
	complianceTerm := 0.0
	if compliance.Compliant {
		complianceTerm = 1.0
	}

	conceptScore := float64(len(pass.Concepts)) / a.conceptNorm
	if conceptScore > 1 {
		conceptScore = 1
	}

	structuralScore := complianceTerm*a.structural.Compliance +
		richness*a.structural.Richness +
		conceptScore*a.structural.Concept

	coherence := structuralScore
	weightsUsed := map[string]float64{"structural": 1.0}
	if pass.Sentiment != nil {
		coherence = structuralScore*a.fusion.Structural + pass.Sentiment.Confidence*a.fusion.Sentiment
		weightsUsed = map[string]float64{
			"structural": a.fusion.Structural,
			"sentiment":  a.fusion.Sentiment,
		}
	}
	coherence = clamp01(coherence)

	result := types.FusionResult{
		Coherence:          coherence,
		WeightsUsed:        weightsUsed,
		Compliance:         compliance,
		Sentiment:          pass.Sentiment,
		Concepts:           pass.Concepts,
		Entities:           pass.Entities,
		Relationships:      pass.Relationships,
		LinguisticFeatures: pass.Bundle,
		ConceptCount:       len(pass.Concepts),
		EntityCount:        len(pass.Entities),
		RelationshipCount:  len(pass.Relationships),
		FindingCount:       len(compliance.Violations) + len(compliance.Warnings),
	}
	if pass.Interaction != nil {
		result.PriorInteractions = pass.Interaction.PriorInteractions
	}
	return result
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
