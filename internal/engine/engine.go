// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine orchestrates one evaluation: input validation, rule
// evaluation, richness scoring, fusion, and fire-and-forget persistence
// dispatch. The engine holds no mutable state of its own; each request is
// a pure function of its inputs and the currently published
// configuration, so requests run in parallel without locking.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/ethos-engine/internal/fusion"
	"github.com/pdiddy/ethos-engine/internal/richness"
	"github.com/pdiddy/ethos-engine/internal/rules"
	"github.com/pdiddy/ethos-engine/pkg/types"
)

// ErrMalformedInput marks a request missing a contractually required
// field. The engine fails fast rather than substituting defaults: a
// partial verdict could be mistaken for a true "compliant" outcome.
var ErrMalformedInput = errors.New("malformed input")

// ConfigSource supplies the currently published engine configuration.
// Implementations must return either a complete snapshot or nil, never a
// partially updated one.
type ConfigSource interface {
	Snapshot() *types.EngineConfig
}

// Dispatcher receives persistence observations without blocking. The
// engine never awaits delivery.
type Dispatcher interface {
	Enqueue(concepts []types.Concept, relationships []types.Relationship)
}

// Engine evaluates analysis requests against the live configuration.
type Engine struct {
	config     ConfigSource
	dispatcher Dispatcher
}

// New builds an Engine. dispatcher may be nil when persistence is not
// wired (evaluation-only use).
func New(config ConfigSource, dispatcher Dispatcher) *Engine {
	return &Engine{config: config, dispatcher: dispatcher}
}

// Process evaluates one analysis request and returns the unified result.
// Persistence observations are dispatched before returning but their
// completion is not awaited; store failures never surface here.
func (e *Engine) Process(ctx context.Context, req types.AnalysisRequest) (types.FusionResult, error) {
	if err := validate(req); err != nil {
		return types.FusionResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return types.FusionResult{}, err
	}

	cfg := e.config.Snapshot()
	if cfg == nil {
		return types.FusionResult{}, errors.New("no configuration published")
	}

	compliance := rules.Evaluate(rules.Input{
		Bundle:        req.Bundle,
		Concepts:      req.Concepts,
		Relationships: req.Relationships,
		Emotions:      req.Emotions,
	}, cfg.Rules)

	richnessScore := richness.Score(req.Bundle, cfg.Richness)

	result := fusion.NewArbiter(*cfg).Fuse(compliance, richnessScore, fusion.Passthrough{
		Bundle:        req.Bundle,
		Entities:      req.Entities,
		Concepts:      req.Concepts,
		Relationships: req.Relationships,
		Sentiment:     req.Sentiment,
		Interaction:   req.Interaction,
	})

	if e.dispatcher != nil {
		e.dispatcher.Enqueue(req.Concepts, req.Relationships)
	}

	return result, nil
}

// validate enforces the collaborator contract: the linguistic bundle and
// the emotion vector must be present. Empty collections are valid ("no
// signal"); absent ones are not.
func validate(req types.AnalysisRequest) error {
	if req.Bundle == nil {
		return fmt.Errorf("%w: linguistic bundle is required", ErrMalformedInput)
	}
	if req.Emotions == nil {
		return fmt.Errorf("%w: emotion vector is required (may be empty, not absent)", ErrMalformedInput)
	}
	if req.Bundle.TokenCount < 0 || req.Bundle.SentenceCount < 0 {
		return fmt.Errorf("%w: negative token or sentence count", ErrMalformedInput)
	}
	return nil
}
