// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ruleconfig loads, validates, and hot-reloads the engine
// configuration (rule set, weights, norms). A configuration is published
// atomically only after it validates; a failed reload keeps the previous
// snapshot active so readers never observe a partial or default config.
package ruleconfig

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ethos-engine/pkg/types"
)

// ErrInvalidConfiguration wraps every load-time validation failure.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// weightTolerance is the allowed deviation of a weight sum from 1.0.
const weightTolerance = 1e-6

// Loader owns the current engine configuration. Load and Watch publish
// snapshots; Snapshot reads the current one without locking, so the
// engine can serve requests in parallel while a reload is in flight.
type Loader struct {
	path    string
	watcher *viper.Viper
	current atomic.Pointer[types.EngineConfig]
}

// NewLoader builds a loader for the given config file path. The file is
// not read until Load.
func NewLoader(path string) *Loader {
	w := viper.New()
	w.SetConfigFile(path)
	return &Loader{path: path, watcher: w}
}

// Load reads and validates the config file and publishes it. On error the
// previously published snapshot, if any, remains active.
func (l *Loader) Load() error {
	cfg, err := l.parse()
	if err != nil {
		return err
	}
	l.current.Store(cfg)
	return nil
}

// Watch re-validates and republishes the configuration whenever the file
// changes on disk. A reload that fails validation logs to stderr and
// leaves the old snapshot in place. Call after a successful Load.
func (l *Loader) Watch() {
	l.watcher.OnConfigChange(func(fsnotify.Event) {
		cfg, err := l.parse()
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: config reload rejected, keeping previous: %v\n", err)
			return
		}
		l.current.Store(cfg)
		fmt.Fprintf(os.Stderr, "config reloaded: %d rules\n", len(cfg.Rules))
	})
	l.watcher.WatchConfig()
}

// Snapshot returns the currently published configuration, or nil when
// nothing has been loaded yet. Published configs are immutable; callers
// must not modify the returned value.
func (l *Loader) Snapshot() *types.EngineConfig {
	return l.current.Load()
}

func (l *Loader) parse() (*types.EngineConfig, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", l.path, err)
	}

	cfg := types.DefaultEngineConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks a full engine configuration: weight sums, norm signs,
// and every rule. It reports the first problem found.
func Validate(cfg types.EngineConfig) error {
	structuralSum := cfg.Structural.Compliance + cfg.Structural.Richness + cfg.Structural.Concept
	if math.Abs(structuralSum-1.0) > weightTolerance {
		return fmt.Errorf("%w: structural weights sum to %v, want 1.0", ErrInvalidConfiguration, structuralSum)
	}

	fusionSum := cfg.Fusion.Structural + cfg.Fusion.Sentiment
	if math.Abs(fusionSum-1.0) > weightTolerance {
		return fmt.Errorf("%w: fusion weights sum to %v, want 1.0", ErrInvalidConfiguration, fusionSum)
	}

	if cfg.Richness.TokenNorm <= 0 || cfg.Richness.POSNorm <= 0 {
		return fmt.Errorf("%w: richness norms must be positive", ErrInvalidConfiguration)
	}
	if cfg.ConceptNorm <= 0 {
		return fmt.Errorf("%w: concept norm must be positive", ErrInvalidConfiguration)
	}

	for i, rule := range cfg.Rules {
		if err := validateRule(rule); err != nil {
			return fmt.Errorf("%w: rule %d: %v", ErrInvalidConfiguration, i, err)
		}
	}
	return nil
}

// validateRule enforces the closed rule-kind and severity enums and the
// per-kind required fields, so evaluation never meets an unrecognized
// variant.
func validateRule(rule types.Rule) error {
	switch rule.Kind {
	case types.RuleProhibitedConcept, types.RuleRequiredVirtue:
		if len(rule.Lemmas) == 0 {
			return fmt.Errorf("%s rule needs at least one lemma", rule.Kind)
		}
	case types.RuleEmotionThreshold:
		if rule.Emotion == "" {
			return errors.New("emotion_threshold rule needs an emotion label")
		}
		if rule.Threshold < 0 || rule.Threshold > 1 {
			return fmt.Errorf("emotion_threshold %v outside [0,1]", rule.Threshold)
		}
		if err := validateSeverity(rule.Severity, false); err != nil {
			return err
		}
	case types.RuleEmotionCombination:
		if len(rule.Emotions) == 0 {
			return errors.New("emotion_combination rule needs emotion labels")
		}
		if rule.JointThreshold < 0 || rule.JointThreshold > 1 {
			return fmt.Errorf("joint_threshold %v outside [0,1]", rule.JointThreshold)
		}
		if err := validateSeverity(rule.Severity, false); err != nil {
			return err
		}
	case types.RuleRelationshipPattern:
		if len(rule.PredicateLemmas) == 0 {
			return errors.New("relationship_pattern rule needs predicate lemmas")
		}
		if err := validateSeverity(rule.Severity, false); err != nil {
			return err
		}
	case types.RuleCommandPattern:
		if len(rule.POSSequence) == 0 {
			return errors.New("command_pattern rule needs a POS sequence")
		}
		// Empty severity defaults to warning at evaluation time.
		if err := validateSeverity(rule.Severity, true); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown rule kind %q", rule.Kind)
	}
	return nil
}

func validateSeverity(s types.Severity, allowEmpty bool) error {
	switch s {
	case types.SeverityWarning, types.SeverityViolation:
		return nil
	case "":
		if allowEmpty {
			return nil
		}
		return errors.New("severity required")
	default:
		return fmt.Errorf("unknown severity %q", s)
	}
}
