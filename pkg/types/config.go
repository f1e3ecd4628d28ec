package types

// StructuralWeights blends compliance, richness, and concept density into
// the structural score. The three weights must sum to 1.0 within tolerance.
type StructuralWeights struct {
	// Compliance is the weight of the pass/fail compliance term (default 0.6).
	Compliance float64 `json:"compliance" yaml:"compliance"`

	// Richness is the weight of the linguistic richness score (default 0.2).
	Richness float64 `json:"richness" yaml:"richness"`

	// Concept is the weight of the normalized concept count (default 0.2).
	Concept float64 `json:"concept" yaml:"concept"`
}

// FusionWeights blends the structural score with an external sentiment
// confidence. Applied only when a sentiment signal is present; without one
// the structural score is authoritative. Must sum to 1.0 within tolerance.
type FusionWeights struct {
	// Structural is the weight of the structural score (default 0.7).
	Structural float64 `json:"structural" yaml:"structural"`

	// Sentiment is the weight of the sentiment confidence (default 0.3).
	Sentiment float64 `json:"sentiment" yaml:"sentiment"`
}

// RichnessConfig holds the calibration points of the richness score. The
// defaults (20 tokens, 5 POS categories) represent a fully rich short
// utterance.
type RichnessConfig struct {
	// TokenNorm is the token count treated as full volume (default 20).
	TokenNorm float64 `json:"token_norm" yaml:"token_norm"`

	// POSNorm is the POS diversity treated as full variety (default 5).
	POSNorm float64 `json:"pos_norm" yaml:"pos_norm"`
}

// StoreConfig holds settings for the persistence adapter.
type StoreConfig struct {
	// StateDir is the base directory for engine state (contains index/).
	StateDir string `json:"state_dir" yaml:"state_dir"`

	// QueueSize is the async writer queue capacity (default 256).
	QueueSize int `json:"queue_size" yaml:"queue_size"`

	// MaxRetries is the number of retry attempts for failed writes (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// EngineConfig groups every tunable of the compliance/fusion engine. All
// fields are hot-reloadable; a reload replaces the whole config atomically.
type EngineConfig struct {
	Rules      RuleSet           `json:"rules" yaml:"rules"`
	Structural StructuralWeights `json:"structural_weights" yaml:"structural_weights"`
	Fusion     FusionWeights     `json:"fusion_weights" yaml:"fusion_weights"`
	Richness   RichnessConfig    `json:"richness" yaml:"richness"`

	// ConceptNorm is the concept count treated as full density (default 5).
	ConceptNorm float64 `json:"concept_norm" yaml:"concept_norm"`

	Store StoreConfig `json:"store" yaml:"store"`
}

// DefaultEngineConfig returns the observed default tuning with an empty
// rule set.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Structural:  StructuralWeights{Compliance: 0.6, Richness: 0.2, Concept: 0.2},
		Fusion:      FusionWeights{Structural: 0.7, Sentiment: 0.3},
		Richness:    RichnessConfig{TokenNorm: 20, POSNorm: 5},
		ConceptNorm: 5,
		Store:       StoreConfig{StateDir: "state", QueueSize: 256, MaxRetries: 3},
	}
}
