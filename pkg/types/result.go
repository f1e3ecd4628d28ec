// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Finding records one rule hit with enough provenance to trace which rule
// fired and on what evidence.
type Finding struct {
	// RuleKind names the rule variant that produced the finding.
	RuleKind RuleKind `json:"rule_kind" yaml:"rule_kind"`

	// MatchedText is the input text that triggered the rule (a lemma, an
	// emotion label, or a subject-object pair).
	MatchedText string `json:"matched_text" yaml:"matched_text"`

	// MatchedLemma is the configured lemma or label the input matched.
	MatchedLemma string `json:"matched_lemma" yaml:"matched_lemma"`

	// Reason is a human-readable explanation of the match.
	Reason string `json:"reason" yaml:"reason"`
}

// ComplianceResult is the verdict of evaluating a rule set against one
// text's linguistic and emotional signals.
type ComplianceResult struct {
	// Compliant is true iff Violations is empty, computed once after all
	// rules run.
	Compliant bool `json:"compliant" yaml:"compliant"`

	// Violations holds violation-severity findings in rule-set order,
	// then scan order within a rule.
	Violations []Finding `json:"violations" yaml:"violations"`

	// Warnings holds warning-severity findings, same ordering.
	Warnings []Finding `json:"warnings" yaml:"warnings"`

	// RequiredValuesPresent lists the virtue lemmas detected, first-seen
	// order, deduplicated.
	RequiredValuesPresent []string `json:"required_values_present" yaml:"required_values_present"`

	// ProhibitedMatches counts prohibited-concept hits.
	ProhibitedMatches int `json:"prohibited_matches" yaml:"prohibited_matches"`

	// HarmfulPatternMatches counts relationship-pattern hits.
	HarmfulPatternMatches int `json:"harmful_pattern_matches" yaml:"harmful_pattern_matches"`

	// CommandPatternMatches counts command-pattern hits.
	CommandPatternMatches int `json:"command_pattern_matches" yaml:"command_pattern_matches"`
}

// FusionResult is the unified record returned to the caller: one computed
// coherence score plus the unmodified passthrough of every input signal.
// Constructed fresh per request and never mutated after return.
type FusionResult struct {
	// Coherence is the fused quality/compliance score in [0,1].
	Coherence float64 `json:"coherence" yaml:"coherence"`

	// WeightsUsed records which fusion weights produced Coherence.
	WeightsUsed map[string]float64 `json:"weights_used" yaml:"weights_used"`

	Compliance         ComplianceResult  `json:"compliance" yaml:"compliance"`
	Sentiment          *SentimentSignal  `json:"sentiment,omitempty" yaml:"sentiment,omitempty"`
	Concepts           []Concept         `json:"concepts" yaml:"concepts"`
	Entities           []Entity          `json:"entities" yaml:"entities"`
	Relationships      []Relationship    `json:"relationships" yaml:"relationships"`
	LinguisticFeatures *LinguisticBundle `json:"linguistic_features" yaml:"linguistic_features"`

	// Summary counters.
	ConceptCount      int `json:"concept_count" yaml:"concept_count"`
	EntityCount       int `json:"entity_count" yaml:"entity_count"`
	RelationshipCount int `json:"relationship_count" yaml:"relationship_count"`
	FindingCount      int `json:"finding_count" yaml:"finding_count"`

	// PriorInteractions passes through the interaction-memory signal.
	PriorInteractions int `json:"prior_interactions" yaml:"prior_interactions"`
}
