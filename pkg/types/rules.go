// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Severity grades a rule finding. Violations block compliance; warnings
// do not.
type Severity string

const (
	SeverityWarning   Severity = "warning"
	SeverityViolation Severity = "violation"
)

// RuleKind discriminates the closed set of rule variants. The rule engine
// dispatches on this with an exhaustive switch; unknown kinds are rejected
// when the rule set is loaded, never at evaluation time.
type RuleKind string

const (
	// RuleProhibitedConcept blocks texts whose lemmas, concepts, or
	// relationship predicates/objects match a prohibited lemma. Matches
	// are always violations.
	RuleProhibitedConcept RuleKind = "prohibited_concept"

	// RuleRequiredVirtue records the presence of virtue lemmas. Matches
	// are a positive signal, never a finding.
	RuleRequiredVirtue RuleKind = "required_virtue"

	// RuleEmotionThreshold fires when a single emotion score strictly
	// exceeds a threshold.
	RuleEmotionThreshold RuleKind = "emotion_threshold"

	// RuleEmotionCombination fires when every listed emotion strictly
	// exceeds the joint threshold.
	RuleEmotionCombination RuleKind = "emotion_combination"

	// RuleRelationshipPattern fires when a relationship's predicate lemma
	// matches a configured lemma.
	RuleRelationshipPattern RuleKind = "relationship_pattern"

	// RuleCommandPattern fires when the token-ordered POS sequence
	// contains a configured subsequence. Defaults to warning severity.
	RuleCommandPattern RuleKind = "command_pattern"
)

// Rule is one entry of a RuleSet. Kind selects the variant; the other
// fields are populated per kind and validated at load time.
type Rule struct {
	Kind RuleKind `json:"kind" yaml:"kind"`

	// Lemmas configures prohibited_concept and required_virtue rules.
	Lemmas []string `json:"lemmas,omitempty" yaml:"lemmas,omitempty"`

	// Emotion and Threshold configure emotion_threshold rules.
	Emotion   string  `json:"emotion,omitempty" yaml:"emotion,omitempty"`
	Threshold float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`

	// Emotions and JointThreshold configure emotion_combination rules.
	Emotions       []string `json:"emotions,omitempty" yaml:"emotions,omitempty"`
	JointThreshold float64  `json:"joint_threshold,omitempty" yaml:"joint_threshold,omitempty"`

	// PredicateLemmas configures relationship_pattern rules.
	PredicateLemmas []string `json:"predicate_lemmas,omitempty" yaml:"predicate_lemmas,omitempty"`

	// POSSequence configures command_pattern rules.
	POSSequence []string `json:"pos_sequence,omitempty" yaml:"pos_sequence,omitempty"`

	// Severity applies to emotion, relationship, and command rules.
	// Prohibited-concept matches are always violations regardless of this
	// field; required-virtue rules never produce findings. An empty
	// severity on a command_pattern rule defaults to warning.
	Severity Severity `json:"severity,omitempty" yaml:"severity,omitempty"`
}

// RuleSet is an ordered sequence of rules. Order carries no precedence
// between independent rules but fixes the output ordering of findings, so
// evaluation is fully deterministic.
type RuleSet []Rule
