// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// LinguisticBundle carries the token-level statistics produced by the
// upstream linguistic analyzer for one text. It is immutable once
// produced; the engine only reads it.
type LinguisticBundle struct {
	// TokenCount is the number of tokens in the analyzed text.
	TokenCount int `json:"token_count" yaml:"token_count"`

	// POSDistribution maps a part-of-speech tag to its occurrence count.
	POSDistribution map[string]int `json:"pos_distribution" yaml:"pos_distribution"`

	// KeyLemmas lists salient lemmas in discovery order. Duplicates allowed.
	KeyLemmas []string `json:"key_lemmas" yaml:"key_lemmas"`

	// Sentences lists the sentences of the text in order.
	Sentences []string `json:"sentences" yaml:"sentences"`

	// SentenceCount is the number of sentences.
	SentenceCount int `json:"sentence_count" yaml:"sentence_count"`

	// DependencyTypes lists dependency relation labels in token order.
	DependencyTypes []string `json:"dependency_types" yaml:"dependency_types"`

	// POSTags is the token-ordered POS tag sequence, when the analyzer
	// supplies one. Command-pattern rules scan this sequence; an empty
	// slice means no positional POS signal is available.
	POSTags []string `json:"pos_tags,omitempty" yaml:"pos_tags,omitempty"`

	// AvgTokenLength is the mean token length in characters.
	AvgTokenLength float64 `json:"avg_token_length" yaml:"avg_token_length"`
}

// POSDiversity returns the number of distinct POS categories with a
// positive count.
func (b *LinguisticBundle) POSDiversity() int {
	n := 0
	for _, count := range b.POSDistribution {
		if count > 0 {
			n++
		}
	}
	return n
}

// Entity is a named entity recognized by the upstream analyzer. Label is
// drawn from an open NER tagset the engine does not enumerate.
type Entity struct {
	Text    string `json:"text" yaml:"text"`
	Label   string `json:"label" yaml:"label"`
	Lemma   string `json:"lemma" yaml:"lemma"`
	RootPOS string `json:"root_pos" yaml:"root_pos"`
	RootDep string `json:"root_dep" yaml:"root_dep"`
}

// Concept is a deduplicated notion extracted from text. The engine treats
// Concept values as read-only input; Frequency is advanced only by the
// persistence store on repeat sightings of the same (Name, EntityType) key.
type Concept struct {
	Name       string `json:"name" yaml:"name"`
	Lemma      string `json:"lemma" yaml:"lemma"`
	EntityType string `json:"entity_type" yaml:"entity_type"`
	POSTag     string `json:"pos_tag" yaml:"pos_tag"`
	Category   string `json:"category" yaml:"category"`

	// Frequency is the number of sightings, at least 1.
	Frequency int `json:"frequency" yaml:"frequency"`
}

// Relationship is a subject-predicate-object triple derived from the
// dependency parse.
type Relationship struct {
	Subject        string `json:"subject" yaml:"subject"`
	Predicate      string `json:"predicate" yaml:"predicate"`
	PredicateLemma string `json:"predicate_lemma" yaml:"predicate_lemma"`
	Object         string `json:"object" yaml:"object"`
	DependencyType string `json:"dependency_type" yaml:"dependency_type"`
	VerbTense      string `json:"verb_tense" yaml:"verb_tense"`

	// Strength weights the relationship, default 1.0.
	Strength float64 `json:"strength" yaml:"strength"`
}

// EmotionVector maps an emotion label to a score in [0,1]. The engine
// assumes no fixed label set; a missing label reads as zero.
type EmotionVector map[string]float64

// SentimentSignal is an optional scalar sentiment produced by the
// emotion analyzer alongside the vector.
type SentimentSignal struct {
	Label      string  `json:"label" yaml:"label"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// InteractionContext carries optional prior-interaction information from
// the interaction-memory collaborator. It is passthrough data for fusion,
// never required for correctness.
type InteractionContext struct {
	PriorInteractions int    `json:"prior_interactions" yaml:"prior_interactions"`
	SessionID         string `json:"session_id,omitempty" yaml:"session_id,omitempty"`
}

// AnalysisRequest bundles everything the upstream collaborators supply for
// one text. Bundle and Emotions are contractually required; empty
// collections are valid ("no signal") but nil Bundle or nil Emotions is a
// malformed request.
type AnalysisRequest struct {
	Bundle        *LinguisticBundle   `json:"bundle" yaml:"bundle"`
	Entities      []Entity            `json:"entities" yaml:"entities"`
	Concepts      []Concept           `json:"concepts" yaml:"concepts"`
	Relationships []Relationship      `json:"relationships" yaml:"relationships"`
	Emotions      EmotionVector       `json:"emotions" yaml:"emotions"`
	Sentiment     *SentimentSignal    `json:"sentiment,omitempty" yaml:"sentiment,omitempty"`
	Interaction   *InteractionContext `json:"interaction,omitempty" yaml:"interaction,omitempty"`
}
