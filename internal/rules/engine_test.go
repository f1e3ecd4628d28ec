// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rules

import (
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/ethos-engine/pkg/types"
)

func testInput() Input {
	return Input{
		Bundle: &types.LinguisticBundle{
			TokenCount:      14,
			POSDistribution: map[string]int{"NOUN": 5, "VERB": 3, "ADJ": 2, "ADV": 1},
			KeyLemmas:       []string{"respect", "fairness"},
			SentenceCount:   2,
		},
		Emotions: types.EmotionVector{},
	}
}

// --- prohibited_concept ---

func TestProhibitedConceptMorphologicalMatch(t *testing.T) {
	in := testInput()
	in.Bundle.KeyLemmas = []string{"manipulate"}

	set := types.RuleSet{
		{Kind: types.RuleProhibitedConcept, Lemmas: []string{"manipulation"}},
	}

	result := Evaluate(in, set)
	if result.Compliant {
		t.Error("Compliant = true, want false")
	}
	if len(result.Violations) != 1 {
		t.Fatalf("len(Violations) = %d, want 1", len(result.Violations))
	}
	v := result.Violations[0]
	if v.MatchedText != "manipulate" || v.MatchedLemma != "manipulation" {
		t.Errorf("finding = %q/%q, want manipulate/manipulation", v.MatchedText, v.MatchedLemma)
	}
	if result.ProhibitedMatches != 1 {
		t.Errorf("ProhibitedMatches = %d, want 1", result.ProhibitedMatches)
	}
}

func TestProhibitedConceptScansRelationships(t *testing.T) {
	in := testInput()
	in.Bundle.KeyLemmas = nil
	in.Relationships = []types.Relationship{
		{Subject: "he", Predicate: "spreads", PredicateLemma: "spread", Object: "deception", Strength: 1.0},
	}

	set := types.RuleSet{
		{Kind: types.RuleProhibitedConcept, Lemmas: []string{"deceive"}},
	}

	result := Evaluate(in, set)
	if result.Compliant {
		t.Error("Compliant = true, want false")
	}
	if len(result.Violations) != 1 {
		t.Fatalf("len(Violations) = %d, want 1", len(result.Violations))
	}
	if result.Violations[0].MatchedText != "deception" {
		t.Errorf("MatchedText = %q, want deception", result.Violations[0].MatchedText)
	}
}

// --- required_virtue ---

func TestRequiredVirtuePresence(t *testing.T) {
	in := testInput()

	set := types.RuleSet{
		{Kind: types.RuleRequiredVirtue, Lemmas: []string{"respect", "fairness"}},
	}

	result := Evaluate(in, set)
	if !result.Compliant {
		t.Error("Compliant = false, want true")
	}
	want := []string{"respect", "fairness"}
	if !reflect.DeepEqual(result.RequiredValuesPresent, want) {
		t.Errorf("RequiredValuesPresent = %v, want %v", result.RequiredValuesPresent, want)
	}
	if len(result.Violations) != 0 || len(result.Warnings) != 0 {
		t.Error("virtue matches must not produce findings")
	}
}

func TestRequiredVirtueDeduplicates(t *testing.T) {
	in := testInput()
	in.Bundle.KeyLemmas = []string{"respect", "respect", "respectful"}

	set := types.RuleSet{
		{Kind: types.RuleRequiredVirtue, Lemmas: []string{"respect"}},
	}

	result := Evaluate(in, set)
	if !reflect.DeepEqual(result.RequiredValuesPresent, []string{"respect"}) {
		t.Errorf("RequiredValuesPresent = %v, want [respect]", result.RequiredValuesPresent)
	}
}

// --- emotion_threshold ---

func TestEmotionThresholdStrictlyGreater(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		fires bool
	}{
		{"below threshold", 0.5, false},
		{"equal to threshold", 0.8, false},
		{"just above threshold", 0.8000001, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := testInput()
			in.Emotions = types.EmotionVector{"anger": tt.score}

			set := types.RuleSet{
				{Kind: types.RuleEmotionThreshold, Emotion: "anger", Threshold: 0.8, Severity: types.SeverityViolation},
			}

			result := Evaluate(in, set)
			fired := len(result.Violations) == 1
			if fired != tt.fires {
				t.Errorf("fired = %v, want %v", fired, tt.fires)
			}
			if result.Compliant == tt.fires {
				t.Errorf("Compliant = %v, want %v", result.Compliant, !tt.fires)
			}
		})
	}
}

func TestEmotionThresholdMissingLabel(t *testing.T) {
	in := testInput()

	set := types.RuleSet{
		{Kind: types.RuleEmotionThreshold, Emotion: "anger", Threshold: 0, Severity: types.SeverityWarning},
	}

	result := Evaluate(in, set)
	if len(result.Warnings) != 0 {
		t.Errorf("missing emotion label fired a zero-threshold rule: %v", result.Warnings)
	}
}

func TestEmotionThresholdWarningSeverity(t *testing.T) {
	in := testInput()
	in.Emotions = types.EmotionVector{"sadness": 0.9}

	set := types.RuleSet{
		{Kind: types.RuleEmotionThreshold, Emotion: "sadness", Threshold: 0.7, Severity: types.SeverityWarning},
	}

	result := Evaluate(in, set)
	if !result.Compliant {
		t.Error("warning finding must not block compliance")
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("len(Warnings) = %d, want 1", len(result.Warnings))
	}
}

// --- emotion_combination ---

func TestEmotionCombinationRequiresEveryEmotion(t *testing.T) {
	tests := []struct {
		name     string
		emotions types.EmotionVector
		fires    bool
	}{
		{"one emotion below", types.EmotionVector{"anger": 0.9, "disgust": 0.5}, false},
		{"both above", types.EmotionVector{"anger": 0.9, "disgust": 0.85}, true},
		{"one missing", types.EmotionVector{"anger": 0.9}, false},
		{"equal to joint threshold", types.EmotionVector{"anger": 0.8, "disgust": 0.9}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := testInput()
			in.Emotions = tt.emotions

			set := types.RuleSet{
				{Kind: types.RuleEmotionCombination, Emotions: []string{"anger", "disgust"}, JointThreshold: 0.8, Severity: types.SeverityViolation},
			}

			result := Evaluate(in, set)
			if fired := len(result.Violations) == 1; fired != tt.fires {
				t.Errorf("fired = %v, want %v", fired, tt.fires)
			}
		})
	}
}

// --- relationship_pattern ---

func TestRelationshipPatternAttribution(t *testing.T) {
	in := testInput()
	in.Relationships = []types.Relationship{
		{Subject: "system", Predicate: "coerces", PredicateLemma: "coerce", Object: "user", Strength: 1.0},
		{Subject: "it", Predicate: "helps", PredicateLemma: "help", Object: "them", Strength: 1.0},
	}

	set := types.RuleSet{
		{Kind: types.RuleRelationshipPattern, PredicateLemmas: []string{"coercion"}, Severity: types.SeverityViolation},
	}

	result := Evaluate(in, set)
	if len(result.Violations) != 1 {
		t.Fatalf("len(Violations) = %d, want 1", len(result.Violations))
	}
	reason := result.Violations[0].Reason
	for _, fragment := range []string{"system", "user"} {
		if !strings.Contains(reason, fragment) {
			t.Errorf("Reason %q does not attribute %q", reason, fragment)
		}
	}
	if result.HarmfulPatternMatches != 1 {
		t.Errorf("HarmfulPatternMatches = %d, want 1", result.HarmfulPatternMatches)
	}
}

// --- command_pattern ---

func TestCommandPatternSubsequence(t *testing.T) {
	tests := []struct {
		name    string
		tags    []string
		deps    []string
		matches int
	}{
		{
			name:    "bare imperative",
			tags:    []string{"VERB", "NOUN"},
			deps:    []string{"ROOT", "dobj"},
			matches: 1,
		},
		{
			name:    "subject precedes the verb",
			tags:    []string{"PRON", "VERB", "NOUN"},
			deps:    []string{"nsubj", "ROOT", "dobj"},
			matches: 0,
		},
		{
			name:    "no positional tags",
			tags:    nil,
			deps:    nil,
			matches: 0,
		},
		{
			name:    "pattern longer than text",
			tags:    []string{"VERB"},
			deps:    []string{"ROOT"},
			matches: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := testInput()
			in.Bundle.POSTags = tt.tags
			in.Bundle.DependencyTypes = tt.deps

			set := types.RuleSet{
				{Kind: types.RuleCommandPattern, POSSequence: []string{"VERB", "NOUN"}},
			}

			result := Evaluate(in, set)
			if result.CommandPatternMatches != tt.matches {
				t.Errorf("CommandPatternMatches = %d, want %d", result.CommandPatternMatches, tt.matches)
			}
			// Command findings default to warnings and never block.
			if !result.Compliant {
				t.Error("Compliant = false, want true")
			}
			if len(result.Warnings) != tt.matches {
				t.Errorf("len(Warnings) = %d, want %d", len(result.Warnings), tt.matches)
			}
		})
	}
}

// --- determinism and the compliant invariant ---

func TestEvaluateDeterministic(t *testing.T) {
	in := testInput()
	in.Bundle.KeyLemmas = []string{"manipulate", "respect", "harm"}
	in.Emotions = types.EmotionVector{"anger": 0.95, "disgust": 0.9, "fear": 0.4}
	in.Relationships = []types.Relationship{
		{Subject: "a", Predicate: "harms", PredicateLemma: "harm", Object: "b", Strength: 1.0},
	}

	set := types.RuleSet{
		{Kind: types.RuleProhibitedConcept, Lemmas: []string{"manipulation", "harm"}},
		{Kind: types.RuleRequiredVirtue, Lemmas: []string{"respect"}},
		{Kind: types.RuleEmotionThreshold, Emotion: "anger", Threshold: 0.8, Severity: types.SeverityWarning},
		{Kind: types.RuleEmotionCombination, Emotions: []string{"anger", "disgust"}, JointThreshold: 0.8, Severity: types.SeverityViolation},
		{Kind: types.RuleRelationshipPattern, PredicateLemmas: []string{"harm"}, Severity: types.SeverityViolation},
	}

	first := Evaluate(in, set)
	second := Evaluate(in, set)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("two evaluations differ:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if first.Compliant != (len(first.Violations) == 0) {
		t.Error("Compliant does not equal violations-empty")
	}
}

func TestCompliantIffNoViolations(t *testing.T) {
	in := testInput()
	in.Emotions = types.EmotionVector{"anger": 0.99}

	warnOnly := types.RuleSet{
		{Kind: types.RuleEmotionThreshold, Emotion: "anger", Threshold: 0.5, Severity: types.SeverityWarning},
	}
	result := Evaluate(in, warnOnly)
	if !result.Compliant || len(result.Violations) != 0 || len(result.Warnings) != 1 {
		t.Errorf("warn-only result = %+v, want compliant with one warning", result)
	}

	violating := types.RuleSet{
		{Kind: types.RuleEmotionThreshold, Emotion: "anger", Threshold: 0.5, Severity: types.SeverityViolation},
	}
	result = Evaluate(in, violating)
	if result.Compliant || len(result.Violations) != 1 {
		t.Errorf("violating result = %+v, want non-compliant with one violation", result)
	}
}

func TestEvaluateEmptySignals(t *testing.T) {
	in := Input{
		Bundle:   &types.LinguisticBundle{POSDistribution: map[string]int{}},
		Emotions: types.EmotionVector{},
	}

	set := types.RuleSet{
		{Kind: types.RuleProhibitedConcept, Lemmas: []string{"manipulation"}},
		{Kind: types.RuleEmotionThreshold, Emotion: "anger", Threshold: 0.8, Severity: types.SeverityViolation},
	}

	result := Evaluate(in, set)
	if !result.Compliant {
		t.Error("empty signals must evaluate compliant, not error")
	}
}
