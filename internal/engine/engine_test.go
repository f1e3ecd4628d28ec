// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"context"
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"

	"github.com/pdiddy/ethos-engine/pkg/types"
)

// --- test doubles ---

type staticConfig struct {
	cfg *types.EngineConfig
}

func (s staticConfig) Snapshot() *types.EngineConfig { return s.cfg }

type captureDispatcher struct {
	mu            sync.Mutex
	concepts      []types.Concept
	relationships []types.Relationship
	calls         int
}

func (d *captureDispatcher) Enqueue(concepts []types.Concept, relationships []types.Relationship) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.concepts = append(d.concepts, concepts...)
	d.relationships = append(d.relationships, relationships...)
	d.calls++
}

func configWith(rules types.RuleSet) *types.EngineConfig {
	cfg := types.DefaultEngineConfig()
	cfg.Rules = rules
	return &cfg
}

func validRequest() types.AnalysisRequest {
	return types.AnalysisRequest{
		Bundle: &types.LinguisticBundle{
			TokenCount:      14,
			POSDistribution: map[string]int{"NOUN": 6, "VERB": 4, "ADJ": 2, "ADV": 2},
			KeyLemmas:       []string{"respect", "fairness"},
			SentenceCount:   2,
		},
		Concepts: []types.Concept{
			{Name: "respect", EntityType: "NOUN", Lemma: "respect", Frequency: 1},
			{Name: "fairness", EntityType: "NOUN", Lemma: "fairness", Frequency: 1},
			{Name: "community", EntityType: "NOUN", Lemma: "community", Frequency: 1},
		},
		Emotions: types.EmotionVector{},
	}
}

// --- validation ---

func TestProcessRejectsMalformedInput(t *testing.T) {
	eng := New(staticConfig{configWith(nil)}, nil)

	tests := []struct {
		name string
		req  types.AnalysisRequest
	}{
		{"missing bundle", types.AnalysisRequest{Emotions: types.EmotionVector{}}},
		{"missing emotion vector", types.AnalysisRequest{Bundle: &types.LinguisticBundle{}}},
		{"negative token count", types.AnalysisRequest{
			Bundle:   &types.LinguisticBundle{TokenCount: -1},
			Emotions: types.EmotionVector{},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eng.Process(context.Background(), tt.req)
			if !errors.Is(err, ErrMalformedInput) {
				t.Errorf("err = %v, want ErrMalformedInput", err)
			}
		})
	}
}

func TestProcessAcceptsEmptySignals(t *testing.T) {
	eng := New(staticConfig{configWith(nil)}, nil)

	req := types.AnalysisRequest{
		Bundle:   &types.LinguisticBundle{POSDistribution: map[string]int{}},
		Emotions: types.EmotionVector{},
	}
	result, err := eng.Process(context.Background(), req)
	if err != nil {
		t.Fatalf("empty signals rejected: %v", err)
	}
	if !result.Compliance.Compliant {
		t.Error("empty signals must evaluate compliant")
	}
}

// --- end-to-end scenarios ---

func TestProcessProhibitedConceptScenario(t *testing.T) {
	set := types.RuleSet{
		{Kind: types.RuleProhibitedConcept, Lemmas: []string{"manipulation"}},
	}
	eng := New(staticConfig{configWith(set)}, nil)

	req := validRequest()
	req.Bundle.KeyLemmas = []string{"manipulate"}
	req.Concepts = nil

	result, err := eng.Process(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if result.Compliance.Compliant {
		t.Error("Compliant = true, want false")
	}
	if len(result.Compliance.Violations) != 1 {
		t.Fatalf("len(Violations) = %d, want 1", len(result.Compliance.Violations))
	}
	v := result.Compliance.Violations[0]
	if v.MatchedText != "manipulate" || v.MatchedLemma != "manipulation" {
		t.Errorf("finding = %q/%q, want manipulate/manipulation", v.MatchedText, v.MatchedLemma)
	}
}

func TestProcessVirtueAndCoherenceScenario(t *testing.T) {
	set := types.RuleSet{
		{Kind: types.RuleRequiredVirtue, Lemmas: []string{"respect", "fairness"}},
	}
	eng := New(staticConfig{configWith(set)}, nil)

	// 14 tokens, 4 distinct POS tags, 3 concepts, K=5:
	// richness = (14/20)*(4/5) = 0.56, conceptScore = 0.6,
	// coherence = 1.0*0.6 + 0.56*0.2 + 0.6*0.2 = 0.832.
	result, err := eng.Process(context.Background(), validRequest())
	if err != nil {
		t.Fatal(err)
	}
	if !result.Compliance.Compliant {
		t.Fatal("Compliant = false, want true")
	}
	want := []string{"respect", "fairness"}
	if !reflect.DeepEqual(result.Compliance.RequiredValuesPresent, want) {
		t.Errorf("RequiredValuesPresent = %v, want %v", result.Compliance.RequiredValuesPresent, want)
	}
	if math.Abs(result.Coherence-0.832) > 1e-9 {
		t.Errorf("Coherence = %v, want 0.832", result.Coherence)
	}
	if !reflect.DeepEqual(result.WeightsUsed, map[string]float64{"structural": 1.0}) {
		t.Errorf("WeightsUsed = %v, want structural-only", result.WeightsUsed)
	}
}

func TestProcessDeterministic(t *testing.T) {
	set := types.RuleSet{
		{Kind: types.RuleProhibitedConcept, Lemmas: []string{"harm"}},
		{Kind: types.RuleEmotionThreshold, Emotion: "anger", Threshold: 0.8, Severity: types.SeverityWarning},
	}
	eng := New(staticConfig{configWith(set)}, nil)

	req := validRequest()
	req.Emotions = types.EmotionVector{"anger": 0.9}

	first, err := eng.Process(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := eng.Process(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical requests produced different results")
	}
}

// --- persistence dispatch ---

func TestProcessDispatchesObservations(t *testing.T) {
	dispatcher := &captureDispatcher{}
	eng := New(staticConfig{configWith(nil)}, dispatcher)

	req := validRequest()
	req.Relationships = []types.Relationship{
		{Subject: "alice", Predicate: "helps", PredicateLemma: "help", Object: "bob", Strength: 1.0},
	}

	if _, err := eng.Process(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if dispatcher.calls != 1 {
		t.Errorf("dispatcher calls = %d, want 1", dispatcher.calls)
	}
	if len(dispatcher.concepts) != 3 || len(dispatcher.relationships) != 1 {
		t.Errorf("dispatched %d concepts, %d relationships, want 3 and 1",
			len(dispatcher.concepts), len(dispatcher.relationships))
	}
}

func TestProcessNoDispatchOnMalformedInput(t *testing.T) {
	dispatcher := &captureDispatcher{}
	eng := New(staticConfig{configWith(nil)}, dispatcher)

	_, err := eng.Process(context.Background(), types.AnalysisRequest{})
	if err == nil {
		t.Fatal("want error for empty request")
	}
	if dispatcher.calls != 0 {
		t.Error("malformed input must not dispatch observations")
	}
}

func TestProcessWithoutConfig(t *testing.T) {
	eng := New(staticConfig{nil}, nil)
	_, err := eng.Process(context.Background(), validRequest())
	if err == nil {
		t.Error("want error when no configuration is published")
	}
}

func TestProcessParallel(t *testing.T) {
	set := types.RuleSet{
		{Kind: types.RuleRequiredVirtue, Lemmas: []string{"respect"}},
	}
	eng := New(staticConfig{configWith(set)}, &captureDispatcher{})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, err := eng.Process(context.Background(), validRequest()); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
