// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rules evaluates a configured rule set against one text's
// linguistic and emotional signals and produces a compliance verdict.
// Evaluation is deterministic and side-effect-free: each rule makes a
// single pass over the feature set, rules never interact, and findings
// append in rule-set order then scan order, so the same inputs always
// yield an identical ComplianceResult.
package rules

import (
	"fmt"

	"github.com/pdiddy/ethos-engine/internal/morph"
	"github.com/pdiddy/ethos-engine/pkg/types"
)

// Input is the feature set one evaluation scans. All fields are read-only.
// Entities are not part of the scan scope: no rule kind reads them, so they
// travel on the fusion passthrough instead.
type Input struct {
	Bundle        *types.LinguisticBundle
	Concepts      []types.Concept
	Relationships []types.Relationship
	Emotions      types.EmotionVector
}

// Evaluate runs every rule in set against in and returns the verdict.
// Compliant is computed once at the end: true iff no rule produced a
// violation-severity finding.
//
// The rule set must have passed ruleconfig validation; an unknown rule
// kind here is a programming error and panics rather than producing a
// partial verdict.
func Evaluate(in Input, set types.RuleSet) types.ComplianceResult {
	var result types.ComplianceResult
	result.Violations = []types.Finding{}
	result.Warnings = []types.Finding{}
	result.RequiredValuesPresent = []string{}

	for _, rule := range set {
		switch rule.Kind {
		case types.RuleProhibitedConcept:
			evalProhibited(in, rule, &result)
		case types.RuleRequiredVirtue:
			evalRequiredVirtue(in, rule, &result)
		case types.RuleEmotionThreshold:
			evalEmotionThreshold(in, rule, &result)
		case types.RuleEmotionCombination:
			evalEmotionCombination(in, rule, &result)
		case types.RuleRelationshipPattern:
			evalRelationshipPattern(in, rule, &result)
		case types.RuleCommandPattern:
			evalCommandPattern(in, rule, &result)
		default:
			panic(fmt.Sprintf("rules: unvalidated rule kind %q", rule.Kind))
		}
	}

	result.Compliant = len(result.Violations) == 0
	return result
}

// conceptScanScope returns every lemma the prohibited/virtue rules scan:
// key lemmas, concept lemmas, then relationship predicate lemmas and
// objects, in that order.
func conceptScanScope(in Input) []string {
	scope := make([]string, 0, len(in.Bundle.KeyLemmas)+len(in.Concepts)+2*len(in.Relationships))
	scope = append(scope, in.Bundle.KeyLemmas...)
	for _, c := range in.Concepts {
		scope = append(scope, c.Lemma)
	}
	for _, r := range in.Relationships {
		scope = append(scope, r.PredicateLemma, r.Object)
	}
	return scope
}

// evalProhibited emits a violation for every scanned lemma that
// morphologically matches a configured prohibited lemma. Prohibited
// concepts are a hard block: matches are never downgraded to warnings.
func evalProhibited(in Input, rule types.Rule, result *types.ComplianceResult) {
	for _, candidate := range conceptScanScope(in) {
		for _, prohibited := range rule.Lemmas {
			if morph.Matches(candidate, prohibited) {
				result.Violations = append(result.Violations, types.Finding{
					RuleKind:     types.RuleProhibitedConcept,
					MatchedText:  candidate,
					MatchedLemma: prohibited,
					Reason:       fmt.Sprintf("prohibited concept %q detected as %q", prohibited, candidate),
				})
				result.ProhibitedMatches++
			}
		}
	}
}

// evalRequiredVirtue records configured virtue lemmas found in the scan
// scope. Virtues are a positive signal consumed by fusion; they never
// produce findings and never block compliance.
func evalRequiredVirtue(in Input, rule types.Rule, result *types.ComplianceResult) {
	seen := make(map[string]bool, len(result.RequiredValuesPresent))
	for _, v := range result.RequiredValuesPresent {
		seen[v] = true
	}

	for _, candidate := range conceptScanScope(in) {
		for _, virtue := range rule.Lemmas {
			if morph.Matches(candidate, virtue) && !seen[virtue] {
				seen[virtue] = true
				result.RequiredValuesPresent = append(result.RequiredValuesPresent, virtue)
			}
		}
	}
}

// evalEmotionThreshold fires when the emotion score strictly exceeds the
// threshold. Equal-to does not trigger, so zero-initialized scores never
// fire a zero-threshold rule.
func evalEmotionThreshold(in Input, rule types.Rule, result *types.ComplianceResult) {
	score, ok := in.Emotions[rule.Emotion]
	if !ok || score <= rule.Threshold {
		return
	}
	appendFinding(result, rule.Severity, types.Finding{
		RuleKind:     types.RuleEmotionThreshold,
		MatchedText:  fmt.Sprintf("%s=%.4f", rule.Emotion, score),
		MatchedLemma: rule.Emotion,
		Reason:       fmt.Sprintf("emotion %q score %.4f exceeds threshold %.4f", rule.Emotion, score, rule.Threshold),
	})
}

// evalEmotionCombination fires only when every listed emotion strictly
// exceeds the joint threshold. This escalates individually tolerable
// levels ("anger" plus "disgust") that together signal a stronger state.
// A missing label reads as zero and prevents the combination from firing.
func evalEmotionCombination(in Input, rule types.Rule, result *types.ComplianceResult) {
	for _, emotion := range rule.Emotions {
		if in.Emotions[emotion] <= rule.JointThreshold {
			return
		}
	}
	appendFinding(result, rule.Severity, types.Finding{
		RuleKind:     types.RuleEmotionCombination,
		MatchedText:  fmt.Sprintf("%v", rule.Emotions),
		MatchedLemma: fmt.Sprintf("joint>%.4f", rule.JointThreshold),
		Reason:       fmt.Sprintf("emotions %v each exceed joint threshold %.4f", rule.Emotions, rule.JointThreshold),
	})
}

// evalRelationshipPattern fires per relationship whose predicate lemma
// morphologically matches a configured lemma, attributing subject and
// object for traceability.
func evalRelationshipPattern(in Input, rule types.Rule, result *types.ComplianceResult) {
	for _, rel := range in.Relationships {
		for _, lemma := range rule.PredicateLemmas {
			if morph.Matches(rel.PredicateLemma, lemma) {
				appendFinding(result, rule.Severity, types.Finding{
					RuleKind:     types.RuleRelationshipPattern,
					MatchedText:  rel.PredicateLemma,
					MatchedLemma: lemma,
					Reason:       fmt.Sprintf("relationship %q -[%s]-> %q matches pattern %q", rel.Subject, rel.Predicate, rel.Object, lemma),
				})
				result.HarmfulPatternMatches++
			}
		}
	}
}

// evalCommandPattern scans the token-ordered POS sequence for the
// configured contiguous subsequence. When the dependency labels align
// one-to-one with the POS tags, a match preceded by a nominal subject is
// suppressed: text with an explicit subject is a statement, not a bare
// command. Imperative detection is a soft signal, default warning.
func evalCommandPattern(in Input, rule types.Rule, result *types.ComplianceResult) {
	tags := in.Bundle.POSTags
	seq := rule.POSSequence
	if len(tags) == 0 || len(seq) == 0 || len(seq) > len(tags) {
		return
	}

	deps := in.Bundle.DependencyTypes
	aligned := len(deps) == len(tags)

	severity := rule.Severity
	if severity == "" {
		severity = types.SeverityWarning
	}

	for start := 0; start+len(seq) <= len(tags); start++ {
		if !matchesAt(tags, seq, start) {
			continue
		}
		if aligned && subjectBefore(deps, start) {
			continue
		}
		appendFinding(result, severity, types.Finding{
			RuleKind:     types.RuleCommandPattern,
			MatchedText:  fmt.Sprintf("%v@%d", seq, start),
			MatchedLemma: fmt.Sprintf("%v", seq),
			Reason:       fmt.Sprintf("command POS pattern %v found at token %d", seq, start),
		})
		result.CommandPatternMatches++
	}
}

func matchesAt(tags, seq []string, start int) bool {
	for i, tag := range seq {
		if tags[start+i] != tag {
			return false
		}
	}
	return true
}

func subjectBefore(deps []string, start int) bool {
	for _, dep := range deps[:start] {
		if dep == "nsubj" || dep == "nsubjpass" {
			return true
		}
	}
	return false
}

// appendFinding routes a finding to the violations or warnings list.
func appendFinding(result *types.ComplianceResult, severity types.Severity, f types.Finding) {
	if severity == types.SeverityViolation {
		result.Violations = append(result.Violations, f)
		return
	}
	result.Warnings = append(result.Warnings, f)
}
