// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package morph compares word-forms under tolerant morphological matching.
// Two lemmas denote the same concept when they are equal case-insensitively
// or share a long enough prefix to absorb regular suffix inflection
// ("manipulate" vs "manipulation") without a full stemmer.
package morph

import "strings"

// minLength is the shortest lemma eligible for prefix matching. Shorter
// words must match exactly, which keeps pairs like "act"/"art" apart.
const minLength = 4

// Matches reports whether a and b denote the same concept. It is pure,
// total, and commutative.
//
// Non-empty lemmas match when either they are equal case-insensitively, or
// both have at least four runes and their first min(len(a), len(b))-3 runes
// (at least one) are equal case-insensitively.
func Matches(a, b string) bool {
	if a == "" || b == "" {
		return false
	}

	la := strings.ToLower(a)
	lb := strings.ToLower(b)
	if la == lb {
		return true
	}

	ra := []rune(la)
	rb := []rune(lb)
	if len(ra) < minLength || len(rb) < minLength {
		return false
	}

	m := min(len(ra), len(rb)) - 3
	if m < 1 {
		m = 1
	}

	return string(ra[:m]) == string(rb[:m])
}
