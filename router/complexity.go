package router

import "strings"

// Indicator vocabularies for the complexity heuristic. Matching is
// case-insensitive substring containment, so "architecture" triggers the
// "architect" stem.
var (
	multiStepIndicators = []string{
		"then", "after that", "followed by", "first", "next", "finally",
		"step",
	}
	scopeIndicators = []string{
		"all", "entire", "every", "across", "whole", "everything",
		"system-wide",
	}
	architecturalIndicators = []string{
		"refactor", "migrate", "architect", "redesign", "restructure",
		"overhaul", "rewrite",
	}
)

// ComplexityWeights tunes the complexity heuristic. The shape of the
// heuristic is fixed; the increments are configuration.
type ComplexityWeights struct {
	// MultiStep is added once per multi-step cue found ("then", "after
	// that", ...).
	MultiStep int

	// Scope is added once per system-wide scope cue ("all", "entire", ...).
	Scope int

	// Architectural is added once per architectural term ("refactor",
	// "migrate", ...).
	Architectural int

	// LongTaskWords and VeryLongTaskWords are word-count thresholds that
	// each add one point when exceeded.
	LongTaskWords     int
	VeryLongTaskWords int
}

// DefaultComplexityWeights returns the standard increments.
func DefaultComplexityWeights() ComplexityWeights {
	return ComplexityWeights{
		MultiStep:         2,
		Scope:             2,
		Architectural:     3,
		LongTaskWords:     20,
		VeryLongTaskWords: 40,
	}
}

// AnalyzeComplexity estimates how involved a task is on a 1..10 scale.
// The score starts at 1 and accumulates increments for multi-step phrasing,
// system-wide scope, and architectural vocabulary, plus a small bonus for
// long descriptions. The result is always clamped to [1,10].
func AnalyzeComplexity(task string, w ComplexityWeights) int {
	lower := strings.ToLower(task)
	score := 1

	for _, ind := range multiStepIndicators {
		if containsWordOrPhrase(lower, ind) {
			score += w.MultiStep
		}
	}
	for _, ind := range scopeIndicators {
		if containsWordOrPhrase(lower, ind) {
			score += w.Scope
		}
	}
	for _, ind := range architecturalIndicators {
		if strings.Contains(lower, ind) {
			score += w.Architectural
		}
	}

	words := len(strings.Fields(task))
	if w.LongTaskWords > 0 && words > w.LongTaskWords {
		score++
	}
	if w.VeryLongTaskWords > 0 && words > w.VeryLongTaskWords {
		score++
	}

	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

// containsWordOrPhrase matches multi-word phrases by containment and single
// words on word boundaries, so "all" does not fire inside "small".
func containsWordOrPhrase(lowerText, ind string) bool {
	if strings.Contains(ind, " ") {
		return strings.Contains(lowerText, ind)
	}
	for _, word := range strings.Fields(lowerText) {
		if strings.Trim(word, ".,;:!?\"'()") == ind {
			return true
		}
	}
	return false
}
