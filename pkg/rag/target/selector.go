// Package target selects which psychological facet a recommendation should
// focus on, given the analyzer's noisy signals.
package target

import (
	"strings"

	"ei-coach-be/pkg/rag"
)

// Priority is the fixed tie-breaking order for facet selection. Regulation
// outranks everything because an unregulated state blocks work on the other
// facets; motivation is last because it is the growth-oriented default.
var Priority = []rag.FacetTag{
	rag.FacetSelfRegulation,
	rag.FacetEmpathy,
	rag.FacetSocialSkills,
	rag.FacetSelfAwareness,
	rag.FacetMotivation,
}

// highArousalEmotions force regulation regardless of facet signals.
var highArousalEmotions = map[string]bool{
	"anger":   true,
	"anxiety": true,
	"fear":    true,
}

// sentimentFloor is the threshold below which negative affect alone targets
// regulation even without an explicit facet deficit.
const sentimentFloor = -0.3

// ChooseTarget maps analysis signals to a single target facet. Pure and
// total: identical inputs always produce the identical facet, and some facet
// is always returned. Rules, first match wins:
//
//  1. high-arousal top emotion (anger/anxiety/fear) → self_regulation
//  2. a facet flagged "-" → the "-" facet highest in Priority
//  3. no "-" but sentiment below -0.3 → self_regulation
//  4. first "0" facet in Priority
//  5. everything "+" → motivation
func ChooseTarget(signals rag.FacetSignalMap, sentiment float64, topEmotion string, topics []string) rag.FacetTag {
	emotion := strings.ToLower(strings.TrimSpace(topEmotion))
	if highArousalEmotions[emotion] {
		return rag.FacetSelfRegulation
	}

	for _, facet := range Priority {
		if signals[facet] == rag.SignalMinus {
			return facet
		}
	}

	if sentiment < sentimentFloor {
		return rag.FacetSelfRegulation
	}

	for _, facet := range Priority {
		if signals[facet] == rag.SignalNeutral {
			return facet
		}
	}

	return rag.FacetMotivation
}
