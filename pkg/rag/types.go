// Package rag holds the shared domain vocabulary of the recommendation
// pipeline: facet tags, durations, risk labels, chunks, analyses and the
// final recommendation shape. All enums are closed; parsing rejects values
// outside them so bad data never crosses a package boundary.
package rag

import (
	"fmt"
	"strings"
)

// FacetTag identifies one of the five emotional intelligence facets.
type FacetTag string

const (
	FacetSelfAwareness  FacetTag = "self_awareness"
	FacetSelfRegulation FacetTag = "self_regulation"
	FacetMotivation     FacetTag = "motivation"
	FacetEmpathy        FacetTag = "empathy"
	FacetSocialSkills   FacetTag = "social_skills"
)

// AllFacets lists every valid facet tag.
var AllFacets = []FacetTag{
	FacetSelfAwareness,
	FacetSelfRegulation,
	FacetMotivation,
	FacetEmpathy,
	FacetSocialSkills,
}

// ParseFacet validates a raw facet string against the closed enum.
func ParseFacet(raw string) (FacetTag, error) {
	tag := FacetTag(strings.ToLower(strings.TrimSpace(raw)))
	for _, f := range AllFacets {
		if tag == f {
			return tag, nil
		}
	}
	return "", fmt.Errorf("unknown facet tag %q", raw)
}

// FacetSignal is the per-facet assessment from journal analysis.
type FacetSignal string

const (
	SignalPlus    FacetSignal = "+"
	SignalMinus   FacetSignal = "-"
	SignalNeutral FacetSignal = "0"
)

// FacetSignalMap carries one signal per facet.
type FacetSignalMap map[FacetTag]FacetSignal

// ParseFacetSignals validates a raw signal map: every key must be a known
// facet, every value one of "+", "-", "0", and all five facets must be
// present.
func ParseFacetSignals(raw map[string]string) (FacetSignalMap, error) {
	out := make(FacetSignalMap, len(AllFacets))
	for k, v := range raw {
		facet, err := ParseFacet(k)
		if err != nil {
			return nil, err
		}
		sig := FacetSignal(strings.TrimSpace(v))
		switch sig {
		case SignalPlus, SignalMinus, SignalNeutral:
		default:
			return nil, fmt.Errorf("unknown facet signal %q for facet %q", v, k)
		}
		out[facet] = sig
	}
	for _, f := range AllFacets {
		if _, ok := out[f]; !ok {
			return nil, fmt.Errorf("missing signal for facet %q", f)
		}
	}
	return out, nil
}

// DurationTag is the coarse exercise length bucket.
type DurationTag string

const (
	DurationTwoMin  DurationTag = "2min"
	DurationFiveMin DurationTag = "5min"
	DurationTenMin  DurationTag = "10min"
)

// ParseDuration validates a duration tag. Empty input defaults to 2min.
func ParseDuration(raw string) (DurationTag, error) {
	tag := DurationTag(strings.ToLower(strings.TrimSpace(raw)))
	switch tag {
	case "":
		return DurationTwoMin, nil
	case DurationTwoMin, DurationFiveMin, DurationTenMin:
		return tag, nil
	}
	return "", fmt.Errorf("unknown duration tag %q", raw)
}

// RiskLabel is the safety gate verdict.
type RiskLabel string

const (
	RiskSafe     RiskLabel = "SAFE"
	RiskEscalate RiskLabel = "ESCALATE"
)

// RiskResult carries the gate verdict plus an optional classifier
// confidence.
type RiskResult struct {
	Label      RiskLabel `json:"label"`
	Confidence *float64  `json:"confidence,omitempty"`
}

// Chunk is one indexed slice of a corpus document, with the metadata the
// retriever filters and the synthesizer grounds on.
type Chunk struct {
	Id          string      `json:"id"`
	Text        string      `json:"text"`
	Facet       FacetTag    `json:"facet"`
	Duration    DurationTag `json:"duration"`
	ContextTags []string    `json:"context_tags"`
	SourceDocId string      `json:"source_doc_id"`
}

// Emotion is one detected emotion with its score.
type Emotion struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Analysis is the structured read of a journal entry.
type Analysis struct {
	Emotions       []Emotion      `json:"emotions"`
	Sentiment      float64        `json:"sentiment"`
	Distortions    []string       `json:"cognitive_distortions"`
	Topics         []string       `json:"topics"`
	FacetSignals   FacetSignalMap `json:"facet_signals"`
	OneLineInsight string         `json:"one_line_insight"`
}

// TopEmotion returns the highest-scoring emotion label, or "" when none
// were detected.
func (a *Analysis) TopEmotion() string {
	top := ""
	best := -1.0
	for _, e := range a.Emotions {
		if e.Score > best {
			best = e.Score
			top = e.Label
		}
	}
	return top
}

// Recommendation is the validated exercise served to the user.
type Recommendation struct {
	ExerciseId       string   `json:"exercise_id"`
	Title            string   `json:"title"`
	Steps            []string `json:"steps"`
	ExpectedOutcome  string   `json:"expected_outcome"`
	SourceDocId      string   `json:"source_doc_id"`
	FollowupQuestion string   `json:"followup_question"`
}
