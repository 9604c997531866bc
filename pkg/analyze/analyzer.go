// Package analyze turns free journal text into the structured analysis the
// recommendation pipeline consumes.
package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"ei-coach-be/pkg/llm"
	"ei-coach-be/pkg/rag"
	"ei-coach-be/pkg/rag/prompt"
)

// Analyzer produces a structured read of a journal entry.
type Analyzer interface {
	Analyze(ctx context.Context, journal string, mood int, contextTags []string) (*rag.Analysis, error)
}

// LLMAnalyzer asks the generative model for strict JSON and normalizes the
// result so downstream stages can trust it.
type LLMAnalyzer struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewLLMAnalyzer(llmProvider llm.LLMProvider, logger *log.Logger) *LLMAnalyzer {
	return &LLMAnalyzer{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// raw mirrors the prompt schema before normalization.
type rawAnalysis struct {
	Emotions       []rag.Emotion     `json:"emotions"`
	Sentiment      float64           `json:"sentiment"`
	Distortions    []string          `json:"cognitive_distortions"`
	Topics         []string          `json:"topics"`
	FacetSignals   map[string]string `json:"facet_signals"`
	OneLineInsight string            `json:"one_line_insight"`
}

// Analyze runs the model and repairs its output: sentiment clamped to
// [-1,1], emotions capped at the top 3 by score, topics lower-cased, and
// every facet guaranteed a signal (missing or invalid entries become "0").
func (a *LLMAnalyzer) Analyze(ctx context.Context, journal string, mood int, contextTags []string) (*rag.Analysis, error) {
	ctxJSON, _ := json.Marshal(contextTags)

	out, err := a.llmProvider.Generate(ctx,
		prompt.BuildAnalyzePrompt(journal, mood, string(ctxJSON)),
		llm.WithTemperature(0.2),
	)
	if err != nil {
		return nil, rag.WrapTimeout(err, "journal analysis")
	}

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(rag.ExtractJSON(out)), &raw); err != nil {
		return nil, fmt.Errorf("decode analysis output: %w", err)
	}

	analysis := &rag.Analysis{
		Emotions:       topEmotions(raw.Emotions, 3),
		Sentiment:      clamp(raw.Sentiment, -1, 1),
		Distortions:    mergeDistortions(raw.Distortions, journal),
		Topics:         normalizeTopics(raw.Topics),
		FacetSignals:   normalizeSignals(raw.FacetSignals, a.logger),
		OneLineInsight: strings.TrimSpace(raw.OneLineInsight),
	}
	return analysis, nil
}

func topEmotions(emotions []rag.Emotion, n int) []rag.Emotion {
	out := make([]rag.Emotion, 0, len(emotions))
	for _, e := range emotions {
		label := strings.ToLower(strings.TrimSpace(e.Label))
		if label == "" {
			continue
		}
		out = append(out, rag.Emotion{Label: label, Score: clamp(e.Score, 0, 1)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func normalizeTopics(topics []string) []string {
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		if tt := strings.ToLower(strings.TrimSpace(t)); tt != "" {
			out = append(out, tt)
		}
	}
	return out
}

// normalizeSignals keeps valid entries and fills the rest with "0" so the
// selector always sees all five facets.
func normalizeSignals(raw map[string]string, logger *log.Logger) rag.FacetSignalMap {
	out := make(rag.FacetSignalMap, len(rag.AllFacets))
	for k, v := range raw {
		facet, err := rag.ParseFacet(k)
		if err != nil {
			logger.Printf("[WARN] Dropping unknown facet %q from analysis", k)
			continue
		}
		switch sig := rag.FacetSignal(strings.TrimSpace(v)); sig {
		case rag.SignalPlus, rag.SignalMinus, rag.SignalNeutral:
			out[facet] = sig
		default:
			logger.Printf("[WARN] Invalid signal %q for facet %q, defaulting to neutral", v, k)
		}
	}
	for _, f := range rag.AllFacets {
		if _, ok := out[f]; !ok {
			out[f] = rag.SignalNeutral
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
