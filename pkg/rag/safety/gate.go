// Package safety classifies journal text for imminent self-harm risk and
// gates the rest of the recommendation pipeline.
package safety

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"ei-coach-be/pkg/llm"
	"ei-coach-be/pkg/rag"
	"ei-coach-be/pkg/rag/prompt"
)

// Gate runs the external risk classifier with a keyword guard-rail.
//
// Fail-safe bias: any classifier failure (unreachable, timeout, garbage
// output label) is treated as ESCALATE. The gate never errors; it always
// yields a label.
type Gate struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewGate(llmProvider llm.LLMProvider, logger *log.Logger) *Gate {
	return &Gate{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

type classifierOutput struct {
	Label      string   `json:"label"`
	Confidence *float64 `json:"confidence"`
}

// ClassifyRisk labels the text SAFE or ESCALATE.
//
// Strategy:
//  1. run the keyword screen
//  2. ask the classifier for strict JSON
//  3. a keyword hit overrides SAFE → ESCALATE
//  4. classifier failure ⇒ ESCALATE, regardless of the keyword screen
func (g *Gate) ClassifyRisk(ctx context.Context, text string) rag.RiskResult {
	kwFlag := keywordRisk(text)

	raw, err := g.llmProvider.Generate(ctx, prompt.BuildSafetyPrompt(text), llm.WithTemperature(0.0))
	if err != nil {
		g.logger.Printf("[ERROR] Risk classifier unavailable, escalating: %v", err)
		return rag.RiskResult{Label: rag.RiskEscalate}
	}

	var out classifierOutput
	if err := json.Unmarshal([]byte(rag.ExtractJSON(raw)), &out); err != nil {
		g.logger.Printf("[ERROR] Risk classifier output unparsable, escalating: %v", err)
		return rag.RiskResult{Label: rag.RiskEscalate}
	}

	label := rag.RiskLabel(strings.ToUpper(strings.TrimSpace(out.Label)))
	if label != rag.RiskSafe && label != rag.RiskEscalate {
		g.logger.Printf("[ERROR] Risk classifier returned unknown label %q, escalating", out.Label)
		return rag.RiskResult{Label: rag.RiskEscalate}
	}

	if kwFlag && label == rag.RiskSafe {
		g.logger.Printf("[WARN] Keyword guard-rail overriding SAFE classification")
		label = rag.RiskEscalate
	}

	return rag.RiskResult{Label: label, Confidence: out.Confidence}
}

// keywordRisk is the pure heuristic screen. Exported indirectly through
// tests; kept free of classifier state.
func keywordRisk(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return false
	}

	for _, pat := range strongIntent {
		if pat.MatchString(t) {
			return true
		}
	}

	// Method mention combined with a desire/intent cue
	if methodMention.MatchString(t) && desireCue.MatchString(t) {
		return true
	}

	imminenceHit := false
	for _, pat := range imminence {
		if pat.MatchString(t) {
			imminenceHit = true
			break
		}
	}

	// Suicide mention plus an imminence cue
	suicideHit := strings.Contains(t, "suicide") ||
		strings.Contains(t, "end my life") ||
		strings.Contains(t, "kill myself")
	if suicideHit && imminenceHit {
		return true
	}

	// Strong despair plus imminence
	if despair.MatchString(t) && imminenceHit {
		return true
	}

	return false
}
