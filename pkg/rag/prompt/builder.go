// Package prompt builds the strict-JSON prompts sent to the generative model.
package prompt

import (
	"fmt"
	"strings"

	"ei-coach-be/pkg/rag"
)

// BuildExercisePrompt embeds the retrieved chunks and the user's state into
// the micro-exercise synthesis prompt. With no chunks the grounding section
// degrades gracefully but the schema demands stay identical.
func BuildExercisePrompt(chunks []rag.Chunk, targets []rag.FacetTag, contextTags []string, duration rag.DurationTag) string {
	var p strings.Builder

	p.WriteString("You are an emotional intelligence coach. Given retrieved content chunks, select ONE short micro-exercise\n")
	p.WriteString("that fits the user's state. Prefer 2-3 minute exercises for high arousal (anger/anxiety).\n")
	p.WriteString("Return STRICT JSON with keys:\n")
	p.WriteString("- exercise_id (string)\n")
	p.WriteString("- title (string)\n")
	p.WriteString("- steps (list[string])\n")
	p.WriteString("- expected_outcome (string)\n")
	p.WriteString("- source_doc_id (string)\n")
	p.WriteString("- followup_question (string)\n\n")

	p.WriteString("User state:\n")
	p.WriteString(fmt.Sprintf("target_facets: %s\n", joinFacets(targets)))
	p.WriteString(fmt.Sprintf("context_tags: %s\n", strings.Join(contextTags, ", ")))
	p.WriteString(fmt.Sprintf("duration_hint: %s\n\n", duration))

	if len(chunks) == 0 {
		p.WriteString("No retrieved chunks are available. Draw only on the user state above and keep the exercise generic and safe.\n")
		return p.String()
	}

	p.WriteString("Retrieved chunks (top-k):\n")
	for i, c := range chunks {
		p.WriteString(fmt.Sprintf("Chunk %d (source_doc_id=%s, facet=%s, duration=%s):\n%s\n\n",
			i+1, c.SourceDocId, c.Facet, c.Duration, c.Text))
	}
	p.WriteString("Pick source_doc_id from the chunks above; do not invent one.\n")

	return p.String()
}

// BuildSafetyPrompt asks for a strict one-key JSON risk classification.
func BuildSafetyPrompt(text string) string {
	var p strings.Builder
	p.WriteString("You are a safety triage assistant. Classify the text for imminent risk or self-harm intent.\n")
	p.WriteString("Return STRICT JSON with a single key \"label\" whose value is either \"SAFE\" or \"ESCALATE\".\n")
	p.WriteString("You may include an optional \"confidence\" key with a float in [0,1].\n\n")
	p.WriteString("Text:\n")
	p.WriteString(text)
	return p.String()
}

// BuildAnalyzePrompt asks for the strict journal-analysis JSON structure.
func BuildAnalyzePrompt(journal string, mood int, contextJSON string) string {
	var p strings.Builder
	p.WriteString("You are an EQ analyst. Return STRICT JSON only (no prose, no markdown).\n")
	p.WriteString("JSON must contain these keys exactly:\n")
	p.WriteString("- emotions: list of objects { \"label\": string, \"score\": float }\n")
	p.WriteString("- sentiment: float in [-1,1]\n")
	p.WriteString("- cognitive_distortions: list[string]\n")
	p.WriteString("- topics: list[string]\n")
	p.WriteString("- facet_signals: object with keys { \"self_awareness\",\"self_regulation\",\"motivation\",\"empathy\",\"social_skills\" } and values \"+\", \"-\", or \"0\"\n")
	p.WriteString("- one_line_insight: string\n\n")
	p.WriteString("User entry:\n")
	p.WriteString(fmt.Sprintf("Text: %s\n", journal))
	p.WriteString(fmt.Sprintf("Mood(1-5): %d\n", mood))
	p.WriteString(fmt.Sprintf("Optional context (JSON): %s\n", contextJSON))
	return p.String()
}

func joinFacets(facets []rag.FacetTag) string {
	parts := make([]string, len(facets))
	for i, f := range facets {
		parts[i] = string(f)
	}
	return strings.Join(parts, ", ")
}
