// Package synthesize turns retrieved chunks plus user state into a validated
// exercise recommendation via the generative model.
package synthesize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"ei-coach-be/pkg/llm"
	"ei-coach-be/pkg/rag"
	"ei-coach-be/pkg/rag/prompt"
)

var (
	// ErrEmptySteps means the model produced a recommendation without usable
	// steps. Never silently defaulted; callers retry or serve the canned
	// fallback.
	ErrEmptySteps = errors.New("synthesized exercise has no steps")
	// ErrMalformedOutput means the response could not be decoded into the
	// recommendation schema at all.
	ErrMalformedOutput = errors.New("generative output does not match recommendation schema")
)

// Field caps keep model output bounded in responses and logs.
const (
	maxExerciseId = 80
	maxTitle      = 120
	maxSteps      = 6
	maxStepLen    = 200
	maxOutcome    = 240
	maxSourceId   = 120
	maxFollowup   = 140
)

var multiSpace = regexp.MustCompile(`\s+`)

// Synthesizer invokes the generative model and decodes its output.
type Synthesizer struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewSynthesizer(llmProvider llm.LLMProvider, logger *log.Logger) *Synthesizer {
	return &Synthesizer{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// payload mirrors the schema the model is asked for, before validation.
type payload struct {
	ExerciseId       string   `json:"exercise_id"`
	Title            string   `json:"title"`
	Steps            []string `json:"steps"`
	ExpectedOutcome  string   `json:"expected_outcome"`
	SourceDocId      string   `json:"source_doc_id"`
	FollowupQuestion string   `json:"followup_question"`
}

// Synthesize prompts the model with the retrieved chunks and user state and
// returns a validated recommendation. With no chunks, generation still runs
// ungrounded and the schema requirements are unchanged.
func (s *Synthesizer) Synthesize(
	ctx context.Context,
	chunks []rag.Chunk,
	targets []rag.FacetTag,
	contextTags []string,
	duration rag.DurationTag,
) (*rag.Recommendation, error) {

	promptText := prompt.BuildExercisePrompt(chunks, targets, contextTags, duration)

	raw, err := s.llmProvider.Generate(ctx, promptText, llm.WithTemperature(0.4))
	if err != nil {
		return nil, rag.WrapTimeout(err, "exercise generation")
	}

	var decoded payload
	if err := json.Unmarshal([]byte(rag.ExtractJSON(raw)), &decoded); err != nil {
		s.logger.Printf("[WARN] Unparsable exercise output: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	return repair(decoded, chunks)
}

// repair is the explicit validation/repair stage. Hard failures (no steps)
// become typed errors; minor generative drift (missing "?", fabricated
// provenance) is repaired in place.
func repair(p payload, chunks []rag.Chunk) (*rag.Recommendation, error) {
	steps := make([]string, 0, len(p.Steps))
	for _, raw := range p.Steps {
		if step := sanitizeStep(raw); step != "" {
			steps = append(steps, step)
		}
	}
	if len(steps) == 0 {
		return nil, ErrEmptySteps
	}
	if len(steps) > maxSteps {
		steps = steps[:maxSteps]
	}

	followup := strings.TrimSpace(p.FollowupQuestion)
	if followup == "" {
		followup = "What did you notice as you practiced"
	}
	followup = truncate(followup, maxFollowup-1)
	if !strings.HasSuffix(followup, "?") {
		followup += "?"
	}

	sourceId := strings.TrimSpace(p.SourceDocId)
	if len(chunks) > 0 && !knownSource(sourceId, chunks) {
		// The synthesizer may not fabricate provenance: fall back to the top
		// retrieved chunk's source document.
		sourceId = chunks[0].SourceDocId
	}
	if sourceId == "" {
		sourceId = "ungrounded"
	}

	exerciseId := strings.TrimSpace(p.ExerciseId)
	if exerciseId == "" {
		exerciseId = "unnamed_exercise"
	}
	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = "Practice"
	}
	outcome := strings.TrimSpace(p.ExpectedOutcome)
	if outcome == "" {
		outcome = "Practice the skill momentarily."
	}

	return &rag.Recommendation{
		ExerciseId:       truncate(exerciseId, maxExerciseId),
		Title:            truncate(title, maxTitle),
		Steps:            steps,
		ExpectedOutcome:  truncate(outcome, maxOutcome),
		SourceDocId:      truncate(sourceId, maxSourceId),
		FollowupQuestion: followup,
	}, nil
}

func knownSource(sourceId string, chunks []rag.Chunk) bool {
	for _, c := range chunks {
		if c.SourceDocId == sourceId {
			return true
		}
	}
	return false
}

func sanitizeStep(s string) string {
	text := multiSpace.ReplaceAllString(strings.TrimSpace(s), " ")
	return truncate(text, maxStepLen)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
