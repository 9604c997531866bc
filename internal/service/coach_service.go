package service

import (
	"context"
	"errors"
	"time"

	"ei-coach-be/internal/dto"
	"ei-coach-be/internal/pkg/logger"
	"ei-coach-be/pkg/analyze"
	"ei-coach-be/pkg/events"
	"ei-coach-be/pkg/rag"
	"ei-coach-be/pkg/rag/fallback"
	"ei-coach-be/pkg/rag/query"
	"ei-coach-be/pkg/rag/retrieve"
	"ei-coach-be/pkg/rag/safety"
	"ei-coach-be/pkg/rag/synthesize"
	"ei-coach-be/pkg/rag/target"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICoachService interface {
	Recommend(ctx context.Context, req *dto.RecommendRequest) (*dto.RecommendResponse, error)
}

type coachService struct {
	gate          *safety.Gate
	analyzer      analyze.Analyzer
	retriever     *retrieve.Retriever
	synthesizer   *synthesize.Synthesizer
	eventBus       EventPublisher
	defaultLocale  string
	safetyTimeout  time.Duration
	requestTimeout time.Duration
	logger         logger.ILogger
}

func NewCoachService(
	gate *safety.Gate,
	analyzer analyze.Analyzer,
	retriever *retrieve.Retriever,
	synthesizer *synthesize.Synthesizer,
	eventBus EventPublisher,
	defaultLocale string,
	safetyTimeout time.Duration,
	requestTimeout time.Duration,
	log logger.ILogger,
) ICoachService {
	return &coachService{
		gate:           gate,
		analyzer:       analyzer,
		retriever:      retriever,
		synthesizer:    synthesizer,
		eventBus:       eventBus,
		defaultLocale:  defaultLocale,
		safetyTimeout:  safetyTimeout,
		requestTimeout: requestTimeout,
		logger:         log,
	}
}

// Recommend runs the full pipeline: safety gate, journal analysis, facet
// targeting, retrieval and exercise synthesis. An ESCALATE verdict
// short-circuits everything after the gate; the response then carries only
// the escalation message, never an analysis or exercise.
func (s *coachService) Recommend(ctx context.Context, req *dto.RecommendRequest) (*dto.RecommendResponse, error) {
	locale := req.Locale
	if locale == "" {
		locale = s.defaultLocale
	}

	gateCtx, cancel := context.WithTimeout(ctx, s.safetyTimeout)
	risk := s.gate.ClassifyRisk(gateCtx, req.JournalText)
	cancel()

	if risk.Label == rag.RiskEscalate {
		s.logger.Warn("coach", "Request escalated by safety gate", map[string]interface{}{
			"locale": locale,
		})
		s.publishEscalation(ctx, locale)
		return &dto.RecommendResponse{
			RiskLabel:         rag.RiskEscalate,
			EscalationMessage: fallback.EscalationMessage(locale),
		}, nil
	}

	analysisCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	analysis, err := s.resolveAnalysis(analysisCtx, req)
	cancel()
	if err != nil {
		return nil, err
	}

	duration, err := rag.ParseDuration(req.Duration)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	targetFacet := target.ChooseTarget(analysis.FacetSignals, analysis.Sentiment, analysis.TopEmotion(), analysis.Topics)
	q := query.Compose(targetFacet, analysis.TopEmotion(), analysis.Topics, duration)

	s.logger.Debug("coach", "Composed retrieval query", map[string]interface{}{
		"target": string(targetFacet),
		"query":  q,
	})

	searchCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	chunks, err := s.retriever.Search(searchCtx, q, 0)
	cancel()
	if err != nil {
		return nil, err
	}

	rec, fromFallback, err := s.synthesize(ctx, req, analysis, targetFacet, duration, chunks)
	if err != nil {
		return nil, err
	}

	return &dto.RecommendResponse{
		RiskLabel:      rag.RiskSafe,
		Analysis:       toAnalysisDTO(analysis),
		TargetFacet:    targetFacet,
		Recommendation: rec,
		FromFallback:   fromFallback,
	}, nil
}

// resolveAnalysis uses the caller's precomputed analysis when present,
// otherwise runs the analyzer. Supplied facet signals are validated against
// the closed enums; a bad map is a client error, not something to repair.
func (s *coachService) resolveAnalysis(ctx context.Context, req *dto.RecommendRequest) (*rag.Analysis, error) {
	if req.Analysis != nil {
		signals, err := rag.ParseFacetSignals(req.Analysis.FacetSignals)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		a := fromAnalysisDTO(req.Analysis)
		a.FacetSignals = signals
		return a, nil
	}

	analysis, err := s.analyzer.Analyze(ctx, req.JournalText, req.Mood, req.ContextTags)
	if err != nil {
		s.logger.Error("coach", "Journal analysis failed", map[string]interface{}{"error": err.Error()})
		return nil, rag.WrapTimeout(err, "journal analysis")
	}
	return analysis, nil
}

// synthesize generates the exercise, degrading to the canned regulation
// exercise when the model output is unusable or the call times out. Those
// failures are served, not surfaced: the user still gets something to do.
func (s *coachService) synthesize(
	ctx context.Context,
	req *dto.RecommendRequest,
	analysis *rag.Analysis,
	targetFacet rag.FacetTag,
	duration rag.DurationTag,
	chunks []rag.Chunk,
) (*rag.Recommendation, bool, error) {

	synthCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	rec, err := s.synthesizer.Synthesize(synthCtx, chunks, []rag.FacetTag{targetFacet}, req.ContextTags, duration)
	if err == nil {
		return rec, false, nil
	}

	if errors.Is(err, synthesize.ErrEmptySteps) ||
		errors.Is(err, synthesize.ErrMalformedOutput) ||
		errors.Is(err, rag.ErrTimeout) {
		s.logger.Warn("coach", "Synthesis failed, serving fallback exercise", map[string]interface{}{
			"error":  err.Error(),
			"target": string(targetFacet),
		})
		return fallback.Exercise(), true, nil
	}

	return nil, false, err
}

func (s *coachService) publishEscalation(ctx context.Context, locale string) {
	if s.eventBus == nil {
		return
	}
	evt := events.EscalationEvent{
		RequestId:  uuid.New().String(),
		Locale:     locale,
		OccurredAt: time.Now(),
	}
	if err := s.eventBus.Publish(ctx, evt); err != nil {
		s.logger.Warn("coach", "Failed to publish escalation event", map[string]interface{}{"error": err.Error()})
	}
}

func toAnalysisDTO(a *rag.Analysis) *dto.AnalysisDTO {
	emotions := make([]dto.EmotionDTO, 0, len(a.Emotions))
	for _, e := range a.Emotions {
		emotions = append(emotions, dto.EmotionDTO{Label: e.Label, Score: e.Score})
	}
	signals := make(map[string]string, len(a.FacetSignals))
	for facet, sig := range a.FacetSignals {
		signals[string(facet)] = string(sig)
	}
	return &dto.AnalysisDTO{
		Emotions:       emotions,
		Sentiment:      a.Sentiment,
		Distortions:    a.Distortions,
		Topics:         a.Topics,
		FacetSignals:   signals,
		OneLineInsight: a.OneLineInsight,
	}
}

func fromAnalysisDTO(d *dto.AnalysisDTO) *rag.Analysis {
	emotions := make([]rag.Emotion, 0, len(d.Emotions))
	for _, e := range d.Emotions {
		emotions = append(emotions, rag.Emotion{Label: e.Label, Score: e.Score})
	}
	return &rag.Analysis{
		Emotions:       emotions,
		Sentiment:      d.Sentiment,
		Distortions:    d.Distortions,
		Topics:         d.Topics,
		OneLineInsight: d.OneLineInsight,
	}
}
