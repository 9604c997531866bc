package dto

import "ei-coach-be/pkg/rag"

type RecommendRequest struct {
	JournalText string   `json:"journal_text" validate:"required,min=1"`
	Mood        int      `json:"mood" validate:"omitempty,min=1,max=5"`
	ContextTags []string `json:"context_tags,omitempty" validate:"max=10"`
	Duration    string   `json:"duration,omitempty"` // "2min" | "5min" | "10min"
	Locale      string   `json:"locale,omitempty"`

	// Analysis lets callers pass a precomputed structured read of the journal
	// entry. Left nil, the service runs its own analysis pass.
	Analysis *AnalysisDTO `json:"analysis,omitempty"`
}

type AnalysisDTO struct {
	Emotions       []EmotionDTO      `json:"emotions"`
	Sentiment      float64           `json:"sentiment" validate:"min=-1,max=1"`
	Distortions    []string          `json:"cognitive_distortions,omitempty"`
	Topics         []string          `json:"topics,omitempty"`
	FacetSignals   map[string]string `json:"facet_signals" validate:"required"`
	OneLineInsight string            `json:"one_line_insight,omitempty"`
}

type EmotionDTO struct {
	Label string  `json:"label" validate:"required"`
	Score float64 `json:"score" validate:"min=0,max=1"`
}

type RecommendResponse struct {
	RiskLabel         rag.RiskLabel       `json:"risk_label"`
	EscalationMessage string              `json:"escalation_message,omitempty"`
	Analysis          *AnalysisDTO        `json:"analysis,omitempty"`
	TargetFacet       rag.FacetTag        `json:"target_facet,omitempty"`
	Recommendation    *rag.Recommendation `json:"recommendation,omitempty"`
	FromFallback      bool                `json:"from_fallback,omitempty"`
}

type IngestFileRequest struct {
	DocId       string   `json:"doc_id" validate:"required"`
	Format      string   `json:"format,omitempty"` // "text" | "markdown"
	Content     string   `json:"content" validate:"required"`
	Facet       string   `json:"facet" validate:"required"`
	Duration    string   `json:"duration,omitempty"`
	ContextTags []string `json:"context_tags,omitempty"`
}

type IngestRequest struct {
	Files []IngestFileRequest `json:"files" validate:"required,min=1,dive"`
}

type IngestFileStatus struct {
	DocId  string `json:"doc_id"`
	Chunks int    `json:"chunks"`
	Error  string `json:"error,omitempty"`
}

type IngestResponse struct {
	Indexed    int                `json:"indexed_chunks"`
	Documents  int                `json:"documents"`
	Statuses   []IngestFileStatus `json:"statuses"`
	ReplacedAt string             `json:"replaced_at"`
}

type StatusResponse struct {
	Ready      bool   `json:"ready"`
	ChunkCount int    `json:"chunk_count"`
	DocCount   int    `json:"doc_count"`
	Dim        int    `json:"dim"`
	Snapshot   string `json:"snapshot_location"`
}
