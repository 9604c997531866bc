package service

import (
	"context"
	"time"

	"ei-coach-be/internal/dto"
	"ei-coach-be/internal/pkg/logger"
	"ei-coach-be/pkg/events"
	"ei-coach-be/pkg/rag"
	"ei-coach-be/pkg/rag/corpus"
	"ei-coach-be/pkg/vecindex"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// EventPublisher is the outbound bus contract. May be nil when NATS is not
// configured; publishing is always best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IIngestService interface {
	IngestFiles(ctx context.Context, req *dto.IngestRequest) (*dto.IngestResponse, error)
	Status() *dto.StatusResponse
}

type ingestService struct {
	ingestor     *corpus.Ingestor
	handle       *vecindex.Handle
	pubSub       *gochannel.GoChannel
	persistTopic string
	snapshotPath string
	eventBus     EventPublisher
	logger       logger.ILogger
}

func NewIngestService(
	ingestor *corpus.Ingestor,
	handle *vecindex.Handle,
	pubSub *gochannel.GoChannel,
	persistTopic string,
	snapshotPath string,
	eventBus EventPublisher,
	log logger.ILogger,
) IIngestService {
	return &ingestService{
		ingestor:     ingestor,
		handle:       handle,
		pubSub:       pubSub,
		persistTopic: persistTopic,
		snapshotPath: snapshotPath,
		eventBus:     eventBus,
		logger:       log,
	}
}

// IngestFiles rebuilds the index from the uploaded corpus and publishes it
// atomically. The new index fully replaces the previous generation; requests
// in flight keep their old snapshot. Persistence runs async so a slow or
// failing disk never blocks the swap.
func (s *ingestService) IngestFiles(ctx context.Context, req *dto.IngestRequest) (*dto.IngestResponse, error) {
	files := make([]corpus.RawDocument, 0, len(req.Files))
	statuses := make([]dto.IngestFileStatus, 0, len(req.Files))

	for _, f := range req.Files {
		facet, err := rag.ParseFacet(f.Facet)
		if err != nil {
			statuses = append(statuses, dto.IngestFileStatus{DocId: f.DocId, Error: err.Error()})
			continue
		}
		duration, err := rag.ParseDuration(f.Duration)
		if err != nil {
			statuses = append(statuses, dto.IngestFileStatus{DocId: f.DocId, Error: err.Error()})
			continue
		}
		files = append(files, corpus.RawDocument{
			DocId:       f.DocId,
			Format:      f.Format,
			Content:     f.Content,
			Facet:       facet,
			Duration:    duration,
			ContextTags: f.ContextTags,
		})
	}

	ix, fileStatuses, err := s.ingestor.IngestFiles(ctx, files)
	if err != nil {
		s.logger.Error("ingest", "Index build aborted", map[string]interface{}{"error": err.Error()})
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	for _, st := range fileStatuses {
		out := dto.IngestFileStatus{DocId: st.DocId, Chunks: st.Chunks}
		if st.Err != nil {
			out.Error = st.Err.Error()
		}
		statuses = append(statuses, out)
	}

	if ix.Len() == 0 {
		s.logger.Warn("ingest", "No chunks indexed, keeping previous index", nil)
		return &dto.IngestResponse{Statuses: statuses}, nil
	}

	s.handle.Swap(ix)
	s.logger.Info("ingest", "Index swapped", map[string]interface{}{
		"chunks": ix.Len(),
		"docs":   ix.SourceDocCount(),
	})

	s.publishPersist()
	if s.eventBus != nil {
		if err := s.eventBus.Publish(ctx, events.IndexIngestedEvent{
			ChunkCount: ix.Len(),
			DocCount:   ix.SourceDocCount(),
			OccurredAt: time.Now(),
		}); err != nil {
			s.logger.Warn("ingest", "Failed to publish ingest event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.IngestResponse{
		Indexed:    ix.Len(),
		Documents:  ix.SourceDocCount(),
		Statuses:   statuses,
		ReplacedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// publishPersist hands the snapshot write to the consumer. The payload is
// just a trigger; the consumer snapshots the handle itself so it always
// persists the latest generation.
func (s *ingestService) publishPersist() {
	msg := message.NewMessage(uuid.New().String(), []byte(`{"reason":"ingest"}`))
	if err := s.pubSub.Publish(s.persistTopic, msg); err != nil {
		s.logger.Error("ingest", "Failed to enqueue index persistence", map[string]interface{}{"error": err.Error()})
	}
}

func (s *ingestService) Status() *dto.StatusResponse {
	ix := s.handle.Snapshot()
	if ix == nil {
		return &dto.StatusResponse{Ready: false, Snapshot: s.snapshotPath}
	}
	return &dto.StatusResponse{
		Ready:      ix.Len() > 0,
		ChunkCount: ix.Len(),
		DocCount:   ix.SourceDocCount(),
		Dim:        ix.Dim(),
		Snapshot:   s.snapshotPath,
	}
}
