package bootstrap

import (
	"log"
	"time"

	"ei-coach-be/internal/config"
	"ei-coach-be/internal/controller"
	"ei-coach-be/internal/pkg/logger"
	"ei-coach-be/internal/repository/memory"
	"ei-coach-be/internal/service"
	"ei-coach-be/pkg/analyze"
	"ei-coach-be/pkg/blob"
	"ei-coach-be/pkg/embedding"
	"ei-coach-be/pkg/llm/factory"
	"ei-coach-be/pkg/rag/corpus"
	"ei-coach-be/pkg/rag/retrieve"
	"ei-coach-be/pkg/rag/safety"
	"ei-coach-be/pkg/rag/synthesize"
	"ei-coach-be/pkg/vecindex"

	pktNats "ei-coach-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Container struct {
	// Controllers
	CoachController controller.ICoachController

	// Background Services (Exposed for main.go to run)
	PersistConsumerService service.IPersistConsumerService

	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	ragLogger := newPipelineLogger("logs/pipeline.log")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "openai" {
		embeddingProvider = embedding.NewOpenAIProvider(cfg.Ai.OpenAIAPIKey, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	}
	if cfg.Index.EmbedCacheTTL > 0 {
		embeddingProvider = memory.NewCachedEmbedder(
			embeddingProvider,
			time.Duration(cfg.Index.EmbedCacheTTL)*time.Minute,
		)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OpenAIAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Storage and Index
	store, err := blob.NewFSStore(cfg.Index.DataDir)
	if err != nil {
		log.Fatalf("[FATAL] Failed to open blob store at %s: %v", cfg.Index.DataDir, err)
	}

	handle := vecindex.NewHandle()
	if ix, err := vecindex.Load(store, cfg.Index.SnapshotPath); err != nil {
		log.Printf("[WARN] Failed to load index snapshot: %v", err)
	} else if ix != nil {
		handle.Swap(ix)
		log.Printf("[INFO] Restored index snapshot: %d chunks, %d docs", ix.Len(), ix.SourceDocCount())
	}

	// 5. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	var eventBus service.EventPublisher
	if natsPub != nil {
		eventBus = natsPub
	}

	// 6. Pipeline Components
	ingestor := corpus.NewIngestor(
		embeddingProvider,
		cfg.Ai.EmbeddingDim,
		cfg.Index.ChunkSize,
		cfg.Index.ChunkOverlap,
	)

	retrieverCfg := retrieve.DefaultConfig()
	retrieverCfg.TopK = cfg.Index.TopK
	retrieverCfg.MinScore = cfg.Index.MinScore
	retriever := retrieve.NewRetriever(handle, embeddingProvider, retrieverCfg, ragLogger)

	synthesizer := synthesize.NewSynthesizer(llmProvider, ragLogger)
	gate := safety.NewGate(llmProvider, ragLogger)
	analyzer := analyze.NewLLMAnalyzer(llmProvider, ragLogger)

	// 7. Services
	ingestService := service.NewIngestService(
		ingestor,
		handle,
		pubSub,
		cfg.Index.PersistTopic,
		cfg.Index.SnapshotPath,
		eventBus,
		sysLogger,
	)
	coachService := service.NewCoachService(
		gate,
		analyzer,
		retriever,
		synthesizer,
		eventBus,
		cfg.App.DefaultLocale,
		time.Duration(cfg.Safety.ClassifierTimeoutSec)*time.Second,
		time.Duration(cfg.Ai.RequestTimeoutSec)*time.Second,
		sysLogger,
	)
	persistConsumer := service.NewPersistConsumerService(
		pubSub,
		cfg.Index.PersistTopic,
		handle,
		store,
		cfg.Index.SnapshotPath,
		sysLogger,
	)

	// 8. Controllers
	coachController := controller.NewCoachController(coachService, ingestService)

	return &Container{
		CoachController:        coachController,
		PersistConsumerService: persistConsumer,
		Logger:                 sysLogger,
	}
}

// newPipelineLogger opens the isolated trace log for the retrieval pipeline,
// rotated like the main log. Request traces stay out of stdout.
func newPipelineLogger(path string) *log.Logger {
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}
	return log.New(rotator, "", log.LstdFlags)
}
