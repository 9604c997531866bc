package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	Ai     AIConfig
	Index  IndexConfig
	Safety SafetyConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	DefaultLocale      string
}

type AIConfig struct {
	EmbeddingProvider string // "ollama" or "openai"
	EmbeddingModel    string
	EmbeddingDim      int
	OllamaBaseURL     string
	LLMProvider       string // "ollama", "openai"
	LLMModel          string // e.g. "llama3", "gpt-4o-mini"
	OpenAIAPIKey      string
	RequestTimeoutSec int
}

type IndexConfig struct {
	DataDir       string // blob store root
	SnapshotPath  string // location of the persisted index inside the store
	ChunkSize     int
	ChunkOverlap  int
	TopK          int
	MinScore      float64
	PersistTopic  string
	EmbedCacheTTL int // minutes; 0 disables query embedding cache
}

type SafetyConfig struct {
	ClassifierTimeoutSec int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			DefaultLocale:      getEnv("DEFAULT_LOCALE", "en"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "nomic-embed-text"),
			EmbeddingDim:      getEnvAsInt("EMBEDDING_DIM", 768),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
			RequestTimeoutSec: getEnvAsInt("AI_REQUEST_TIMEOUT_SEC", 60),
		},
		Index: IndexConfig{
			DataDir:       getEnv("INDEX_DATA_DIR", "./data"),
			SnapshotPath:  getEnv("INDEX_SNAPSHOT_PATH", "index/snapshot.json"),
			ChunkSize:     getEnvAsInt("INDEX_CHUNK_SIZE", 800),
			ChunkOverlap:  getEnvAsInt("INDEX_CHUNK_OVERLAP", 120),
			TopK:          getEnvAsInt("RETRIEVE_TOP_K", 5),
			MinScore:      getEnvAsFloat("RETRIEVE_MIN_SCORE", 0.35),
			PersistTopic:  getEnv("PERSIST_INDEX_TOPIC_NAME", "PERSIST_INDEX"),
			EmbedCacheTTL: getEnvAsInt("EMBED_CACHE_TTL_MIN", 30),
		},
		Safety: SafetyConfig{
			ClassifierTimeoutSec: getEnvAsInt("SAFETY_TIMEOUT_SEC", 20),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
