package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/ashaai/asha-server/internal/config"
	"github.com/ashaai/asha-server/internal/db"
	"github.com/ashaai/asha-server/internal/embeddings"
	"github.com/ashaai/asha-server/internal/indexer"
	"github.com/ashaai/asha-server/internal/listings"
	"github.com/ashaai/asha-server/internal/llm"
	"github.com/ashaai/asha-server/internal/session"
	"github.com/ashaai/asha-server/internal/vectordb"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `asha init` to create a config file", err)
	}
	return cfg, nil
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
// Shared by the index, serve and mcp commands.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}
	model := cfg.EmbeddingModel
	if model == "" {
		model = config.GetPreset(provider).EmbeddingModel
	}

	switch provider {
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(model, 768, os.Getenv("OLLAMA_HOST")), nil
	default:
		// Groq has no embeddings API; OpenAI embeddings serve every
		// non-Ollama provider.
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required (used for embeddings when provider is %s)", provider)
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(model)), nil
	}
}

// createLLMProviderFromConfig creates an LLM provider based on config
// settings, wrapping it in a rate limiter when rate_rpm is set.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, err
	}
	if cfg.RateRPM > 0 {
		provider = llm.NewRateLimitedProvider(provider, cfg.RateRPM)
	}
	return provider, nil
}

// createSessionStore creates the transcript store named by the config. The
// SQLite backend keeps its database under the data dir.
func createSessionStore(cfg *config.Config) (session.Store, func(), error) {
	switch cfg.Sessions.Backend {
	case config.SessionSQLite:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating data dir: %w", err)
		}
		database, err := db.Open(filepath.Join(cfg.DataDir, "asha.db"))
		if err != nil {
			return nil, nil, fmt.Errorf("opening session database: %w", err)
		}
		return session.NewSQLiteStore(database), func() { database.Close() }, nil
	default:
		ttl := time.Duration(cfg.Sessions.TTLMinutes) * time.Minute
		return session.NewMemoryStore(ttl, cfg.Sessions.MaxMessages), func() {}, nil
	}
}

// vectorDir is where the serialized index lives.
func vectorDir(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "vectordb")
}

// buildIndex discovers the CSV datasets and builds both partitions of the
// store from scratch.
func buildIndex(ctx context.Context, cfg *config.Config, store vectordb.VectorStore, progress bool, log zerolog.Logger) error {
	opts := indexer.Options{
		ChunkSize:    cfg.Index.ChunkSize,
		ChunkOverlap: cfg.Index.ChunkOverlap,
		Progress:     progress,
	}

	jobFiles, err := listings.Discover(cfg.Datasets.Dir, cfg.Datasets.JobPatterns)
	if err != nil {
		return fmt.Errorf("discovering job datasets: %w", err)
	}
	for _, path := range jobFiles {
		jobs, err := listings.LoadJobs(path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		if err := indexer.BuildJobs(ctx, store, jobs, opts); err != nil {
			return fmt.Errorf("indexing %s: %w", path, err)
		}
		log.Info().Str("path", path).Int("records", len(jobs)).Msg("indexed jobs dataset")
	}

	eventFiles, err := listings.Discover(cfg.Datasets.Dir, cfg.Datasets.EventPatterns)
	if err != nil {
		return fmt.Errorf("discovering event datasets: %w", err)
	}
	for _, path := range eventFiles {
		events, err := listings.LoadEvents(path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		if err := indexer.BuildEvents(ctx, store, events, opts); err != nil {
			return fmt.Errorf("indexing %s: %w", path, err)
		}
		log.Info().Str("path", path).Int("records", len(events)).Msg("indexed events dataset")
	}

	if len(jobFiles) == 0 && len(eventFiles) == 0 {
		log.Warn().Str("dir", cfg.Datasets.Dir).Msg("no datasets found")
	}
	return nil
}
