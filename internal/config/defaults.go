package config

// ModelPreset describes the default chat and embedding models for a provider.
type ModelPreset struct {
	Model          string
	EmbeddingModel string
}

// providerPresets maps each provider to its default model choices. Groq is the
// provider the original deployment ran on; embeddings always come from an
// embedding-capable provider.
var providerPresets = map[ProviderType]ModelPreset{
	ProviderOpenAI: {Model: "gpt-4o-mini", EmbeddingModel: "text-embedding-3-small"},
	ProviderGroq:   {Model: "llama3-70b-8192", EmbeddingModel: "text-embedding-3-small"},
	ProviderOllama: {Model: "llama3", EmbeddingModel: "nomic-embed-text"},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderGroq,
		Model:             "llama3-70b-8192",
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    "text-embedding-3-small",
		SearchProvider:    SearchSerper,
		Datasets: DatasetsConfig{
			Dir:           "datasets",
			JobPatterns:   []string{"**/structured_jobs*.csv"},
			EventPatterns: []string{"**/herkey_events*.csv"},
		},
		Index: IndexConfig{
			ChunkSize:    1000,
			ChunkOverlap: 100,
			TopK:         5,
		},
		Sessions: SessionsConfig{
			Backend:     SessionMemory,
			TTLMinutes:  12 * 60,
			MaxMessages: 200,
		},
		Server: ServerConfig{
			Port:           8000,
			TimeoutSeconds: 60,
			AllowAllCORS:   true,
		},
		RateRPM: 30,
		DataDir: "data",
	}
}

// GetPreset returns the model preset for the given provider, falling back to
// the Groq preset for unknown providers.
func GetPreset(provider ProviderType) ModelPreset {
	if preset, ok := providerPresets[provider]; ok {
		return preset
	}
	return providerPresets[ProviderGroq]
}
