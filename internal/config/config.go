package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (ASHA_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: ASHA_PROVIDER -> provider,
	// ASHA_SERVER.PORT -> server.port, etc.
	if err := k.Load(env.Provider("ASHA_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "ASHA_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderOpenAI: true,
	ProviderGroq:   true,
	ProviderOllama: true,
}

// validSearchProviders is the set of recognized web-search backends.
var validSearchProviders = map[SearchProviderType]bool{
	SearchSerper: true,
	SearchBrave:  true,
}

// validSessionBackends is the set of recognized session storage backends.
var validSessionBackends = map[SessionBackend]bool{
	SessionMemory: true,
	SessionSQLite: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of openai, groq, ollama", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}

	if c.EmbeddingProvider != "" && !validProviders[c.EmbeddingProvider] {
		return fmt.Errorf("invalid embedding_provider %q", c.EmbeddingProvider)
	}

	if c.SearchProvider != "" && !validSearchProviders[c.SearchProvider] {
		return fmt.Errorf("invalid search_provider %q: must be serper or brave", c.SearchProvider)
	}

	if c.Index.ChunkSize <= 0 {
		return fmt.Errorf("index.chunk_size must be positive")
	}
	if c.Index.ChunkOverlap < 0 {
		return fmt.Errorf("index.chunk_overlap must be non-negative")
	}
	if c.Index.ChunkOverlap >= c.Index.ChunkSize {
		return fmt.Errorf("index.chunk_overlap must be smaller than index.chunk_size")
	}
	if c.Index.TopK <= 0 {
		return fmt.Errorf("index.top_k must be positive")
	}

	if c.Sessions.Backend != "" && !validSessionBackends[c.Sessions.Backend] {
		return fmt.Errorf("invalid sessions.backend %q: must be memory or sqlite", c.Sessions.Backend)
	}
	if c.Sessions.MaxMessages < 0 {
		return fmt.Errorf("sessions.max_messages must be non-negative")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535")
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderGroq:
		return "GROQ_API_TOKEN"
	default:
		return ""
	}
}

// SearchAPIKeyEnvVar returns the environment variable holding the API key
// for the given search provider.
func SearchAPIKeyEnvVar(provider SearchProviderType) string {
	switch provider {
	case SearchSerper:
		return "SERPER_API_KEY"
	case SearchBrave:
		return "BRAVE_API_KEY"
	default:
		return ""
	}
}
