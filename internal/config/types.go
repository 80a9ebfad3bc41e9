package config

// ProviderType identifies an LLM or embedding provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderGroq   ProviderType = "groq"
	ProviderOllama ProviderType = "ollama"
)

// SearchProviderType identifies a web-search backend.
type SearchProviderType string

const (
	SearchSerper SearchProviderType = "serper"
	SearchBrave  SearchProviderType = "brave"
)

// SessionBackend selects where chat transcripts are kept.
type SessionBackend string

const (
	SessionMemory SessionBackend = "memory"
	SessionSQLite SessionBackend = "sqlite"
)

// Config is the top-level asha-server configuration, corresponding to .asha.yml.
type Config struct {
	Provider          ProviderType       `yaml:"provider" koanf:"provider"`
	Model             string             `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType       `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string             `yaml:"embedding_model" koanf:"embedding_model"`
	SearchProvider    SearchProviderType `yaml:"search_provider" koanf:"search_provider"`

	Datasets DatasetsConfig `yaml:"datasets" koanf:"datasets"`
	Index    IndexConfig    `yaml:"index" koanf:"index"`
	Sessions SessionsConfig `yaml:"sessions" koanf:"sessions"`
	Server   ServerConfig   `yaml:"server" koanf:"server"`
	RateRPM  int            `yaml:"rate_rpm" koanf:"rate_rpm"`
	DataDir  string         `yaml:"data_dir" koanf:"data_dir"`
}

// DatasetsConfig locates the CSV listing sources.
type DatasetsConfig struct {
	Dir           string   `yaml:"dir" koanf:"dir"`
	JobPatterns   []string `yaml:"job_patterns" koanf:"job_patterns"`
	EventPatterns []string `yaml:"event_patterns" koanf:"event_patterns"`
}

// IndexConfig controls chunking and retrieval.
type IndexConfig struct {
	ChunkSize    int `yaml:"chunk_size" koanf:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap" koanf:"chunk_overlap"`
	TopK         int `yaml:"top_k" koanf:"top_k"`
}

// SessionsConfig controls transcript storage and eviction.
type SessionsConfig struct {
	Backend     SessionBackend `yaml:"backend" koanf:"backend"`
	TTLMinutes  int            `yaml:"ttl_minutes" koanf:"ttl_minutes"`
	MaxMessages int            `yaml:"max_messages" koanf:"max_messages"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Port           int  `yaml:"port" koanf:"port"`
	TimeoutSeconds int  `yaml:"timeout_seconds" koanf:"timeout_seconds"`
	AllowAllCORS   bool `yaml:"allow_all_cors" koanf:"allow_all_cors"`
}
