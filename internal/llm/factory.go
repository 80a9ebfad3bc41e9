package llm

import (
	"fmt"
	"os"
)

// NewProvider creates an LLM provider based on the given provider type and
// model. Supported provider types: "openai", "groq", "ollama". API keys come
// from the provider's conventional environment variable.
func NewProvider(providerType string, model string) (Provider, error) {
	switch providerType {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAIProvider(apiKey, model), nil

	case "groq":
		apiKey := os.Getenv("GROQ_API_TOKEN")
		if apiKey == "" {
			return nil, fmt.Errorf("GROQ_API_TOKEN environment variable is not set")
		}
		return NewGroqProvider(apiKey, model), nil

	case "ollama":
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewOllamaProvider(host, model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
