package websearch

import (
	"fmt"
	"os"
)

// NewSearcher creates a web-search backend based on the given provider type.
// Supported types: "serper", "brave". API keys come from the backend's
// conventional environment variable.
func NewSearcher(providerType string) (Searcher, error) {
	switch providerType {
	case "serper":
		apiKey := os.Getenv("SERPER_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("SERPER_API_KEY environment variable is not set")
		}
		return NewSerperSearcher(apiKey, ""), nil

	case "brave":
		apiKey := os.Getenv("BRAVE_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("BRAVE_API_KEY environment variable is not set")
		}
		return NewBraveSearcher(apiKey, ""), nil

	default:
		return nil, fmt.Errorf("unsupported search provider: %s", providerType)
	}
}
