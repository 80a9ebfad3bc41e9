package websearch

import "context"

// Result is one web search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Searcher defines the interface for web-search backends used to answer
// open-domain queries.
type Searcher interface {
	// Search returns up to k results for the query.
	Search(ctx context.Context, query string, k int) ([]Result, error)
	// Name returns the backend's identifier.
	Name() string
}
