package vectordb

import (
	"context"

	"github.com/ashaai/asha-server/internal/listings"
)

// VectorStore stores listing chunks partitioned by category and supports
// similarity search within one partition. Retrieval never crosses partitions.
type VectorStore interface {
	// Add inserts or replaces documents in the given category's partition.
	Add(ctx context.Context, category listings.Category, docs []Document) error

	// Search returns up to k documents from the category's partition ranked
	// by descending similarity to the query. An empty partition yields an
	// empty result, not an error.
	Search(ctx context.Context, category listings.Category, query string, k int) ([]SearchResult, error)

	// Count returns the number of documents in the category's partition.
	Count(category listings.Category) int

	// Persist saves the store's data to the given directory.
	Persist(ctx context.Context, dir string) error

	// Load restores the store's data from the given directory.
	Load(ctx context.Context, dir string) error
}
