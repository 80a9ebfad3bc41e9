package vectordb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ashaai/asha-server/internal/embeddings"
	"github.com/ashaai/asha-server/internal/listings"
)

const snapshotFile = "/listings.gob.gz"

// collectionName maps a listing category to its chromem collection.
func collectionName(category listings.Category) string {
	return "listings_" + string(category)
}

// ChromemStore implements VectorStore using chromem-go, with one collection
// per listing category.
type ChromemStore struct {
	db          *chromem.DB
	embedFunc   chromem.EmbeddingFunc
	collections map[listings.Category]*chromem.Collection
}

// NewChromemStore creates an in-memory ChromemStore with empty jobs and
// events partitions.
func NewChromemStore(embedder embeddings.Embedder) (*ChromemStore, error) {
	db := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	s := &ChromemStore{
		db:          db,
		embedFunc:   ef,
		collections: make(map[listings.Category]*chromem.Collection),
	}

	for _, category := range []listings.Category{listings.CategoryJobs, listings.CategoryEvents} {
		col, err := db.GetOrCreateCollection(collectionName(category), nil, ef)
		if err != nil {
			return nil, fmt.Errorf("create collection %s: %w", collectionName(category), err)
		}
		s.collections[category] = col
	}

	return s, nil
}

func (s *ChromemStore) collection(category listings.Category) (*chromem.Collection, error) {
	col, ok := s.collections[category]
	if !ok {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	return col, nil
}

func (s *ChromemStore) Add(ctx context.Context, category listings.Category, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	col, err := s.collection(category)
	if err != nil {
		return err
	}

	chromemDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		chromemDocs[i] = chromem.Document{
			ID:       doc.ID,
			Content:  doc.Content,
			Metadata: metadataToMap(doc.Metadata),
		}
	}

	return col.AddDocuments(ctx, chromemDocs, 1)
}

func (s *ChromemStore) Search(ctx context.Context, category listings.Category, query string, k int) ([]SearchResult, error) {
	col, err := s.collection(category)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		k = 5
	}

	// chromem-go requires nResults <= collection size.
	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := col.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	out := make([]SearchResult, len(results))
	for i, r := range results {
		out[i] = SearchResult{
			Document: Document{
				ID:       r.ID,
				Content:  r.Content,
				Metadata: mapToMetadata(r.Metadata),
			},
			Similarity: r.Similarity,
		}
	}
	return out, nil
}

func (s *ChromemStore) Count(category listings.Category) int {
	col, ok := s.collections[category]
	if !ok {
		return 0
	}
	return col.Count()
}

func (s *ChromemStore) Persist(ctx context.Context, dir string) error {
	return s.db.ExportToFile(dir+snapshotFile, true, "")
}

func (s *ChromemStore) Load(ctx context.Context, dir string) error {
	if err := s.db.ImportFromFile(dir+snapshotFile, ""); err != nil {
		return fmt.Errorf("import from file: %w", err)
	}

	// Re-acquire collection references after import.
	for category := range s.collections {
		col := s.db.GetCollection(collectionName(category), s.embedFunc)
		if col == nil {
			return fmt.Errorf("collection %q not found after import", collectionName(category))
		}
		s.collections[category] = col
	}
	return nil
}

// metadataToMap flattens DocumentMetadata to map[string]string for chromem.
func metadataToMap(m DocumentMetadata) map[string]string {
	md := map[string]string{
		"category":     string(m.Category),
		"source":       m.SourceTag,
		"record_index": strconv.Itoa(m.RecordIndex),
		"link":         m.Link,
	}
	if !m.StartsOn.IsZero() {
		md["starts_on"] = m.StartsOn.Format("2006-01-02")
	}
	return md
}

// mapToMetadata converts a flat map[string]string back to DocumentMetadata.
func mapToMetadata(m map[string]string) DocumentMetadata {
	recordIndex, _ := strconv.Atoi(m["record_index"])

	var startsOn time.Time
	if raw := m["starts_on"]; raw != "" {
		startsOn, _ = time.Parse("2006-01-02", raw)
	}

	return DocumentMetadata{
		Category:    listings.Category(m["category"]),
		SourceTag:   m["source"],
		RecordIndex: recordIndex,
		Link:        m["link"],
		StartsOn:    startsOn,
	}
}
