package vectordb

import (
	"time"

	"github.com/ashaai/asha-server/internal/listings"
)

// Document represents one chunk of a formatted listing, the unit of
// embedding and retrieval.
type Document struct {
	ID       string
	Content  string
	Metadata DocumentMetadata
}

// DocumentMetadata holds structured information carried alongside a chunk.
type DocumentMetadata struct {
	Category    listings.Category
	SourceTag   string // "<category>_doc_<recordIndex>"
	RecordIndex int
	Link        string    // canonical URL of the originating record
	StartsOn    time.Time // zero when the record carries no structured date
}

// SearchResult pairs a document with its similarity score.
type SearchResult struct {
	Document   Document
	Similarity float32
}
