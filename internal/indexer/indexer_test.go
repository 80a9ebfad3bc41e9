package indexer

import (
	"strings"
	"testing"

	"github.com/ashaai/asha-server/internal/listings"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("short", 1000, 100)
	if len(chunks) != 1 || chunks[0] != "short" {
		t.Errorf("expected single chunk, got %v", chunks)
	}
}

func TestSplitTextBoundsAndOverlap(t *testing.T) {
	const size, overlap = 100, 20
	text := strings.Repeat("abcdefghij", 50) // 500 chars

	chunks := SplitText(text, size, overlap)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i, chunk := range chunks {
		if len([]rune(chunk)) > size {
			t.Errorf("chunk %d exceeds max size: %d > %d", i, len(chunk), size)
		}
	}

	// Consecutive chunks share the configured overlap (last chunk excepted).
	for i := 0; i < len(chunks)-1; i++ {
		tail := chunks[i][len(chunks[i])-overlap:]
		if !strings.HasPrefix(chunks[i+1], tail) {
			t.Errorf("chunk %d does not start with the previous chunk's last %d chars", i+1, overlap)
		}
	}

	// No text is lost: stitching chunks back together (dropping each
	// successor's overlapping prefix) reproduces the input.
	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for _, chunk := range chunks[1:] {
		rebuilt.WriteString(chunk[overlap:])
	}
	if rebuilt.String() != text {
		t.Error("stitched chunks do not reproduce the original text")
	}
}

func TestSplitTextZeroOverlap(t *testing.T) {
	chunks := SplitText(strings.Repeat("x", 250), 100, 0)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if len(chunks[2]) != 50 {
		t.Errorf("last chunk length = %d, want 50", len(chunks[2]))
	}
}

func TestJobDocumentsTagsAndIDs(t *testing.T) {
	jobs := []listings.Job{
		{Company: "Acme", Title: "Engineer", Link: "https://x.example/0"},
		{Company: "Beta", Title: "Analyst", Link: "https://x.example/1"},
	}

	docs := JobDocuments(jobs, Options{ChunkSize: 1000, ChunkOverlap: 100})
	if len(docs) != 2 {
		t.Fatalf("expected one chunk per short record, got %d", len(docs))
	}

	if docs[0].Metadata.SourceTag != "jobs_doc_0" {
		t.Errorf("tag = %q, want jobs_doc_0", docs[0].Metadata.SourceTag)
	}
	if docs[1].Metadata.SourceTag != "jobs_doc_1" {
		t.Errorf("tag = %q, want jobs_doc_1", docs[1].Metadata.SourceTag)
	}
	if docs[0].ID != "jobs_doc_0_chunk_0" {
		t.Errorf("id = %q, want jobs_doc_0_chunk_0", docs[0].ID)
	}
	if docs[1].Metadata.Link != "https://x.example/1" {
		t.Errorf("link = %q", docs[1].Metadata.Link)
	}
}

func TestEventDocumentsStructuredDate(t *testing.T) {
	events := []listings.Event{
		{Title: "Summit", Date: "2030-06-15", EventURL: "https://e.example/1"},
		{Title: "Meetup", Date: "TBD", EventURL: "https://e.example/2"},
	}

	docs := EventDocuments(events, Options{ChunkSize: 1000, ChunkOverlap: 100})
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].Metadata.StartsOn.IsZero() {
		t.Error("expected structured date for ISO-dated event")
	}
	if !docs[1].Metadata.StartsOn.IsZero() {
		t.Error("expected zero date for undated event")
	}
	if docs[0].Metadata.Category != listings.CategoryEvents {
		t.Errorf("category = %q", docs[0].Metadata.Category)
	}
}

func TestRebuildProducesEquivalentDocuments(t *testing.T) {
	jobs := []listings.Job{{Company: "Acme", Title: strings.Repeat("very long title ", 100), Link: "https://x.example/0"}}
	opts := Options{ChunkSize: 200, ChunkOverlap: 40}

	first := JobDocuments(jobs, opts)
	second := JobDocuments(jobs, opts)

	if len(first) != len(second) {
		t.Fatalf("rebuild changed chunk count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].Content != second[i].Content || first[i].Metadata != second[i].Metadata {
			t.Errorf("rebuild changed document %d", i)
		}
	}
}
