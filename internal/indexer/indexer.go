package indexer

import (
	"context"
	"fmt"

	"github.com/schollz/progressbar/v3"

	"github.com/ashaai/asha-server/internal/listings"
	"github.com/ashaai/asha-server/internal/vectordb"
)

// Options controls chunking during an index build.
type Options struct {
	ChunkSize    int
	ChunkOverlap int
	Progress     bool // render a progress bar (CLI builds)
}

// BuildJobs formats, chunks and inserts the jobs dataset into the store's
// jobs partition. Any failure is fatal to the build: no partial index is
// left behind for the caller to serve from.
func BuildJobs(ctx context.Context, store vectordb.VectorStore, jobs []listings.Job, opts Options) error {
	docs := JobDocuments(jobs, opts)
	if err := store.Add(ctx, listings.CategoryJobs, docs); err != nil {
		return fmt.Errorf("indexing jobs: %w", err)
	}
	return nil
}

// BuildEvents formats, chunks and inserts the events dataset into the
// store's events partition.
func BuildEvents(ctx context.Context, store vectordb.VectorStore, events []listings.Event, opts Options) error {
	docs := EventDocuments(events, opts)
	if err := store.Add(ctx, listings.CategoryEvents, docs); err != nil {
		return fmt.Errorf("indexing events: %w", err)
	}
	return nil
}

// JobDocuments converts job records into chunk documents. IDs and tags are
// derived from the record's position, so rebuilding from unchanged input
// yields an equivalent document set.
func JobDocuments(jobs []listings.Job, opts Options) []vectordb.Document {
	bar := newBar(opts, len(jobs), "indexing jobs")

	var docs []vectordb.Document
	for i, job := range jobs {
		tag := sourceTag(listings.CategoryJobs, i)
		for j, chunk := range SplitText(listings.FormatJob(job), opts.ChunkSize, opts.ChunkOverlap) {
			docs = append(docs, vectordb.Document{
				ID:      chunkID(tag, j),
				Content: chunk,
				Metadata: vectordb.DocumentMetadata{
					Category:    listings.CategoryJobs,
					SourceTag:   tag,
					RecordIndex: i,
					Link:        job.Link,
				},
			})
		}
		step(bar)
	}
	return docs
}

// EventDocuments converts event records into chunk documents. Events with a
// parseable date carry it as structured metadata so temporal filtering does
// not need to re-parse the prose.
func EventDocuments(events []listings.Event, opts Options) []vectordb.Document {
	bar := newBar(opts, len(events), "indexing events")

	var docs []vectordb.Document
	for i, event := range events {
		tag := sourceTag(listings.CategoryEvents, i)
		md := vectordb.DocumentMetadata{
			Category:    listings.CategoryEvents,
			SourceTag:   tag,
			RecordIndex: i,
			Link:        event.EventURL,
		}
		if startsOn, ok := event.StartsOn(); ok {
			md.StartsOn = startsOn
		}

		for j, chunk := range SplitText(listings.FormatEvent(event), opts.ChunkSize, opts.ChunkOverlap) {
			docs = append(docs, vectordb.Document{
				ID:       chunkID(tag, j),
				Content:  chunk,
				Metadata: md,
			})
		}
		step(bar)
	}
	return docs
}

func sourceTag(category listings.Category, recordIndex int) string {
	return fmt.Sprintf("%s_doc_%d", category, recordIndex)
}

func chunkID(tag string, chunkIndex int) string {
	return fmt.Sprintf("%s_chunk_%d", tag, chunkIndex)
}

func newBar(opts Options, n int, label string) *progressbar.ProgressBar {
	if !opts.Progress {
		return nil
	}
	return progressbar.Default(int64(n), label)
}

func step(bar *progressbar.ProgressBar) {
	if bar != nil {
		bar.Add(1)
	}
}
