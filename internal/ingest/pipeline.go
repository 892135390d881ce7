// Package ingest orchestrates the ingestion workflow: load -> classify ->
// chunk -> embed -> store. Each run rebuilds a document's records wholesale;
// partially ingested documents never become visible because store inserts
// are batched per document.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/smartlearn-ai/smartlearn/internal/chunker"
	"github.com/smartlearn-ai/smartlearn/internal/embeddings"
	"github.com/smartlearn-ai/smartlearn/internal/keyword"
	"github.com/smartlearn-ai/smartlearn/internal/loader"
	"github.com/smartlearn-ai/smartlearn/internal/vectorstore"
)

// ProgressFunc receives per-file progress updates during a run.
type ProgressFunc func(current, total int, sourceID string)

// Result summarizes one ingestion run.
type Result struct {
	FilesProcessed int
	FilesSkipped   int
	ChunksCreated  int
	Errors         []error
	Duration       time.Duration
}

// Pipeline wires the ingestion stages together. The same pipeline may run
// repeatedly; chunk ids stay unique across runs because re-ingested sources
// are deleted before their replacements are inserted and the id counter
// never rewinds.
type Pipeline struct {
	loader     *loader.Loader
	splitter   *chunker.Splitter
	embedder   embeddings.Embedder
	store      vectorstore.Store
	index      *keyword.Index
	onProgress ProgressFunc

	nextChunkID int
}

// NewPipeline creates a Pipeline over the given stages.
func NewPipeline(
	l *loader.Loader,
	splitter *chunker.Splitter,
	embedder embeddings.Embedder,
	store vectorstore.Store,
	index *keyword.Index,
) *Pipeline {
	return &Pipeline{
		loader:   l,
		splitter: splitter,
		embedder: embedder,
		store:    store,
		index:    index,
	}
}

// SetProgressFunc sets the progress callback.
func (p *Pipeline) SetProgressFunc(fn ProgressFunc) {
	p.onProgress = fn
}

// Run executes a full ingestion pass. Per-file failures are recorded and
// skipped; only loader-level failures abort the run.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{}

	loaded, err := p.loader.Load()
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	result.FilesSkipped = loaded.Skipped

	total := len(loaded.Documents)
	for i, doc := range loaded.Documents {
		if p.onProgress != nil {
			p.onProgress(i+1, total, doc.SourceID)
		}

		n, err := p.ingestDocument(ctx, doc)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", doc.SourceID, err))
			result.FilesSkipped++
			continue
		}
		result.FilesProcessed++
		result.ChunksCreated += n
	}

	result.Duration = time.Since(start)
	return result, nil
}

// ingestDocument chunks, embeds, and stores one document, returning the
// number of chunks created. The document's old records are dropped first so
// re-ingestion replaces rather than accumulates.
func (p *Pipeline) ingestDocument(ctx context.Context, doc loader.Document) (int, error) {
	chunks, err := p.splitter.Split(ctx, doc.RawText, doc.SourceID, doc.ContentType)
	if err != nil {
		return 0, fmt.Errorf("chunk: %w", err)
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := p.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed: %w", err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	// Chunker ids are document-local; assign corpus-wide ids here.
	records := make([]vectorstore.Record, len(chunks))
	entries := make([]keyword.Entry, len(chunks))
	for i, c := range chunks {
		id := p.nextChunkID + i
		records[i] = vectorstore.Record{
			ChunkID:  id,
			SourceID: c.SourceID,
			Text:     c.Text,
			Vector:   vectors[i],
		}
		entries[i] = keyword.Entry{
			ChunkID:  id,
			SourceID: c.SourceID,
			Text:     c.Text,
		}
	}

	if err := p.store.DeleteBySource(ctx, doc.SourceID); err != nil {
		return 0, fmt.Errorf("delete old vectors: %w", err)
	}
	if err := p.index.DeleteBySource(ctx, doc.SourceID); err != nil {
		return 0, fmt.Errorf("delete old index entries: %w", err)
	}

	if err := p.store.InsertBatch(ctx, records); err != nil {
		return 0, fmt.Errorf("store vectors: %w", err)
	}
	if err := p.index.AddBatch(ctx, entries); err != nil {
		return 0, fmt.Errorf("index chunks: %w", err)
	}

	p.nextChunkID += len(chunks)
	return len(chunks), nil
}

// Stats describes the current corpus.
type Stats struct {
	ChunkCount int
	Dimensions int
	IndexCount int
}

// Stats reports the pipeline's current store and index sizes.
func (p *Pipeline) Stats() Stats {
	return Stats{
		ChunkCount: p.store.Count(),
		Dimensions: p.store.Dimensions(),
		IndexCount: p.index.Count(),
	}
}
