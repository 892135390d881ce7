// Package chunker splits document text into retrieval-sized chunks using a
// strategy selected by content type. Prose and structured text use
// overlapping windows cut at the best available separator; source code is
// partitioned at top-level construct boundaries with no overlap.
package chunker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/smartlearn-ai/smartlearn/internal/classify"
)

// ErrConfiguration indicates an invalid chunk-size/overlap combination.
var ErrConfiguration = errors.New("invalid chunker configuration")

// ErrDeadlineExceeded indicates the caller-supplied deadline expired while
// chunking was in progress.
var ErrDeadlineExceeded = errors.New("chunking deadline exceeded")

// Chunk is a contiguous substring of a source document. IDs are sequential
// from 0 within the document; Position mirrors the chunk's order. Chunks are
// never mutated after creation.
type Chunk struct {
	ID       int
	SourceID string
	Text     string
	Position int
	Length   int
}

// Config holds the window parameters for one content type.
type Config struct {
	MaxChunkSize int
	Overlap      int
}

// validate checks the window parameters. Overlap must be strictly smaller
// than the chunk size or windowing cannot make progress.
func (c Config) validate() error {
	if c.MaxChunkSize <= 0 {
		return fmt.Errorf("%w: max chunk size must be positive, got %d", ErrConfiguration, c.MaxChunkSize)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("%w: overlap must be non-negative, got %d", ErrConfiguration, c.Overlap)
	}
	if c.Overlap >= c.MaxChunkSize {
		return fmt.Errorf("%w: overlap %d must be less than max chunk size %d", ErrConfiguration, c.Overlap, c.MaxChunkSize)
	}
	return nil
}

// separatorClasses is the split priority for window chunking: paragraph
// break, line break, sentence end, word boundary. A class with several
// members (sentence enders) is searched as one level. The final fallback is
// a hard cut at the size limit.
var separatorClasses = [][]string{
	{"\n\n"},
	{"\n"},
	{". ", "! ", "? "},
	{" "},
}

// codeBoundaryPrefixes mark lines that begin a top-level construct. A new
// code chunk starts at each such line.
var codeBoundaryPrefixes = []string{
	"func ",
	"def ",
	"class ",
	"type ",
	"fn ",
	"function ",
	"public ",
	"private ",
}

// Splitter selects and applies a chunking strategy per content type.
type Splitter struct {
	configs    map[classify.ContentType]Config
	strategies map[classify.ContentType]strategy
}

type strategy func(ctx context.Context, text, sourceID string, cfg Config) ([]Chunk, error)

// NewSplitter creates a Splitter with one window configuration per content
// type. Every configuration is validated up front; a bad one fails
// immediately with ErrConfiguration.
func NewSplitter(configs map[classify.ContentType]Config) (*Splitter, error) {
	for ctype, cfg := range configs {
		if err := cfg.validate(); err != nil {
			return nil, fmt.Errorf("content type %s: %w", ctype, err)
		}
	}

	s := &Splitter{configs: configs}
	s.strategies = map[classify.ContentType]strategy{
		classify.ContentCode:       splitCode,
		classify.ContentStructured: splitWindows,
		classify.ContentProse:      splitWindows,
	}
	return s, nil
}

// Split chunks text using the strategy for the given content type. Identical
// input and configuration always produce the identical chunk sequence. Empty
// input yields zero chunks.
func (s *Splitter) Split(ctx context.Context, text, sourceID string, ctype classify.ContentType) ([]Chunk, error) {
	if text == "" {
		return nil, nil
	}

	cfg, ok := s.configs[ctype]
	if !ok {
		cfg, ok = s.configs[classify.ContentProse]
		if !ok {
			return nil, fmt.Errorf("%w: no configuration for content type %s", ErrConfiguration, ctype)
		}
	}

	fn, ok := s.strategies[ctype]
	if !ok {
		fn = splitWindows
	}

	return fn(ctx, text, sourceID, cfg)
}

// checkDeadline maps an expired context to ErrDeadlineExceeded. It is called
// between window iterations so a caller-supplied deadline bounds the work on
// pathological inputs.
func checkDeadline(ctx context.Context) error {
	switch err := ctx.Err(); {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("chunker: %w", ErrDeadlineExceeded)
	default:
		return fmt.Errorf("chunker: %w", err)
	}
}

// splitWindows cuts text into windows of at most cfg.MaxChunkSize characters
// with exactly cfg.Overlap characters shared between consecutive windows.
// Each window ends at the latest boundary of the highest-priority separator
// class found inside it; when no separator fits, the window is cut hard at
// the size limit.
func splitWindows(ctx context.Context, text, sourceID string, cfg Config) ([]Chunk, error) {
	var chunks []Chunk
	start := 0

	for start < len(text) {
		if err := checkDeadline(ctx); err != nil {
			return nil, err
		}

		end := len(text)
		if end-start > cfg.MaxChunkSize {
			end = start + findBreak(text[start:start+cfg.MaxChunkSize], cfg.Overlap)
		}

		chunks = append(chunks, Chunk{
			ID:       len(chunks),
			SourceID: sourceID,
			Text:     text[start:end],
			Position: len(chunks),
			Length:   end - start,
		})

		if end == len(text) {
			break
		}
		start = end - cfg.Overlap
	}

	return chunks, nil
}

// findBreak returns the cut position within window: the end of the latest
// occurrence of the highest-priority separator class, or len(window) when no
// separator qualifies. Cuts at or before minBreak are rejected so every
// window extends past the overlap region and consecutive windows share
// exactly the configured overlap.
func findBreak(window string, minBreak int) int {
	for _, class := range separatorClasses {
		best := -1
		for _, sep := range class {
			if idx := strings.LastIndex(window, sep); idx >= 0 && idx+len(sep) > best {
				best = idx + len(sep)
			}
		}
		if best > minBreak {
			return best
		}
	}
	return len(window)
}

// splitCode partitions code at top-level construct boundaries. Chunks carry
// no overlap; every byte of the input appears in exactly one chunk. Blocks
// that still exceed the size limit are further cut at line ends.
func splitCode(ctx context.Context, text, sourceID string, cfg Config) ([]Chunk, error) {
	boundaries := codeBoundaries(text)

	var chunks []Chunk
	emit := func(block string) {
		chunks = append(chunks, Chunk{
			ID:       len(chunks),
			SourceID: sourceID,
			Text:     block,
			Position: len(chunks),
			Length:   len(block),
		})
	}

	prev := 0
	for _, b := range boundaries {
		if err := checkDeadline(ctx); err != nil {
			return nil, err
		}
		if b == prev {
			continue
		}
		for _, block := range cutAtLines(text[prev:b], cfg.MaxChunkSize) {
			emit(block)
		}
		prev = b
	}
	if prev < len(text) {
		for _, block := range cutAtLines(text[prev:], cfg.MaxChunkSize) {
			emit(block)
		}
	}

	return chunks, nil
}

// codeBoundaries returns the offsets of lines that begin a top-level
// construct. Only unindented lines count; indented definitions belong to the
// enclosing construct.
func codeBoundaries(text string) []int {
	var offsets []int
	lineStart := 0

	for lineStart < len(text) {
		lineEnd := strings.IndexByte(text[lineStart:], '\n')
		if lineEnd < 0 {
			lineEnd = len(text)
		} else {
			lineEnd += lineStart + 1
		}

		line := text[lineStart:lineEnd]
		for _, prefix := range codeBoundaryPrefixes {
			if strings.HasPrefix(line, prefix) {
				offsets = append(offsets, lineStart)
				break
			}
		}

		lineStart = lineEnd
	}

	return offsets
}

// cutAtLines splits a block into pieces of at most maxSize bytes, cutting
// after line ends where possible. The pieces concatenate back to the block.
func cutAtLines(block string, maxSize int) []string {
	if len(block) <= maxSize {
		return []string{block}
	}

	var pieces []string
	start := 0
	for start < len(block) {
		end := len(block)
		if end-start > maxSize {
			window := block[start : start+maxSize]
			if idx := strings.LastIndexByte(window, '\n'); idx > 0 {
				end = start + idx + 1
			} else {
				end = start + maxSize
			}
		}
		pieces = append(pieces, block[start:end])
		start = end
	}
	return pieces
}
