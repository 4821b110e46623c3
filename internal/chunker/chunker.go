// Package chunker splits text into fixed-size, overlapping windows of runes.
package chunker

import (
	"unicode/utf8"

	"github.com/custodia-labs/docgraph/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Metadata keys recorded on every chunk. Offsets are rune positions in the
// source text, end exclusive.
const (
	MetaStart = "start"
	MetaEnd   = "end"
)

// Splitter cuts text into windows of chunkSize runes, each starting
// chunkSize-overlap runes after the previous one.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// ForSplitting creates a splitter for a stored strategy.
func ForSplitting(sp domain.Splitting) *Splitter {
	return New(WithChunkSize(sp.ChunkSize), WithOverlap(sp.ChunkOverlap))
}

// ChunkSize returns the window size in runes.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the overlap in runes.
func (s *Splitter) Overlap() int { return s.overlap }

// Split returns the chunks of text in order. Empty text yields no chunks.
// The last window always ends at the end of the text; no window is fully
// contained in its predecessor.
func (s *Splitter) Split(text string) []domain.ChunkInput {
	if text == "" {
		return nil
	}

	// Byte offset of every rune, plus the end of the text.
	offsets := make([]int, 0, utf8.RuneCountInString(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	runeCount := len(offsets)
	offsets = append(offsets, len(text))

	step := s.chunkSize - s.overlap
	chunks := make([]domain.ChunkInput, 0, runeCount/step+1)

	for start := 0; ; start += step {
		end := start + s.chunkSize
		if end > runeCount {
			end = runeCount
		}

		chunks = append(chunks, domain.ChunkInput{
			Content: text[offsets[start]:offsets[end]],
			Metadata: map[string]any{
				MetaStart: start,
				MetaEnd:   end,
			},
		})

		if end == runeCount {
			break
		}
	}

	return chunks
}
