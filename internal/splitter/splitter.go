// Package splitter provides recursive character text splitting with
// overlap. Text is broken along the most semantic boundary available
// (paragraph break, then line break, then space) and only hard-split on
// character positions when no separator helps.
package splitter

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driven"
)

// Ensure Splitter implements the interface.
var _ driven.Splitter = (*Splitter)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// separators are tried from most- to least-semantic. The empty string
// stands for a hard split on character boundaries.
var separators = []string{"\n\n", "\n", " ", ""}

// Splitter splits document text into overlapping chunks.
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

// WithOverlap sets the overlap between adjacent chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a new splitter with the given options.
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

// Split chunks the text. Each chunk after the first begins with the
// last overlap characters of its predecessor, so context spanning a
// chunk boundary is not lost. Chunk order matches document order and
// indices are sequential from 0.
func (s *Splitter) Split(text string) []domain.Chunk {
	if text == "" {
		// Empty documents produce zero chunks
		return nil
	}

	textLen := len(text)
	estimated := (textLen / (s.chunkSize - s.overlap)) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	start := 0
	for start < textLen {
		end := s.breakPoint(text, start)

		chunks = append(chunks, domain.Chunk{
			ID:          uuid.New().String(),
			Content:     text[start:end],
			Index:       len(chunks),
			StartOffset: start,
			EndOffset:   end,
		})

		if end >= textLen {
			break
		}
		next := end - s.overlap
		// Snap the overlap start forward to a rune boundary so a
		// multi-byte character straddling it is never split.
		for next < textLen && !utf8.RuneStart(text[next]) {
			next++
		}
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// breakPoint returns the end offset of the chunk beginning at start.
// It prefers the latest occurrence of the most semantic separator that
// still fits the chunk size, falling back to finer separators and
// finally to a hard character split. The boundary always lies beyond
// the overlap region so every chunk makes forward progress.
func (s *Splitter) breakPoint(text string, start int) int {
	remaining := len(text) - start
	if remaining <= s.chunkSize {
		return len(text)
	}

	window := text[start : start+s.chunkSize]
	for _, sep := range separators {
		if sep == "" {
			break
		}
		idx := strings.LastIndex(window, sep)
		if idx < 0 {
			continue
		}
		end := start + idx + len(sep)
		if end-start > s.overlap {
			return end
		}
	}

	// No separator usable: hard split at the size limit, backed off
	// to the previous rune boundary so the cut never lands inside a
	// multi-byte character.
	end := start + s.chunkSize
	for end > start && !utf8.RuneStart(text[end]) {
		end--
	}
	if end == start {
		end = start + s.chunkSize
		for end < len(text) && !utf8.RuneStart(text[end]) {
			end++
		}
	}
	return end
}
