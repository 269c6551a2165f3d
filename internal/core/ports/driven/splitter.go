package driven

import "github.com/custodia-labs/docask-cli/internal/core/domain"

// Splitter splits document text into retrievable chunks. Chunk order
// matches document order and indices are sequential from 0. Empty text
// produces zero chunks; no produced chunk is empty.
type Splitter interface {
	// Split chunks the text. Splitting is pure computation and never
	// fails; malformed input simply yields fewer chunks.
	Split(text string) []domain.Chunk
}
