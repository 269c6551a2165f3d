package domain

// Payload field names as stored in the vector index. Filters must use
// these keys; they are shared between the ingestion and query paths.
const (
	PayloadContent    = "content"
	PayloadChunkIndex = "chunk_index"
	PayloadTitle      = "title"
	PayloadAuthor     = "author"
	PayloadTotalPages = "total_pages"
	PayloadSourceFile = "source_file"
)

// Payload is the non-vector data attached to an embedded point: the
// chunk text plus the metadata of the document it came from.
type Payload struct {
	// Content is the chunk text.
	Content string

	// ChunkIndex is the chunk's ordinal position within its document.
	ChunkIndex int

	// Metadata is the originating document's metadata.
	Metadata DocumentMetadata
}

// Field returns the payload value stored under the given key, and
// whether the key is known.
func (p Payload) Field(key string) (any, bool) {
	switch key {
	case PayloadContent:
		return p.Content, true
	case PayloadChunkIndex:
		return p.ChunkIndex, true
	case PayloadTitle:
		return p.Metadata.Title, true
	case PayloadAuthor:
		return p.Metadata.Author, true
	case PayloadTotalPages:
		return p.Metadata.TotalPages, true
	case PayloadSourceFile:
		return p.Metadata.SourceFile, true
	default:
		return nil, false
	}
}

// Filter constrains a query to points whose payload matches every
// key/value pair. Matching is conjunctive equality only.
type Filter map[string]any

// Matches reports whether the payload satisfies every filter constraint.
// Unknown keys never match.
func (p Payload) Matches(f Filter) bool {
	for key, want := range f {
		got, ok := p.Field(key)
		if !ok || got != want {
			return false
		}
	}
	return true
}

// EmbeddedPoint is the unit stored in the vector index. IDs are
// generated fresh per ingestion; re-ingesting the same document
// produces new, distinct points.
type EmbeddedPoint struct {
	// ID is the unique point identifier.
	ID string

	// Vector is the embedding. Its length must equal the collection
	// dimension; a mismatch is rejected, never truncated.
	Vector []float32

	// Payload carries the chunk content and document metadata.
	Payload Payload
}

// QueryResult is a single similarity hit, ordered by descending score
// within a result set.
type QueryResult struct {
	// Score is the cosine similarity to the query vector.
	Score float64

	// Payload is the stored payload of the matched point.
	Payload Payload
}
