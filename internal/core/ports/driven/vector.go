package driven

import (
	"context"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
)

// VectorStore is a named collection of embedded points in a vector
// database, searched by cosine similarity. The backing store's wire
// protocol and indexing internals are opaque here.
type VectorStore interface {
	// EnsureCollection fetches the collection and creates it with the
	// given dimension and cosine distance when absent. Idempotent:
	// concurrent callers may race on creation, but a redundant create
	// is tolerated since points are independent. Fetch failures other
	// than not-found propagate unchanged.
	EnsureCollection(ctx context.Context, dimension int) error

	// Upsert writes all points and waits for durability acknowledgment
	// before returning: a query immediately after Upsert observes the
	// new points. A mid-batch failure surfaces as a write failure; ids
	// are fresh per ingestion, so retrying a failed batch may
	// duplicate already-written points.
	Upsert(ctx context.Context, points []domain.EmbeddedPoint) error

	// Query returns at most limit results ranked by descending cosine
	// similarity, restricted to points whose payload matches every
	// filter constraint. A nil filter matches everything.
	Query(ctx context.Context, vector []float32, limit int, filter domain.Filter) ([]domain.QueryResult, error)

	// DeleteByIDs removes points synchronously. Unknown ids are no-ops.
	DeleteByIDs(ctx context.Context, ids []string) error

	// Close releases resources.
	Close() error
}
