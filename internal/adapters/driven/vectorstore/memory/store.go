// Package memory provides an in-memory implementation of the
// VectorStore port. It performs an exact cosine scan and is used by
// tests and as a zero-dependency fallback when no Qdrant endpoint is
// configured. Contents do not survive the process.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// storedPoint tracks insertion order so equal scores rank
// deterministically.
type storedPoint struct {
	point domain.EmbeddedPoint
	seq   int
}

// Store is an in-memory vector store.
type Store struct {
	mu        sync.RWMutex
	dimension int
	points    map[string]storedPoint
	nextSeq   int
}

// NewStore creates a new in-memory vector store.
func NewStore() *Store {
	return &Store{
		points: make(map[string]storedPoint),
	}
}

// EnsureCollection fixes the collection dimension. Repeated calls with
// the same dimension are no-ops; changing the dimension of an existing
// collection is rejected.
func (s *Store) EnsureCollection(_ context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("%w: dimension must be positive, got %d", domain.ErrInvalidInput, dimension)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dimension == 0 {
		s.dimension = dimension
		return nil
	}
	if s.dimension != dimension {
		return fmt.Errorf("%w: collection has dimension %d, requested %d",
			domain.ErrInvalidInput, s.dimension, dimension)
	}
	return nil
}

// Upsert writes all points. The write is atomic: a dimension mismatch
// on any point rejects the whole batch.
func (s *Store) Upsert(_ context.Context, points []domain.EmbeddedPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dimension == 0 {
		return fmt.Errorf("%w: collection not created", domain.ErrIndexWrite)
	}
	for i := range points {
		if len(points[i].Vector) != s.dimension {
			return fmt.Errorf("%w: point %s has dimension %d, collection expects %d",
				domain.ErrInvalidInput, points[i].ID, len(points[i].Vector), s.dimension)
		}
	}

	for i := range points {
		s.points[points[i].ID] = storedPoint{point: points[i], seq: s.nextSeq}
		s.nextSeq++
	}
	return nil
}

// Query scans all points, scoring by cosine similarity. Results are
// ordered by descending score, ties broken by insertion order.
func (s *Store) Query(
	_ context.Context, vector []float32, limit int, filter domain.Filter,
) ([]domain.QueryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dimension == 0 {
		return nil, fmt.Errorf("%w: collection not created", domain.ErrIndexQuery)
	}
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: query vector has dimension %d, collection expects %d",
			domain.ErrInvalidInput, len(vector), s.dimension)
	}
	if limit <= 0 {
		return []domain.QueryResult{}, nil
	}

	type hit struct {
		result domain.QueryResult
		seq    int
	}
	hits := make([]hit, 0, len(s.points))
	for _, sp := range s.points {
		if !sp.point.Payload.Matches(filter) {
			continue
		}
		hits = append(hits, hit{
			result: domain.QueryResult{
				Score:   cosine(vector, sp.point.Vector),
				Payload: sp.point.Payload,
			},
			seq: sp.seq,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].result.Score != hits[j].result.Score {
			return hits[i].result.Score > hits[j].result.Score
		}
		return hits[i].seq < hits[j].seq
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	results := make([]domain.QueryResult, len(hits))
	for i := range hits {
		results[i] = hits[i].result
	}
	return results, nil
}

// DeleteByIDs removes points. Unknown ids are no-ops.
func (s *Store) DeleteByIDs(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		delete(s.points, id)
	}
	return nil
}

// Len returns the number of stored points. Useful for tests.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points)
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// cosine computes the cosine similarity of two equal-length vectors.
func cosine(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
