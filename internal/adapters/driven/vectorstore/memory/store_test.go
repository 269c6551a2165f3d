package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
)

func point(id string, vector []float32, sourceFile string) domain.EmbeddedPoint {
	return domain.EmbeddedPoint{
		ID:     id,
		Vector: vector,
		Payload: domain.Payload{
			Content:  "content of " + id,
			Metadata: domain.DocumentMetadata{SourceFile: sourceFile},
		},
	}
}

func TestEnsureCollection(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.EnsureCollection(ctx, 3))

	// Idempotent for the same dimension
	require.NoError(t, store.EnsureCollection(ctx, 3))

	// Dimension change rejected
	err := store.EnsureCollection(ctx, 4)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Invalid dimension rejected
	err = store.EnsureCollection(ctx, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpsert_DimensionMismatch(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.EnsureCollection(ctx, 3))

	err := store.Upsert(ctx, []domain.EmbeddedPoint{
		point("a", []float32{1, 0, 0}, "a.pdf"),
		point("b", []float32{1, 0}, "b.pdf"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, store.Len(), "mismatched batch must not be partially written")
}

func TestUpsert_BeforeEnsure(t *testing.T) {
	store := NewStore()
	err := store.Upsert(context.Background(), []domain.EmbeddedPoint{
		point("a", []float32{1, 0, 0}, "a.pdf"),
	})
	assert.ErrorIs(t, err, domain.ErrIndexWrite)
}

func TestQuery_RankingAndLimit(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.EnsureCollection(ctx, 2))

	require.NoError(t, store.Upsert(ctx, []domain.EmbeddedPoint{
		point("exact", []float32{1, 0}, "a.pdf"),
		point("close", []float32{0.9, 0.1}, "a.pdf"),
		point("orthogonal", []float32{0, 1}, "b.pdf"),
	}))

	results, err := store.Query(ctx, []float32{1, 0}, 2, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "content of exact", results[0].Payload.Content)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	assert.Equal(t, "content of close", results[1].Payload.Content)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestQuery_TieBreakByInsertionOrder(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.EnsureCollection(ctx, 2))

	// Identical vectors: identical scores
	require.NoError(t, store.Upsert(ctx, []domain.EmbeddedPoint{
		point("first", []float32{1, 0}, "a.pdf"),
		point("second", []float32{1, 0}, "a.pdf"),
	}))

	results, err := store.Query(ctx, []float32{1, 0}, 10, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "content of first", results[0].Payload.Content)
	assert.Equal(t, "content of second", results[1].Payload.Content)
}

func TestQuery_Filter(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.EnsureCollection(ctx, 2))

	require.NoError(t, store.Upsert(ctx, []domain.EmbeddedPoint{
		point("a", []float32{1, 0}, "a.pdf"),
		point("b", []float32{1, 0}, "b.pdf"),
	}))

	results, err := store.Query(ctx, []float32{1, 0}, 10, domain.Filter{
		domain.PayloadSourceFile: "b.pdf",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b.pdf", results[0].Payload.Metadata.SourceFile)
}

func TestQuery_DimensionMismatch(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.EnsureCollection(ctx, 3))

	_, err := store.Query(ctx, []float32{1, 0}, 5, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeleteByIDs(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.EnsureCollection(ctx, 2))

	require.NoError(t, store.Upsert(ctx, []domain.EmbeddedPoint{
		point("a", []float32{1, 0}, "a.pdf"),
		point("b", []float32{0, 1}, "b.pdf"),
	}))

	// Unknown ids are no-ops
	require.NoError(t, store.DeleteByIDs(ctx, []string{"a", "missing"}))
	assert.Equal(t, 1, store.Len())

	results, err := store.Query(ctx, []float32{1, 0}, 10, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "content of b", results[0].Payload.Content)
}
