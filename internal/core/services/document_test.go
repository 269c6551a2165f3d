package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docask-cli/internal/adapters/driven/vectorstore/memory"
	"github.com/custodia-labs/docask-cli/internal/core/domain"
	"github.com/custodia-labs/docask-cli/internal/splitter"
)

func newManager(t *testing.T) (*DocumentManager, *stubEmbedder, *memory.Store) {
	t.Helper()
	embedder := newStubEmbedder()
	store := memory.NewStore()
	manager := NewDocumentManager(
		splitter.New(splitter.WithChunkSize(120), splitter.WithOverlap(24)),
		embedder,
		store,
	)
	require.NoError(t, manager.Init(context.Background()))
	return manager, embedder, store
}

func reportDoc(text string) domain.Document {
	return domain.Document{
		Text: text,
		Metadata: domain.DocumentMetadata{
			Title:      "Quarterly Report",
			Author:     "Finance Team",
			TotalPages: 1,
			SourceFile: "report.pdf",
		},
	}
}

func TestDocumentManager_IngestAndRetrieve(t *testing.T) {
	manager, _, _ := newManager(t)
	ctx := context.Background()

	text := "Revenue grew 12% year over year."
	ids, err := manager.Ingest(ctx, reportDoc(text))
	require.NoError(t, err)
	require.NotEmpty(t, ids)

	// Noise the query should not surface first
	_, err = manager.Ingest(ctx, domain.Document{
		Text:     "Completely unrelated gardening notes about tomato seedlings.",
		Metadata: domain.DocumentMetadata{Title: "Garden", Author: "A", TotalPages: 1, SourceFile: "garden.pdf"},
	})
	require.NoError(t, err)

	// Querying with a chunk's exact text must return that chunk first
	// with near-perfect similarity.
	results, err := manager.Retrieve(ctx, text, 5, nil)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Contains(t, results[0].Payload.Content, "12%")
	assert.Greater(t, results[0].Score, 0.9)
	assert.Equal(t, "report.pdf", results[0].Payload.Metadata.SourceFile)
	assert.Equal(t, "Quarterly Report", results[0].Payload.Metadata.Title)
}

func TestDocumentManager_IngestEmptyDocument(t *testing.T) {
	manager, embedder, store := newManager(t)

	ids, err := manager.Ingest(context.Background(), reportDoc(""))
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, embedder.batchCalls, "no embedding call for an empty document")
}

func TestDocumentManager_IngestEmbedFailure(t *testing.T) {
	manager, embedder, store := newManager(t)
	embedder.failBatch = true

	_, err := manager.Ingest(context.Background(), reportDoc("some content"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbedding)
	assert.Contains(t, err.Error(), "report.pdf")
	assert.Equal(t, 0, store.Len(), "failed batch must not be persisted")
}

func TestDocumentManager_IngestBatchesOnce(t *testing.T) {
	manager, embedder, _ := newManager(t)

	// A document long enough to produce several chunks
	var text string
	for i := 0; i < 40; i++ {
		text += "This sentence pads the document with enough text to chunk. "
	}
	ids, err := manager.Ingest(context.Background(), reportDoc(text))
	require.NoError(t, err)
	require.Greater(t, len(ids), 1)
	assert.Equal(t, 1, embedder.batchCalls, "all chunks must embed in a single batched call")
}

type cannedSplitter struct {
	chunks []domain.Chunk
}

func (c *cannedSplitter) Split(string) []domain.Chunk { return c.chunks }

func TestDocumentManager_IngestUsesChunkIDsAsPointIDs(t *testing.T) {
	split := &cannedSplitter{chunks: []domain.Chunk{
		{ID: "6a1f0c7e-2f14-4d6a-9c3b-0f8f4a2d9e01", Content: "Revenue grew.", Index: 0},
		{ID: "b54d2e88-7c31-4b59-8e17-d3a6c90f4b22", Content: "Costs fell.", Index: 1},
	}}
	embedder := newStubEmbedder()
	store := memory.NewStore()
	manager := NewDocumentManager(split, embedder, store)
	ctx := context.Background()
	require.NoError(t, manager.Init(ctx))

	ids, err := manager.Ingest(ctx, reportDoc("two sentences"))
	require.NoError(t, err)
	assert.Equal(t, []string{split.chunks[0].ID, split.chunks[1].ID}, ids)

	// The stored points carry the same ids
	require.NoError(t, store.DeleteByIDs(ctx, ids))
	assert.Equal(t, 0, store.Len())
}

func TestDocumentManager_ReingestDuplicatesPoints(t *testing.T) {
	manager, _, store := newManager(t)
	ctx := context.Background()

	doc := reportDoc("Revenue grew 12% year over year.")
	first, err := manager.Ingest(ctx, doc)
	require.NoError(t, err)
	second, err := manager.Ingest(ctx, doc)
	require.NoError(t, err)

	// No dedup: two ingestions yield two independent point sets
	assert.Equal(t, len(first)+len(second), store.Len())
	for _, id := range first {
		assert.NotContains(t, second, id)
	}
}

func TestDocumentManager_RetrieveNormalisesNewlines(t *testing.T) {
	manager, embedder, _ := newManager(t)

	_, err := manager.Retrieve(context.Background(), "line one\nline two", 5, nil)
	require.NoError(t, err)
	assert.Equal(t, "line one line two", embedder.lastQuery)
}

func TestDocumentManager_RetrieveLimitAndOrdering(t *testing.T) {
	manager, _, _ := newManager(t)
	ctx := context.Background()

	_, err := manager.Ingest(ctx, reportDoc("alpha facts.\n\nbeta facts.\n\ngamma facts.\n\ndelta facts."))
	require.NoError(t, err)

	results, err := manager.Retrieve(ctx, "alpha facts.", 2, nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), 2)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestDocumentManager_RetrieveFilter(t *testing.T) {
	manager, _, _ := newManager(t)
	ctx := context.Background()

	_, err := manager.Ingest(ctx, reportDoc("Revenue grew 12% year over year."))
	require.NoError(t, err)

	other := domain.Document{
		Text: "Headcount doubled in the second half.",
		Metadata: domain.DocumentMetadata{
			Title: "HR Update", Author: "People Team", TotalPages: 2, SourceFile: "hr.pdf",
		},
	}
	_, err = manager.Ingest(ctx, other)
	require.NoError(t, err)

	results, err := manager.Retrieve(ctx, "growth", 10, domain.Filter{
		domain.PayloadSourceFile: "hr.pdf",
	})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, "hr.pdf", r.Payload.Metadata.SourceFile)
	}
}

func TestDocumentManager_DeletePoints(t *testing.T) {
	manager, _, store := newManager(t)
	ctx := context.Background()

	ids, err := manager.Ingest(ctx, reportDoc("Revenue grew 12% year over year."))
	require.NoError(t, err)
	require.NotEmpty(t, ids)

	require.NoError(t, manager.DeletePoints(ctx, ids))
	assert.Equal(t, 0, store.Len())

	// Deleting nothing is a no-op
	require.NoError(t, manager.DeletePoints(ctx, nil))
}
