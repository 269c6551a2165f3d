package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docask-cli/internal/logger"
)

// Ensure DocumentManager implements the interface.
var _ driving.RetrieveService = (*DocumentManager)(nil)

// DefaultTopK is the number of passages returned when the caller does
// not ask for a specific count.
const DefaultTopK = 5

// DocumentManager orchestrates the splitter, the embedding service and
// the vector store. It is the only component that mutates the
// collection; chunks and points are values passed through it.
type DocumentManager struct {
	splitter driven.Splitter
	embedder driven.EmbeddingService
	store    driven.VectorStore
}

// NewDocumentManager creates a new document manager.
func NewDocumentManager(
	splitter driven.Splitter,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
) *DocumentManager {
	return &DocumentManager{
		splitter: splitter,
		embedder: embedder,
		store:    store,
	}
}

// Init ensures the collection exists with the embedding model's
// dimension. Called once at startup; safe to call concurrently.
func (m *DocumentManager) Init(ctx context.Context) error {
	return m.store.EnsureCollection(ctx, m.embedder.Dimensions())
}

// Ingest chunks the document, embeds all chunks in one batch, and
// upserts the resulting points. The document is chunked fully in
// memory before any network call, so a failure at any stage leaves no
// half-written document state beyond what the index already
// acknowledged. Returns the ids of the written points.
//
// Point ids are fresh per call: ingesting the same document twice
// stores two independent sets of points.
func (m *DocumentManager) Ingest(ctx context.Context, doc domain.Document) ([]string, error) {
	logger.Section("Ingest")
	logger.Debug("Source: %s (%d pages)", doc.Metadata.SourceFile, doc.Metadata.TotalPages)

	chunks := m.splitter.Split(doc.Text)
	if len(chunks) == 0 {
		logger.Info("Document %s produced no chunks", doc.Metadata.SourceFile)
		return nil, nil
	}
	logger.Debug("Split into %d chunks", len(chunks))

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}

	vectors, err := m.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding %d chunks of %s: %v",
			domain.ErrEmbedding, len(texts), doc.Metadata.SourceFile, err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d vectors for %d chunks of %s",
			domain.ErrEmbedding, len(vectors), len(chunks), doc.Metadata.SourceFile)
	}

	points := make([]domain.EmbeddedPoint, len(chunks))
	ids := make([]string, len(chunks))
	for i := range chunks {
		ids[i] = chunks[i].ID
		points[i] = domain.EmbeddedPoint{
			ID:     ids[i],
			Vector: vectors[i],
			Payload: domain.Payload{
				Content:    chunks[i].Content,
				ChunkIndex: chunks[i].Index,
				Metadata:   doc.Metadata,
			},
		}
	}

	if err := m.store.Upsert(ctx, points); err != nil {
		return nil, fmt.Errorf("upserting %d points of %s: %w",
			len(points), doc.Metadata.SourceFile, err)
	}

	logger.Info("Ingested %s: %d points", doc.Metadata.SourceFile, len(points))
	return ids, nil
}

// Retrieve embeds the question and returns the topK most similar
// passages. Results are passed through unmodified; formatting is the
// retrieval tool's concern.
func (m *DocumentManager) Retrieve(
	ctx context.Context, question string, topK int, filter domain.Filter,
) ([]domain.QueryResult, error) {
	logger.Section("Retrieve")
	logger.Debug("Question: %q", question)

	if topK <= 0 {
		topK = DefaultTopK
	}

	// Embedding models are sensitive to literal newline tokens
	normalised := strings.ReplaceAll(question, "\n", " ")

	vector, err := m.embedder.Embed(ctx, normalised)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %v", domain.ErrEmbedding, err)
	}

	results, err := m.store.Query(ctx, vector, topK, filter)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}

	logger.Debug("Retrieved %d passages", len(results))
	return results, nil
}

// DeletePoints removes a set of points from the index.
func (m *DocumentManager) DeletePoints(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return m.store.DeleteByIDs(ctx, ids)
}
