package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driven"
)

// stubEmbedder produces deterministic vectors from text: identical
// texts always embed to identical vectors, so an exact-text query
// scores cosine 1.0 against its own chunk.
type stubEmbedder struct {
	dims       int
	failBatch  bool
	failSingle bool
	lastQuery  string
	batchCalls int
}

func newStubEmbedder() *stubEmbedder {
	return &stubEmbedder{dims: 32}
}

func embedText(text string, dims int) []float32 {
	v := make([]float32, dims)
	for i, r := range text {
		v[(i+int(r))%dims]++
	}
	// All-zero only for empty text; keep it valid anyway
	if text == "" {
		v[0] = 1
	}
	return v
}

func (e *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if e.failSingle {
		return nil, errors.New("embedding backend down")
	}
	e.lastQuery = text
	return embedText(text, e.dims), nil
}

func (e *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.batchCalls++
	if e.failBatch {
		return nil, errors.New("embedding backend down")
	}
	vectors := make([][]float32, len(texts))
	for i, t := range texts {
		vectors[i] = embedText(t, e.dims)
	}
	return vectors, nil
}

func (e *stubEmbedder) Dimensions() int              { return e.dims }
func (e *stubEmbedder) ModelName() string            { return "stub-embedder" }
func (e *stubEmbedder) Ping(_ context.Context) error { return nil }
func (e *stubEmbedder) Close() error                 { return nil }

// stubExtractor serves canned extractions keyed by path.
type stubExtractor struct {
	extractions map[string]driven.Extraction
	failPaths   map[string]bool
}

func (e *stubExtractor) Extract(_ context.Context, path string) (*driven.Extraction, error) {
	if e.failPaths[path] {
		return nil, errors.New("corrupt file")
	}
	ex, ok := e.extractions[path]
	if !ok {
		return nil, errors.New("no such file")
	}
	return &ex, nil
}

// stubLLM replays a script of turns. When the script runs out the
// last turn is repeated, which lets tests force an endless tool loop.
type stubLLM struct {
	script   []*driven.ChatTurn
	err      error
	received [][]driven.ChatMessage
	call     int
}

func (l *stubLLM) Chat(
	_ context.Context, messages []driven.ChatMessage, _ []driven.ToolDefinition, _ driven.ChatOptions,
) (*driven.ChatTurn, error) {
	l.received = append(l.received, append([]driven.ChatMessage(nil), messages...))
	if l.err != nil {
		return nil, l.err
	}
	idx := l.call
	if idx >= len(l.script) {
		idx = len(l.script) - 1
	}
	l.call++
	return l.script[idx], nil
}

func (l *stubLLM) ModelName() string            { return "stub-llm" }
func (l *stubLLM) Ping(_ context.Context) error { return nil }
func (l *stubLLM) Close() error                 { return nil }

// memoryLedger is an in-memory ingestion ledger double.
type memoryLedger struct {
	records []domain.IngestionRecord
}

func (l *memoryLedger) Record(_ context.Context, rec domain.IngestionRecord) error {
	l.records = append(l.records, rec)
	return nil
}

func (l *memoryLedger) List(_ context.Context) ([]domain.IngestionRecord, error) {
	return l.records, nil
}

func (l *memoryLedger) Get(_ context.Context, id string) (*domain.IngestionRecord, error) {
	for i := range l.records {
		if l.records[i].ID == id {
			return &l.records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (l *memoryLedger) Delete(_ context.Context, id string) error {
	for i := range l.records {
		if l.records[i].ID == id {
			l.records = append(l.records[:i], l.records[i+1:]...)
			return nil
		}
	}
	return nil
}

func (l *memoryLedger) Close() error { return nil }
