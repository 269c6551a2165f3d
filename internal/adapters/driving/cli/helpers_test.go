package cli

import (
	"context"
	"sort"
	"time"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driving"
)

// stubIngestService reports success for every file.
type stubIngestService struct {
	reports []driving.FileReport
}

func (s *stubIngestService) IngestFiles(_ context.Context, paths []string) ([]driving.FileReport, error) {
	if s.reports != nil {
		return s.reports, nil
	}
	reports := make([]driving.FileReport, len(paths))
	for i, path := range paths {
		reports[i] = driving.FileReport{Path: path, IngestionID: "ing-1", Chunks: 3}
	}
	return reports, nil
}

// stubRetrieveService returns canned passages.
type stubRetrieveService struct {
	results []domain.QueryResult
	err     error
}

func (s *stubRetrieveService) Retrieve(
	_ context.Context, _ string, _ int, _ domain.Filter,
) ([]domain.QueryResult, error) {
	return s.results, s.err
}

// stubAnswerService returns a canned answer.
type stubAnswerService struct {
	answer string
	err    error
}

func (s *stubAnswerService) Answer(_ context.Context, _ string) (string, error) {
	return s.answer, s.err
}

// stubLedger is an in-memory ingestion ledger.
type stubLedger struct {
	records map[string]domain.IngestionRecord
}

func newStubLedger() *stubLedger {
	return &stubLedger{records: make(map[string]domain.IngestionRecord)}
}

func (s *stubLedger) Record(_ context.Context, rec domain.IngestionRecord) error {
	s.records[rec.ID] = rec
	return nil
}

func (s *stubLedger) List(_ context.Context) ([]domain.IngestionRecord, error) {
	out := make([]domain.IngestionRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].IngestedAt.After(out[j].IngestedAt)
	})
	return out, nil
}

func (s *stubLedger) Get(_ context.Context, id string) (*domain.IngestionRecord, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

func (s *stubLedger) Delete(_ context.Context, id string) error {
	if _, ok := s.records[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *stubLedger) Close() error { return nil }

// setupTestServices wires stub services and returns a cleanup that
// restores the previous wiring.
func setupTestServices() func() {
	prev := Services{
		Config:          cfg,
		Ingest:          ingestService,
		Retrieve:        retrieveService,
		Answer:          answerService,
		DocumentManager: documentManager,
		Ledger:          ledger,
	}

	stubResult := domain.QueryResult{
		Score: 0.91,
		Payload: domain.Payload{
			Content:    "Revenue grew 12% year over year.",
			ChunkIndex: 0,
			Metadata: domain.DocumentMetadata{
				Title:      "Annual Report",
				SourceFile: "report.pdf",
				TotalPages: 12,
			},
		},
	}

	testLedger := newStubLedger()
	testLedger.records["ing-1"] = domain.IngestionRecord{
		ID:         "ing-1",
		SourceFile: "report.pdf",
		Title:      "Annual Report",
		PointIDs:   []string{"p1", "p2", "p3"},
		IngestedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	Setup(Services{
		Ingest:   &stubIngestService{},
		Retrieve: &stubRetrieveService{results: []domain.QueryResult{stubResult}},
		Answer:   &stubAnswerService{answer: "Revenue grew 12% [source](report.pdf)."},
		Ledger:   testLedger,
	})

	return func() { Setup(prev) }
}
