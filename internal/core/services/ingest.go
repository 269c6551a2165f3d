package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docask-cli/internal/logger"
)

// Ensure IngestRunner implements the interface.
var _ driving.IngestService = (*IngestRunner)(nil)

// IngestRunner is the ingestion entry point: it extracts each file,
// hands the result to the document manager and records the ingestion
// in the ledger. One bad file never aborts a batch run.
type IngestRunner struct {
	extractor driven.Extractor
	manager   *DocumentManager
	ledger    driven.IngestionLedger
}

// NewIngestRunner creates a new ingestion runner.
// The ledger is optional; when nil, ingestions are not recorded.
func NewIngestRunner(
	extractor driven.Extractor,
	manager *DocumentManager,
	ledger driven.IngestionLedger,
) *IngestRunner {
	return &IngestRunner{
		extractor: extractor,
		manager:   manager,
		ledger:    ledger,
	}
}

// IngestFiles processes each file in turn. Extraction or ingestion
// failures are logged, reported in the file's report, and skipped;
// the run continues with the next file.
func (r *IngestRunner) IngestFiles(ctx context.Context, paths []string) ([]driving.FileReport, error) {
	logger.Section("Ingestion Run")
	logger.Debug("%d file(s)", len(paths))

	reports := make([]driving.FileReport, 0, len(paths))
	for _, path := range paths {
		report := r.ingestFile(ctx, path)
		if report.Err != nil {
			logger.Warn("Skipping %s: %v", path, report.Err)
		}
		reports = append(reports, report)

		if ctx.Err() != nil {
			return reports, ctx.Err()
		}
	}
	return reports, nil
}

// ingestFile extracts and ingests a single file.
func (r *IngestRunner) ingestFile(ctx context.Context, path string) driving.FileReport {
	report := driving.FileReport{Path: path}

	extraction, err := r.extractor.Extract(ctx, path)
	if err != nil {
		report.Err = fmt.Errorf("%w: %s: %v", domain.ErrExtraction, path, err)
		return report
	}

	doc := domain.Document{
		Text:     extraction.Text,
		Metadata: metadataFor(path, extraction),
	}

	pointIDs, err := r.manager.Ingest(ctx, doc)
	if err != nil {
		report.Err = err
		return report
	}
	report.Chunks = len(pointIDs)

	if r.ledger != nil && len(pointIDs) > 0 {
		rec := domain.IngestionRecord{
			ID:         uuid.New().String(),
			SourceFile: doc.Metadata.SourceFile,
			Title:      doc.Metadata.Title,
			Author:     doc.Metadata.Author,
			TotalPages: doc.Metadata.TotalPages,
			PointIDs:   pointIDs,
			IngestedAt: time.Now().UTC(),
		}
		if err := r.ledger.Record(ctx, rec); err != nil {
			// The points are already durable; a ledger failure only
			// costs the local record, so it is logged rather than
			// failing the file.
			logger.Warn("Recording ingestion of %s failed: %v", path, err)
		} else {
			report.IngestionID = rec.ID
		}
	}

	return report
}

// metadataFor builds the document metadata attached to every chunk.
func metadataFor(path string, extraction *driven.Extraction) domain.DocumentMetadata {
	title := extraction.Title
	if title == "" {
		title = "Untitled"
	}
	author := extraction.Author
	if author == "" {
		author = "Unknown"
	}
	return domain.DocumentMetadata{
		Title:      title,
		Author:     author,
		TotalPages: extraction.PageCount,
		SourceFile: filepath.Base(path),
	}
}
