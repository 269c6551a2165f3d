package driving

import "context"

// FileReport is the per-file outcome of an ingestion run.
type FileReport struct {
	// Path is the input file path.
	Path string

	// IngestionID identifies the ledger record on success.
	IngestionID string

	// Chunks is the number of points written on success.
	Chunks int

	// Err is the failure for this file, nil on success.
	Err error
}

// IngestService ingests document files into the knowledge base.
type IngestService interface {
	// IngestFiles extracts and ingests each file in turn. A failure on
	// one file is reported in its FileReport and the run continues
	// with the next file; the returned error is only for failures that
	// prevent the run itself.
	IngestFiles(ctx context.Context, paths []string) ([]FileReport, error)
}
