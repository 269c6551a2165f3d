package domain

import "time"

// IngestionRecord is the local ledger entry for one ingested document.
// It remembers the point ids written for that ingestion so the points
// can later be deleted as a unit. Re-ingesting the same file creates a
// new record with new point ids; the index is append-only.
type IngestionRecord struct {
	// ID identifies this ingestion run, not the source file.
	ID string

	// SourceFile, Title, Author and TotalPages mirror the metadata
	// attached to the points.
	SourceFile string
	Title      string
	Author     string
	TotalPages int

	// PointIDs are the vector index ids written by this ingestion.
	PointIDs []string

	// IngestedAt is when the upsert completed.
	IngestedAt time.Time
}
