package driven

import (
	"context"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
)

// IngestionLedger records which documents were ingested and which
// point ids each ingestion wrote, so one ingestion's points can later
// be removed from the index as a unit.
type IngestionLedger interface {
	// Record stores a completed ingestion.
	Record(ctx context.Context, rec domain.IngestionRecord) error

	// List returns all recorded ingestions, newest first.
	List(ctx context.Context) ([]domain.IngestionRecord, error)

	// Get retrieves one ingestion by id.
	// Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, id string) (*domain.IngestionRecord, error)

	// Delete removes a ledger entry. Deleting the entry does not touch
	// the index; callers delete the points first.
	Delete(ctx context.Context, id string) error

	// Close releases resources.
	Close() error
}
