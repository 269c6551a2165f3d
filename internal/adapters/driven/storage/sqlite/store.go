// Package sqlite provides a SQLite-backed ingestion ledger. The ledger
// lives next to the user's other data under ~/.docask/data and remembers
// which points each ingestion wrote to the vector index.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docask-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docask-cli/internal/core/domain"
	"github.com/custodia-labs/docask-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.IngestionLedger = (*Store)(nil)

// Store is a SQLite-based ingestion ledger.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite ledger at the specified data directory.
// If dataDir is empty, defaults to ~/.docask/data/ledger.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docask", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "ledger.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Record stores a completed ingestion.
func (s *Store) Record(ctx context.Context, rec domain.IngestionRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: ingestion id is empty", domain.ErrInvalidInput)
	}

	pointIDs, err := json.Marshal(rec.PointIDs)
	if err != nil {
		return fmt.Errorf("marshalling point ids: %w", err)
	}

	if rec.IngestedAt.IsZero() {
		rec.IngestedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ingestions (id, source_file, title, author, total_pages, point_ids, ingested_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_file = excluded.source_file,
			title = excluded.title,
			author = excluded.author,
			total_pages = excluded.total_pages,
			point_ids = excluded.point_ids,
			ingested_at = excluded.ingested_at
	`, rec.ID, rec.SourceFile, rec.Title, rec.Author, rec.TotalPages,
		string(pointIDs), rec.IngestedAt.UTC())

	if err != nil {
		return fmt.Errorf("recording ingestion: %w", err)
	}
	return nil
}

// List returns all recorded ingestions, newest first.
func (s *Store) List(ctx context.Context) ([]domain.IngestionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_file, title, author, total_pages, point_ids, ingested_at
		FROM ingestions
		ORDER BY ingested_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing ingestions: %w", err)
	}
	defer rows.Close()

	var records []domain.IngestionRecord
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ingestions: %w", err)
	}
	return records, nil
}

// Get retrieves one ingestion by id.
func (s *Store) Get(ctx context.Context, id string) (*domain.IngestionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source_file, title, author, total_pages, point_ids, ingested_at
		FROM ingestions
		WHERE id = ?
	`, id)

	rec, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: ingestion %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes a ledger entry. Unknown ids return ErrNotFound so
// callers can distinguish a typo from a removal.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM ingestions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting ingestion: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: ingestion %s", domain.ErrNotFound, id)
	}
	return nil
}

// scanRecord reads one ingestion row via the given scan function.
func scanRecord(scan func(dest ...any) error) (*domain.IngestionRecord, error) {
	var rec domain.IngestionRecord
	var pointIDs string
	if err := scan(&rec.ID, &rec.SourceFile, &rec.Title, &rec.Author,
		&rec.TotalPages, &pointIDs, &rec.IngestedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning ingestion: %w", err)
	}
	if err := json.Unmarshal([]byte(pointIDs), &rec.PointIDs); err != nil {
		return nil, fmt.Errorf("unmarshalling point ids: %w", err)
	}
	return &rec, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}
