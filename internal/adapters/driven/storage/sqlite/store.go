package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docdig/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docdig/internal/core/domain"
	"github.com/custodia-labs/docdig/internal/core/ports/driven"
)

// dbFile is the database file name inside the data directory.
const dbFile = "extractions.db"

// Ensure Store implements the interface.
var _ driven.ExtractionCache = (*Store)(nil)

// Store is a SQLite-backed extraction cache.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to <user cache dir>/docdig.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("getting cache directory: %w", err)
		}
		dataDir = filepath.Join(cacheDir, "docdig")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
		now:  func() time.Time { return time.Now().UTC() },
	}

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

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

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
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_extractions.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Get returns the cached extraction for key and marks it as used.
func (s *Store) Get(ctx context.Context, key string) (*domain.Extraction, bool, error) {
	var text, metadataJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT text, metadata FROM extractions WHERE key = ?", key,
	).Scan(&text, &metadataJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying extraction: %w", err)
	}

	var metadata domain.Metadata
	if err := json.Unmarshal([]byte(metadataJSON), &metadata); err != nil {
		return nil, false, fmt.Errorf("unmarshalling metadata: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		"UPDATE extractions SET hit_at = ? WHERE key = ?", s.now().UnixNano(), key,
	); err != nil {
		return nil, false, fmt.Errorf("updating hit time: %w", err)
	}

	return &domain.Extraction{Text: text, Metadata: metadata}, true, nil
}

// Put stores or replaces the extraction for key.
func (s *Store) Put(ctx context.Context, key string, result *domain.Extraction) error {
	if result == nil {
		return fmt.Errorf("nil extraction: %w", domain.ErrInvalidInput)
	}

	metadata := result.Metadata
	if metadata == nil {
		metadata = domain.Metadata{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	now := s.now().UnixNano()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO extractions (key, text, metadata, created_at, hit_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			text = excluded.text,
			metadata = excluded.metadata,
			created_at = excluded.created_at,
			hit_at = excluded.hit_at
	`, key, result.Text, string(metadataJSON), now, now)
	if err != nil {
		return fmt.Errorf("saving extraction: %w", err)
	}
	return nil
}

// Prune deletes entries not used since before, returning how many were removed.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM extractions WHERE hit_at < ?", before.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("pruning extractions: %w", err)
	}
	return res.RowsAffected()
}
