package ledger

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"mediasort/internal/identify"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes; mismatched databases
// must be cleared rather than migrated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by a different
// schema version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Record is one persisted classification decision.
type Record struct {
	Key        string            `json:"key"`
	SourceName string            `json:"source_name"`
	Decision   identify.Decision `json:"decision"`
	RunID      string            `json:"run_id"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Store manages ledger persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// NewRunID mints the identifier stamped on every record of one run.
func NewRunID() string { return uuid.NewString() }

// Open initializes or connects to the ledger database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (run 'mediasort ledger clear' or delete the database)",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Upsert writes a record under its key. An existing confident record is
// never overwritten by a new unclassified one; otherwise the newer record
// wins and the original created_at is preserved.
func (s *Store) Upsert(ctx context.Context, rec Record) error {
	if rec.Key == "" {
		return errors.New("record key cannot be empty")
	}

	existing, err := s.Get(ctx, rec.Key)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	now := time.Now().UTC()
	created := now
	if err == nil {
		if existing.Decision.Confident() && !rec.Decision.Confident() {
			return nil
		}
		created = existing.CreatedAt
	}

	d := rec.Decision
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (key, source_name, kind, title, year, season, episode,
			kids, metadata_id, score, detail, run_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			source_name = excluded.source_name,
			kind = excluded.kind,
			title = excluded.title,
			year = excluded.year,
			season = excluded.season,
			episode = excluded.episode,
			kids = excluded.kids,
			metadata_id = excluded.metadata_id,
			score = excluded.score,
			detail = excluded.detail,
			run_id = excluded.run_id,
			updated_at = excluded.updated_at`,
		rec.Key, rec.SourceName, string(d.Kind), d.Title, d.Year, d.Season, d.Episode,
		boolToInt(d.Kids), d.MetadataID, d.Score, d.Detail, rec.RunID,
		created.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert record %q: %w", rec.Key, err)
	}
	return nil
}

// Get returns the record stored under key, or sql.ErrNoRows.
func (s *Store) Get(ctx context.Context, key string) (Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" FROM records WHERE key = ?", key)
	return scanRecord(row)
}

// List returns every record ordered by most recent update.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	return s.query(ctx, selectColumns+" FROM records ORDER BY updated_at DESC")
}

// ListUnclassified returns the records the rescue pass should retry.
func (s *Store) ListUnclassified(ctx context.Context) ([]Record, error) {
	return s.query(ctx, selectColumns+" FROM records WHERE kind = ? ORDER BY updated_at DESC",
		string(identify.KindUnclassified))
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM records").Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// Clear removes every record.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM records"); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	return nil
}

const selectColumns = `SELECT key, source_name, kind, title, year, season, episode,
	kids, metadata_id, score, detail, run_id, created_at, updated_at`

func (s *Store) query(ctx context.Context, stmt string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec                  Record
		kind                 string
		kids                 int
		createdAt, updatedAt string
	)
	err := row.Scan(&rec.Key, &rec.SourceName, &kind, &rec.Decision.Title,
		&rec.Decision.Year, &rec.Decision.Season, &rec.Decision.Episode,
		&kids, &rec.Decision.MetadataID, &rec.Decision.Score,
		&rec.Decision.Detail, &rec.RunID, &createdAt, &updatedAt)
	if err != nil {
		return Record{}, err
	}
	rec.Decision.Kind = identify.Kind(kind)
	rec.Decision.Kids = kids != 0
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		rec.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		rec.UpdatedAt = t
	}
	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
