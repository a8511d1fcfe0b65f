package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tjfontaine/mrr-go/internal/storage"
)

// Store is a SQLite implementation of CallStore
type Store struct {
	db *sql.DB
}

var _ storage.CallStore = (*Store)(nil)

// New opens (creating if needed) the journal at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS calls (
			id TEXT PRIMARY KEY,
			command TEXT NOT NULL,
			method TEXT NOT NULL,
			path TEXT NOT NULL,
			status INTEGER NOT NULL DEFAULT 0,
			outcome TEXT NOT NULL,
			duration_ns INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_calls_created ON calls(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_calls_outcome ON calls(outcome)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	return nil
}

func (s *Store) Record(ctx context.Context, rec *storage.CallRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	query := `INSERT INTO calls (id, command, method, path, status, outcome, duration_ns, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.Command, rec.Method, rec.Path, rec.Status,
		string(rec.Outcome), rec.Duration.Nanoseconds(), rec.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record call: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, limit int) ([]*storage.CallRecord, error) {
	query := `SELECT id, command, method, path, status, outcome, duration_ns, created_at
		FROM calls ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list calls: %w", err)
	}
	defer rows.Close()

	var records []*storage.CallRecord
	for rows.Next() {
		var (
			rec     storage.CallRecord
			outcome string
			durNS   int64
		)
		if err := rows.Scan(&rec.ID, &rec.Command, &rec.Method, &rec.Path,
			&rec.Status, &outcome, &durNS, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan call: %w", err)
		}
		rec.Outcome = storage.Outcome(outcome)
		rec.Duration = time.Duration(durNS)
		records = append(records, &rec)
	}
	return records, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
