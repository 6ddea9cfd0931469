package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/moodiary/internal/core"
	"go.uber.org/zap"
)

// SQLiteStore is a SQLite implementation of the EntryRepository interface
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens or creates the database at dbPath
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS entries (
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			tags TEXT NOT NULL,
			image_paths TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			analysis TEXT
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	// Entries are always listed by creation time
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_entries_created_at ON entries(created_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger,
	}, nil
}

// Save inserts or replaces an entry
func (s *SQLiteStore) Save(ctx context.Context, entry *core.Entry) error {
	r, err := encodeEntry(entry)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO entries (id, content, tags, image_paths, created_at, analysis)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Content, r.tags, r.imagePaths, entry.CreatedAt.UnixNano(), r.analysis)
	if err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}

	s.logger.Debug("Entry stored", zap.String("id", entry.ID))
	return nil
}

// Get retrieves an entry by ID
func (s *SQLiteStore) Get(ctx context.Context, id string) (*core.Entry, error) {
	entry, err := scanSQLite(s.db.QueryRowContext(ctx, `
		SELECT id, content, tags, image_paths, created_at, analysis
		FROM entries
		WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query entry: %w", err)
	}
	return entry, nil
}

// List returns every entry, newest first
func (s *SQLiteStore) List(ctx context.Context) ([]*core.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, tags, image_paths, created_at, analysis
		FROM entries
		ORDER BY created_at DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []*core.Entry
	for rows.Next() {
		entry, err := scanSQLite(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}
	return entries, nil
}

// Delete removes an entry
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM entries
		WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		s.logger.Warn("Failed to get rows affected during delete", zap.Error(err))
		return nil
	}
	if affected == 0 {
		return notFound(id)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSQLite(sc scanner) (*core.Entry, error) {
	var (
		entry     core.Entry
		r         row
		createdAt int64
	)
	if err := sc.Scan(&entry.ID, &entry.Content, &r.tags, &r.imagePaths, &createdAt, &r.analysis); err != nil {
		return nil, err
	}
	entry.CreatedAt = time.Unix(0, createdAt)
	if err := decodeEntry(&entry, r); err != nil {
		return nil, err
	}
	return &entry, nil
}
