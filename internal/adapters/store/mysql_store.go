package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/mikey/moodiary/internal/core"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of the EntryRepository interface
type MySQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLStore connects to MySQL and creates the entries table if needed
func NewMySQLStore(dsn string, logger *zap.Logger) (*MySQLStore, error) {
	dsn, err := normalizeDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS entries (
			id VARCHAR(36) PRIMARY KEY,
			content TEXT NOT NULL,
			tags TEXT NOT NULL,
			image_paths TEXT NOT NULL,
			created_at DATETIME(6) NOT NULL,
			analysis TEXT,
			INDEX idx_entries_created_at (created_at)
		) DEFAULT CHARSET=utf8mb4
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLStore{
		db:     db,
		logger: logger,
	}, nil
}

// normalizeDSN enables time parsing so DATETIME columns scan into time.Time
func normalizeDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid MySQL DSN: %w", err)
	}
	cfg.ParseTime = true
	if cfg.Loc == nil {
		cfg.Loc = time.UTC
	}
	return cfg.FormatDSN(), nil
}

// Save inserts or replaces an entry
func (s *MySQLStore) Save(ctx context.Context, entry *core.Entry) error {
	r, err := encodeEntry(entry)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO entries (id, content, tags, image_paths, created_at, analysis)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			content = VALUES(content),
			tags = VALUES(tags),
			image_paths = VALUES(image_paths),
			created_at = VALUES(created_at),
			analysis = VALUES(analysis)
	`, entry.ID, entry.Content, r.tags, r.imagePaths, entry.CreatedAt.UTC(), r.analysis)
	if err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}

	s.logger.Debug("Entry stored", zap.String("id", entry.ID))
	return nil
}

// Get retrieves an entry by ID
func (s *MySQLStore) Get(ctx context.Context, id string) (*core.Entry, error) {
	entry, err := scanMySQL(s.db.QueryRowContext(ctx, `
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
func (s *MySQLStore) List(ctx context.Context) ([]*core.Entry, error) {
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
		entry, err := scanMySQL(rows)
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
func (s *MySQLStore) Delete(ctx context.Context, id string) error {
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
func (s *MySQLStore) Close() error {
	return s.db.Close()
}

func scanMySQL(sc scanner) (*core.Entry, error) {
	var (
		entry core.Entry
		r     row
	)
	if err := sc.Scan(&entry.ID, &entry.Content, &r.tags, &r.imagePaths, &entry.CreatedAt, &r.analysis); err != nil {
		return nil, err
	}
	entry.CreatedAt = entry.CreatedAt.Local()
	if err := decodeEntry(&entry, r); err != nil {
		return nil, err
	}
	return &entry, nil
}
