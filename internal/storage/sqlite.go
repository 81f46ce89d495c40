// Package storage provides the SQLite persistence layer for document
// checkpoints and the recent-files list.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/scorecard/internal/common"
	"github.com/mattn/go-sqlite3"
)

// SQLiteStorage stores checkpoints and recent files in a single SQLite
// database.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// Open creates the storage and applies pending migrations.
func Open(ctx context.Context, dbPath string) (*SQLiteStorage, error) {
	s, err := NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// NewCheckpointManager creates a new checkpoint manager for this storage instance.
func (s *SQLiteStorage) NewCheckpointManager() *CheckpointManager {
	return &CheckpointManager{db: s.db, now: s.now}
}

// classify maps driver errors onto the common sentinels so callers can
// retry lock contention.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return fmt.Errorf("%w: %w", common.ErrDatabaseBusy, err)
		case sqlite3.ErrConstraint:
			return fmt.Errorf("%w: %w", common.ErrDuplicateEntry, err)
		case sqlite3.ErrCorrupt, sqlite3.ErrNotADB:
			return fmt.Errorf("%w: %w", common.ErrDatabaseCorrupted, err)
		}
	}
	return err
}

// writeRetry is used for statements that can lose a lock race against
// another scorecard process sharing the database.
var writeRetry = common.RetryOptions{
	MaxAttempts:  4,
	InitialDelay: 25 * time.Millisecond,
	MaxDelay:     500 * time.Millisecond,
}

func (s *SQLiteStorage) execWithRetry(ctx context.Context, query string, args ...any) error {
	return execWithRetry(ctx, s.db, query, args...)
}

func execWithRetry(ctx context.Context, db *sql.DB, query string, args ...any) error {
	return common.WithRetry(ctx, func() error {
		_, err := db.ExecContext(ctx, query, args...)
		return classify(err)
	}, writeRetry)
}
