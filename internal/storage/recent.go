package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"
)

// maxRecentFiles bounds the recent_files table.
const maxRecentFiles = 20

// RecentAction records what last happened to a recent file.
type RecentAction string

// Recent file actions.
const (
	ActionOpened RecentAction = "opened"
	ActionSaved  RecentAction = "saved"
)

// RecentFile is one entry of the recent-files list.
type RecentFile struct {
	UsedAt time.Time
	Path   string
	Action RecentAction
	Tabs   int
}

// RecordRecentFile upserts path into the recent-files list and trims the
// list to its maximum length.
func (s *SQLiteStorage) RecordRecentFile(ctx context.Context, path string, action RecentAction, tabs int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(path, "path"); err != nil {
		return err
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	err := s.execWithRetry(ctx, `
		INSERT INTO recent_files (path, action, tab_count, used_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			action = excluded.action,
			tab_count = excluded.tab_count,
			used_at = excluded.used_at`,
		path, string(action), tabs, s.now(),
	)
	if err != nil {
		return fmt.Errorf("failed to record recent file: %w", err)
	}

	err = s.execWithRetry(ctx, `
		DELETE FROM recent_files WHERE path NOT IN (
			SELECT path FROM recent_files ORDER BY used_at DESC LIMIT ?
		)`, maxRecentFiles)
	if err != nil {
		slog.Warn("failed to trim recent files", "error", err)
	}
	return nil
}

// RecentFiles returns up to limit entries, most recently used first.
func (s *SQLiteStorage) RecentFiles(ctx context.Context, limit int) ([]RecentFile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateLimit(limit); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT path, action, tab_count, used_at
		FROM recent_files
		ORDER BY used_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent files: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Error("failed to close rows", "error", closeErr)
		}
	}()

	var files []RecentFile
	for rows.Next() {
		var (
			f      RecentFile
			action string
		)
		if err := rows.Scan(&f.Path, &action, &f.Tabs, &f.UsedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recent file: %w", err)
		}
		f.Action = RecentAction(action)
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recent files: %w", err)
	}
	return files, nil
}

// ForgetRecentFile removes path from the list. Unknown paths are ignored.
func (s *SQLiteStorage) ForgetRecentFile(ctx context.Context, path string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if err := s.execWithRetry(ctx, `DELETE FROM recent_files WHERE path = ?`, path); err != nil {
		return fmt.Errorf("failed to forget recent file: %w", err)
	}
	return nil
}
