package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/scorecard/internal/codec"
	"github.com/Veraticus/scorecard/internal/common"
	"github.com/Veraticus/scorecard/internal/model"
)

// maxAutoCheckpoints is how many automatic checkpoints are kept.
const maxAutoCheckpoints = 5

// Checkpoint errors.
var (
	ErrCheckpointNotFound  = errors.New("checkpoint not found")
	ErrCheckpointCorrupted = errors.New("checkpoint payload cannot be decoded")
	ErrCheckpointExists    = errors.New("checkpoint already exists")
)

// CheckpointManager stores named snapshots of a document.
type CheckpointManager struct {
	db  *sql.DB
	now func() time.Time
}

// CheckpointInfo represents information about a checkpoint for listing.
type CheckpointInfo struct {
	CreatedAt   time.Time
	ID          string
	Description string
	Size        int
	Tabs        int
	Rows        int
	IsAuto      bool
}

// Create stores doc under tag. An empty tag is generated from the clock.
func (cm *CheckpointManager) Create(ctx context.Context, tag, description string, doc model.Document) (*CheckpointInfo, error) {
	return cm.create(ctx, tag, description, doc, false)
}

func (cm *CheckpointManager) create(ctx context.Context, tag, description string, doc model.Document, auto bool) (*CheckpointInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	createdAt := cm.now()
	if tag == "" {
		tag = fmt.Sprintf("checkpoint-%s", createdAt.Format("2006-01-02-150405"))
	}
	if err := validateTag(tag); err != nil {
		return nil, err
	}

	payload, err := codec.Encode(doc, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	info := &CheckpointInfo{
		ID:          tag,
		CreatedAt:   createdAt,
		Description: description,
		Size:        len(payload),
		Tabs:        len(doc.Tabs),
		Rows:        doc.RowCount(),
		IsAuto:      auto,
	}

	err = execWithRetry(ctx, cm.db, `
		INSERT INTO checkpoints (id, description, created_at, payload, tab_count, row_count, is_auto)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		info.ID, info.Description, info.CreatedAt, payload, info.Tabs, info.Rows, info.IsAuto,
	)
	if errors.Is(err, common.ErrDuplicateEntry) {
		return nil, fmt.Errorf("%w: %s", ErrCheckpointExists, tag)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to store checkpoint: %w", err)
	}

	slog.Debug("checkpoint created", "id", tag, "tabs", info.Tabs, "rows", info.Rows, "auto", auto)
	return info, nil
}

// List returns every checkpoint, newest first.
func (cm *CheckpointManager) List(ctx context.Context) ([]CheckpointInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := cm.db.QueryContext(ctx, `
		SELECT id, description, created_at, LENGTH(payload), tab_count, row_count, is_auto
		FROM checkpoints
		ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Error("failed to close rows", "error", closeErr)
		}
	}()

	var checkpoints []CheckpointInfo
	for rows.Next() {
		var info CheckpointInfo
		if err := rows.Scan(&info.ID, &info.Description, &info.CreatedAt, &info.Size, &info.Tabs, &info.Rows, &info.IsAuto); err != nil {
			return nil, fmt.Errorf("failed to scan checkpoint: %w", err)
		}
		checkpoints = append(checkpoints, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate checkpoints: %w", err)
	}
	return checkpoints, nil
}

// GetCheckpointInfo retrieves information about a specific checkpoint.
func (cm *CheckpointManager) GetCheckpointInfo(ctx context.Context, checkpointID string) (*CheckpointInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var info CheckpointInfo
	err := cm.db.QueryRowContext(ctx, `
		SELECT id, description, created_at, LENGTH(payload), tab_count, row_count, is_auto
		FROM checkpoints WHERE id = ?`, checkpointID,
	).Scan(&info.ID, &info.Description, &info.CreatedAt, &info.Size, &info.Tabs, &info.Rows, &info.IsAuto)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrCheckpointNotFound, checkpointID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	return &info, nil
}

// Restore decodes the document stored under checkpointID.
func (cm *CheckpointManager) Restore(ctx context.Context, checkpointID string) (model.Document, error) {
	if err := validateContext(ctx); err != nil {
		return model.Document{}, err
	}

	var payload string
	err := cm.db.QueryRowContext(ctx, `SELECT payload FROM checkpoints WHERE id = ?`, checkpointID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Document{}, fmt.Errorf("%w: %s", ErrCheckpointNotFound, checkpointID)
	}
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	decoded, err := codec.Decode(payload)
	if err != nil {
		return model.Document{}, fmt.Errorf("%w: %w", ErrCheckpointCorrupted, err)
	}
	return decoded.Document, nil
}

// Delete removes a checkpoint.
func (cm *CheckpointManager) Delete(ctx context.Context, checkpointID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var deleted int64
	err := common.WithRetry(ctx, func() error {
		result, err := cm.db.ExecContext(ctx, `DELETE FROM checkpoints WHERE id = ?`, checkpointID)
		if err != nil {
			return classify(err)
		}
		deleted, err = result.RowsAffected()
		return err
	}, writeRetry)
	if err != nil {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("%w: %s", ErrCheckpointNotFound, checkpointID)
	}
	return nil
}

// AutoCheckpoint creates an automatic checkpoint with a generated name and
// prunes the oldest automatic ones.
func (cm *CheckpointManager) AutoCheckpoint(ctx context.Context, prefix string, doc model.Document) (*CheckpointInfo, error) {
	now := cm.now()
	tag := fmt.Sprintf("auto-%s-%s", prefix, now.Format("20060102-150405.000"))
	description := fmt.Sprintf("Automatic checkpoint before %s", prefix)

	info, err := cm.create(ctx, tag, description, doc, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create auto-checkpoint: %w", err)
	}

	if err := cm.cleanupOldAutoCheckpoints(ctx); err != nil {
		slog.Warn("failed to clean up old auto-checkpoints", "error", err)
	}

	return info, nil
}

func (cm *CheckpointManager) cleanupOldAutoCheckpoints(ctx context.Context) error {
	checkpoints, err := cm.List(ctx)
	if err != nil {
		return err
	}

	autoCount := 0
	for _, cp := range checkpoints {
		if !cp.IsAuto {
			continue
		}
		autoCount++
		if autoCount > maxAutoCheckpoints {
			if err := cm.Delete(ctx, cp.ID); err != nil {
				slog.Debug("failed to delete old auto-checkpoint during cleanup", "error", err, "checkpoint", cp.ID)
			}
		}
	}

	return nil
}
