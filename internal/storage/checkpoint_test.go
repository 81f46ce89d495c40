package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/scorecard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *CheckpointManager {
	t.Helper()
	store := createTestStorage(t)
	cm := store.NewCheckpointManager()
	cm.now = steppingClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	return cm
}

func TestCheckpointManager_CreateAndRestore(t *testing.T) {
	cm := newTestManager(t)
	ctx := context.Background()
	doc := testDocument()

	info, err := cm.Create(ctx, "before-review", "first draft", doc)
	require.NoError(t, err)

	assert.Equal(t, "before-review", info.ID)
	assert.Equal(t, "first draft", info.Description)
	assert.Equal(t, 2, info.Tabs)
	assert.Equal(t, 2, info.Rows)
	assert.False(t, info.IsAuto)
	assert.Positive(t, info.Size)

	restored, err := cm.Restore(ctx, "before-review")
	require.NoError(t, err)
	assert.Equal(t, doc, restored)
}

func TestCheckpointManager_CreateGeneratesTag(t *testing.T) {
	cm := newTestManager(t)

	info, err := cm.Create(context.Background(), "", "", testDocument())
	require.NoError(t, err)

	assert.Equal(t, "checkpoint-2024-05-01-090000", info.ID)
}

func TestCheckpointManager_CreateErrors(t *testing.T) {
	cm := newTestManager(t)
	ctx := context.Background()

	_, err := cm.Create(ctx, "dup", "", testDocument())
	require.NoError(t, err)

	_, err = cm.Create(ctx, "dup", "", testDocument())
	assert.ErrorIs(t, err, ErrCheckpointExists)

	_, err = cm.Create(ctx, "bad tag", "", testDocument())
	assert.ErrorIs(t, err, ErrInvalidTag)
}

func TestCheckpointManager_ListNewestFirst(t *testing.T) {
	cm := newTestManager(t)
	ctx := context.Background()

	for _, tag := range []string{"one", "two", "three"} {
		_, err := cm.Create(ctx, tag, "", testDocument())
		require.NoError(t, err)
	}

	list, err := cm.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, "three", list[0].ID)
	assert.Equal(t, "two", list[1].ID)
	assert.Equal(t, "one", list[2].ID)
	assert.True(t, list[0].CreatedAt.After(list[1].CreatedAt))
}

func TestCheckpointManager_GetInfoAndDelete(t *testing.T) {
	cm := newTestManager(t)
	ctx := context.Background()

	_, err := cm.Create(ctx, "keep", "note", testDocument())
	require.NoError(t, err)

	info, err := cm.GetCheckpointInfo(ctx, "keep")
	require.NoError(t, err)
	assert.Equal(t, "note", info.Description)

	require.NoError(t, cm.Delete(ctx, "keep"))

	_, err = cm.GetCheckpointInfo(ctx, "keep")
	assert.ErrorIs(t, err, ErrCheckpointNotFound)
	_, err = cm.Restore(ctx, "keep")
	assert.ErrorIs(t, err, ErrCheckpointNotFound)
	assert.ErrorIs(t, cm.Delete(ctx, "keep"), ErrCheckpointNotFound)
}

func TestCheckpointManager_RestoreCorrupted(t *testing.T) {
	cm := newTestManager(t)
	ctx := context.Background()

	_, err := cm.db.ExecContext(ctx, `
		INSERT INTO checkpoints (id, created_at, payload) VALUES ('broken', ?, 'not base64!')`, time.Now())
	require.NoError(t, err)

	_, err = cm.Restore(ctx, "broken")
	assert.ErrorIs(t, err, ErrCheckpointCorrupted)
}

func TestCheckpointManager_AutoCheckpointPrunes(t *testing.T) {
	cm := newTestManager(t)
	ctx := context.Background()

	_, err := cm.Create(ctx, "manual", "", testDocument())
	require.NoError(t, err)

	var last *CheckpointInfo
	for i := 0; i < maxAutoCheckpoints+2; i++ {
		doc := model.Document{Tabs: []model.Tab{{Name: fmt.Sprintf("v%d", i), TableData: model.Table{}}}}
		last, err = cm.AutoCheckpoint(ctx, "load", doc)
		require.NoError(t, err)
	}

	list, err := cm.List(ctx)
	require.NoError(t, err)

	autoCount := 0
	for _, cp := range list {
		if cp.IsAuto {
			autoCount++
		}
	}
	assert.Equal(t, maxAutoCheckpoints, autoCount)
	assert.Len(t, list, maxAutoCheckpoints+1)
	assert.Equal(t, last.ID, list[0].ID)
	assert.Equal(t, "Automatic checkpoint before load", last.Description)

	restored, err := cm.Restore(ctx, last.ID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("v%d", maxAutoCheckpoints+1), restored.Tabs[0].Name)
}
