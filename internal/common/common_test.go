package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "INFO", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "warning", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "loud", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetupLoggerTo(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	require.NoError(t, SetupLoggerTo(&buf, slog.LevelDebug, "json"))
	LogInfo("tab created", Fields{"id": "tab-1"})
	LogError(errors.New("disk full"), "save failed", Fields{"path": "a.dat"})

	assert.Contains(t, buf.String(), `"msg":"tab created"`)
	assert.Contains(t, buf.String(), `"id":"tab-1"`)
	assert.Contains(t, buf.String(), `"error":"disk full"`)
	assert.Contains(t, buf.String(), `"path":"a.dat"`)

	assert.ErrorIs(t, SetupLoggerTo(&buf, slog.LevelInfo, "xml"), ErrInvalidConfig)
}

func TestUserError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewUserError("Could not save the file", cause)

	assert.Equal(t, "Could not save the file: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Could not save the file", UserMessage(err))
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
	assert.Empty(t, UserMessage(nil))
}

func TestWithRetry(t *testing.T) {
	opts := RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}

	t.Run("succeeds after busy", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 2 {
				return ErrDatabaseBusy
			}
			return nil
		}, opts)

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		calls := 0
		permanent := errors.New("constraint failed")
		err := WithRetry(context.Background(), func() error {
			calls++
			return permanent
		}, opts)

		assert.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up", func(t *testing.T) {
		err := WithRetry(context.Background(), func() error {
			return &RetryableError{Err: errors.New("locked"), Retryable: true}
		}, opts)

		assert.ErrorIs(t, err, ErrMaxRetries)
	})
}
