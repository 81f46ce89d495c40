package engine

import (
	"context"

	"github.com/Veraticus/scorecard/internal/model"
	"github.com/Veraticus/scorecard/internal/storage"
)

// FileSystem reads and writes whole files.
type FileSystem interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte) error
}

// Filter narrows what a file dialog offers.
type Filter struct {
	Name       string
	Extensions []string
}

// Dialog picks file paths. Both methods return ErrCanceled when the user
// dismisses the dialog.
type Dialog interface {
	SavePath(ctx context.Context, suggested string, filter Filter) (string, error)
	OpenPath(ctx context.Context, filter Filter) (string, error)
}

// Prompter asks the user a yes/no question.
type Prompter interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// History remembers files that were saved or opened.
type History interface {
	RecordRecentFile(ctx context.Context, path string, action storage.RecentAction, tabs int) error
}

// Checkpointer parks the document that a load is about to replace.
type Checkpointer interface {
	AutoCheckpoint(ctx context.Context, prefix string, doc model.Document) (*storage.CheckpointInfo, error)
}

// ConfirmFunc adapts a function to Prompter.
type ConfirmFunc func(ctx context.Context, message string) (bool, error)

// Confirm implements Prompter.
func (f ConfirmFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// AlwaysConfirm answers every question with answer.
func AlwaysConfirm(answer bool) Prompter {
	return ConfirmFunc(func(context.Context, string) (bool, error) {
		return answer, nil
	})
}
