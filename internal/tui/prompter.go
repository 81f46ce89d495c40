package tui

import (
	"context"
	"sync"

	"github.com/Veraticus/scorecard/internal/engine"
	tea "github.com/charmbracelet/bubbletea"
)

type sender interface {
	Send(msg tea.Msg)
}

// Bridge implements engine.Prompter and engine.Dialog on top of a running
// editor. Engine calls run inside tea commands; the bridge forwards each
// question to the program and blocks until the model answers.
type Bridge struct {
	program sender
	mu      sync.Mutex
}

// Ensure we implement the interfaces.
var (
	_ engine.Prompter = (*Bridge)(nil)
	_ engine.Dialog   = (*Bridge)(nil)
)

// NewBridge returns a bridge that is not attached to a program yet. Until it
// is, every question is answered as a cancellation.
func NewBridge() *Bridge {
	return &Bridge{}
}

func (b *Bridge) attach(s sender) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.program = s
}

func (b *Bridge) target() sender {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.program
}

// Confirm implements engine.Prompter.
func (b *Bridge) Confirm(ctx context.Context, message string) (bool, error) {
	program := b.target()
	if program == nil {
		return false, nil
	}

	reply := make(chan confirmReply, 1)
	program.Send(confirmRequestMsg{message: message, reply: reply})

	select {
	case r := <-reply:
		return r.ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// SavePath implements engine.Dialog.
func (b *Bridge) SavePath(ctx context.Context, suggested string, filter engine.Filter) (string, error) {
	return b.askPath(ctx, pathRequestMsg{title: "Save " + filter.Name + " as", suggested: suggested, filter: filter})
}

// OpenPath implements engine.Dialog.
func (b *Bridge) OpenPath(ctx context.Context, filter engine.Filter) (string, error) {
	return b.askPath(ctx, pathRequestMsg{title: "Open " + filter.Name, filter: filter})
}

func (b *Bridge) askPath(ctx context.Context, req pathRequestMsg) (string, error) {
	program := b.target()
	if program == nil {
		return "", engine.ErrCanceled
	}

	reply := make(chan pathReply, 1)
	req.reply = reply
	program.Send(req)

	select {
	case r := <-reply:
		if r.canceled || r.path == "" {
			return "", engine.ErrCanceled
		}
		return r.path, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
