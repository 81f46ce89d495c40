package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/scorecard/internal/registry"
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the editor and blocks until the user quits or ctx ends. The
// caller's registry holds whatever state the editor left behind.
func Run(ctx context.Context, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Registry == nil {
		cfg.Registry = registry.New()
	}

	m := newModel(ctx, cfg)
	var root tea.Model = m
	if cfg.Recorder != nil {
		root = recordingModel{rec: cfg.Recorder, inner: m}
	}

	program := tea.NewProgram(root, tea.WithContext(ctx), tea.WithAltScreen())

	if cfg.Bridge != nil {
		cfg.Bridge.attach(program)
		defer cfg.Bridge.attach(nil)
	}

	slog.Debug("editor starting", "tabs", cfg.Registry.Len())
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to run editor: %w", err)
	}
	return nil
}
