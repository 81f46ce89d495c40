package tui

import (
	"github.com/Veraticus/scorecard/internal/engine"
	"github.com/Veraticus/scorecard/internal/registry"
	"github.com/Veraticus/scorecard/internal/tui/themes"
)

// Config holds editor configuration.
type Config struct {
	Theme    themes.Theme
	Registry *registry.Registry
	Engine   *engine.Engine
	Bridge   *Bridge
	Recorder *Recorder
	Width    int
	Height   int
	ShowHelp bool
}

// Option is a functional option for configuring the editor.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:    themes.Default,
		Width:    120,
		Height:   30,
		ShowHelp: true,
	}
}

// WithRegistry sets the document being edited. Without one the editor
// starts from a fresh registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(c *Config) {
		c.Registry = reg
	}
}

// WithEngine sets the file operations engine. Without one save, load and
// export are unavailable.
func WithEngine(eng *engine.Engine, bridge *Bridge) Option {
	return func(c *Config) {
		c.Engine = eng
		c.Bridge = bridge
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithHelp toggles the short help line.
func WithHelp(show bool) Option {
	return func(c *Config) {
		c.ShowHelp = show
	}
}

// WithRecorder captures every frame to rec.
func WithRecorder(rec *Recorder) Option {
	return func(c *Config) {
		c.Recorder = rec
	}
}
