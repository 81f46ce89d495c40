// Package engine carries out the file-level commands of the editor: save,
// save-as, load, validate and report export. It talks to the user and the
// disk only through the collaborator interfaces and never mutates the
// document it is handed.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/scorecard/internal/codec"
	"github.com/Veraticus/scorecard/internal/model"
	"github.com/Veraticus/scorecard/internal/report"
	"github.com/Veraticus/scorecard/internal/storage"
	"github.com/Veraticus/scorecard/internal/validation"
)

// DocumentExtension is the extension of saved documents.
const DocumentExtension = ".dat"

// Engine errors.
var (
	ErrCanceled = errors.New("operation canceled")
	ErrNoData   = errors.New("no data to export")
	ErrBusy     = errors.New("another file operation is in progress")
)

// DocumentFilter is offered by save and open dialogs.
var DocumentFilter = Filter{Name: "Evaluation data", Extensions: []string{"dat"}}

// Config holds configuration options for the engine.
type Config struct {
	DefaultFilename string
	ReportTitle     string
	BlockOnSave     bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		DefaultFilename: "evaluation_data.dat",
		BlockOnSave:     true,
	}
}

// Engine runs file commands against a single current path. Only one
// command runs at a time; a second concurrent call fails with ErrBusy.
type Engine struct {
	fs          FileSystem
	dialog      Dialog
	prompter    Prompter
	renderer    report.Renderer
	markup      *report.Markup
	history     History
	checkpoints Checkpointer
	now         func() time.Time
	currentPath string
	config      Config
	pathMu      sync.RWMutex
	busy        sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.config = cfg }
}

// WithRenderer sets the collaborator that turns report markup into the
// exported document.
func WithRenderer(r report.Renderer) Option {
	return func(e *Engine) { e.renderer = r }
}

// WithMarkup sets the report markup builder.
func WithMarkup(m *report.Markup) Option {
	return func(e *Engine) { e.markup = m }
}

// WithHistory records saved and opened files.
func WithHistory(h History) Option {
	return func(e *Engine) { e.history = h }
}

// WithCheckpoints parks the replaced document before every load.
func WithCheckpoints(c Checkpointer) Option {
	return func(e *Engine) { e.checkpoints = c }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithCurrentPath starts the engine with a known document path.
func WithCurrentPath(path string) Option {
	return func(e *Engine) { e.currentPath = path }
}

// New creates an engine with the given collaborators.
func New(fs FileSystem, dialog Dialog, prompter Prompter, opts ...Option) *Engine {
	e := &Engine{
		fs:       fs,
		dialog:   dialog,
		prompter: prompter,
		renderer: report.HTMLRenderer{},
		config:   DefaultConfig(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.markup == nil {
		e.markup = report.NewMarkup()
	}
	return e
}

// CurrentPath returns the path of the last successful save or load.
func (e *Engine) CurrentPath() string {
	e.pathMu.RLock()
	defer e.pathMu.RUnlock()
	return e.currentPath
}

// Reset forgets the current path, as for a new document.
func (e *Engine) Reset() {
	e.setCurrentPath("")
}

func (e *Engine) setCurrentPath(path string) {
	e.pathMu.Lock()
	e.currentPath = path
	e.pathMu.Unlock()
}

func (e *Engine) begin() (func(), error) {
	if !e.busy.TryLock() {
		return nil, ErrBusy
	}
	return e.busy.Unlock, nil
}

// SaveResult describes a completed save.
type SaveResult struct {
	Path       string
	Violations validation.Result
}

// Save writes doc to the current path, or asks for one when there is none.
func (e *Engine) Save(ctx context.Context, doc model.Document) (SaveResult, error) {
	done, err := e.begin()
	if err != nil {
		return SaveResult{}, err
	}
	defer done()

	path := e.CurrentPath()
	if path == "" {
		if path, err = e.pickSavePath(ctx); err != nil {
			return SaveResult{}, err
		}
	}
	return e.save(ctx, doc, path)
}

// SaveAs asks for a path and writes doc there.
func (e *Engine) SaveAs(ctx context.Context, doc model.Document) (SaveResult, error) {
	done, err := e.begin()
	if err != nil {
		return SaveResult{}, err
	}
	defer done()

	path, err := e.pickSavePath(ctx)
	if err != nil {
		return SaveResult{}, err
	}
	return e.save(ctx, doc, path)
}

// SaveTo writes doc to path.
func (e *Engine) SaveTo(ctx context.Context, doc model.Document, path string) (SaveResult, error) {
	done, err := e.begin()
	if err != nil {
		return SaveResult{}, err
	}
	defer done()

	return e.save(ctx, doc, path)
}

func (e *Engine) pickSavePath(ctx context.Context) (string, error) {
	suggested := e.config.DefaultFilename
	if current := e.CurrentPath(); current != "" {
		suggested = filepath.Base(current)
	}
	path, err := e.dialog.SavePath(ctx, suggested, DocumentFilter)
	if err != nil {
		return "", err
	}
	return WithExtension(path, DocumentExtension), nil
}

func (e *Engine) save(ctx context.Context, doc model.Document, path string) (SaveResult, error) {
	result := SaveResult{Path: path, Violations: validation.Validate(doc)}

	if e.config.BlockOnSave && !result.Violations.Valid() {
		message := "The data has the following problems:\n\n" + result.Violations.Format() + "\n\nSave anyway?"
		ok, err := e.prompter.Confirm(ctx, message)
		if err != nil {
			return SaveResult{}, fmt.Errorf("failed to confirm save: %w", err)
		}
		if !ok {
			return SaveResult{}, ErrCanceled
		}
	}

	text, err := codec.Encode(doc, e.now())
	if err != nil {
		return SaveResult{}, fmt.Errorf("failed to encode document: %w", err)
	}
	if err := e.fs.WriteFile(ctx, path, []byte(text)); err != nil {
		return SaveResult{}, fmt.Errorf("failed to save document: %w", err)
	}

	e.setCurrentPath(path)
	e.remember(ctx, path, storage.ActionSaved, len(doc.Tabs))

	slog.Info("Document saved", "path", path, "tabs", len(doc.Tabs), "violations", len(result.Violations.Violations))
	return result, nil
}

// LoadResult carries a decoded document. The caller installs it into its
// registry; the engine never touches live state.
type LoadResult struct {
	SavedAt  time.Time
	Path     string
	Version  string
	Document model.Document
	Shape    codec.Shape
}

// Load asks for a file and decodes it. previous is the document being
// replaced and is parked as an automatic checkpoint when it has rows.
func (e *Engine) Load(ctx context.Context, previous model.Document) (LoadResult, error) {
	done, err := e.begin()
	if err != nil {
		return LoadResult{}, err
	}
	defer done()

	path, err := e.dialog.OpenPath(ctx, DocumentFilter)
	if err != nil {
		return LoadResult{}, err
	}
	return e.load(ctx, path, previous)
}

// LoadFrom decodes the file at path.
func (e *Engine) LoadFrom(ctx context.Context, path string, previous model.Document) (LoadResult, error) {
	done, err := e.begin()
	if err != nil {
		return LoadResult{}, err
	}
	defer done()

	return e.load(ctx, path, previous)
}

// ReadDocument decodes the file at path without touching the current
// path, history or checkpoints.
func (e *Engine) ReadDocument(ctx context.Context, path string) (codec.Decoded, error) {
	data, err := e.fs.ReadFile(ctx, path)
	if err != nil {
		return codec.Decoded{}, err
	}
	decoded, err := codec.Decode(string(data))
	if err != nil {
		return codec.Decoded{}, fmt.Errorf("failed to load %s: %w", filepath.Base(path), err)
	}
	return decoded, nil
}

func (e *Engine) load(ctx context.Context, path string, previous model.Document) (LoadResult, error) {
	decoded, err := e.ReadDocument(ctx, path)
	if err != nil {
		return LoadResult{}, err
	}

	if e.checkpoints != nil && previous.RowCount() > 0 {
		if _, err := e.checkpoints.AutoCheckpoint(ctx, "load", previous); err != nil {
			slog.Warn("failed to checkpoint document before load", "error", err)
		}
	}

	e.setCurrentPath(path)
	e.remember(ctx, path, storage.ActionOpened, len(decoded.Document.Tabs))

	slog.Info("Document loaded", "path", path, "shape", decoded.Shape.String(), "tabs", len(decoded.Document.Tabs))
	return LoadResult{
		Path:     path,
		Document: decoded.Document,
		Shape:    decoded.Shape,
		Version:  decoded.Version,
		SavedAt:  decoded.SavedAt,
	}, nil
}

// Validate checks doc and returns every violation.
func (e *Engine) Validate(doc model.Document) validation.Result {
	result := validation.Validate(doc)
	slog.Debug("document validated", "violations", len(result.Violations))
	return result
}

// ExportResult describes a written report.
type ExportResult struct {
	Path  string
	Bytes int
	Rows  int
}

// ExportReport asks for a destination and writes the rendered report.
func (e *Engine) ExportReport(ctx context.Context, doc model.Document) (ExportResult, error) {
	done, err := e.begin()
	if err != nil {
		return ExportResult{}, err
	}
	defer done()

	if doc.RowCount() == 0 {
		return ExportResult{}, ErrNoData
	}

	ext := e.renderer.Extension()
	suggested := "report" + ext
	if current := e.CurrentPath(); current != "" {
		base := filepath.Base(current)
		suggested = strings.TrimSuffix(base, filepath.Ext(base)) + ext
	}
	path, err := e.dialog.SavePath(ctx, suggested, Filter{Name: "Report", Extensions: []string{strings.TrimPrefix(ext, ".")}})
	if err != nil {
		return ExportResult{}, err
	}
	return e.export(ctx, doc, WithExtension(path, ext))
}

// ExportReportTo writes the rendered report to path.
func (e *Engine) ExportReportTo(ctx context.Context, doc model.Document, path string) (ExportResult, error) {
	done, err := e.begin()
	if err != nil {
		return ExportResult{}, err
	}
	defer done()

	if doc.RowCount() == 0 {
		return ExportResult{}, ErrNoData
	}
	return e.export(ctx, doc, path)
}

func (e *Engine) export(ctx context.Context, doc model.Document, path string) (ExportResult, error) {
	built := report.Build(doc, e.config.ReportTitle, e.now())

	markup, err := e.markup.Render(built)
	if err != nil {
		return ExportResult{}, err
	}

	rendered, err := e.renderer.Render(ctx, markup)
	if errors.Is(err, context.Canceled) {
		return ExportResult{}, ErrCanceled
	}
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to render report: %w", err)
	}

	if err := e.fs.WriteFile(ctx, path, rendered); err != nil {
		return ExportResult{}, fmt.Errorf("failed to write report: %w", err)
	}

	slog.Info("Report exported", "path", path, "rows", len(built.Rows))
	return ExportResult{Path: path, Bytes: len(rendered), Rows: len(built.Rows)}, nil
}

func (e *Engine) remember(ctx context.Context, path string, action storage.RecentAction, tabs int) {
	if e.history == nil {
		return
	}
	if err := e.history.RecordRecentFile(ctx, path, action, tabs); err != nil {
		slog.Warn("failed to record recent file", "path", path, "error", err)
	}
}
