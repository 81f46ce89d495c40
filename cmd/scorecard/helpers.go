package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/scorecard/internal/cli"
	"github.com/Veraticus/scorecard/internal/codec"
	"github.com/Veraticus/scorecard/internal/common"
	"github.com/Veraticus/scorecard/internal/engine"
	"github.com/Veraticus/scorecard/internal/model"
	"github.com/Veraticus/scorecard/internal/registry"
	"github.com/Veraticus/scorecard/internal/report"
	"github.com/Veraticus/scorecard/internal/storage"
	"github.com/Veraticus/scorecard/internal/validation"
	"github.com/spf13/cobra"
)

// openStore opens the history database, creating its directory on first
// use.
func (a *app) openStore(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := a.settings.DatabasePath
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return storage.Open(ctx, dbPath)
}

// engineOptions describes how a command wants its engine wired.
type engineOptions struct {
	store       *storage.SQLiteStorage
	dialog      engine.Dialog
	prompter    engine.Prompter
	currentPath string
	blockOnSave bool
}

func (a *app) newEngine(opts engineOptions) *engine.Engine {
	dialog := opts.dialog
	if dialog == nil {
		dialog = engine.StaticDialog{}
	}
	prompter := opts.prompter
	if prompter == nil {
		prompter = engine.AlwaysConfirm(true)
	}

	markupOpts := []report.MarkupOption{}
	if a.settings.Stylesheet != "" {
		markupOpts = append(markupOpts, report.WithStylesheetFile(a.settings.Stylesheet))
	}

	engineOpts := []engine.Option{
		engine.WithConfig(engine.Config{
			DefaultFilename: a.settings.DefaultFilename,
			ReportTitle:     a.settings.ReportTitle,
			BlockOnSave:     opts.blockOnSave,
		}),
		engine.WithMarkup(report.NewMarkup(markupOpts...)),
		engine.WithCurrentPath(opts.currentPath),
	}
	if opts.store != nil {
		engineOpts = append(engineOpts,
			engine.WithHistory(opts.store),
			engine.WithCheckpoints(opts.store.NewCheckpointManager()),
		)
	}

	return engine.New(engine.OSFileSystem{}, dialog, prompter, engineOpts...)
}

// session is one document opened from the command line.
type session struct {
	engine   *engine.Engine
	registry *registry.Registry
	store    *storage.SQLiteStorage
	path     string
}

func (s *session) Close() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

// openDocument loads path into a registry. Commands that only read the
// document skip the history database.
func (a *app) openDocument(ctx context.Context, path string, record bool) (*session, error) {
	path = withDocumentExtension(path)

	s := &session{path: path, registry: registry.New(registry.WithDefaultTabName(a.settings.DefaultTab))}
	if record {
		store, err := a.openStore(ctx)
		if err != nil {
			return nil, err
		}
		s.store = store
	}
	s.engine = a.newEngine(engineOptions{store: s.store})

	var (
		result engine.LoadResult
		err    error
	)
	if record {
		result, err = s.engine.LoadFrom(ctx, path, model.Document{})
	} else {
		var decoded codec.Decoded
		decoded, err = s.engine.ReadDocument(ctx, path)
		result.Document = decoded.Document
	}
	if err != nil {
		s.Close()
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.NewUserError(fmt.Sprintf("%s does not exist; create it with `scorecard new`", path), err)
		}
		return nil, err
	}

	s.registry.Load(result.Document.Tabs)
	return s, nil
}

// save writes the session's registry back to its file and reports any
// remaining violations as warnings.
func (s *session) save(ctx context.Context, cmd *cobra.Command) error {
	result, err := s.engine.SaveTo(ctx, s.registry.Document(), s.path)
	if err != nil {
		return err
	}
	printViolations(cmd, result.Violations, true)
	return nil
}

func printViolations(cmd *cobra.Command, result validation.Result, brief bool) {
	out := cmd.OutOrStdout()
	if result.Valid() {
		if !brief {
			fmt.Fprintln(out, cli.FormatSuccess("No problems found."))
		}
		return
	}
	if brief {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%d problem(s) remain; run `scorecard validate` for details.", len(result.Violations))))
		return
	}
	fmt.Fprintln(out, cli.FormatWarning("The data has the following problems:"))
	fmt.Fprintln(out, result.Format())
}

func withDocumentExtension(path string) string {
	return engine.WithExtension(path, engine.DocumentExtension)
}

// resolveTab finds a tab by name, or by its 1-based position.
func resolveTab(reg *registry.Registry, ref string) (*model.Tab, error) {
	if tab, err := reg.FindByName(ref); err == nil {
		return tab, nil
	}
	if n, err := strconv.Atoi(strings.TrimPrefix(ref, "#")); err == nil && n >= 1 && n <= reg.Len() {
		return reg.Tabs()[n-1], nil
	}
	return nil, common.NewUserError(fmt.Sprintf("no tab named %q", ref), registry.ErrTabNotFound)
}

// resolveRows turns 1-based row numbers into row IDs.
func resolveRows(tab *model.Tab, refs []string) ([]string, error) {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		n, err := strconv.Atoi(ref)
		if err != nil || n < 1 || n > len(tab.TableData) {
			return nil, common.NewUserError(
				fmt.Sprintf("row %q is out of range (tab %q has %d rows)", ref, tab.Name, len(tab.TableData)),
				model.ErrRowNotFound)
		}
		ids = append(ids, tab.TableData[n-1].ID)
	}
	return ids, nil
}

func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

func formatRelativeTime(t time.Time) string {
	duration := time.Since(t)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		minutes := int(duration.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case duration < 7*24*time.Hour:
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "yesterday"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("2006-01-02 15:04")
	}
}
