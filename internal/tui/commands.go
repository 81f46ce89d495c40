package tui

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Veraticus/scorecard/internal/codec"
	"github.com/Veraticus/scorecard/internal/common"
	"github.com/Veraticus/scorecard/internal/engine"
	"github.com/Veraticus/scorecard/internal/model"
	"github.com/Veraticus/scorecard/internal/validation"
	tea "github.com/charmbracelet/bubbletea"
)

// runFileOp starts an engine operation. Without an engine the editor only
// edits in memory.
func (m Model) runFileOp(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if m.engine == nil {
		m.setStatus(statusWarning, "File operations are not available in this session.")
		return m, nil
	}
	m.setStatus(statusInfo, "Working...")
	return m, cmd
}

// The commands below run on a Document snapshot taken in the Update loop,
// never on the live registry.

func (m Model) saveCmd(as bool) tea.Cmd {
	eng, ctx, doc := m.engine, m.ctx, m.registry.Document()
	return func() tea.Msg {
		var (
			result engine.SaveResult
			err    error
		)
		if as {
			result, err = eng.SaveAs(ctx, doc)
		} else {
			result, err = eng.Save(ctx, doc)
		}
		return savedMsg{result: result, err: err}
	}
}

func (m Model) loadCmd() tea.Cmd {
	eng, ctx, doc := m.engine, m.ctx, m.registry.Document()
	return func() tea.Msg {
		result, err := eng.Load(ctx, doc)
		return loadedMsg{result: result, err: err}
	}
}

func (m Model) exportCmd() tea.Cmd {
	eng, ctx, doc := m.engine, m.ctx, m.registry.Document()
	return func() tea.Msg {
		result, err := eng.ExportReport(ctx, doc)
		return exportedMsg{result: result, err: err}
	}
}

func (m Model) handleSaved(msg savedMsg) Model {
	if msg.err != nil {
		m.reportError("save", msg.err)
		return m
	}
	text := "Saved " + filepath.Base(msg.result.Path) + "."
	if n := len(msg.result.Violations.Violations); n > 0 {
		m.setStatus(statusWarning, fmt.Sprintf("%s (%d problem(s) remain)", text, n))
		return m
	}
	m.setStatus(statusSuccess, text)
	return m
}

func (m Model) handleLoaded(msg loadedMsg) Model {
	if msg.err != nil {
		m.reportError("open", msg.err)
		return m
	}

	// Anything still pointing at rows of the old document is dropped.
	switch m.mode {
	case ModeEdit, ModeRename:
		m.finishEdit()
	case ModeConfirm:
		if m.confirm != nil && m.confirm.reply == nil {
			m.confirm = nil
			m.mode = ModeTable
		}
	}

	m.registry.Load(msg.result.Document.Tabs)
	m.resetCursor()

	text := fmt.Sprintf("Opened %s (%d tab(s)).", filepath.Base(msg.result.Path), m.registry.Len())
	if msg.result.Shape == codec.ShapeLegacy {
		text += " Converted from the legacy format; save to upgrade the file."
	}
	m.setStatus(statusSuccess, text)
	return m
}

func (m Model) handleExported(msg exportedMsg) Model {
	if msg.err != nil {
		m.reportError("export", msg.err)
		return m
	}
	m.setStatus(statusSuccess, fmt.Sprintf("Exported %d row(s) to %s.", msg.result.Rows, filepath.Base(msg.result.Path)))
	return m
}

// reportError turns an engine failure into feedback. Cancellation is
// silent; decode and I/O failures block until acknowledged.
func (m *Model) reportError(op string, err error) {
	switch {
	case errors.Is(err, engine.ErrCanceled):
		m.status = status{}
	case errors.Is(err, engine.ErrBusy):
		m.setStatus(statusWarning, "Another file operation is still running.")
	case errors.Is(err, engine.ErrNoData):
		m.setStatus(statusWarning, "There is no data to export.")
	default:
		common.LogError(err, "file operation failed", common.Fields{"operation": op})
		m.status = status{}
		m.message = fmt.Sprintf("Could not %s the file.\n\n%v", op, err)
		m.mode = ModeMessage
	}
}

func (m Model) validate(doc model.Document) validation.Result {
	if m.engine != nil {
		return m.engine.Validate(doc)
	}
	return validation.Validate(doc)
}
