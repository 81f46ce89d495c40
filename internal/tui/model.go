package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/scorecard/internal/config"
	"github.com/Veraticus/scorecard/internal/engine"
	"github.com/Veraticus/scorecard/internal/model"
	"github.com/Veraticus/scorecard/internal/registry"
	"github.com/Veraticus/scorecard/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Mode is what the keyboard currently drives.
type Mode int

const (
	ModeTable Mode = iota
	ModeEdit
	ModeRename
	ModeConfirm
	ModePath
	ModeMessage
	ModeHelp
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

type status struct {
	text string
	kind statusKind
}

// pendingConfirm is a yes/no question. Questions from the engine carry a
// reply channel; questions the editor asks itself carry onYes.
type pendingConfirm struct {
	reply   chan<- confirmReply
	onYes   func(m *Model) tea.Cmd
	message string
}

type pendingPath struct {
	reply chan<- pathReply
	title string
}

// Model holds the editor state. The registry is shared between copies of
// the model, so every mutation goes through the Update loop.
type Model struct {
	ctx        context.Context
	registry   *registry.Registry
	engine     *engine.Engine
	confirm    *pendingConfirm
	path       *pendingPath
	selected   map[string]bool
	theme      themes.Theme
	help       help.Model
	input      textinput.Model
	keymap     KeyMap
	status     status
	message    string
	editRowID  string
	editOrigin string
	editField  model.Field
	config     Config
	width      int
	height     int
	row        int
	col        int
	mode       Mode
	quitting   bool
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, cfg Config) Model {
	reg := cfg.Registry
	if reg == nil {
		reg = registry.New()
	}

	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 500

	h := help.New()
	h.Width = cfg.Width

	return Model{
		ctx:      ctx,
		registry: reg,
		engine:   cfg.Engine,
		selected: make(map[string]bool),
		theme:    cfg.Theme,
		help:     h,
		input:    input,
		keymap:   DefaultKeyMap(),
		config:   cfg,
		width:    cfg.Width,
		height:   cfg.Height,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Mode reports the current input mode.
func (m Model) Mode() Mode {
	return m.mode
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case confirmRequestMsg:
		m.confirm = &pendingConfirm{message: msg.message, reply: msg.reply}
		m.mode = ModeConfirm
		return m, nil

	case pathRequestMsg:
		m.path = &pendingPath{title: msg.title, reply: msg.reply}
		m.mode = ModePath
		m.input.Placeholder = "path/to/file." + strings.Join(msg.filter.Extensions, ",")
		m.input.SetValue(msg.suggested)
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd

	case savedMsg:
		return m.handleSaved(msg), nil

	case loadedMsg:
		return m.handleLoaded(msg), nil

	case exportedMsg:
		return m.handleExported(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.inputActive() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) inputActive() bool {
	return m.mode == ModeEdit || m.mode == ModeRename || m.mode == ModePath
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.abandonPending()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.mode {
	case ModeEdit:
		return m.handleEditKey(msg)
	case ModeRename:
		return m.handleRenameKey(msg)
	case ModePath:
		return m.handlePathKey(msg)
	case ModeConfirm:
		return m.handleConfirmKey(msg)
	case ModeMessage, ModeHelp:
		switch msg.String() {
		case "esc", "enter", "q", "?":
			m.mode = ModeTable
			m.message = ""
			m.help.ShowAll = false
		}
		return m, nil
	default:
		return m.handleTableKey(msg)
	}
}

func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tab := m.registry.Active()
	rows := len(tab.TableData)

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.mode = ModeHelp
		m.help.ShowAll = true

	case key.Matches(msg, m.keymap.Up):
		m.row = max(0, m.row-1)
	case key.Matches(msg, m.keymap.Down):
		m.row = min(max(0, rows-1), m.row+1)
	case key.Matches(msg, m.keymap.Left):
		m.col = max(0, m.col-1)
	case key.Matches(msg, m.keymap.Right):
		m.col = min(len(model.Fields)-1, m.col+1)
	case key.Matches(msg, m.keymap.Home):
		m.row = 0
	case key.Matches(msg, m.keymap.End):
		m.row = max(0, rows-1)

	case key.Matches(msg, m.keymap.NextTab):
		m.switchTab(1)
	case key.Matches(msg, m.keymap.PrevTab):
		m.switchTab(-1)

	case key.Matches(msg, m.keymap.Edit):
		return m.startEdit()

	case key.Matches(msg, m.keymap.AddRow):
		if _, err := m.registry.AddRow(tab.ID, nil); err != nil {
			m.setStatus(statusError, err.Error())
			break
		}
		m.row = len(tab.TableData) - 1
		m.setStatus(statusInfo, "Row added.")

	case key.Matches(msg, m.keymap.ToggleSelect):
		if id, ok := m.currentRowID(); ok {
			if m.selected[id] {
				delete(m.selected, id)
			} else {
				m.selected[id] = true
			}
		}
	case key.Matches(msg, m.keymap.SelectAll):
		for _, row := range tab.TableData {
			m.selected[row.ID] = true
		}
	case key.Matches(msg, m.keymap.DeselectAll):
		clear(m.selected)

	case key.Matches(msg, m.keymap.DeleteRows):
		m.askDeleteRows()

	case key.Matches(msg, m.keymap.NewTab):
		created := m.registry.CreateTab("")
		m.resetCursor()
		m.setStatus(statusSuccess, fmt.Sprintf("Created tab %q.", created.Name))

	case key.Matches(msg, m.keymap.RenameTab):
		m.mode = ModeRename
		m.input.Placeholder = "tab name"
		m.input.SetValue(tab.Name)
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keymap.CloseTab):
		m.askCloseTab()

	case key.Matches(msg, m.keymap.Validate):
		m.showValidation()

	case key.Matches(msg, m.keymap.NewDocument):
		m.askNewDocument()

	case key.Matches(msg, m.keymap.Save):
		return m.runFileOp(m.saveCmd(false))
	case key.Matches(msg, m.keymap.SaveAs):
		return m.runFileOp(m.saveCmd(true))
	case key.Matches(msg, m.keymap.Open):
		return m.runFileOp(m.loadCmd())
	case key.Matches(msg, m.keymap.Export):
		return m.runFileOp(m.exportCmd())
	}

	return m, nil
}

func (m Model) startEdit() (tea.Model, tea.Cmd) {
	tab := m.registry.Active()
	if len(tab.TableData) == 0 {
		m.setStatus(statusWarning, "Add a row first.")
		return m, nil
	}
	row := tab.TableData[m.row]
	field := model.Fields[m.col]

	m.mode = ModeEdit
	m.editRowID = row.ID
	m.editField = field
	m.editOrigin = row.Value(field)
	m.input.Placeholder = ""
	if field.IsDate() {
		m.input.Placeholder = "YYYY.MM.DD"
	}
	m.input.SetValue(m.editOrigin)
	m.input.CursorEnd()
	m.status = status{}
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tabID := m.registry.Active().ID

	switch msg.String() {
	case "esc":
		// Numbers and text were applied while typing; put them back.
		_, _ = m.registry.EditField(tabID, m.editRowID, m.editField, m.editOrigin)
		m.finishEdit()
		return m, nil

	case "enter", "tab":
		if _, err := m.registry.EditField(tabID, m.editRowID, m.editField, m.input.Value()); err != nil {
			m.setStatus(statusError, fmt.Sprintf("%v: use YYYY.MM.DD", err))
			return m, nil
		}
		m.finishEdit()
		if msg.String() == "tab" {
			m.col = (m.col + 1) % len(model.Fields)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if m.editField.IsDate() {
		if clean := model.SanitizeDateInput(m.input.Value()); clean != m.input.Value() {
			m.input.SetValue(clean)
			m.input.CursorEnd()
		}
		return m, cmd
	}

	// Derived scores follow every keystroke.
	if _, err := m.registry.EditField(tabID, m.editRowID, m.editField, m.input.Value()); err != nil {
		m.setStatus(statusError, err.Error())
	}
	return m, cmd
}

func (m *Model) finishEdit() {
	m.mode = ModeTable
	m.input.Blur()
	m.editRowID = ""
	m.editOrigin = ""
	m.status = status{}
}

func (m Model) handleRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeTable
		m.input.Blur()
		return m, nil
	case "enter":
		m.mode = ModeTable
		m.input.Blur()
		tab := m.registry.Active()
		ok, err := m.registry.RenameTab(tab.ID, m.input.Value())
		switch {
		case err != nil:
			m.setStatus(statusError, err.Error())
		case !ok:
			m.setStatus(statusWarning, "Tab name cannot be blank.")
		default:
			m.setStatus(statusSuccess, fmt.Sprintf("Renamed tab to %q.", tab.Name))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handlePathKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.answerPath(pathReply{canceled: true})
		return m, nil
	case "enter":
		path := strings.TrimSpace(m.input.Value())
		if path == "" {
			m.answerPath(pathReply{canceled: true})
			return m, nil
		}
		m.answerPath(pathReply{path: config.ExpandPath(path)})
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) answerPath(reply pathReply) {
	if m.path != nil && m.path.reply != nil {
		m.path.reply <- reply
	}
	m.path = nil
	m.mode = ModeTable
	m.input.Blur()
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var answer bool
	switch msg.String() {
	case "y", "Y", "enter":
		answer = true
	case "n", "N", "esc", "q":
		answer = false
	default:
		return m, nil
	}

	pending := m.confirm
	m.confirm = nil
	m.mode = ModeTable
	if pending == nil {
		return m, nil
	}
	if pending.reply != nil {
		pending.reply <- confirmReply{ok: answer}
	}
	if answer && pending.onYes != nil {
		cmd := pending.onYes(&m)
		return m, cmd
	}
	return m, nil
}

// abandonPending releases an engine call that is waiting on the user.
func (m *Model) abandonPending() {
	if m.confirm != nil && m.confirm.reply != nil {
		m.confirm.reply <- confirmReply{ok: false}
	}
	if m.path != nil && m.path.reply != nil {
		m.path.reply <- pathReply{canceled: true}
	}
	m.confirm = nil
	m.path = nil
}

func (m *Model) ask(message string, onYes func(m *Model) tea.Cmd) {
	m.confirm = &pendingConfirm{message: message, onYes: onYes}
	m.mode = ModeConfirm
}

func (m *Model) askDeleteRows() {
	tab := m.registry.Active()
	ids := m.selectedIDs()
	if len(ids) == 0 {
		if id, ok := m.currentRowID(); ok {
			ids = []string{id}
		}
	}
	if len(ids) == 0 {
		m.setStatus(statusWarning, "There are no rows to delete.")
		return
	}

	m.ask(fmt.Sprintf("Delete %d row(s) from %q?", len(ids), tab.Name), func(m *Model) tea.Cmd {
		removed, err := m.registry.DeleteRows(tab.ID, ids...)
		if err != nil {
			m.setStatus(statusError, err.Error())
			return nil
		}
		for _, id := range ids {
			delete(m.selected, id)
		}
		m.clampCursor()
		m.setStatus(statusInfo, fmt.Sprintf("Deleted %d row(s).", removed))
		return nil
	})
}

func (m *Model) askCloseTab() {
	if m.registry.Len() <= 1 {
		m.setStatus(statusWarning, "At least one tab is required; the last tab cannot be closed.")
		return
	}
	tab := m.registry.Active()
	m.ask(fmt.Sprintf("Close tab %q? Its rows will be discarded.", tab.Name), func(m *Model) tea.Cmd {
		if err := m.registry.CloseTab(tab.ID); err != nil {
			m.setStatus(statusWarning, err.Error())
			return nil
		}
		m.resetCursor()
		m.setStatus(statusInfo, fmt.Sprintf("Closed tab %q.", tab.Name))
		return nil
	})
}

// askNewDocument replaces every tab with a single blank one. The next save
// asks for a path.
func (m *Model) askNewDocument() {
	m.ask("Start a new document? Unsaved changes will be lost.", func(m *Model) tea.Cmd {
		m.registry.Load(nil)
		if m.engine != nil {
			m.engine.Reset()
		}
		m.resetCursor()
		m.setStatus(statusInfo, "Started a new document.")
		return nil
	})
}

func (m *Model) showValidation() {
	violations := m.validate(m.registry.Document())
	if violations.Valid() {
		m.setStatus(statusSuccess, "No problems found.")
		return
	}
	m.message = "The data has the following problems:\n\n" + violations.Format()
	m.mode = ModeMessage
}

func (m *Model) switchTab(step int) {
	tabs := m.registry.Tabs()
	idx := m.registry.ActiveIndex()
	next := (idx + step + len(tabs)) % len(tabs)
	_ = m.registry.Activate(tabs[next].ID)
	m.resetCursor()
}

func (m *Model) resetCursor() {
	m.row = 0
	m.col = 0
	clear(m.selected)
}

func (m *Model) clampCursor() {
	rows := len(m.registry.Active().TableData)
	m.row = min(m.row, max(0, rows-1))
}

func (m Model) currentRowID() (string, bool) {
	rows := m.registry.Active().TableData
	if m.row < 0 || m.row >= len(rows) {
		return "", false
	}
	return rows[m.row].ID, true
}

// selectedIDs returns the marked rows of the active tab in table order.
func (m Model) selectedIDs() []string {
	var ids []string
	for _, row := range m.registry.Active().TableData {
		if m.selected[row.ID] {
			ids = append(ids, row.ID)
		}
	}
	return ids
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.status = status{kind: kind, text: text}
}
