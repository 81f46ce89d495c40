package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Veraticus/scorecard/internal/calc"
	"github.com/Veraticus/scorecard/internal/model"
	"github.com/Veraticus/scorecard/internal/validation"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

type column struct {
	title string
	width int
	right bool
}

// Columns other than the description have fixed widths.
var columns = []column{
	{title: "", width: 2},
	{title: "Description"},
	{title: "Start", width: 10},
	{title: "End", width: 10},
	{title: "Prev W", width: 7, right: true},
	{title: "Prev S", width: 7, right: true},
	{title: "Prev Eval", width: 9, right: true},
	{title: "Weight", width: 7, right: true},
	{title: "Score", width: 7, right: true},
	{title: "Eval", width: 8, right: true},
}

const (
	descriptionColumn = 1
	minDescription    = 16
	// Lines used by everything except table rows.
	chromeHeight = 14
)

// fieldColumn maps an editable field to its display column.
var fieldColumn = map[model.Field]int{
	model.FieldDescription: 1,
	model.FieldStartDate:   2,
	model.FieldEndDate:     3,
	model.FieldPrevWeight:  4,
	model.FieldPrevScore:   5,
	model.FieldWeight:      7,
	model.FieldScore:       8,
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderTitle(), m.renderTabs()}

	if m.mode == ModeHelp {
		sections = append(sections, m.theme.RoundedBox.Render(m.help.View(m.keymap)))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	sections = append(sections, m.renderTable(), m.renderSummary(), m.renderStatus())

	if overlay := m.renderOverlay(); overlay != "" {
		sections = append(sections, overlay)
	}
	if m.config.ShowHelp {
		sections = append(sections, m.help.View(m.keymap))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTitle() string {
	name := "untitled"
	if m.engine != nil {
		if path := m.engine.CurrentPath(); path != "" {
			name = filepath.Base(path)
		}
	}
	return m.theme.Title.Render("📋 Scorecard") + " " + m.theme.Subtitle.Render(name)
}

func (m Model) renderTabs() string {
	active := m.registry.ActiveIndex()
	parts := make([]string, 0, m.registry.Len())
	for i, tab := range m.registry.Tabs() {
		if i == active {
			parts = append(parts, m.theme.TabActive.Render(tab.Name))
			continue
		}
		parts = append(parts, m.theme.TabInactive.Render(tab.Name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) columnWidths() []int {
	widths := make([]int, len(columns))
	fixed := 0
	for i, c := range columns {
		widths[i] = c.width
		fixed += c.width + 1
	}
	widths[descriptionColumn] = max(minDescription, m.width-fixed-1)
	return widths
}

func (m Model) renderTable() string {
	widths := m.columnWidths()
	rows := m.registry.Active().TableData

	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = cell(c.title, widths[i], c.right)
	}
	lines := []string{m.theme.Header.Render(strings.Join(header, " "))}

	if len(rows) == 0 {
		lines = append(lines, m.theme.Subtitle.Render("No rows. Press a to add one."))
		return strings.Join(lines, "\n")
	}

	visible := max(3, m.height-chromeHeight)
	offset := max(0, m.row-visible+1)
	end := min(len(rows), offset+visible)

	for i := offset; i < end; i++ {
		lines = append(lines, m.renderRow(i, rows[i], widths))
	}
	if end < len(rows) || offset > 0 {
		lines = append(lines, m.theme.Subtitle.Render(fmt.Sprintf("rows %d-%d of %d", offset+1, end, len(rows))))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(index int, row model.Row, widths []int) string {
	values := []string{
		"",
		row.Description,
		row.StartDate.Dotted(),
		row.EndDate.Dotted(),
		calc.FormatFull(row.PrevWeight),
		calc.FormatFull(row.PrevScore),
		calc.FormatFull(row.PrevEvaluationScore),
		calc.FormatFull(row.Weight),
		calc.FormatFull(row.Score),
		calc.FormatFull(row.EvaluationScore),
	}
	if m.selected[row.ID] {
		values[0] = "●"
	}

	current := index == m.row
	cursorColumn := fieldColumn[model.Fields[m.col]]

	cells := make([]string, len(values))
	for i, v := range values {
		text := cell(v, widths[i], columns[i].right)
		switch {
		case current && i == cursorColumn && m.mode == ModeEdit:
			m.input.Width = widths[i]
			text = cell(m.input.View(), widths[i], false)
			text = m.theme.Highlighted.Render(text)
		case current && i == cursorColumn:
			text = m.theme.Selected.Render(text)
		case i == 0 && m.selected[row.ID]:
			text = m.theme.Marked.Render(text)
		case current:
			text = m.theme.Highlighted.Render(text)
		}
		cells[i] = text
	}
	return strings.Join(cells, m.separator(current))
}

func (m Model) separator(current bool) string {
	if current {
		return m.theme.Highlighted.Render(" ")
	}
	return " "
}

// cell truncates or pads s to exactly width display cells.
func cell(s string, width int, right bool) string {
	s = ansi.Truncate(s, width, "…")
	pad := width - lipgloss.Width(s)
	if pad <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", pad) + s
	}
	return s + strings.Repeat(" ", pad)
}

func (m Model) renderSummary() string {
	tab := m.registry.Active()
	display, err := m.registry.Display(tab.ID)
	if err != nil {
		return m.theme.StatusError.Render(err.Error())
	}

	weights := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Bold.Render("Weight (this tab)"),
		fmt.Sprintf("Previous  %s", calc.FormatPercent(display.PrevWeightTotal)),
		fmt.Sprintf("Current   %s", calc.FormatPercent(display.WeightTotal)),
	)

	global := display.Global
	change := calc.FormatChange(global.Diff)
	switch {
	case global.Diff > 0:
		change = m.theme.Rise.Render(change)
	case global.Diff < 0:
		change = m.theme.Fall.Render(change)
	}

	scores := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Bold.Render(fmt.Sprintf("Score (average of %d tab(s))", global.TabCount)),
		fmt.Sprintf("Previous  %s", calc.FormatTotal(global.PrevAvg)),
		fmt.Sprintf("Current   %s", calc.FormatTotal(global.CurrentAvg)),
		"Change    "+change,
	)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.theme.RoundedBox.Render(weights),
		" ",
		m.theme.RoundedBox.Render(scores),
	)
}

func (m Model) renderStatus() string {
	if m.status.text != "" {
		switch m.status.kind {
		case statusSuccess:
			return m.theme.StatusSuccess.Render("✓ " + m.status.text)
		case statusWarning:
			return m.theme.StatusWarning.Render("⚠ " + m.status.text)
		case statusError:
			return m.theme.StatusError.Render("✗ " + m.status.text)
		default:
			return m.theme.StatusInfo.Render(m.status.text)
		}
	}

	violations := validation.ValidateTab(*m.registry.Active())
	if len(violations) == 0 {
		return m.theme.Subtitle.Render("No problems in this tab.")
	}
	return m.theme.StatusWarning.Render(fmt.Sprintf("⚠ %d problem(s) in this tab: %s", len(violations), violations[0].Message))
}

func (m Model) renderOverlay() string {
	switch m.mode {
	case ModeConfirm:
		if m.confirm == nil {
			return ""
		}
		return m.theme.RoundedBox.Render(m.confirm.message + "\n\n" + m.theme.Bold.Render("[y] yes  [n] no"))
	case ModePath:
		title := "Choose a file"
		if m.path != nil {
			title = m.path.title
		}
		return m.theme.RoundedBox.Render(m.theme.Bold.Render(title) + "\n" + m.input.View() + "\n" +
			m.theme.Subtitle.Render("Enter to confirm, Esc to cancel"))
	case ModeRename:
		return m.theme.RoundedBox.Render(m.theme.Bold.Render("Rename tab") + "\n" + m.input.View())
	case ModeMessage:
		return m.theme.RoundedBox.Render(m.message + "\n\n" + m.theme.Subtitle.Render("Press Enter to continue"))
	default:
		return ""
	}
}
