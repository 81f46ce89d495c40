package cli

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// Table is a borderless text table.
type Table struct {
	writer *tablewriter.Table
}

// NewTable starts a table with the given header.
func NewTable(w io.Writer, header ...string) *Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	return &Table{writer: table}
}

// AlignRight right-aligns the given zero-based columns. Call it before
// Render.
func (t *Table) AlignRight(columns int, right ...int) *Table {
	alignment := make([]int, columns)
	for i := range alignment {
		alignment[i] = tablewriter.ALIGN_LEFT
	}
	for _, c := range right {
		if c >= 0 && c < columns {
			alignment[c] = tablewriter.ALIGN_RIGHT
		}
	}
	t.writer.SetColumnAlignment(alignment)
	return t
}

// Append adds one row.
func (t *Table) Append(row ...string) {
	t.writer.Append(row)
}

// Footer sets the footer row.
func (t *Table) Footer(row ...string) {
	t.writer.SetFooter(row)
}

// Render writes the table.
func (t *Table) Render() {
	t.writer.Render()
}
