// Package report projects a document into the printable activity summary:
// one line per row that has content, with category, period and outcome.
package report

import (
	"html/template"
	"strings"
	"time"

	"github.com/Veraticus/scorecard/internal/model"
)

// Period placeholders.
const (
	NoPeriod   = "-"
	InProgress = "(in progress)"
)

// Row is one line of the report.
type Row struct {
	Category    string
	Period      string
	Description string
}

// DescriptionHTML returns the description escaped for HTML with line breaks
// turned into <br> elements.
func (r Row) DescriptionHTML() template.HTML {
	escaped := template.HTMLEscapeString(r.Description)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>")) //nolint:gosec // input escaped above
}

// Report is the structured content handed to the markup template.
type Report struct {
	Title       string
	TotalPeriod string
	PrintedAt   time.Time
	Rows        []Row
}

// PrintDate formats the print date as "YYYY. MM. DD".
func (r Report) PrintDate() string {
	return r.PrintedAt.Format("2006. 01. 02")
}

// Build assembles the report for doc.
func Build(doc model.Document, title string, now time.Time) Report {
	return Report{
		Title:       title,
		TotalPeriod: ComputeTotalPeriod(doc),
		PrintedAt:   now,
		Rows:        BuildRows(doc),
	}
}

// ComputeTotalPeriod returns the span from the earliest start date to the
// latest end date across every row of every tab.
func ComputeTotalPeriod(doc model.Document) string {
	var earliest, latest model.Date
	for _, tab := range doc.Tabs {
		for _, row := range tab.TableData {
			if !row.StartDate.IsZero() && (earliest.IsZero() || row.StartDate.Before(earliest)) {
				earliest = row.StartDate
			}
			if !row.EndDate.IsZero() && (latest.IsZero() || row.EndDate.After(latest)) {
				latest = row.EndDate
			}
		}
	}

	switch {
	case !earliest.IsZero() && !latest.IsZero():
		return earliest.Dotted() + " ~ " + latest.Dotted()
	case !earliest.IsZero():
		return earliest.Dotted() + " ~ " + InProgress
	case !latest.IsZero():
		return "~ " + latest.Dotted()
	default:
		return NoPeriod
	}
}

// BuildRows flattens the rows of every tab in tab order, skipping rows with
// no description and no dates.
func BuildRows(doc model.Document) []Row {
	var rows []Row
	for _, tab := range doc.Tabs {
		for _, row := range tab.TableData {
			if !row.HasContent() {
				continue
			}
			rows = append(rows, Row{
				Category:    tab.Name,
				Period:      RowPeriod(row.StartDate, row.EndDate),
				Description: row.Description,
			})
		}
	}
	return rows
}

// RowPeriod formats the period of a single row.
func RowPeriod(start, end model.Date) string {
	switch {
	case !start.IsZero() && !end.IsZero():
		return start.Dotted() + " ~ " + end.Dotted()
	case !start.IsZero():
		return start.Dotted() + " ~"
	case !end.IsZero():
		return "~ " + end.Dotted()
	default:
		return NoPeriod
	}
}
