// Package testutil builds evaluation documents, encoded files and databases
// for tests.
//
// Example:
//
//	doc := testutil.NewDocument(t).
//		Tab("Platform").
//		Row("CI pipeline", 60, 90).Dated("2024.01.02", "2024.06.30").
//		Row("On-call", 40, 50).
//		Tab("Support").
//		Build()
package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/Veraticus/scorecard/internal/codec"
	"github.com/Veraticus/scorecard/internal/model"
	"github.com/Veraticus/scorecard/internal/registry"
)

// SavedAt is the timestamp written into every encoded test document.
var SavedAt = time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)

// DocumentBuilder assembles a model.Document one tab and row at a time.
// Rows get stable IDs ("r1", "r2", ...) and recomputed scores.
type DocumentBuilder struct {
	t    testing.TB
	tabs []model.Tab
	rows int
}

// NewDocument starts an empty document.
func NewDocument(t testing.TB) *DocumentBuilder {
	t.Helper()
	return &DocumentBuilder{t: t}
}

// Tab starts a new tab; following rows go into it.
func (b *DocumentBuilder) Tab(name string) *DocumentBuilder {
	b.tabs = append(b.tabs, model.Tab{Name: name, TableData: model.Table{}})
	return b
}

// Row appends a row with current-period figures only.
func (b *DocumentBuilder) Row(description string, weight, score float64) *DocumentBuilder {
	return b.Scored(description, weight, score, 0, 0)
}

// Scored appends a row with current and previous figures.
func (b *DocumentBuilder) Scored(description string, weight, score, prevWeight, prevScore float64) *DocumentBuilder {
	b.t.Helper()
	if len(b.tabs) == 0 {
		b.Tab(model.DefaultTabName)
	}

	b.rows++
	row := model.Row{
		ID:          "r" + strconv.Itoa(b.rows),
		Description: description,
		Weight:      weight,
		Score:       score,
		PrevWeight:  prevWeight,
		PrevScore:   prevScore,
	}
	row.Recompute()

	tab := &b.tabs[len(b.tabs)-1]
	tab.TableData = append(tab.TableData, row)
	return b
}

// Dated sets the period of the last row. Either bound may be empty.
func (b *DocumentBuilder) Dated(start, end string) *DocumentBuilder {
	b.t.Helper()
	row := b.lastRow()

	var err error
	if row.StartDate, err = model.ParseDate(start); err != nil {
		b.t.Fatalf("bad start date %q: %v", start, err)
	}
	if row.EndDate, err = model.ParseDate(end); err != nil {
		b.t.Fatalf("bad end date %q: %v", end, err)
	}
	return b
}

func (b *DocumentBuilder) lastRow() *model.Row {
	b.t.Helper()
	if len(b.tabs) == 0 || len(b.tabs[len(b.tabs)-1].TableData) == 0 {
		b.t.Fatalf("no row to modify")
	}
	table := b.tabs[len(b.tabs)-1].TableData
	return &table[len(table)-1]
}

// Build returns a copy of the document built so far.
func (b *DocumentBuilder) Build() model.Document {
	return model.Document{Tabs: b.tabs}.Clone()
}

// Registry loads the document into a fresh registry.
func (b *DocumentBuilder) Registry() *registry.Registry {
	reg := registry.New()
	reg.Load(b.Build().Tabs)
	return reg
}

// Encoded returns the document in the persisted text format.
func (b *DocumentBuilder) Encoded() string {
	b.t.Helper()
	text, err := codec.Encode(b.Build(), SavedAt)
	if err != nil {
		b.t.Fatalf("failed to encode document: %v", err)
	}
	return text
}

// WriteFile writes the encoded document to name inside dir and returns the
// full path.
func (b *DocumentBuilder) WriteFile(dir, name string) string {
	b.t.Helper()
	return WriteFile(b.t, dir, name, b.Encoded())
}

// WriteFile writes text to name inside dir and returns the full path.
func WriteFile(t testing.TB, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
