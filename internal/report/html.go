package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
)

//go:embed templates/*
var templateFS embed.FS

// FallbackStylesheet is used when no stylesheet can be read.
const FallbackStylesheet = "body { padding: 20px; font-family: sans-serif; }"

// DefaultTitle heads the report when none is configured.
const DefaultTitle = "Performance Summary for Career Description"

var reportTemplate = template.Must(
	template.New("report.html.tmpl").ParseFS(templateFS, "templates/report.html.tmpl"),
)

// Markup renders the report as a standalone HTML document.
type Markup struct {
	stylesheet string
}

// MarkupOption configures Markup.
type MarkupOption func(*Markup)

// WithStylesheet uses css instead of the built-in stylesheet.
func WithStylesheet(css string) MarkupOption {
	return func(m *Markup) {
		m.stylesheet = css
	}
}

// WithStylesheetFile reads the stylesheet from path. An unreadable file
// falls back to FallbackStylesheet.
func WithStylesheetFile(path string) MarkupOption {
	return func(m *Markup) {
		if path == "" {
			return
		}
		css, err := os.ReadFile(path) //nolint:gosec // user-configured stylesheet
		if err != nil {
			slog.Warn("report stylesheet unreadable, using fallback", "path", path, "error", err)
			m.stylesheet = FallbackStylesheet
			return
		}
		m.stylesheet = string(css)
	}
}

// NewMarkup returns a Markup using the embedded stylesheet unless an option
// overrides it.
func NewMarkup(opts ...MarkupOption) *Markup {
	m := &Markup{}
	css, err := templateFS.ReadFile("templates/report.css")
	if err != nil {
		css = []byte(FallbackStylesheet)
	}
	m.stylesheet = string(css)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type templateData struct {
	Report
	Stylesheet template.CSS
}

// Render executes the HTML template for r.
func (m *Markup) Render(r Report) ([]byte, error) {
	if r.Title == "" {
		r.Title = DefaultTitle
	}
	var buf bytes.Buffer
	data := templateData{Report: r, Stylesheet: template.CSS(m.stylesheet)} //nolint:gosec // stylesheet comes from config
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}
