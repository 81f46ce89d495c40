// Package codec reads and writes the on-disk document format: base64 text
// wrapping a versioned JSON payload. The base64 layer is obfuscation only.
package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/scorecard/internal/model"
)

// CurrentVersion is written into every encoded document.
const CurrentVersion = "2.0"

// Decode errors. Every failure returned by Decode wraps ErrDecode.
var (
	ErrDecode             = errors.New("failed to decode document")
	ErrMalformedBase64    = fmt.Errorf("%w: malformed base64", ErrDecode)
	ErrMalformedJSON      = fmt.Errorf("%w: malformed JSON", ErrDecode)
	ErrUnknownShape       = fmt.Errorf("%w: unrecognized document shape", ErrDecode)
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported version", ErrDecode)
)

// Shape identifies which payload layout a blob used.
type Shape int

const (
	// ShapeVersioned is the tabbed {version, savedAt, tabs} layout.
	ShapeVersioned Shape = iota
	// ShapeLegacy is the single-table {data: [...]} layout.
	ShapeLegacy
)

func (s Shape) String() string {
	switch s {
	case ShapeVersioned:
		return "versioned"
	case ShapeLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// Decoded is the result of a successful Decode.
type Decoded struct {
	Shape    Shape
	Version  string
	SavedAt  time.Time
	Document model.Document
}

type payload struct {
	Version string      `json:"version"`
	SavedAt string      `json:"savedAt"`
	Tabs    []model.Tab `json:"tabs"`
}

// envelope holds the raw top-level members so the layout can be matched
// before any rows are parsed.
type envelope struct {
	Version *string         `json:"version"`
	SavedAt string          `json:"savedAt"`
	Tabs    json.RawMessage `json:"tabs"`
	Data    json.RawMessage `json:"data"`
}

// Encode serializes doc as the current version and returns the base64 text.
func Encode(doc model.Document, savedAt time.Time) (string, error) {
	tabs := doc.Tabs
	if tabs == nil {
		tabs = []model.Tab{}
	}
	for i := range tabs {
		if tabs[i].TableData == nil {
			tabs = cloneTabs(tabs)
			break
		}
	}

	p := payload{
		Version: CurrentVersion,
		SavedAt: savedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Tabs:    tabs,
	}

	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Decode parses base64 text produced by Encode or by the legacy writer.
// Whitespace inside the blob is ignored. No partial document is returned
// on failure.
func Decode(blob string) (Decoded, error) {
	raw, err := decodeBase64(blob)
	if err != nil {
		return Decoded{}, err
	}
	return DecodeJSON(raw)
}

// DecodeJSON parses the JSON payload without the base64 layer.
func DecodeJSON(raw []byte) (Decoded, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Decoded{}, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	shape := env.shape()
	decode, ok := shapes[shape]
	if !ok {
		return Decoded{}, ErrUnknownShape
	}
	if shape == ShapeVersioned && *env.Version != CurrentVersion {
		return Decoded{}, fmt.Errorf("%w %q", ErrUnsupportedVersion, *env.Version)
	}
	return decode(env)
}

// Sniff reports which layout a blob uses without keeping the rows.
func Sniff(blob string) (Shape, error) {
	decoded, err := Decode(blob)
	if err != nil {
		return 0, err
	}
	return decoded.Shape, nil
}

const shapeNone Shape = -1

func (e envelope) shape() Shape {
	switch {
	case e.Version != nil && present(e.Tabs) && !present(e.Data):
		return ShapeVersioned
	case e.Version == nil && !present(e.Tabs) && present(e.Data):
		return ShapeLegacy
	default:
		return shapeNone
	}
}

var shapes = map[Shape]func(envelope) (Decoded, error){
	ShapeVersioned: decodeVersioned,
	ShapeLegacy:    decodeLegacy,
}

func decodeVersioned(env envelope) (Decoded, error) {
	var tabs []model.Tab
	if err := json.Unmarshal(env.Tabs, &tabs); err != nil {
		return Decoded{}, fmt.Errorf("%w: tabs: %v", ErrMalformedJSON, err)
	}
	for i := range tabs {
		if tabs[i].TableData == nil {
			tabs[i].TableData = model.Table{}
		}
	}

	out := Decoded{
		Shape:    ShapeVersioned,
		Version:  *env.Version,
		Document: model.Document{Tabs: tabs},
	}
	if env.SavedAt != "" {
		if ts, err := time.Parse(time.RFC3339Nano, env.SavedAt); err == nil {
			out.SavedAt = ts
		}
	}
	return out, nil
}

func decodeLegacy(env envelope) (Decoded, error) {
	var rows model.Table
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		return Decoded{}, fmt.Errorf("%w: data: %v", ErrMalformedJSON, err)
	}
	if rows == nil {
		rows = model.Table{}
	}
	return Decoded{
		Shape: ShapeLegacy,
		Document: model.Document{Tabs: []model.Tab{
			{Name: model.DefaultTabName, TableData: rows},
		}},
	}, nil
}

func decodeBase64(blob string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, blob)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedBase64)
	}

	raw, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBase64, err)
	}
	return raw, nil
}

// present reports whether a raw member was supplied and is not null.
func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func cloneTabs(tabs []model.Tab) []model.Tab {
	out := make([]model.Tab, len(tabs))
	for i, tab := range tabs {
		out[i] = tab.Clone()
	}
	return out
}
