package codec

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/Veraticus/scorecard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, raw string) model.Date {
	t.Helper()
	d, err := model.ParseDate(raw)
	require.NoError(t, err)
	return d
}

func encodeJSON(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(raw)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	doc := model.Document{Tabs: []model.Tab{
		{Name: "시스템개발", TableData: model.Table{
			{
				ID: "row-1", Description: "Billing rewrite\nphase 2",
				StartDate: mustDate(t, "2024.01.05"), EndDate: mustDate(t, "2024-03-31"),
				Weight: 40, Score: 85.5, EvaluationScore: 34.2,
				PrevWeight: 30, PrevScore: 70, PrevEvaluationScore: 21,
			},
			{ID: "row-2", Weight: 60, Score: 90, EvaluationScore: 54},
		}},
		{Name: "Operations", TableData: model.Table{}},
	}}
	savedAt := time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC)

	blob, err := Encode(doc, savedAt)
	require.NoError(t, err)

	decoded, err := Decode(blob)
	require.NoError(t, err)

	assert.Equal(t, ShapeVersioned, decoded.Shape)
	assert.Equal(t, CurrentVersion, decoded.Version)
	assert.True(t, savedAt.Equal(decoded.SavedAt))
	assert.Equal(t, doc, decoded.Document)
}

func TestEncode_PayloadLayout(t *testing.T) {
	doc := model.Document{Tabs: []model.Tab{{ID: "tab-0", Name: "A"}}}

	blob, err := Encode(doc, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(blob)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "2.0", got["version"])
	assert.Equal(t, "2024-01-02T03:04:05.000Z", got["savedAt"])

	tabs := got["tabs"].([]any)
	require.Len(t, tabs, 1)
	tab := tabs[0].(map[string]any)
	assert.Equal(t, "A", tab["name"])
	assert.Equal(t, []any{}, tab["tableData"])
	assert.NotContains(t, tab, "id")

	// The caller's document is not modified to fill the empty table.
	assert.Nil(t, doc.Tabs[0].TableData)
}

func TestDecode_Legacy(t *testing.T) {
	blob := encodeJSON(t, map[string]any{
		"data": []map[string]any{{
			"id": "r1", "description": "x", "startDate": "2023-02-01", "endDate": "",
			"weight": 10, "score": 50, "evaluationScore": 5,
			"prevWeight": 0, "prevScore": 0, "prevEvaluationScore": 0,
		}},
	})

	decoded, err := Decode(blob)
	require.NoError(t, err)

	assert.Equal(t, ShapeLegacy, decoded.Shape)
	assert.Empty(t, decoded.Version)
	require.Len(t, decoded.Document.Tabs, 1)
	tab := decoded.Document.Tabs[0]
	assert.Equal(t, model.DefaultTabName, tab.Name)
	require.Len(t, tab.TableData, 1)
	assert.Equal(t, model.Row{
		ID: "r1", Description: "x", StartDate: mustDate(t, "2023-02-01"),
		Weight: 10, Score: 50, EvaluationScore: 5,
	}, tab.TableData[0])
}

func TestDecode_LegacyStringNumbers(t *testing.T) {
	blob := encodeJSON(t, map[string]any{
		"data": []map[string]any{{"description": "y", "weight": "25", "score": ""}},
	})

	decoded, err := Decode(blob)
	require.NoError(t, err)

	row := decoded.Document.Tabs[0].TableData[0]
	assert.Equal(t, 25.0, row.Weight)
	assert.Equal(t, 0.0, row.Score)
}

func TestDecode_IgnoresWhitespace(t *testing.T) {
	blob, err := Encode(model.Document{Tabs: []model.Tab{{Name: "A"}}}, time.Now())
	require.NoError(t, err)

	wrapped := ""
	for i := 0; i < len(blob); i += 20 {
		end := min(i+20, len(blob))
		wrapped += blob[i:end] + "\r\n"
	}

	decoded, err := Decode("  " + wrapped)
	require.NoError(t, err)
	assert.Equal(t, "A", decoded.Document.Tabs[0].Name)
}

func TestDecode_Failures(t *testing.T) {
	tests := []struct {
		name    string
		blob    string
		wantErr error
	}{
		{name: "empty", blob: "", wantErr: ErrMalformedBase64},
		{name: "not base64", blob: "%%%not-base64%%%", wantErr: ErrMalformedBase64},
		{name: "not json", blob: base64.StdEncoding.EncodeToString([]byte("hello")), wantErr: ErrMalformedJSON},
		{name: "json array", blob: base64.StdEncoding.EncodeToString([]byte(`[1,2]`)), wantErr: ErrMalformedJSON},
		{name: "empty object", blob: encodeJSON(t, map[string]any{}), wantErr: ErrUnknownShape},
		{name: "version without tabs", blob: encodeJSON(t, map[string]any{"version": "2.0"}), wantErr: ErrUnknownShape},
		{name: "tabs without version", blob: encodeJSON(t, map[string]any{"tabs": []any{}}), wantErr: ErrUnknownShape},
		{name: "null data", blob: encodeJSON(t, map[string]any{"data": nil}), wantErr: ErrUnknownShape},
		{name: "tabs wrong type", blob: encodeJSON(t, map[string]any{"version": "2.0", "tabs": "nope"}), wantErr: ErrMalformedJSON},
		{name: "data wrong type", blob: encodeJSON(t, map[string]any{"data": 12}), wantErr: ErrMalformedJSON},
		{name: "future version", blob: encodeJSON(t, map[string]any{"version": "9.9", "tabs": []any{map[string]any{"name": "A", "tableData": []any{}}}}), wantErr: ErrUnsupportedVersion},
		{name: "blank version", blob: encodeJSON(t, map[string]any{"version": "", "tabs": []any{}}), wantErr: ErrUnsupportedVersion},
		{name: "tabs and data together", blob: encodeJSON(t, map[string]any{"version": "2.0", "tabs": []any{}, "data": []any{}}), wantErr: ErrUnknownShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := Decode(tt.blob)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrDecode)
			assert.Empty(t, decoded.Document.Tabs)
		})
	}
}

func TestSniff(t *testing.T) {
	legacy := encodeJSON(t, map[string]any{"data": []any{}})
	current, err := Encode(model.Document{Tabs: []model.Tab{{Name: "A"}}}, time.Now())
	require.NoError(t, err)

	shape, err := Sniff(legacy)
	require.NoError(t, err)
	assert.Equal(t, ShapeLegacy, shape)
	assert.Equal(t, "legacy", shape.String())

	shape, err = Sniff(current)
	require.NoError(t, err)
	assert.Equal(t, ShapeVersioned, shape)
}
