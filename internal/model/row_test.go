package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseField(t *testing.T) {
	f, err := ParseField("PrevWeight")
	require.NoError(t, err)
	assert.Equal(t, FieldPrevWeight, f)

	_, err = ParseField("evaluationScore")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestRow_EditRecomputes(t *testing.T) {
	row := Row{ID: "r1"}

	row, err := row.Edit(FieldWeight, "40")
	require.NoError(t, err)
	assert.Equal(t, 0.0, row.EvaluationScore)

	row, err = row.Edit(FieldScore, "90")
	require.NoError(t, err)
	assert.Equal(t, 36.0, row.EvaluationScore)

	row, err = row.Edit(FieldPrevWeight, "50")
	require.NoError(t, err)
	row, err = row.Edit(FieldPrevScore, "70")
	require.NoError(t, err)
	assert.Equal(t, 35.0, row.PrevEvaluationScore)
	assert.Equal(t, 36.0, row.EvaluationScore)

	row, err = row.Edit(FieldScore, "not a number")
	require.NoError(t, err)
	assert.Equal(t, 0.0, row.Score)
	assert.Equal(t, 0.0, row.EvaluationScore)
}

func TestRow_EditText(t *testing.T) {
	row, err := Row{}.Edit(FieldDescription, "  keeps raw\ntext ")
	require.NoError(t, err)
	assert.Equal(t, "  keeps raw\ntext ", row.Description)
}

func TestRow_EditDates(t *testing.T) {
	row, err := Row{}.Edit(FieldStartDate, "2024.01.05")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", row.StartDate.String())

	rejected, err := row.Edit(FieldStartDate, "2024.13.01")
	require.ErrorIs(t, err, ErrInvalidDate)
	assert.Equal(t, "2024-01-05", rejected.StartDate.String())

	cleared, err := row.Edit(FieldStartDate, "")
	require.NoError(t, err)
	assert.True(t, cleared.StartDate.IsZero())

	row, err = row.Edit(FieldEndDate, "2024-06-30")
	require.NoError(t, err)
	assert.Equal(t, "2024.06.30", row.Value(FieldEndDate))
}

func TestRow_EditUnknownField(t *testing.T) {
	_, err := Row{}.Edit(Field("evaluationScore"), "10")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestRow_Predicates(t *testing.T) {
	assert.False(t, Row{}.IsFilled())
	assert.False(t, Row{Description: "   "}.IsFilled())
	assert.True(t, Row{Weight: 1}.IsFilled())
	assert.True(t, Row{Score: 1}.IsFilled())
	assert.True(t, Row{Description: "x"}.IsFilled())

	end, _ := ParseDate("2024.01.01")
	assert.False(t, Row{Weight: 10}.HasContent())
	assert.True(t, Row{EndDate: end}.HasContent())
}

func TestRow_UnmarshalTolerant(t *testing.T) {
	input := `{"id":"r","description":"x","startDate":"2024-01-05","endDate":"",
		"weight":"10","score":50,"evaluationScore":5,"prevWeight":null,"prevScore":"","prevEvaluationScore":0}`

	var row Row
	require.NoError(t, json.Unmarshal([]byte(input), &row))

	assert.Equal(t, "r", row.ID)
	assert.Equal(t, 10.0, row.Weight)
	assert.Equal(t, 50.0, row.Score)
	assert.Equal(t, 5.0, row.EvaluationScore)
	assert.Equal(t, 0.0, row.PrevWeight)
	assert.Equal(t, 0.0, row.PrevScore)
	assert.Equal(t, "2024-01-05", row.StartDate.String())
	assert.True(t, row.EndDate.IsZero())
}

func TestRow_MarshalUsesPersistedKeys(t *testing.T) {
	data, err := json.Marshal(Row{ID: "r", Weight: 10, Score: 50, EvaluationScore: 5})
	require.NoError(t, err)

	for _, key := range []string{"id", "description", "startDate", "endDate", "weight", "score",
		"evaluationScore", "prevWeight", "prevScore", "prevEvaluationScore"} {
		assert.True(t, strings.Contains(string(data), `"`+key+`"`), key)
	}
}

func TestNewRowID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewRowID()
		assert.False(t, seen[id])
		seen[id] = true
	}
}
