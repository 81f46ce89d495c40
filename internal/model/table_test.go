package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_AddRow(t *testing.T) {
	var table Table

	blank := table.AddRow(nil)
	assert.NotEmpty(t, blank.ID)
	assert.Equal(t, 0.0, blank.EvaluationScore)

	seeded := table.AddRow(&Row{ID: "ignored", Description: "seeded", Weight: 20, Score: 50, EvaluationScore: 999})
	assert.NotEqual(t, "ignored", seeded.ID)
	assert.Equal(t, 10.0, seeded.EvaluationScore)

	require.Len(t, table, 2)
	assert.Equal(t, blank.ID, table[0].ID)
	assert.Equal(t, seeded.ID, table[1].ID)
}

func TestTable_EditField(t *testing.T) {
	var table Table
	row := table.AddRow(nil)

	updated, err := table.EditField(row.ID, FieldWeight, "25")
	require.NoError(t, err)
	assert.Equal(t, 25.0, updated.Weight)
	assert.Equal(t, 25.0, table[0].Weight)

	_, err = table.EditField(row.ID, FieldScore, "80")
	require.NoError(t, err)
	assert.Equal(t, 20.0, table[0].EvaluationScore)
	assert.Equal(t, 20.0, table.Totals().CurrentScoreTotal)

	_, err = table.EditField("missing", FieldScore, "1")
	assert.ErrorIs(t, err, ErrRowNotFound)

	_, err = table.EditField(row.ID, FieldEndDate, "2024.02.30")
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.True(t, table[0].EndDate.IsZero())
}

func TestTable_DeleteRows(t *testing.T) {
	var table Table
	a := table.AddRow(&Row{Description: "a"})
	b := table.AddRow(&Row{Description: "b"})
	c := table.AddRow(&Row{Description: "c"})
	d := table.AddRow(&Row{Description: "d"})

	removed := table.DeleteRows(b.ID, d.ID, "not-there")

	assert.Equal(t, 2, removed)
	require.Len(t, table, 2)
	assert.Equal(t, a.ID, table[0].ID)
	assert.Equal(t, c.ID, table[1].ID)

	assert.Equal(t, 0, table.DeleteRows())
	assert.Equal(t, 0, table.DeleteRows("nope"))
	assert.Len(t, table, 2)
}

func TestDocument_CloneIsIndependent(t *testing.T) {
	doc := Document{Tabs: []Tab{{ID: "tab-0", Name: "A", TableData: Table{{ID: "r1", Weight: 10}}}}}

	clone := doc.Clone()
	clone.Tabs[0].TableData[0].Weight = 99
	clone.Tabs[0].Name = "B"

	assert.Equal(t, 10.0, doc.Tabs[0].TableData[0].Weight)
	assert.Equal(t, "A", doc.Tabs[0].Name)
	assert.Equal(t, 1, doc.RowCount())
}
