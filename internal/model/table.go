package model

import (
	"fmt"

	"github.com/Veraticus/scorecard/internal/calc"
)

// Table is the ordered list of rows owned by one tab. Order is insertion
// order and is preserved by every operation.
type Table []Row

// AddRow appends a row with a fresh ID. Values from init are copied when
// given; derived scores are always computed from the copied inputs.
func (t *Table) AddRow(init *Row) Row {
	var row Row
	if init != nil {
		row = *init
	}
	row.ID = NewRowID()
	row.Recompute()
	*t = append(*t, row)
	return row
}

// Index returns the position of the row with id, or -1.
func (t Table) Index(id string) int {
	for i := range t {
		if t[i].ID == id {
			return i
		}
	}
	return -1
}

// Row returns the row with id.
func (t Table) Row(id string) (Row, error) {
	i := t.Index(id)
	if i < 0 {
		return Row{}, fmt.Errorf("%w: %s", ErrRowNotFound, id)
	}
	return t[i], nil
}

// EditField applies raw input to one field of the row with id and stores
// the recomputed row before returning it. The table is untouched when the
// edit is rejected.
func (t Table) EditField(id string, field Field, raw string) (Row, error) {
	i := t.Index(id)
	if i < 0 {
		return Row{}, fmt.Errorf("%w: %s", ErrRowNotFound, id)
	}
	updated, err := t[i].Edit(field, raw)
	if err != nil {
		return t[i], err
	}
	t[i] = updated
	return updated, nil
}

// DeleteRows removes every row whose ID is listed and returns how many were
// removed. IDs that are not present are ignored.
func (t *Table) DeleteRows(ids ...string) int {
	if len(ids) == 0 {
		return 0
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	kept := (*t)[:0]
	removed := 0
	for _, row := range *t {
		if _, ok := drop[row.ID]; ok {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	// Clear the tail so dropped rows are not retained by the backing array.
	for i := len(kept); i < len(*t); i++ {
		(*t)[i] = Row{}
	}
	*t = kept
	return removed
}

// Totals returns the rounded aggregates of the table.
func (t Table) Totals() calc.Summary {
	return calc.Totals(t)
}

// Clone returns an independent copy.
func (t Table) Clone() Table {
	if t == nil {
		return Table{}
	}
	out := make(Table, len(t))
	copy(out, t)
	return out
}
