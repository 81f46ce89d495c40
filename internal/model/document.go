package model

// Tab is a named category with its own table.
type Tab struct {
	ID        string `json:"-"`
	Name      string `json:"name"`
	TableData Table  `json:"tableData"`
}

// Clone returns a deep copy of the tab.
func (t Tab) Clone() Tab {
	t.TableData = t.TableData.Clone()
	return t
}

// Document is the complete set of tabs that is saved as one file.
type Document struct {
	Tabs []Tab
}

// Clone returns a deep copy, safe to hand to another goroutine while the
// original keeps being edited.
func (d Document) Clone() Document {
	tabs := make([]Tab, len(d.Tabs))
	for i, tab := range d.Tabs {
		tabs[i] = tab.Clone()
	}
	return Document{Tabs: tabs}
}

// RowCount returns the number of rows across all tabs.
func (d Document) RowCount() int {
	n := 0
	for _, tab := range d.Tabs {
		n += len(tab.TableData)
	}
	return n
}
