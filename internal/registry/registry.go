// Package registry owns the ordered tabs of the open document, which one is
// active, and the summaries derived across them.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/scorecard/internal/model"
)

// Registry errors.
var (
	ErrLastTab     = errors.New("at least one tab is required")
	ErrTabNotFound = errors.New("tab not found")
)

// Registry holds the document being edited. It is not safe for concurrent
// use; callers take a Document snapshot before handing data to anything
// that runs on another goroutine.
type Registry struct {
	defaultName string
	activeID    string
	tabs        []*model.Tab
	nextID      int
}

// Option configures a Registry.
type Option func(*Registry)

// WithDefaultTabName sets the name of the tab a fresh registry starts with.
func WithDefaultTabName(name string) Option {
	return func(r *Registry) {
		if strings.TrimSpace(name) != "" {
			r.defaultName = name
		}
	}
}

// New returns a registry holding a single default tab with one blank row.
func New(opts ...Option) *Registry {
	r := &Registry{defaultName: model.DefaultTabName}
	for _, opt := range opts {
		opt(r)
	}
	r.CreateTab(r.defaultName)
	return r
}

// CreateTab appends a tab with one blank row and makes it active. A blank
// name gets a counter-based placeholder.
func (r *Registry) CreateTab(name string) *model.Tab {
	id := r.newTabID()
	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("Tab %d", r.nextID)
	}

	tab := &model.Tab{ID: id, Name: name, TableData: model.Table{}}
	tab.TableData.AddRow(nil)

	r.tabs = append(r.tabs, tab)
	r.activeID = id

	slog.Debug("tab created", "id", id, "name", name)
	return tab
}

// RenameTab replaces the tab's name. Blank names are ignored and reported
// as false.
func (r *Registry) RenameTab(id, name string) (bool, error) {
	tab, err := r.Tab(id)
	if err != nil {
		return false, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}
	tab.Name = name
	return true, nil
}

// CloseTab removes a tab. The last remaining tab cannot be closed. When the
// active tab closes, the tab before it (or the first one) becomes active.
func (r *Registry) CloseTab(id string) error {
	if len(r.tabs) <= 1 {
		return ErrLastTab
	}
	idx := r.index(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrTabNotFound, id)
	}

	r.tabs = append(r.tabs[:idx], r.tabs[idx+1:]...)

	if r.activeID == id {
		r.activeID = ""
		if len(r.tabs) > 0 {
			r.activeID = r.tabs[max(0, idx-1)].ID
		}
	}

	slog.Debug("tab closed", "id", id, "remaining", len(r.tabs))
	return nil
}

// Load replaces every tab with the supplied list, resets the ID counter and
// activates the first tab. Rows without an ID get one. An empty list falls
// back to a single default tab.
func (r *Registry) Load(tabs []model.Tab) {
	r.tabs = nil
	r.activeID = ""
	r.nextID = 0

	if len(tabs) == 0 {
		r.CreateTab(r.defaultName)
		return
	}

	for _, src := range tabs {
		tab := src.Clone()
		tab.ID = r.newTabID()
		if strings.TrimSpace(tab.Name) == "" {
			tab.Name = fmt.Sprintf("Tab %d", r.nextID)
		}
		for i := range tab.TableData {
			if tab.TableData[i].ID == "" {
				tab.TableData[i].ID = model.NewRowID()
			}
		}
		r.tabs = append(r.tabs, &tab)
	}
	r.activeID = r.tabs[0].ID

	slog.Debug("document loaded", "tabs", len(r.tabs))
}

// Tabs returns the live tabs in order.
func (r *Registry) Tabs() []*model.Tab {
	return r.tabs
}

// Len returns the number of tabs.
func (r *Registry) Len() int {
	return len(r.tabs)
}

// Tab returns the tab with id.
func (r *Registry) Tab(id string) (*model.Tab, error) {
	idx := r.index(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrTabNotFound, id)
	}
	return r.tabs[idx], nil
}

// FindByName returns the first tab whose name matches, ignoring case.
func (r *Registry) FindByName(name string) (*model.Tab, error) {
	for _, tab := range r.tabs {
		if strings.EqualFold(tab.Name, strings.TrimSpace(name)) {
			return tab, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrTabNotFound, name)
}

// Active returns the active tab, or nil when there is none.
func (r *Registry) Active() *model.Tab {
	idx := r.index(r.activeID)
	if idx < 0 {
		return nil
	}
	return r.tabs[idx]
}

// ActiveIndex returns the position of the active tab, or -1.
func (r *Registry) ActiveIndex() int {
	return r.index(r.activeID)
}

// Activate makes the tab with id active.
func (r *Registry) Activate(id string) error {
	if r.index(id) < 0 {
		return fmt.Errorf("%w: %s", ErrTabNotFound, id)
	}
	r.activeID = id
	return nil
}

// Document returns a deep copy of the current state.
func (r *Registry) Document() model.Document {
	tabs := make([]model.Tab, len(r.tabs))
	for i, tab := range r.tabs {
		tabs[i] = tab.Clone()
	}
	return model.Document{Tabs: tabs}
}

// AddRow appends a row to a tab.
func (r *Registry) AddRow(tabID string, init *model.Row) (model.Row, error) {
	tab, err := r.Tab(tabID)
	if err != nil {
		return model.Row{}, err
	}
	return tab.TableData.AddRow(init), nil
}

// EditField edits one field of a row and returns the recomputed row.
func (r *Registry) EditField(tabID, rowID string, field model.Field, raw string) (model.Row, error) {
	tab, err := r.Tab(tabID)
	if err != nil {
		return model.Row{}, err
	}
	return tab.TableData.EditField(rowID, field, raw)
}

// DeleteRows removes rows from a tab and returns how many were removed.
func (r *Registry) DeleteRows(tabID string, rowIDs ...string) (int, error) {
	tab, err := r.Tab(tabID)
	if err != nil {
		return 0, err
	}
	return tab.TableData.DeleteRows(rowIDs...), nil
}

func (r *Registry) newTabID() string {
	id := fmt.Sprintf("tab-%d", r.nextID)
	r.nextID++
	return id
}

func (r *Registry) index(id string) int {
	if id == "" {
		return -1
	}
	for i, tab := range r.tabs {
		if tab.ID == id {
			return i
		}
	}
	return -1
}
