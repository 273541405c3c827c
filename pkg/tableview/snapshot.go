package tableview

import (
	"fmt"
	"slices"

	"github.com/mesh-intelligence/tabula/pkg/types"
)

// Header is a visible column as a host renders it.
type Header struct {
	Key       string              `json:"key"`
	Label     string              `json:"label"`
	Sortable  bool                `json:"sortable"`
	Active    bool                `json:"active"`
	Direction types.SortDirection `json:"direction,omitempty"`
}

// Indicator returns the sort arrow for an active column and "" otherwise.
func (h Header) Indicator() string {
	if !h.Active {
		return ""
	}
	return h.Direction.Arrow()
}

// Row is one record on the current page.
type Row struct {
	ID       string   `json:"id"`
	Position int      `json:"position"` // zero-based position in the filtered set
	Cells    []string `json:"cells"`    // display values of the visible columns
	Selected bool     `json:"selected"`
}

// Snapshot is everything a host needs to draw the view at one moment.
type Snapshot struct {
	Columns       []Header          `json:"columns"`
	Rows          []Row             `json:"rows"`
	Page          int               `json:"page"`
	TotalPages    int               `json:"total_pages"`
	PageSize      int               `json:"page_size"`
	PageSizes     []int             `json:"page_sizes"`
	HasPrev       bool              `json:"has_prev"`
	HasNext       bool              `json:"has_next"`
	Total         int               `json:"total"`
	Records       int               `json:"records"`
	Query         string            `json:"query"`
	Sort          types.SortSpec    `json:"sort"`
	Selectable    bool              `json:"selectable"`
	PageSelection types.SelectState `json:"page_selection"`
	SelectedCount int               `json:"selected_count"`
	VisibleCount  int               `json:"visible_count"`
	ColumnCount   int               `json:"column_count"`
	Summary       string            `json:"summary"`
}

// Snapshot captures the current page and its surrounding state.
func (v *View[T]) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	visible := v.visibleIndexes()
	headers := make([]Header, 0, len(visible))
	for _, c := range visible {
		col := v.columns[c]
		h := Header{Key: col.Key, Label: col.Label, Sortable: col.Sortable()}
		if v.sort.Key == col.Key {
			h.Active = true
			h.Direction = v.sort.Direction
		}
		headers = append(headers, h)
	}

	start, end := v.pageBounds()
	rows := make([]Row, 0, end-start)
	for pos := start; pos < end; pos++ {
		i := v.filtered[pos]
		cells := make([]string, len(visible))
		for j, c := range visible {
			cells[j] = v.cells[i][c]
		}
		rows = append(rows, Row{
			ID:       v.ids[i],
			Position: pos,
			Cells:    cells,
			Selected: v.selected[v.ids[i]],
		})
	}

	total := v.totalPages()
	return Snapshot{
		Columns:       headers,
		Rows:          rows,
		Page:          v.page,
		TotalPages:    total,
		PageSize:      v.pageSize,
		PageSizes:     slices.Clone(v.pageSizes),
		HasPrev:       v.page > 1,
		HasNext:       v.page < total,
		Total:         len(v.filtered),
		Records:       len(v.records),
		Query:         v.query,
		Sort:          v.sort,
		Selectable:    v.selectable,
		PageSelection: v.pageSelection(v.pageIDs()),
		SelectedCount: len(v.selected),
		VisibleCount:  len(visible),
		ColumnCount:   len(v.columns),
		Summary:       summary(len(v.filtered), v.query),
	}
}

// summary renders the results line, e.g. `3 result(s) for “eng”`.
func summary(n int, query string) string {
	if query == "" {
		return fmt.Sprintf("%d result(s)", n)
	}
	return fmt.Sprintf("%d result(s) for “%s”", n, query)
}

// Summary returns the results line for the current filter.
func (v *View[T]) Summary() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return summary(len(v.filtered), v.query)
}

// PageSelection reports whether none, some or all rows of the current page
// are selected.
func (v *View[T]) PageSelection() types.SelectState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pageSelection(v.pageIDs())
}

// Page returns the current page number.
func (v *View[T]) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// TotalPages returns max(1, ceil(filtered / pageSize)).
func (v *View[T]) TotalPages() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.totalPages()
}

// PageSize returns the current page size.
func (v *View[T]) PageSize() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pageSize
}

// PageSizes returns the configured page-size options.
func (v *View[T]) PageSizes() []int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.pageSizes)
}

// Query returns the filter text as it was set.
func (v *View[T]) Query() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query
}

// Sort returns the active sort. Key is empty when unsorted.
func (v *View[T]) Sort() types.SortSpec {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sort
}

// Columns returns the declared columns in display order.
func (v *View[T]) Columns() []Column[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.columns)
}

// VisibleColumns returns the keys of visible columns in display order.
func (v *View[T]) VisibleColumns() []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	keys := make([]string, 0, len(v.columns))
	for _, c := range v.visibleIndexes() {
		keys = append(keys, v.columns[c].Key)
	}
	return keys
}

// IsVisible reports whether the column is shown.
func (v *View[T]) IsVisible(key string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visible[key]
}

// Filtered returns the filtered and sorted records across all pages.
func (v *View[T]) Filtered() []T {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]T, len(v.filtered))
	for j, i := range v.filtered {
		out[j] = v.records[i]
	}
	return out
}

// PageRecords returns the records of the current page.
func (v *View[T]) PageRecords() []T {
	v.mu.Lock()
	defer v.mu.Unlock()

	start, end := v.pageBounds()
	out := make([]T, 0, end-start)
	for _, i := range v.filtered[start:end] {
		out = append(out, v.records[i])
	}
	return out
}

// Selected returns the selected identities in record order.
func (v *View[T]) Selected() []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]string, 0, len(v.selected))
	for _, id := range v.ids {
		if v.selected[id] {
			out = append(out, id)
		}
	}
	return out
}

// IsSelected reports whether the identity is selected.
func (v *View[T]) IsSelected(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selected[id]
}
