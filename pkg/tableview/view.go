package tableview

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/mesh-intelligence/tabula/pkg/types"
)

// Config describes a view at construction time.
type Config[T any] struct {
	// Records is the full record set. The view keeps the slice; callers must
	// not mutate it afterwards.
	Records []T

	// Columns are the declared columns, in display order.
	Columns []Column[T]

	// Key returns a record's identity. Identities must be unique and
	// non-empty. For types.Record views it defaults to the "id" field;
	// positional identity is not supported.
	Key func(rec T) string

	// PageSizes are the allowed page sizes; the first is the initial size.
	// Defaults to types.DefaultPageSizes.
	PageSizes []int

	// InitialSort, when set, sorts the view on construction.
	InitialSort *types.SortSpec

	// DisableSelection turns the row selection operations into no-ops.
	DisableSelection bool

	// Sink receives exports. Export fails when it is nil.
	Sink types.Sink

	// Language selects the collation used for string ordering. Defaults to
	// language.Und (root collation).
	Language language.Tag

	// Logger receives export diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// View is an interactive view over an in-memory record set. All methods are
// safe for concurrent use; each runs to completion under the view's lock.
type View[T any] struct {
	mu       sync.Mutex
	exportMu sync.Mutex

	records    []T
	ids        []string
	idIndex    map[string]int
	columns    []Column[T]
	colIndex   map[string]int
	cells      [][]string // display value per record per column
	lowered    [][]string // lower-cased cells, for filtering
	pageSizes  []int
	selectable bool
	sink       types.Sink
	cmp        *comparator
	logger     *zap.Logger

	query    string
	needle   string
	page     int
	pageSize int
	sort     types.SortSpec
	visible  map[string]bool
	selected map[string]bool

	filtered []int // record positions, filtered then sorted
}

// New builds a view. It fails when the columns are invalid, when a record has
// no identity or when two records share one.
func New[T any](cfg Config[T]) (*View[T], error) {
	cols, colIndex, err := resolveColumns(cfg.Columns)
	if err != nil {
		return nil, err
	}

	keyFn := cfg.Key
	if keyFn == nil {
		fn, ok := any(recordKey).(func(T) string)
		if !ok {
			return nil, fmt.Errorf("%w: no key function for %T", types.ErrMissingIdentity, *new(T))
		}
		keyFn = fn
	}

	pageSizes := cfg.PageSizes
	if len(pageSizes) == 0 {
		pageSizes = types.DefaultPageSizes
	}
	for _, n := range pageSizes {
		if n <= 0 {
			return nil, fmt.Errorf("%w: %d", types.ErrInvalidPageSizes, n)
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	v := &View[T]{
		records:    cfg.Records,
		ids:        make([]string, len(cfg.Records)),
		idIndex:    make(map[string]int, len(cfg.Records)),
		columns:    cols,
		colIndex:   colIndex,
		cells:      make([][]string, len(cfg.Records)),
		lowered:    make([][]string, len(cfg.Records)),
		pageSizes:  slices.Clone(pageSizes),
		selectable: !cfg.DisableSelection,
		sink:       cfg.Sink,
		cmp:        newComparator(cfg.Language),
		logger:     logger,
		page:       1,
		pageSize:   pageSizes[0],
		visible:    make(map[string]bool, len(cols)),
		selected:   make(map[string]bool),
	}

	for i, rec := range cfg.Records {
		id := keyFn(rec)
		if id == "" {
			return nil, fmt.Errorf("%w: record %d", types.ErrMissingIdentity, i)
		}
		if _, dup := v.idIndex[id]; dup {
			return nil, fmt.Errorf("%w: %q", types.ErrDuplicateIdentity, id)
		}
		v.ids[i] = id
		v.idIndex[id] = i

		row := make([]string, len(cols))
		low := make([]string, len(cols))
		for c, col := range cols {
			row[c] = col.display(rec)
			low[c] = strings.ToLower(row[c])
		}
		v.cells[i] = row
		v.lowered[i] = low
	}

	for _, c := range cols {
		v.visible[c.Key] = true
	}

	if s := cfg.InitialSort; s != nil && s.Key != "" {
		i, ok := colIndex[s.Key]
		if !ok || !cols[i].Sortable() {
			return nil, fmt.Errorf("%w: %q", types.ErrUnknownSortColumn, s.Key)
		}
		v.sort = types.SortSpec{Key: s.Key, Direction: types.SortAsc}
		if s.Direction == types.SortDesc {
			v.sort.Direction = types.SortDesc
		}
	}

	v.recompute()
	return v, nil
}

// SetQuery replaces the free-text filter and returns to the first page. A
// record matches when any visible column's displayed value contains the
// trimmed query, ignoring case. An empty query matches every record.
func (v *View[T]) SetQuery(q string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.query = q
	v.needle = strings.ToLower(strings.TrimSpace(q))
	v.page = 1
	v.recompute()
}

// SetSort sorts by the given column, flipping the direction when it is
// already the sort column. Unknown and non-sortable columns are ignored. The
// current page is kept.
func (v *View[T]) SetSort(key string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	i, ok := v.colIndex[key]
	if !ok || !v.columns[i].Sortable() {
		return
	}
	if v.sort.Key == key {
		v.sort.Direction = v.sort.Direction.Flip()
	} else {
		v.sort = types.SortSpec{Key: key, Direction: types.SortAsc}
	}
	v.recompute()
}

// ClearSort restores the unsorted (filtered) order.
func (v *View[T]) ClearSort() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.sort = types.SortSpec{}
	v.recompute()
}

// SetPageSize switches to one of the configured page sizes and returns to the
// first page. Sizes that are not configured are ignored.
func (v *View[T]) SetPageSize(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !slices.Contains(v.pageSizes, n) {
		return
	}
	v.pageSize = n
	v.page = 1
}

// GoToPage moves to page p, clamped to [1, TotalPages].
func (v *View[T]) GoToPage(p int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.page = p
	v.clampPage()
}

// NextPage moves forward one page, stopping at the last.
func (v *View[T]) NextPage() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.page++
	v.clampPage()
}

// PrevPage moves back one page, stopping at the first.
func (v *View[T]) PrevPage() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.page--
	v.clampPage()
}

// ToggleColumn shows or hides a declared column. Because filtering only
// scans visible columns the filtered set is recomputed; the page is kept
// unless it falls out of range.
func (v *View[T]) ToggleColumn(key string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.colIndex[key]; !ok {
		return
	}
	v.visible[key] = !v.visible[key]
	v.recompute()
}

// ShowAllColumns makes every declared column visible.
func (v *View[T]) ShowAllColumns() {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, c := range v.columns {
		v.visible[c.Key] = true
	}
	v.recompute()
}

// HideAllColumns hides every column.
func (v *View[T]) HideAllColumns() {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, c := range v.columns {
		v.visible[c.Key] = false
	}
	v.recompute()
}

// ToggleRow flips the selection of the record with the given identity.
// Unknown identities are ignored.
func (v *View[T]) ToggleRow(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.selectable {
		return
	}
	if _, ok := v.idIndex[id]; !ok {
		return
	}
	if v.selected[id] {
		delete(v.selected, id)
	} else {
		v.selected[id] = true
	}
}

// ToggleSelectPage deselects every row of the current page when all of them
// are selected, and otherwise selects all of them. Rows on other pages are
// untouched.
func (v *View[T]) ToggleSelectPage() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.selectable {
		return
	}
	ids := v.pageIDs()
	if len(ids) == 0 {
		return
	}
	if v.pageSelection(ids) == types.SelectAll {
		for _, id := range ids {
			delete(v.selected, id)
		}
		return
	}
	for _, id := range ids {
		v.selected[id] = true
	}
}

// ClearSelection deselects every record.
func (v *View[T]) ClearSelection() {
	v.mu.Lock()
	defer v.mu.Unlock()

	clear(v.selected)
}

// recompute rebuilds the filtered order from records, query, sort and
// visible columns, then clamps the page. The caller must hold v.mu.
func (v *View[T]) recompute() {
	visible := v.visibleIndexes()

	v.filtered = v.filtered[:0]
	for i := range v.records {
		if v.matches(i, visible) {
			v.filtered = append(v.filtered, i)
		}
	}

	if v.sort.Key != "" {
		col := v.columns[v.colIndex[v.sort.Key]]
		keys := make(map[int]any, len(v.filtered))
		for _, i := range v.filtered {
			keys[i] = col.Value(v.records[i])
		}
		desc := v.sort.Direction == types.SortDesc
		slices.SortStableFunc(v.filtered, func(a, b int) int {
			c := v.cmp.compare(keys[a], keys[b])
			if desc {
				return -c
			}
			return c
		})
	}

	v.clampPage()
}

func (v *View[T]) matches(i int, visible []int) bool {
	if v.needle == "" {
		return true
	}
	for _, c := range visible {
		if strings.Contains(v.lowered[i][c], v.needle) {
			return true
		}
	}
	return false
}

// visibleIndexes returns the positions of visible columns in declared order.
func (v *View[T]) visibleIndexes() []int {
	out := make([]int, 0, len(v.columns))
	for i, c := range v.columns {
		if v.visible[c.Key] {
			out = append(out, i)
		}
	}
	return out
}

func (v *View[T]) totalPages() int {
	n := (len(v.filtered) + v.pageSize - 1) / v.pageSize
	return max(1, n)
}

func (v *View[T]) clampPage() {
	v.page = min(max(v.page, 1), v.totalPages())
}

// pageBounds returns the [start, end) range of the current page within the
// filtered set.
func (v *View[T]) pageBounds() (int, int) {
	start := (v.page - 1) * v.pageSize
	end := min(start+v.pageSize, len(v.filtered))
	return min(start, end), end
}

func (v *View[T]) pageIDs() []string {
	start, end := v.pageBounds()
	ids := make([]string, 0, end-start)
	for _, i := range v.filtered[start:end] {
		ids = append(ids, v.ids[i])
	}
	return ids
}

func (v *View[T]) pageSelection(ids []string) types.SelectState {
	n := 0
	for _, id := range ids {
		if v.selected[id] {
			n++
		}
	}
	switch {
	case n == 0:
		return types.SelectNone
	case n == len(ids):
		return types.SelectAll
	default:
		return types.SelectSome
	}
}
