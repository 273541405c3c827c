package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tabula/internal/dataset"
	"github.com/mesh-intelligence/tabula/pkg/tableview"
	"github.com/mesh-intelligence/tabula/pkg/types"
)

// viewFlags are the view operations shared by show, export and browse.
type viewFlags struct {
	query    string
	sort     string
	page     int
	pageSize int
	columns  []string
	hide     []string
	selected []string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.query, "query", "q", "", "filter rows containing this text in any visible column")
	fl.StringVarP(&f.sort, "sort", "s", "", "sort by column; append :desc for descending, use none to clear")
	fl.IntVarP(&f.page, "page", "p", 1, "page number")
	fl.IntVar(&f.pageSize, "page-size", 0, "rows per page; must be one of the configured page sizes")
	fl.StringSliceVar(&f.columns, "columns", nil, "show only these columns")
	fl.StringSliceVar(&f.hide, "hide", nil, "hide these columns")
	fl.StringSliceVar(&f.selected, "select", nil, "select rows by id")
}

// buildView loads a dataset and applies the flags to a new view.
func (a *app) buildView(store types.DatasetStore, name string, f viewFlags, sink types.Sink) (*tableview.View[types.Record], error) {
	ds, err := store.GetDataset(name)
	if err != nil {
		return nil, storeError("load dataset "+name, err)
	}
	v, err := dataset.BuildView(ds, dataset.ViewOptions{
		PageSizes: a.pageSizes(),
		Sink:      sink,
		Logger:    a.logger,
	})
	if err != nil {
		return nil, userError(err)
	}
	if err := f.apply(v); err != nil {
		return nil, userError(err)
	}
	return v, nil
}

// apply runs the requested operations in the order a user would: columns,
// filter, sort, page size, page, selection. Unknown names are rejected here
// even though the view itself ignores them.
func (f viewFlags) apply(v *tableview.View[types.Record]) error {
	cols := v.Columns()
	known := make(map[string]tableview.Column[types.Record], len(cols))
	for _, c := range cols {
		known[c.Key] = c
	}
	check := func(keys []string) error {
		for _, k := range keys {
			if _, ok := known[k]; !ok {
				return fmt.Errorf("unknown column %q", k)
			}
		}
		return nil
	}

	if len(f.columns) > 0 {
		if err := check(f.columns); err != nil {
			return err
		}
		for _, c := range cols {
			if v.IsVisible(c.Key) != slices.Contains(f.columns, c.Key) {
				v.ToggleColumn(c.Key)
			}
		}
	}
	if err := check(f.hide); err != nil {
		return err
	}
	for _, k := range f.hide {
		if v.IsVisible(k) {
			v.ToggleColumn(k)
		}
	}

	if f.query != "" {
		v.SetQuery(f.query)
	}

	if f.sort != "" {
		if err := applySort(v, known, f.sort); err != nil {
			return err
		}
	}

	if f.pageSize != 0 {
		if !slices.Contains(v.PageSizes(), f.pageSize) {
			return fmt.Errorf("page size %d is not one of %v", f.pageSize, v.PageSizes())
		}
		v.SetPageSize(f.pageSize)
	}
	v.GoToPage(f.page)

	for _, id := range f.selected {
		if !v.IsSelected(id) {
			v.ToggleRow(id)
		}
	}
	return nil
}

func applySort(v *tableview.View[types.Record], known map[string]tableview.Column[types.Record], spec string) error {
	if spec == "none" {
		v.ClearSort()
		return nil
	}
	key, dir, _ := strings.Cut(spec, ":")
	want := types.SortAsc
	switch dir {
	case "", "asc":
	case "desc":
		want = types.SortDesc
	default:
		return fmt.Errorf("sort direction %q must be asc or desc", dir)
	}
	col, ok := known[key]
	if !ok {
		return fmt.Errorf("unknown column %q", key)
	}
	if !col.Sortable() {
		return fmt.Errorf("column %q is not sortable", key)
	}
	v.SetSort(key)
	if v.Sort().Direction != want {
		v.SetSort(key)
	}
	return nil
}
