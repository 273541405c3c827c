// Package tableview is the tabular view engine: it keeps an in-memory record
// set behind a filterable, sortable, paginated, column-configurable and
// row-selectable view, and exports that view as CSV.
//
// A View is built once from its records and columns and is then mutated only
// through its operations. Out-of-range input never fails: page numbers clamp,
// unknown page sizes and non-sortable columns are ignored. Export is the one
// operation that can fail, and it reports failure as an error wrapping
// types.ErrExportFailed instead of panicking.
//
// Example:
//
//	v, err := tableview.New(tableview.Config[types.Record]{
//	    Records: rows,
//	    Columns: []tableview.Column[types.Record]{
//	        tableview.Field("name", "Name"),
//	        tableview.Field("role", "Role"),
//	    },
//	})
//	v.SetQuery("engineer")
//	v.SetSort("name")
//	snap := v.Snapshot()
package tableview
