// Package dataset loads record sets from files, names their column formats
// and builds table views over them.
package dataset

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/tabula/pkg/tableview"
	"github.com/mesh-intelligence/tabula/pkg/types"
)

// ViewOptions are the host choices applied when building a view.
type ViewOptions struct {
	PageSizes        []int
	Sink             types.Sink
	DisableSelection bool
	Logger           *zap.Logger
}

// BuildView turns a dataset into a view over its records.
func BuildView(ds *types.Dataset, opts ViewOptions) (*tableview.View[types.Record], error) {
	cols, err := Columns(ds.Columns)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", ds.Name, err)
	}
	field := ds.IdentityField()
	v, err := tableview.New(tableview.Config[types.Record]{
		Records: ds.Records,
		Columns: cols,
		Key: func(rec types.Record) string {
			return tableview.Stringify(rec[field])
		},
		PageSizes:        opts.PageSizes,
		InitialSort:      ds.InitialSort,
		DisableSelection: opts.DisableSelection,
		Sink:             opts.Sink,
		Logger:           opts.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", ds.Name, err)
	}
	return v, nil
}
