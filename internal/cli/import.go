package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/tabula/internal/dataset"
	"github.com/mesh-intelligence/tabula/pkg/types"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		opts    dataset.LoadOptions
		sortArg string
	)
	cmd := &cobra.Command{
		Use:   "import <dataset> <file>",
		Short: "Import a CSV or JSONL file as a dataset",
		Long: `Import reads a CSV file (header row first) or a JSONL file (one object per
line) and stores it under the given dataset name, replacing any existing
dataset of that name. Cells are typed: empty cells become null, true/false
become booleans and numeric text becomes numbers.

Column formats: ` + strings.Join(dataset.FormatNames(), ", ") + `

Example:
  tabula import people people.csv --format salary=inr --label salary="Salary (₹)"
  tabula import events events.jsonl --id-field event_id --sort at:desc`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Name = args[0]
			if sortArg != "" {
				key, dir, _ := strings.Cut(sortArg, ":")
				opts.InitialSort = &types.SortSpec{Key: key, Direction: types.SortAsc}
				if dir == string(types.SortDesc) {
					opts.InitialSort.Direction = types.SortDesc
				}
			}

			ds, err := dataset.LoadFile(args[1], opts)
			if err != nil {
				var pathErr *os.PathError
				if errors.As(err, &pathErr) && !errors.Is(err, os.ErrNotExist) {
					return sysError(err)
				}
				return userError(err)
			}
			if _, err := dataset.BuildView(ds, dataset.ViewOptions{}); err != nil {
				return userError(err)
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			if err := store.SaveDataset(ds); err != nil {
				return storeError("save dataset", err)
			}
			a.logger.Debug("dataset imported",
				zap.String("dataset", ds.Name), zap.String("file", args[1]), zap.Int("records", len(ds.Records)))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records into %s (%d columns)\n", len(ds.Records), ds.Name, len(ds.Columns))
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&opts.Input, "input", "", "input format: csv or jsonl (default: from file extension)")
	fl.StringVar(&opts.IDField, "id-field", "", "field holding record identities (default: id; generated when missing)")
	fl.StringToStringVar(&opts.Formats, "format", nil, "column formats as key=format")
	fl.StringToStringVar(&opts.Labels, "label", nil, "column labels as key=label")
	fl.StringSliceVar(&opts.NoSort, "no-sort", nil, "columns that cannot be sorted")
	fl.StringVar(&sortArg, "sort", "", "initial sort as key or key:desc")
	return cmd
}
