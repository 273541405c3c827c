package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tabula/pkg/types"
)

func newDatasetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "datasets",
		Aliases: []string{"ls"},
		Short:   "List stored datasets",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			list, err := store.ListDatasets()
			if err != nil {
				return storeError("list datasets", err)
			}
			if list == nil {
				list = []types.DatasetInfo{}
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				data, err := json.MarshalIndent(list, "", "  ")
				if err != nil {
					return sysError(fmt.Errorf("marshal datasets: %w", err))
				}
				fmt.Fprintln(out, string(data))
				return nil
			}
			if len(list) == 0 {
				fmt.Fprintln(out, "No datasets. Run `tabula seed` or `tabula import`.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tRECORDS\tCOLUMNS\tUPDATED")
			for _, d := range list {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", d.Name, humanize.Comma(int64(d.Records)), d.Columns, humanize.Time(d.UpdatedAt))
			}
			return tw.Flush()
		},
	}
}

func newDropCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "drop <dataset>",
		Short: "Delete a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			if err := store.DeleteDataset(args[0]); err != nil {
				return storeError("drop dataset "+args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dropped %s\n", args[0])
			return nil
		},
	}
}
