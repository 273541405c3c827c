package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tabula/internal/dataset"
)

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Store the demo employees dataset",
		Long:  "Store the twelve-record employees dataset, replacing any dataset of the\nsame name. Useful for trying show, export and browse.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			ds := dataset.Employees()
			if err := store.SaveDataset(ds); err != nil {
				return storeError("save dataset", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s (%d records)\n", ds.Name, len(ds.Records))
			return nil
		},
	}
}
