package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tabula/internal/browse"
	"github.com/mesh-intelligence/tabula/internal/paths"
	"github.com/mesh-intelligence/tabula/internal/sink"
)

func newBrowseCmd(a *app) *cobra.Command {
	var (
		vf    viewFlags
		theme string
	)
	cmd := &cobra.Command{
		Use:   "browse <dataset>",
		Short: "Browse a dataset interactively",
		Long:  "Browse opens a full-screen table. Press ? for the key bindings. Exports are\nwritten to the export directory.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			th, err := a.theme(theme)
			if err != nil {
				return userError(err)
			}
			dir, err := paths.ResolveExportDir("", a.config.GetString(cfgKeyExportDir))
			if err != nil {
				return sysError(fmt.Errorf("resolve export dir: %w", err))
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			v, err := a.buildView(store, args[0], vf, &sink.FileSink{Dir: dir})
			// The view holds its records; the store is not needed while browsing.
			store.Detach()
			if err != nil {
				return err
			}

			if err := browse.Run(v, browse.Options{
				Title:      args[0],
				Theme:      th,
				ExportName: args[0] + ".csv",
				Logger:     a.logger,
			}); err != nil {
				return sysError(fmt.Errorf("browse: %w", err))
			}
			return nil
		},
	}
	vf.register(cmd)
	cmd.Flags().StringVar(&theme, "theme", "", "color theme: default or plain (default: from config)")
	return cmd
}
