package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tabula/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize tabula configuration and storage",
		Long:  "Create the configuration directory with a default config.yaml, then create\nthe data directory and its JSONL files.",
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, err := a.dataDir()
			if err != nil {
				return sysError(err)
			}
			created, err := writeConfigIfMissing(a.configDir, a.flags.dataDir)
			if err != nil {
				return sysError(err)
			}
			if created {
				// Pick up the file just written.
				if a.config, err = loadConfig(a.configDir); err != nil {
					return sysError(err)
				}
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			if err := store.Detach(); err != nil {
				return sysError(fmt.Errorf("finalize storage: %w", err))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config: %s\n", paths.ConfigFile(a.configDir))
			fmt.Fprintf(out, "Data:   %s\n", dataDir)
			fmt.Fprintln(out, "tabula initialized successfully")
			return nil
		},
	}
}
