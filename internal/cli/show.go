package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tabula/internal/render"
)

func newShowCmd(a *app) *cobra.Command {
	var (
		vf    viewFlags
		theme string
	)
	cmd := &cobra.Command{
		Use:   "show <dataset>",
		Short: "Print one page of a dataset as a table",
		Long: `Show applies the given filter, sort, column and paging options to a dataset
and prints the resulting page. With --json the full view snapshot is printed
instead.

Example:
  tabula show employees --query eng --sort rating:desc
  tabula show employees --hide salary,active --page 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			v, err := a.buildView(store, args[0], vf, nil)
			if err != nil {
				return err
			}
			snap := v.Snapshot()

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				data, err := json.MarshalIndent(snap, "", "  ")
				if err != nil {
					return sysError(fmt.Errorf("marshal snapshot: %w", err))
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			th, err := a.theme(theme)
			if err != nil {
				return userError(err)
			}
			fmt.Fprintln(out, render.View(snap, th, render.NoFocus))
			return nil
		},
	}
	vf.register(cmd)
	cmd.Flags().StringVar(&theme, "theme", "", "output theme: default or plain (default: from config)")
	return cmd
}

// theme resolves the flag value, falling back to the configured theme.
func (a *app) theme(flag string) (render.Theme, error) {
	name := flag
	if name == "" {
		name = a.config.GetString(cfgKeyTheme)
	}
	return render.ThemeByName(name)
}
