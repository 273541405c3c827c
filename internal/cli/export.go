package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/tabula/internal/paths"
	"github.com/mesh-intelligence/tabula/internal/sink"
	"github.com/mesh-intelligence/tabula/pkg/types"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		vf           viewFlags
		onlySelected bool
		output       string
		exportDir    string
		toStdout     bool
	)
	cmd := &cobra.Command{
		Use:   "export <dataset>",
		Short: "Export a dataset view as CSV",
		Long: `Export writes every row that passes the filter, in sorted order, with the
visible columns only. With --only-selected just the selected rows that pass
the filter are written. The file goes to the export directory unless
--stdout is given.

Example:
  tabula export employees --query engineer --hide salary
  tabula export employees --select 4,9 --only-selected --stdout`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := output
			if name == "" {
				name = args[0] + ".csv"
			}

			var (
				dst  types.Sink
				dest string
			)
			if toStdout {
				dst = sink.WriterSink{W: cmd.OutOrStdout()}
			} else {
				dir, err := paths.ResolveExportDir(exportDir, a.config.GetString(cfgKeyExportDir))
				if err != nil {
					return sysError(fmt.Errorf("resolve export dir: %w", err))
				}
				fs := &sink.FileSink{Dir: dir}
				if dest, err = fs.Path(name); err != nil {
					return userError(err)
				}
				dst = fs
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			v, err := a.buildView(store, args[0], vf, dst)
			if err != nil {
				return err
			}
			if onlySelected && len(v.Selected()) == 0 {
				return userError(errors.New("no rows selected; use --select"))
			}

			if err := v.Export(types.ExportOptions{OnlySelected: onlySelected, Filename: name}); err != nil {
				a.logger.Warn("export failed", zap.String("dataset", args[0]), zap.Error(err))
				return userError(err)
			}
			if !toStdout {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", args[0], dest)
			}
			return nil
		},
	}
	vf.register(cmd)
	fl := cmd.Flags()
	fl.BoolVar(&onlySelected, "only-selected", false, "export only the selected rows")
	fl.StringVarP(&output, "output", "o", "", "file name (default: <dataset>.csv)")
	fl.StringVar(&exportDir, "export-dir", "", "directory for exported files (default: from config, then the working directory)")
	fl.BoolVar(&toStdout, "stdout", false, "write the CSV to standard output")
	return cmd
}
