// Package cli implements the tabula command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mesh-intelligence/tabula/internal/paths"
	"github.com/mesh-intelligence/tabula/pkg/sqlite"
	"github.com/mesh-intelligence/tabula/pkg/tabula"
	"github.com/mesh-intelligence/tabula/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the process exit code for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// userError marks err as caused by input: bad arguments, unknown datasets.
func userError(err error) error {
	return &exitError{code: exitUserError, err: err}
}

// sysError marks err as an environment failure: disk, database.
func sysError(err error) error {
	return &exitError{code: exitSysError, err: err}
}

// ExitCode maps an error returned by the root command to a process exit
// code. Unclassified errors are user errors, which covers cobra's own
// argument and flag validation.
func ExitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// rootFlags holds global flag values.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
}

// app is the state shared by every subcommand of one invocation.
type app struct {
	flags     rootFlags
	configDir string
	config    *viper.Viper
	logger    *zap.Logger
}

// NewRootCmd creates the top-level "tabula" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:     "tabula",
		Short:   "Filter, sort, page and export tabular datasets",
		Long:    "tabula keeps named datasets and shows them as filterable, sortable,\npaginated tables that can be browsed interactively or exported as CSV.",
		Version: tabula.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: ./.tabula or the user config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: ./.tabula-db)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "log debug diagnostics to stderr")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newSeedCmd(a),
		newImportCmd(a),
		newDatasetsCmd(a),
		newDropCmd(a),
		newShowCmd(a),
		newExportCmd(a),
		newBrowseCmd(a),
		newKVCmd(a),
	)
	return root
}

// Execute runs the root command and exits with the matching code.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(ExitCode(err))
	}
}

// setup builds the logger and loads configuration.
func (a *app) setup() error {
	logger, err := newLogger(a.flags.verbose)
	if err != nil {
		return sysError(fmt.Errorf("initialize logger: %w", err))
	}
	a.logger = logger

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	a.configDir = configDir
	a.config = cfg
	a.logger.Debug("configuration loaded",
		zap.String("config_dir", configDir),
		zap.String("config_file", cfg.ConfigFileUsed()))
	return nil
}

// newLogger builds a production logger writing warnings to stderr, or debug
// output when verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return config.Build()
}

// dataDir resolves the data directory: flag > config > env > default.
func (a *app) dataDir() (string, error) {
	return paths.ResolveDataDir(a.flags.dataDir, a.config.GetString(cfgKeyDataDir))
}

// openStore attaches the dataset store. The caller must Detach it.
func (a *app) openStore() (types.DatasetStore, error) {
	dataDir, err := a.dataDir()
	if err != nil {
		return nil, sysError(fmt.Errorf("resolve data dir: %w", err))
	}
	store := sqlite.NewBackend(a.logger)
	cfg := types.Config{
		Backend: a.config.GetString(cfgKeyBackend),
		DataDir: dataDir,
	}
	if err := store.Attach(cfg); err != nil {
		if errors.Is(err, types.ErrBackendUnknown) || errors.Is(err, types.ErrBackendEmpty) {
			return nil, userError(fmt.Errorf("attach store: %w", err))
		}
		return nil, sysError(fmt.Errorf("attach store: %w", err))
	}
	return store, nil
}

// storeError classifies an error returned by a store operation.
func storeError(what string, err error) error {
	wrapped := fmt.Errorf("%s: %w", what, err)
	switch {
	case errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrInvalidName),
		errors.Is(err, types.ErrInvalidKey),
		errors.Is(err, types.ErrInvalidDataset):
		return userError(wrapped)
	}
	return sysError(wrapped)
}
