package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/tabula/internal/paths"
	"github.com/mesh-intelligence/tabula/pkg/types"
)

// Config keys.
const (
	cfgKeyBackend   = "backend"
	cfgKeyDataDir   = "data_dir"
	cfgKeyPageSizes = "page_sizes"
	cfgKeyExportDir = "export_dir"
	cfgKeyTheme     = "theme"
)

// configFile is the structure written to config.yaml by init.
type configFile struct {
	Backend   string `yaml:"backend"`
	DataDir   string `yaml:"data_dir,omitempty"`
	PageSizes []int  `yaml:"page_sizes"`
	ExportDir string `yaml:"export_dir,omitempty"`
	Theme     string `yaml:"theme"`
}

func defaultConfig() configFile {
	return configFile{
		Backend:   types.BackendSQLite,
		PageSizes: types.DefaultPageSizes,
		Theme:     "default",
	}
}

// loadConfig reads config.yaml from configDir. A missing file is not an
// error; defaults apply.
func loadConfig(configDir string) (*viper.Viper, error) {
	def := defaultConfig()
	v := viper.New()
	v.SetDefault(cfgKeyBackend, def.Backend)
	v.SetDefault(cfgKeyPageSizes, def.PageSizes)
	v.SetDefault(cfgKeyTheme, def.Theme)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml with default values unless it
// already exists.
func writeConfigIfMissing(configDir, dataDir string) (bool, error) {
	path := paths.ConfigFile(configDir)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}

	cfg := defaultConfig()
	cfg.DataDir = dataDir
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, append([]byte("# tabula configuration\n"), data...), 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}

// pageSizes returns the configured page sizes, falling back to the defaults
// when the value is missing or invalid.
func (a *app) pageSizes() []int {
	sizes := a.config.GetIntSlice(cfgKeyPageSizes)
	if len(sizes) == 0 {
		return types.DefaultPageSizes
	}
	for _, n := range sizes {
		if n <= 0 {
			a.logger.Warn("ignoring invalid page_sizes in config")
			return types.DefaultPageSizes
		}
	}
	return sizes
}
