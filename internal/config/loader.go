package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DirName is the per-project configuration directory.
const DirName = ".pdbcat"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (PDBCAT_*), including those set by rootDir/.env
// 2. Config file (.pdbcat/config.yml or .pdbcat/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	// Variables already set in the process environment win over .env.
	if err := godotenv.Load(filepath.Join(l.rootDir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(l.rootDir, DirName))

	v.SetEnvPrefix("PDBCAT")
	v.AutomaticEnv()
	// PDBCAT_PATHS_BIN_DIR -> paths.bin_dir
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range []string{
		"paths.bin_dir",
		"paths.pdb_dir",
		"paths.cache_dir",
		"paths.output_dir",
		"paths.descriptor",
		"tools.symchk",
		"tools.pdbex",
		"tools.timeout",
		"symbols.server",
		"log.level",
	} {
		_ = v.BindEnv(key)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("paths.bin_dir", defaults.Paths.BinDir)
	v.SetDefault("paths.pdb_dir", defaults.Paths.PDBDir)
	v.SetDefault("paths.cache_dir", defaults.Paths.CacheDir)
	v.SetDefault("paths.output_dir", defaults.Paths.OutputDir)
	v.SetDefault("paths.descriptor", defaults.Paths.Descriptor)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)

	v.SetDefault("tools.symchk", defaults.Tools.Symchk)
	v.SetDefault("tools.pdbex", defaults.Tools.Pdbex)
	v.SetDefault("tools.timeout", defaults.Tools.Timeout)

	v.SetDefault("symbols.server", defaults.Symbols.Server)

	v.SetDefault("log.level", defaults.Log.Level)
}
