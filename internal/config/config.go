package config

import (
	"path/filepath"
	"time"

	"github.com/mvp-joe/pdbcat/internal/descriptor"
	"github.com/mvp-joe/pdbcat/internal/mirror"
	"github.com/mvp-joe/pdbcat/internal/pipeline"
	"github.com/mvp-joe/pdbcat/internal/symchk"
)

// Config represents the complete pdbcat configuration.
// It can be loaded from .pdbcat/config.yml with environment variable overrides.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Tools   ToolsConfig   `yaml:"tools" mapstructure:"tools"`
	Symbols SymbolsConfig `yaml:"symbols" mapstructure:"symbols"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// PathsConfig names the working directories. Relative paths are resolved
// against the project root.
type PathsConfig struct {
	BinDir     string   `yaml:"bin_dir" mapstructure:"bin_dir"`       // binaries to resolve symbols for
	PDBDir     string   `yaml:"pdb_dir" mapstructure:"pdb_dir"`       // mirrored symbol files
	CacheDir   string   `yaml:"cache_dir" mapstructure:"cache_dir"`   // symchk downstream store
	OutputDir  string   `yaml:"output_dir" mapstructure:"output_dir"` // pdbex artifacts
	Descriptor string   `yaml:"descriptor" mapstructure:"descriptor"` // catalog file
	Ignore     []string `yaml:"ignore" mapstructure:"ignore"`         // glob patterns relative to bin_dir
}

// ToolsConfig locates the external tools.
type ToolsConfig struct {
	Symchk  string        `yaml:"symchk" mapstructure:"symchk"`
	Pdbex   string        `yaml:"pdbex" mapstructure:"pdbex"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"` // per invocation, 0 disables
}

// SymbolsConfig configures symbol retrieval.
type SymbolsConfig struct {
	Server string `yaml:"server" mapstructure:"server"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			BinDir:     "Bin",
			PDBDir:     "PDB",
			CacheDir:   "PDBCache",
			OutputDir:  "Output",
			Descriptor: filepath.Join("Output", descriptor.DefaultName),
			Ignore:     []string{},
		},
		Tools: ToolsConfig{
			Symchk:  filepath.Join("tools", "symchk.exe"),
			Pdbex:   filepath.Join("tools", "pdbex.exe"),
			Timeout: 30 * time.Minute,
		},
		Symbols: SymbolsConfig{
			Server: symchk.DefaultSymbolServer,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ToPipelineConfig converts a Config to a pipeline.Config.
// The rootDir parameter anchors every relative path.
func (c *Config) ToPipelineConfig(rootDir string) pipeline.Config {
	return pipeline.Config{
		Layout: mirror.Layout{
			BinRoot:    c.Resolve(rootDir, c.Paths.BinDir),
			PDBRoot:    c.Resolve(rootDir, c.Paths.PDBDir),
			OutputRoot: c.Resolve(rootDir, c.Paths.OutputDir),
		},
		CacheDir:       c.Resolve(rootDir, c.Paths.CacheDir),
		SymbolServer:   c.Symbols.Server,
		SymchkPath:     c.Resolve(rootDir, c.Tools.Symchk),
		PdbexPath:      c.Resolve(rootDir, c.Tools.Pdbex),
		DescriptorPath: c.Resolve(rootDir, c.Paths.Descriptor),
		Ignore:         append([]string(nil), c.Paths.Ignore...),
	}
}

// Resolve returns p anchored at rootDir unless it is already absolute.
func (c *Config) Resolve(rootDir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(rootDir, p)
}
