package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

var (
	// ErrEmptyPath indicates a required directory or file path is missing
	ErrEmptyPath = errors.New("empty path")

	// ErrEmptyTool indicates a tool location is missing
	ErrEmptyTool = errors.New("empty tool path")

	// ErrInvalidTimeout indicates a negative tool timeout
	ErrInvalidTimeout = errors.New("invalid tool timeout")

	// ErrInvalidServer indicates a symbol server that is not an http(s) URL
	ErrInvalidServer = errors.New("invalid symbol server")

	// ErrInvalidPattern indicates an ignore pattern that does not compile
	ErrInvalidPattern = errors.New("invalid ignore pattern")

	// ErrInvalidLogLevel indicates an unknown log level
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Validate checks that the configuration is valid and complete.
// Every problem is reported, not just the first.
func Validate(cfg *Config) error {
	var result *multierror.Error

	result = multierror.Append(result, validatePaths(&cfg.Paths))
	result = multierror.Append(result, validateTools(&cfg.Tools))
	result = multierror.Append(result, validateSymbols(&cfg.Symbols))
	result = multierror.Append(result, validateLog(&cfg.Log))

	return result.ErrorOrNil()
}

func validatePaths(cfg *PathsConfig) error {
	var result *multierror.Error

	required := []struct {
		key   string
		value string
	}{
		{"bin_dir", cfg.BinDir},
		{"pdb_dir", cfg.PDBDir},
		{"cache_dir", cfg.CacheDir},
		{"output_dir", cfg.OutputDir},
		{"descriptor", cfg.Descriptor},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			result = multierror.Append(result, fmt.Errorf("%w: paths.%s is required", ErrEmptyPath, r.key))
		}
	}

	for _, pattern := range cfg.Ignore {
		if _, err := glob.Compile(strings.ToLower(pattern), '/'); err != nil {
			result = multierror.Append(result, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err))
		}
	}

	return result.ErrorOrNil()
}

func validateTools(cfg *ToolsConfig) error {
	var result *multierror.Error

	if strings.TrimSpace(cfg.Symchk) == "" {
		result = multierror.Append(result, fmt.Errorf("%w: tools.symchk is required", ErrEmptyTool))
	}
	if strings.TrimSpace(cfg.Pdbex) == "" {
		result = multierror.Append(result, fmt.Errorf("%w: tools.pdbex is required", ErrEmptyTool))
	}
	if cfg.Timeout < 0 {
		result = multierror.Append(result, fmt.Errorf("%w: tools.timeout cannot be negative, got %s", ErrInvalidTimeout, cfg.Timeout))
	}

	return result.ErrorOrNil()
}

func validateSymbols(cfg *SymbolsConfig) error {
	u, err := url.Parse(cfg.Server)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: must be an http or https URL, got '%s'", ErrInvalidServer, cfg.Server)
	}
	return nil
}

func validateLog(cfg *LogConfig) error {
	if _, err := logrus.ParseLevel(cfg.Level); err != nil {
		return fmt.Errorf("%w: '%s'", ErrInvalidLogLevel, cfg.Level)
	}
	return nil
}
