package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mvp-joe/pdbcat/internal/config"
	"github.com/mvp-joe/pdbcat/internal/peversion"
	"github.com/mvp-joe/pdbcat/internal/pipeline"
	"github.com/mvp-joe/pdbcat/internal/toolexec"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	rootFlag    string
	verboseFlag bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pdbcat",
	Short: "Resolve Windows symbol files and catalogue their types",
	Long: `pdbcat resolves the symbol files of a tree of Windows binaries with symchk,
mirrors them next to the binary layout, dumps C headers from each with pdbex
and records every filename, OS version and type in descriptor.json.

Configuration is read from .pdbcat/config.yml in the project root, with
PDBCAT_* environment variables (and a .env file) taking precedence.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootFlag, "root", "C", "", "project root (default is the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose output")
}

// project is a loaded project root: its configuration and the logger built
// from it.
type project struct {
	rootDir string
	cfg     *config.Config
	logger  *logrus.Logger
	fs      afero.Fs
}

func loadProject() (*project, error) {
	rootDir := rootFlag
	if rootDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		rootDir = wd
	}
	rootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	cfg, err := config.NewLoader(rootDir).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := newLogger(cfg.Log.Level, verboseFlag, os.Stderr)
	if err != nil {
		return nil, err
	}

	return &project{
		rootDir: rootDir,
		cfg:     cfg,
		logger:  logger,
		fs:      afero.NewOsFs(),
	}, nil
}

// newLogger builds the process logger. --verbose forces debug level.
func newLogger(level string, verbose bool, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if verbose {
		lvl = logrus.DebugLevel
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger, nil
}

// deps wires the real collaborators for a pipeline over this project.
// The returned function releases the version cache.
func (p *project) deps(progress pipeline.ProgressReporter) (pipeline.Deps, func(), error) {
	versions, err := peversion.NewCachingQuerier(peversion.NewFileQuerier(p.fs), p.fs, peversion.DefaultCacheSize)
	if err != nil {
		return pipeline.Deps{}, nil, fmt.Errorf("failed to create version cache: %w", err)
	}

	return pipeline.Deps{
		Runner:   toolexec.NewExecRunner(p.rootDir, p.cfg.Tools.Timeout, p.logger),
		Fs:       p.fs,
		Versions: versions,
		Progress: progress,
		Logger:   p.logger,
	}, versions.Close, nil
}

func (p *project) pipeline(deps pipeline.Deps) (*pipeline.Pipeline, error) {
	pl, err := pipeline.New(p.cfg.ToPipelineConfig(p.rootDir), deps)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}
	return pl, nil
}
