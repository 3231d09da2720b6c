package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mvp-joe/pdbcat/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	quietFlag bool
	watchFlag bool
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Resolve symbols, dump headers and write the descriptor",
	Long: `Build runs the whole catalog pass over the binary tree:

  - Resolves a symbol file for every binary with symchk
  - Mirrors each symbol file under the PDB directory
  - Dumps ALL.h, ALL_SORTED.h, ALL_FUNCTIONS.h and Standalone/ with pdbex
  - Lists every type and records filenames, versions and types
  - Writes descriptor.json once every symbol file succeeded

Artifacts that already exist are kept. Run 'pdbcat clean' to regenerate them.

Examples:
  # Build the catalog for the current directory
  pdbcat build

  # Build without progress bars
  pdbcat build --quiet

  # Rebuild whenever the binary tree changes
  pdbcat build --watch
`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Print only a one-line summary instead of progress output")
	buildCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch the binary tree and rebuild on changes")
}

type buildOptions struct {
	quiet    bool
	watch    bool
	debounce time.Duration
}

func runBuild(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\nInterrupted! Cancelling build...")
			cancel()
		case <-ctx.Done():
		}
	}()

	proj, err := loadProject()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	deps, release, err := proj.deps(NewCLIProgressReporter(out, quietFlag))
	if err != nil {
		return err
	}
	defer release()

	return executeBuild(ctx, proj, deps, buildOptions{
		quiet:    quietFlag,
		watch:    watchFlag,
		debounce: pipeline.DefaultDebounce,
	}, out)
}

func executeBuild(ctx context.Context, proj *project, deps pipeline.Deps, opts buildOptions, out io.Writer) error {
	p, err := proj.pipeline(deps)
	if err != nil {
		return err
	}

	stats, err := p.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("build cancelled")
		}
		return fmt.Errorf("build failed: %w", err)
	}

	// Print summary (if not quiet, OnComplete already printed it)
	if opts.quiet {
		fmt.Fprintf(out, "Build complete: %s symbol files, %s types in %.2fs\n",
			humanize.Comma(int64(stats.Associations)),
			humanize.Comma(int64(stats.Types)),
			stats.Duration.Seconds())
	}

	if !opts.watch {
		return nil
	}

	binRoot := proj.cfg.Resolve(proj.rootDir, proj.cfg.Paths.BinDir)
	w, err := pipeline.NewWatcher(p, binRoot, opts.debounce)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", binRoot, err)
	}

	proj.logger.WithField("dir", binRoot).Info("watching for changes")
	w.Start(ctx)
	<-ctx.Done()
	w.Stop()
	proj.logger.Info("watch mode stopped")

	return nil
}
