package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mvp-joe/pdbcat/internal/pipeline"
	"github.com/spf13/cobra"
)

var pairsJSONFlag bool

// pairsCmd represents the pairs command
var pairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "Print the binary/symbol-file pairs symchk resolves",
	Long: `Pairs runs symchk over the binary tree and prints every binary together with
the symbol file resolved for it, after ignore patterns are applied. Nothing
is copied or dumped.

Examples:
  pdbcat pairs
  pdbcat pairs --json
`,
	RunE: runPairs,
}

func init() {
	rootCmd.AddCommand(pairsCmd)
	pairsCmd.Flags().BoolVar(&pairsJSONFlag, "json", false, "Print pairs as a JSON array")
}

func runPairs(cmd *cobra.Command, args []string) error {
	proj, err := loadProject()
	if err != nil {
		return err
	}

	deps, release, err := proj.deps(&pipeline.NoOpProgressReporter{})
	if err != nil {
		return err
	}
	defer release()

	return executePairs(cmd.Context(), proj, deps, pairsJSONFlag, cmd.OutOrStdout())
}

func executePairs(ctx context.Context, proj *project, deps pipeline.Deps, asJSON bool, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	p, err := proj.pipeline(deps)
	if err != nil {
		return err
	}

	associations, ignored, err := p.Resolve(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve symbols: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(associations)
	}

	for _, a := range associations {
		fmt.Fprintf(out, "%s -> %s\n", a.BinaryPath, a.SymbolPath)
	}
	proj.logger.WithField("ignored", ignored).Debugf("resolved %d pairs", len(associations))

	return nil
}
