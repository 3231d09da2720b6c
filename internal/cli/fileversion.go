package cli

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/mvp-joe/pdbcat/internal/peversion"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// fileversionCmd represents the fileversion command
var fileversionCmd = &cobra.Command{
	Use:   "fileversion <binary>...",
	Short: "Print the file version of Windows binaries",
	Long: `Fileversion reads the fixed version resource of each binary and prints it in
the a.b.c.d form used for the descriptor's version entries.

Example:
  pdbcat fileversion Bin/Win10/x64/System32/ntdll.dll
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeFileVersion(peversion.NewFileQuerier(afero.NewOsFs()), args, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(fileversionCmd)
}

// executeFileVersion prints every version it can read and reports the
// binaries it could not.
func executeFileVersion(q peversion.Querier, paths []string, out io.Writer) error {
	var result *multierror.Error
	for _, p := range paths {
		version, err := q.Query(p)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", p, err))
			continue
		}
		fmt.Fprintf(out, "%s\t%s\n", p, version)
	}
	return result.ErrorOrNil()
}
