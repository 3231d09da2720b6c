package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var cleanQuietFlag bool
var cleanAllFlag bool

// cleanCmd represents the clean command
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete generated headers to force regeneration",
	Long: `Clean removes the pdbex headers under the output directory. Build skips
artifacts that already exist, so this is how stale headers are regenerated.

With --all the mirrored symbol files under the PDB directory are removed as
well. The symchk cache, the descriptor and the configuration file
(.pdbcat/config.yml) are preserved.

Use cases:
  - Upgraded pdbex and want headers in its new format
  - A dump was interrupted and left a partial header behind
  - Symbol files changed for binaries that were already processed

Examples:
  # Remove generated headers
  pdbcat clean

  # Remove generated headers and mirrored symbol files
  pdbcat clean --all

  # Clean with minimal output
  pdbcat clean --quiet
`,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().BoolVarP(&cleanQuietFlag, "quiet", "q", false, "Suppress output messages")
	cleanCmd.Flags().BoolVarP(&cleanAllFlag, "all", "a", false, "Also delete mirrored symbol files")
}

func runClean(cmd *cobra.Command, args []string) error {
	proj, err := loadProject()
	if err != nil {
		return err
	}
	return executeClean(proj, cleanAllFlag, cleanQuietFlag, cmd.OutOrStdout())
}

func executeClean(proj *project, all, quiet bool, out io.Writer) error {
	dirs := []struct {
		label string
		path  string
	}{
		{"output", proj.cfg.Resolve(proj.rootDir, proj.cfg.Paths.OutputDir)},
	}
	if all {
		dirs = append(dirs, struct {
			label string
			path  string
		}{"symbol mirror", proj.cfg.Resolve(proj.rootDir, proj.cfg.Paths.PDBDir)})
	}
	keep := proj.cfg.Resolve(proj.rootDir, proj.cfg.Paths.Descriptor)

	check := color.New(color.FgGreen).SprintFunc()
	cleaned := 0
	for _, d := range dirs {
		exists, err := afero.DirExists(proj.fs, d.path)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", d.path, err)
		}
		if !exists {
			if !quiet {
				fmt.Fprintf(out, "No %s directory found at %s\n", d.label, d.path)
			}
			continue
		}

		files, size, err := removeTree(proj.fs, d.path, keep)
		if err != nil {
			return fmt.Errorf("failed to remove %s directory: %w", d.label, err)
		}
		cleaned++

		if !quiet {
			if files > 0 {
				fmt.Fprintf(out, "%s Cleaned %s directory (%s files, %s)\n",
					check("✓"), d.label, humanize.Comma(int64(files)), humanize.Bytes(uint64(size)))
			} else {
				fmt.Fprintf(out, "%s Cleaned %s directory\n", check("✓"), d.label)
			}
		}
	}

	if cleaned > 0 && !quiet {
		fmt.Fprintln(out, "Next 'pdbcat build' will regenerate every artifact")
	}
	return nil
}

// removeTree deletes dir, except for keep when it lies inside dir, and
// returns how many regular files it removed and their total size.
func removeTree(fs afero.Fs, dir, keep string) (files int, size int64, err error) {
	rel, relErr := filepath.Rel(dir, keep)
	if relErr != nil || rel == "." || strings.HasPrefix(rel, "..") {
		files, size, _ = getDirStats(fs, dir)
		return files, size, fs.RemoveAll(dir)
	}

	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return 0, 0, err
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if path == keep {
			continue
		}
		n, sz, err := removeTree(fs, path, keep)
		files += n
		size += sz
		if err != nil {
			return files, size, err
		}
	}
	return files, size, nil
}

// getDirStats counts the regular files under dir and their total size.
func getDirStats(fs afero.Fs, dir string) (files int, size int64, err error) {
	err = afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			files++
			size += info.Size()
		}
		return nil
	})
	return files, size, err
}
