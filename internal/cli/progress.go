package cli

import (
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mvp-joe/pdbcat/internal/pdbex"
	"github.com/mvp-joe/pdbcat/internal/pipeline"
	"github.com/mvp-joe/pdbcat/internal/symchk"
	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter implements progress reporting with progress bars.
type CLIProgressReporter struct {
	quiet     bool
	out       io.Writer
	bar       *progressbar.ProgressBar
	check     func(a ...interface{}) string
	startTime time.Time
	generated int
	skipped   int
}

// NewCLIProgressReporter creates a new CLI progress reporter writing to out.
func NewCLIProgressReporter(out io.Writer, quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet:     quiet,
		out:       out,
		check:     color.New(color.FgGreen).SprintFunc(),
		startTime: time.Now(),
	}
}

func (c *CLIProgressReporter) OnResolveStart() {
	// Watch mode reuses the reporter across runs.
	c.startTime = time.Now()
	c.generated = 0
	c.skipped = 0
	if c.quiet {
		return
	}
	fmt.Fprintln(c.out, "Resolving symbol files with symchk...")
}

func (c *CLIProgressReporter) OnResolveComplete(associations, ignored int) {
	if c.quiet {
		return
	}
	if ignored > 0 {
		fmt.Fprintf(c.out, "Found %s symbol files (%s ignored)\n",
			humanize.Comma(int64(associations)), humanize.Comma(int64(ignored)))
	} else {
		fmt.Fprintf(c.out, "Found %s symbol files\n", humanize.Comma(int64(associations)))
	}
	if associations == 0 {
		return
	}

	c.bar = progressbar.NewOptions(associations,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Cataloguing"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("pdb/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

func (c *CLIProgressReporter) OnAssociationStart(index, total int, a symchk.Association) {
	if c.quiet || c.bar == nil {
		return
	}
	c.bar.Describe(binaryName(a.BinaryPath))
}

func (c *CLIProgressReporter) OnSymbolCopied(src, dst string) {}

func (c *CLIProgressReporter) OnArtifact(result pdbex.Result) {
	if result.Skipped {
		c.skipped++
	} else {
		c.generated++
	}
	if c.quiet {
		return
	}
	if c.bar != nil {
		_ = c.bar.Clear()
	}
	if result.Skipped {
		fmt.Fprintf(c.out, "  \"%s\" already exists, skipping\n", artifactLabel(result.Artifact))
	} else {
		fmt.Fprintf(c.out, "  Created \"%s\"\n", artifactLabel(result.Artifact))
	}
}

// artifactLabel names what an artifact puts on disk.
func artifactLabel(a pdbex.Artifact) string {
	if a.IsDir() {
		return a.Name() + `\*.h`
	}
	return a.Name()
}

func (c *CLIProgressReporter) OnTypesListed(total, added int) {}

func (c *CLIProgressReporter) OnAssociationComplete(a symchk.Association) {
	if c.quiet || c.bar == nil {
		return
	}
	_ = c.bar.Add(1)
}

func (c *CLIProgressReporter) OnComplete(stats *pipeline.Stats) {
	if c.quiet {
		return
	}
	if c.bar != nil {
		_ = c.bar.Finish()
		c.bar = nil
	}

	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "%s Catalog complete: %s symbol files in %.1fs\n",
		c.check("✓"), humanize.Comma(int64(stats.Associations)), time.Since(c.startTime).Seconds())
	fmt.Fprintf(c.out, "  Headers:   %s generated, %s already present\n",
		humanize.Comma(int64(c.generated)), humanize.Comma(int64(c.skipped)))
	fmt.Fprintf(c.out, "  Filenames: %s\n", humanize.Comma(int64(stats.Filenames)))
	fmt.Fprintf(c.out, "  Versions:  %s\n", humanize.Comma(int64(stats.Versions)))
	fmt.Fprintf(c.out, "  Types:     %s\n", humanize.Comma(int64(stats.Types)))
	fmt.Fprintf(c.out, "  Written:   %s\n", stats.DescriptorPath)
}

// binaryName returns the last element of a symchk path, which may use either
// separator.
func binaryName(p string) string {
	return path.Base(strings.ReplaceAll(p, `\`, "/"))
}
