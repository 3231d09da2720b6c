package pdbex

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mvp-joe/pdbcat/internal/toolexec"
	"github.com/spf13/afero"
)

// Result describes what happened to one artifact.
type Result struct {
	Artifact Artifact
	Path     string
	Skipped  bool // the artifact already existed
}

// Dumper drives pdbex for one tool binary.
//
// Artifacts that already exist are never regenerated, even if the symbol
// file changed since. Remove the output directory to force a rebuild.
type Dumper struct {
	Runner toolexec.Runner
	Fs     afero.Fs
	Tool   string
}

// NewDumper creates a dumper.
func NewDumper(runner toolexec.Runner, fs afero.Fs, tool string) *Dumper {
	return &Dumper{Runner: runner, Fs: fs, Tool: tool}
}

// Dump produces artifact a for pdbPath inside outputDir unless it exists.
func (d *Dumper) Dump(ctx context.Context, a Artifact, pdbPath, outputDir string) (Result, error) {
	outputDir = filepath.FromSlash(outputDir)
	target := filepath.Join(outputDir, a.Name())
	result := Result{Artifact: a, Path: target}

	exists, err := d.exists(target, a.IsDir())
	if err != nil {
		return result, fmt.Errorf("failed to check %s: %w", a.Name(), err)
	}
	if exists {
		result.Skipped = true
		return result, nil
	}

	if err := d.Fs.MkdirAll(outputDir, 0755); err != nil {
		return result, fmt.Errorf("failed to create output directory: %w", err)
	}

	args := BuildArgs(a, filepath.FromSlash(pdbPath), target)
	if _, err := d.Runner.Run(ctx, d.Tool, args...); err != nil {
		return result, fmt.Errorf("failed to generate %s: %w", a.Name(), err)
	}
	return result, nil
}

// ListTypes runs pdbex in list mode and parses the records.
func (d *Dumper) ListTypes(ctx context.Context, pdbPath string) ([]TypeRecord, error) {
	out, err := d.Runner.Run(ctx, d.Tool, BuildListArgs(filepath.FromSlash(pdbPath))...)
	if err != nil {
		return nil, fmt.Errorf("failed to list types: %w", err)
	}
	records, err := ParseTypeList(out)
	if err != nil {
		return nil, fmt.Errorf("failed to parse type list: %w", err)
	}
	return records, nil
}

func (d *Dumper) exists(path string, wantDir bool) (bool, error) {
	info, err := d.Fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir() == wantDir, nil
}
