// Package pipeline resolves symbols for a binary tree, mirrors them, drives
// the header dumps and writes the descriptor.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mvp-joe/pdbcat/internal/catalog"
	"github.com/mvp-joe/pdbcat/internal/descriptor"
	"github.com/mvp-joe/pdbcat/internal/mirror"
	"github.com/mvp-joe/pdbcat/internal/pdbex"
	"github.com/mvp-joe/pdbcat/internal/peversion"
	"github.com/mvp-joe/pdbcat/internal/symchk"
	"github.com/mvp-joe/pdbcat/internal/toolexec"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Deps are the collaborators a pipeline talks to. Nil fields get defaults:
// os/exec, the OS filesystem, PE version resources, no progress output and
// the standard logrus logger.
type Deps struct {
	Runner   toolexec.Runner
	Fs       afero.Fs
	Versions peversion.Querier
	Progress ProgressReporter
	Logger   *logrus.Logger
}

// Pipeline runs the whole symbol-to-descriptor flow. It is not safe for
// concurrent use; every Run builds its catalogs from scratch.
type Pipeline struct {
	cfg      Config
	runner   toolexec.Runner
	fs       afero.Fs
	versions peversion.Querier
	progress ProgressReporter
	logger   *logrus.Logger
	filter   *symchk.Filter
	dumper   *pdbex.Dumper
}

// New validates cfg and wires the pipeline.
func New(cfg Config, deps Deps) (*Pipeline, error) {
	if cfg.SymchkPath == "" || cfg.PdbexPath == "" {
		return nil, fmt.Errorf("tool paths are required")
	}
	if cfg.DescriptorPath == "" {
		return nil, fmt.Errorf("descriptor path is required")
	}

	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.Runner == nil {
		deps.Runner = toolexec.NewExecRunner("", 0, deps.Logger)
	}
	if deps.Versions == nil {
		deps.Versions = peversion.NewFileQuerier(deps.Fs)
	}
	if deps.Progress == nil {
		deps.Progress = &NoOpProgressReporter{}
	}

	filter, err := symchk.NewFilter(cfg.Layout.BinRoot, cfg.Ignore)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:      cfg,
		runner:   deps.Runner,
		fs:       deps.Fs,
		versions: deps.Versions,
		progress: deps.Progress,
		logger:   deps.Logger,
		filter:   filter,
		dumper:   pdbex.NewDumper(deps.Runner, deps.Fs, cfg.PdbexPath),
	}, nil
}

// Resolve runs symchk and returns the associations that survive the
// ignore patterns, plus how many were ignored.
func (p *Pipeline) Resolve(ctx context.Context) ([]symchk.Association, int, error) {
	all, err := symchk.Resolve(ctx, p.runner, p.cfg.SymchkPath, symchk.Request{
		BinaryRoot: p.cfg.Layout.BinRoot,
		CacheDir:   p.cfg.CacheDir,
		Server:     p.cfg.SymbolServer,
	})
	if err != nil {
		return nil, 0, err
	}
	kept := p.filter.Apply(all)
	return kept, len(all) - len(kept), nil
}

// Run executes one full pass. Any failure aborts the run before the
// descriptor is written.
func (p *Pipeline) Run(ctx context.Context) (*Stats, error) {
	start := time.Now()
	stats := &Stats{RunID: uuid.New().String(), DescriptorPath: p.cfg.DescriptorPath}
	log := p.logger.WithField("run_id", stats.RunID)

	p.progress.OnResolveStart()
	associations, ignored, err := p.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	stats.Associations = len(associations)
	stats.Ignored = ignored
	p.progress.OnResolveComplete(len(associations), ignored)
	log.WithFields(logrus.Fields{
		"associations": len(associations),
		"ignored":      ignored,
	}).Info("resolved symbol files")

	desc := catalog.NewDescriptor()
	for i, a := range associations {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run cancelled: %w", err)
		}
		p.progress.OnAssociationStart(i, len(associations), a)
		if err := p.process(ctx, log, a, desc, stats); err != nil {
			return nil, fmt.Errorf("failed to process %s: %w", a.BinaryPath, err)
		}
		p.progress.OnAssociationComplete(a)
	}

	if err := descriptor.Write(p.fs, p.cfg.DescriptorPath, desc.Document()); err != nil {
		return nil, err
	}

	stats.Filenames = desc.Filename.Len()
	stats.Versions = desc.Version.Len()
	stats.Types = desc.Type.Len()
	stats.Duration = time.Since(start)
	log.WithFields(logrus.Fields{
		"descriptor": p.cfg.DescriptorPath,
		"types":      stats.Types,
		"duration":   stats.Duration.Round(time.Millisecond),
	}).Info("descriptor written")
	p.progress.OnComplete(stats)

	return stats, nil
}

func (p *Pipeline) process(ctx context.Context, log *logrus.Entry, a symchk.Association, desc *catalog.Descriptor, stats *Stats) error {
	target, err := p.cfg.Layout.Resolve(a.BinaryPath)
	if err != nil {
		return err
	}
	log = log.WithFields(logrus.Fields{"binary": a.BinaryPath, "pdb": a.SymbolPath})

	if err := mirror.CopySymbol(p.fs, a.SymbolPath, target.SymbolPath); err != nil {
		return err
	}
	p.progress.OnSymbolCopied(a.SymbolPath, target.SymbolPath)
	log.WithField("dest", target.SymbolPath).Debug("copied symbol file")

	desc.AddFilename(target.Name)

	version, err := p.versions.Query(a.BinaryPath)
	if err != nil {
		return fmt.Errorf("failed to read version: %w", err)
	}
	desc.AddVersion(target.System, target.Arch, version)

	for _, artifact := range pdbex.Artifacts {
		result, err := p.dumper.Dump(ctx, artifact, target.SymbolPath, target.OutputDir)
		if err != nil {
			return err
		}
		if result.Skipped {
			stats.Skipped++
		} else {
			stats.Generated++
		}
		p.progress.OnArtifact(result)
		log.WithFields(logrus.Fields{
			"artifact": artifact.Name(),
			"skipped":  result.Skipped,
		}).Debug("artifact ready")
	}

	records, err := p.dumper.ListTypes(ctx, target.SymbolPath)
	if err != nil {
		return err
	}
	added := 0
	for _, rec := range records {
		if desc.AddType(rec.Name) {
			added++
		}
	}
	stats.TypesListed += len(records)
	p.progress.OnTypesListed(len(records), added)
	log.WithFields(logrus.Fields{"types": len(records), "new": added}).Info("processed symbol file")

	return nil
}
