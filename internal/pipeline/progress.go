package pipeline

import (
	"github.com/mvp-joe/pdbcat/internal/pdbex"
	"github.com/mvp-joe/pdbcat/internal/symchk"
)

// ProgressReporter provides callbacks for reporting pipeline progress.
// Implementations can display progress bars, log messages, or remain silent.
type ProgressReporter interface {
	// OnResolveStart is called before symchk runs.
	OnResolveStart()

	// OnResolveComplete is called once associations are known.
	OnResolveComplete(associations, ignored int)

	// OnAssociationStart is called before each association is processed.
	OnAssociationStart(index, total int, a symchk.Association)

	// OnSymbolCopied is called after a symbol file is mirrored.
	OnSymbolCopied(src, dst string)

	// OnArtifact is called for every artifact, generated or skipped.
	OnArtifact(result pdbex.Result)

	// OnTypesListed is called after list mode, with the number of new types.
	OnTypesListed(total, added int)

	// OnAssociationComplete is called after each association succeeds.
	OnAssociationComplete(a symchk.Association)

	// OnComplete is called after the descriptor has been written.
	OnComplete(stats *Stats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnResolveStart()                                           {}
func (n *NoOpProgressReporter) OnResolveComplete(associations, ignored int)               {}
func (n *NoOpProgressReporter) OnAssociationStart(index, total int, a symchk.Association) {}
func (n *NoOpProgressReporter) OnSymbolCopied(src, dst string)                            {}
func (n *NoOpProgressReporter) OnArtifact(result pdbex.Result)                            {}
func (n *NoOpProgressReporter) OnTypesListed(total, added int)                            {}
func (n *NoOpProgressReporter) OnAssociationComplete(a symchk.Association)                {}
func (n *NoOpProgressReporter) OnComplete(stats *Stats)                                   {}
