package pdbex

// Artifact identifies one of the per-symbol-file outputs of pdbex.
type Artifact int

const (
	// All dumps every type to ALL.h.
	All Artifact = iota
	// AllSorted dumps every type, sorted, to ALL_SORTED.h.
	AllSorted
	// AllFunctions dumps function declarations only to ALL_FUNCTIONS.h.
	AllFunctions
	// Standalone writes one header per type into the Standalone directory.
	Standalone
)

// Artifacts lists every artifact in the order they are generated.
var Artifacts = []Artifact{All, AllSorted, AllFunctions, Standalone}

// Name is the file or directory name of the artifact inside a symbol
// file's output directory.
func (a Artifact) Name() string {
	switch a {
	case All:
		return "ALL.h"
	case AllSorted:
		return "ALL_SORTED.h"
	case AllFunctions:
		return "ALL_FUNCTIONS.h"
	case Standalone:
		return "Standalone"
	}
	return "unknown"
}

// IsDir reports whether the artifact is a directory rather than a file.
func (a Artifact) IsDir() bool { return a == Standalone }

func (a Artifact) String() string { return a.Name() }
