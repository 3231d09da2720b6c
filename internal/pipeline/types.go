package pipeline

import (
	"time"

	"github.com/mvp-joe/pdbcat/internal/mirror"
)

// Config describes one pipeline run.
type Config struct {
	Layout mirror.Layout

	// CacheDir is the symchk downstream store.
	CacheDir string

	// SymbolServer is the symbol server URL passed to symchk.
	SymbolServer string

	SymchkPath string
	PdbexPath  string

	// DescriptorPath is where the descriptor is written.
	DescriptorPath string

	// Ignore holds glob patterns, relative to the binary root, of binaries
	// to leave out of the run.
	Ignore []string
}

// Stats summarises a completed run.
type Stats struct {
	RunID          string        `json:"run_id"`
	Associations   int           `json:"associations"`
	Ignored        int           `json:"ignored"`
	Generated      int           `json:"generated"`
	Skipped        int           `json:"skipped"`
	TypesListed    int           `json:"types_listed"`
	Filenames      int           `json:"filenames"`
	Versions       int           `json:"versions"`
	Types          int           `json:"types"`
	DescriptorPath string        `json:"descriptor_path"`
	Duration       time.Duration `json:"duration"`
}
