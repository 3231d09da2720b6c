// Package mirror maps binaries found under the binary root onto the PDB and
// Output trees. Symbol tool paths are Windows paths, so all computation runs
// on slash-normalised strings and converts to host form only at the
// filesystem boundary.
package mirror

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
)

// SymbolExt is appended to the binary's file name to name its mirrored symbol file.
const SymbolExt = ".pdb"

var (
	// ErrOutsideRoot indicates a binary that does not live under the binary root.
	ErrOutsideRoot = errors.New("binary outside binary root")

	// ErrLayout indicates a binary that is not under <system>/<arch>/.
	ErrLayout = errors.New("binary not under <system>/<arch>")
)

var driversPattern = regexp.MustCompile(`(?i)([\\/])system32[\\/]drivers([\\/])`)

// Layout holds the three roots the mirror works between.
type Layout struct {
	BinRoot    string
	PDBRoot    string
	OutputRoot string
}

// Target is everything the pipeline needs to know about where one binary's
// artifacts go.
type Target struct {
	// SymbolPath is where the symbol file is copied: PDBRoot/<rel dir>/<name>.pdb.
	SymbolPath string

	// OutputDir receives the generated headers for this symbol file.
	OutputDir string

	// Name is the binary file name, e.g. "ntoskrnl.exe".
	Name string

	System string
	Arch   string
}

// Resolve computes the target for binaryPath.
func (l Layout) Resolve(binaryPath string) (Target, error) {
	bin := toSlash(binaryPath)
	name := path.Base(bin)

	relDir, err := relative(path.Dir(bin), toSlash(l.BinRoot))
	if err != nil {
		return Target{}, fmt.Errorf("%w: %s", err, binaryPath)
	}

	var parts []string
	if relDir != "" {
		parts = strings.Split(relDir, "/")
	}
	if len(parts) < 2 {
		return Target{}, fmt.Errorf("%w: %s", ErrLayout, binaryPath)
	}

	outRel := strings.Trim(NormalizeDrivers("/"+relDir+"/"), "/")

	return Target{
		SymbolPath: path.Join(toSlash(l.PDBRoot), relDir, name+SymbolExt),
		OutputDir:  path.Join(toSlash(l.OutputRoot), outRel, name),
		Name:       name,
		System:     parts[0],
		Arch:       parts[1],
	}, nil
}

// NormalizeDrivers rewrites the first system32<sep>drivers segment, in any
// case, to System32 so drivers land beside the other system binaries.
func NormalizeDrivers(p string) string {
	loc := driversPattern.FindStringSubmatchIndex(p)
	if loc == nil {
		return p
	}
	lead := p[loc[2]:loc[3]]
	trail := p[loc[4]:loc[5]]
	return p[:loc[0]] + lead + "System32" + trail + p[loc[1]:]
}

// relative returns dir relative to root, compared case-insensitively.
func relative(dir, root string) (string, error) {
	dir = strings.TrimRight(dir, "/")
	root = strings.TrimRight(root, "/")
	if strings.EqualFold(dir, root) {
		return "", nil
	}
	prefix := root + "/"
	if root == "" || root == "." {
		if path.IsAbs(dir) || strings.HasPrefix(dir, "../") {
			return "", ErrOutsideRoot
		}
		return strings.TrimPrefix(dir, "./"), nil
	}
	if len(dir) <= len(prefix) || !strings.EqualFold(dir[:len(prefix)], prefix) {
		return "", ErrOutsideRoot
	}
	return dir[len(prefix):], nil
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
