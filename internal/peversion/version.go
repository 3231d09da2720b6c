// Package peversion reads the file version embedded in a PE binary's
// version resource.
package peversion

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/saferwall/pe"
	"github.com/spf13/afero"
)

const (
	rtVersion         = 16
	fixedInfoSig      = 0xFEEF04BD
	maxResourceDepth  = 8
	fixedInfoMinBytes = 16 // signature, struct version, file version MS/LS
)

// ErrNoVersion indicates a binary that carries no usable version resource.
var ErrNoVersion = errors.New("no version resource")

// Querier returns the dotted-quad file version of a binary.
type Querier interface {
	Query(path string) (string, error)
}

// FileQuerier reads versions from PE files on an afero filesystem.
type FileQuerier struct {
	Fs afero.Fs
}

// NewFileQuerier creates a querier over fs.
func NewFileQuerier(fs afero.Fs) *FileQuerier {
	return &FileQuerier{Fs: fs}
}

// Query returns the VS_FIXEDFILEINFO file version of the binary at path as
// "major.minor.build.revision".
func (q *FileQuerier) Query(path string) (string, error) {
	data, err := afero.ReadFile(q.Fs, filepath.FromSlash(path))
	if err != nil {
		return "", fmt.Errorf("failed to open binary: %w", err)
	}

	pf, err := pe.NewBytes(data, &pe.Options{})
	if err != nil {
		return "", fmt.Errorf("failed to load PE file %s: %w", path, err)
	}
	defer pf.Close()

	if err := pf.Parse(); err != nil {
		return "", fmt.Errorf("failed to parse PE file %s: %w", path, err)
	}

	ms, ls, err := fixedFileVersion(pf.Resources, pf.GetData)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return FormatVersion(ms, ls), nil
}

// FormatVersion renders the two version DWORDs as HIWORD(ms).LOWORD(ms).HIWORD(ls).LOWORD(ls).
func FormatVersion(ms, ls uint32) string {
	return fmt.Sprintf("%d.%d.%d.%d", ms>>16, ms&0xffff, ls>>16, ls&0xffff)
}

// fixedFileVersion follows the first RT_VERSION resource in root down to its
// data, reads it through read (an RVA reader) and returns the file version DWORDs.
func fixedFileVersion(root pe.ResourceDirectory, read func(rva, size uint32) ([]byte, error)) (ms, ls uint32, err error) {
	if len(root.Entries) == 0 {
		return 0, 0, fmt.Errorf("%w: no resource directory", ErrNoVersion)
	}

	entry, ok := lo.Find(root.Entries, func(e pe.ResourceDirectoryEntry) bool {
		return e.ID == rtVersion && e.Name == ""
	})
	if !ok {
		return 0, 0, fmt.Errorf("%w: no RT_VERSION entry", ErrNoVersion)
	}

	// Name and language levels: take the first entry of each.
	for depth := 0; entry.IsResourceDir; depth++ {
		if depth >= maxResourceDepth {
			return 0, 0, fmt.Errorf("%w: resource directory too deep", ErrNoVersion)
		}
		if len(entry.Directory.Entries) == 0 {
			return 0, 0, fmt.Errorf("%w: empty resource directory", ErrNoVersion)
		}
		entry = entry.Directory.Entries[0]
	}

	data := entry.Data.Struct
	if data.Size == 0 {
		return 0, 0, fmt.Errorf("%w: empty version data", ErrNoVersion)
	}
	block, err := read(data.OffsetToData, data.Size)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: version data out of range: %v", ErrNoVersion, err)
	}

	return parseFixedFileInfo(block)
}

// parseFixedFileInfo locates VS_FIXEDFILEINFO inside a VS_VERSIONINFO block.
func parseFixedFileInfo(block []byte) (ms, ls uint32, err error) {
	var sig [4]byte
	binary.LittleEndian.PutUint32(sig[:], fixedInfoSig)

	idx := bytes.Index(block, sig[:])
	if idx < 0 || idx+fixedInfoMinBytes > len(block) {
		return 0, 0, fmt.Errorf("%w: VS_FIXEDFILEINFO not found", ErrNoVersion)
	}
	ms = binary.LittleEndian.Uint32(block[idx+8:])
	ls = binary.LittleEndian.Uint32(block[idx+12:])
	return ms, ls, nil
}
