// Package descriptor persists the catalog document produced by a run.
package descriptor

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mvp-joe/pdbcat/internal/catalog"
	"github.com/spf13/afero"
)

// DefaultName is the descriptor file name inside the output root.
const DefaultName = "descriptor.json"

const indent = "    "

// Write serialises doc to path with sorted keys and four-space indentation.
// The document is written to a temporary file and renamed into place, so a
// failed write leaves any previous descriptor untouched.
func Write(fs afero.Fs, path string, doc catalog.Document) error {
	path = filepath.FromSlash(path)
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create descriptor directory: %w", err)
	}

	tmp, err := afero.TempFile(fs, dir, "descriptor-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer fs.Remove(tmpPath) // no-op after a successful rename

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", indent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalize(doc)); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode descriptor: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close descriptor: %w", err)
	}

	if err := fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace descriptor: %w", err)
	}
	return nil
}

// Read loads a descriptor previously written by Write.
func Read(fs afero.Fs, path string) (catalog.Document, error) {
	var doc catalog.Document
	data, err := afero.ReadFile(fs, filepath.FromSlash(path))
	if err != nil {
		return doc, fmt.Errorf("failed to read descriptor: %w", err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("invalid descriptor %s: %w", path, err)
	}
	return normalize(doc), nil
}

// normalize turns nil catalogs into empty ones so they encode as [].
func normalize(doc catalog.Document) catalog.Document {
	if doc.Filename == nil {
		doc.Filename = []catalog.Entry{}
	}
	if doc.Type == nil {
		doc.Type = []catalog.Entry{}
	}
	if doc.Version == nil {
		doc.Version = []catalog.Entry{}
	}
	return doc
}
