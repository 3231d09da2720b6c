package mirror

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ErrSameFile is returned when the source and destination of a copy name the
// same file.
var ErrSameFile = errors.New("source and destination are the same file")

// CopySymbol copies the symbol file at src to dst, creating missing parent
// directories. An existing dst is overwritten so re-runs are safe.
func CopySymbol(fs afero.Fs, src, dst string) error {
	src = filepath.Clean(filepath.FromSlash(toSlash(src)))
	dst = filepath.Clean(filepath.FromSlash(dst))

	// Windows paths compare case-insensitively.
	if strings.EqualFold(src, dst) {
		return fmt.Errorf("failed to copy %s: %w", src, ErrSameFile)
	}

	if err := fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create symbol directory: %w", err)
	}

	in, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open symbol file: %w", err)
	}
	defer in.Close()

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create mirrored symbol file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy symbol file: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close mirrored symbol file: %w", err)
	}

	return nil
}
