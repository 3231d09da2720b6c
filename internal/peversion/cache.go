package peversion

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/maypok86/otter"
	"github.com/spf13/afero"
)

// DefaultCacheSize bounds the number of remembered binaries.
const DefaultCacheSize = 10_000

type cachedVersion struct {
	version string
	modTime time.Time
	size    int64
}

// CachingQuerier remembers versions per path and reuses them while the
// file's size and modification time are unchanged.
type CachingQuerier struct {
	next  Querier
	fs    afero.Fs
	cache otter.Cache[string, cachedVersion]
}

// NewCachingQuerier wraps next with a cache of up to capacity binaries.
func NewCachingQuerier(next Querier, fs afero.Fs, capacity int) (*CachingQuerier, error) {
	c, err := otter.MustBuilder[string, cachedVersion](capacity).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build version cache: %w", err)
	}
	return &CachingQuerier{next: next, fs: fs, cache: c}, nil
}

func (q *CachingQuerier) Query(path string) (string, error) {
	info, err := q.fs.Stat(filepath.FromSlash(path))
	if err != nil {
		return "", fmt.Errorf("failed to stat binary: %w", err)
	}

	if cached, ok := q.cache.Get(path); ok &&
		cached.size == info.Size() && cached.modTime.Equal(info.ModTime()) {
		return cached.version, nil
	}

	version, err := q.next.Query(path)
	if err != nil {
		return "", err
	}
	q.cache.Set(path, cachedVersion{version: version, modTime: info.ModTime(), size: info.Size()})
	return version, nil
}

// Close releases the cache.
func (q *CachingQuerier) Close() {
	q.cache.Close()
}
