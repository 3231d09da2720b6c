package symchk

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/samber/lo"
)

type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Filter drops associations whose binary matches an ignore pattern. Patterns
// are matched against the slash-separated binary path relative to the
// binary root, case-insensitively.
type Filter struct {
	binaryRoot string
	patterns   []compiledPattern
}

// NewFilter compiles the ignore patterns.
func NewFilter(binaryRoot string, ignore []string) (*Filter, error) {
	f := &Filter{binaryRoot: normalize(binaryRoot)}
	for _, pattern := range ignore {
		g, err := glob.Compile(strings.ToLower(pattern), '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		f.patterns = append(f.patterns, compiledPattern{pattern: pattern, glob: g})
	}
	return f, nil
}

// Apply returns the associations that survive the filter, in order.
func (f *Filter) Apply(associations []Association) []Association {
	if len(f.patterns) == 0 {
		return associations
	}
	return lo.Filter(associations, func(a Association, _ int) bool {
		return !f.Ignored(a.BinaryPath)
	})
}

// Ignored reports whether binaryPath matches any ignore pattern.
func (f *Filter) Ignored(binaryPath string) bool {
	rel := strings.ToLower(normalize(binaryPath))
	root := strings.ToLower(f.binaryRoot)
	if root != "" && strings.HasPrefix(rel, root+"/") {
		rel = rel[len(root)+1:]
	}
	for _, cp := range f.patterns {
		if cp.glob.Match(rel) {
			return true
		}
	}
	return false
}

func normalize(p string) string {
	return strings.TrimRight(strings.ReplaceAll(p, `\`, "/"), "/")
}
