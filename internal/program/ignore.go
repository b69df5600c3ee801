package program

import (
	"fmt"
	"path/filepath"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Matcher decides which paths a program never loads.
type Matcher struct {
	patterns []compiledPattern
}

// NewMatcher compiles ignore globs. Patterns match slash-separated absolute
// paths, so "**/node_modules/**" skips every node_modules tree.
func NewMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		m.patterns = append(m.patterns, compiledPattern{pattern: pattern, glob: g})
	}
	return m, nil
}

// Match reports whether path, a file or a directory, is ignored.
func (m *Matcher) Match(path string) bool {
	if m == nil {
		return false
	}

	p := filepath.ToSlash(path)
	for _, cp := range m.patterns {
		if cp.glob.Match(p) {
			return true
		}
		// A directory matches patterns written for its contents, e.g.
		// ".../node_modules" against "**/node_modules/**".
		if cp.glob.Match(p + "/**") {
			return true
		}
	}
	return false
}

// Patterns returns the source patterns.
func (m *Matcher) Patterns() []string {
	out := make([]string, 0, len(m.patterns))
	for _, cp := range m.patterns {
		out = append(out, cp.pattern)
	}
	return out
}
