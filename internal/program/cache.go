package program

import (
	"fmt"
	"io/fs"

	"github.com/maypok86/otter"

	"github.com/mvp-joe/commentcov-typescript/internal/syntax"
)

// parseCache memoizes parsed files across loads. Entries are keyed by path,
// size and modification time, so an edited file misses and is parsed again.
type parseCache struct {
	files otter.Cache[string, *syntax.File]
}

func newParseCache(capacity int) (*parseCache, error) {
	files, err := otter.MustBuilder[string, *syntax.File](capacity).
		Cost(func(_ string, f *syntax.File) uint32 {
			return 1
		}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build parse cache: %w", err)
	}
	return &parseCache{files: files}, nil
}

func cacheKey(path string, info fs.FileInfo) string {
	return fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())
}

func (c *parseCache) get(key string) (*syntax.File, bool) {
	if c == nil {
		return nil, false
	}
	return c.files.Get(key)
}

func (c *parseCache) set(key string, f *syntax.File) {
	if c == nil {
		return
	}
	c.files.Set(key, f)
}

func (c *parseCache) close() {
	if c == nil {
		return
	}
	c.files.Close()
}
