package program

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/dominikbraun/graph"

	"github.com/mvp-joe/commentcov-typescript/internal/syntax"
)

// Options controls which files a program contains.
type Options struct {
	// FollowImports adds files reached through relative imports and
	// triple-slash references.
	FollowImports bool

	// Ignore lists globs of paths that are never loaded.
	Ignore []string

	// CacheSize bounds the number of parsed files kept between loads.
	// Zero disables the cache.
	CacheSize int
}

// Skipped records a file that could not be read or parsed.
type Skipped struct {
	Path string
	Err  error
}

// Program is a set of parsed files in dependency-first order: every file
// comes after the files it imports, roots keep their relative order and
// no file appears twice.
type Program struct {
	Files   []*syntax.File
	Skipped []Skipped

	// Imports is the directed import graph keyed by absolute path.
	Imports graph.Graph[string, string]
}

// Dependencies returns the direct imports of path, sorted.
func (p *Program) Dependencies(path string) []string {
	adj, err := p.Imports.AdjacencyMap()
	if err != nil {
		return nil
	}
	deps := make([]string, 0, len(adj[path]))
	for target := range adj[path] {
		deps = append(deps, target)
	}
	sort.Strings(deps)
	return deps
}

// Loader builds programs from root files.
type Loader struct {
	parser *syntax.Parser
	ignore *Matcher
	follow bool
	cache  *parseCache
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger uses slog.Default().
func NewLoader(parser *syntax.Parser, opts Options, logger *slog.Logger) (*Loader, error) {
	ignore, err := NewMatcher(opts.Ignore)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	var cache *parseCache
	if opts.CacheSize > 0 {
		if cache, err = newParseCache(opts.CacheSize); err != nil {
			return nil, err
		}
	}
	return &Loader{
		parser: parser,
		ignore: ignore,
		follow: opts.FollowImports,
		cache:  cache,
		logger: logger,
	}, nil
}

// Close releases the parse cache.
func (l *Loader) Close() {
	l.cache.close()
}

// Ignored reports whether path matches an ignore glob.
func (l *Loader) Ignored(path string) bool {
	return l.ignore.Match(path)
}

// Load parses the roots and, when following imports, everything they reach.
// Unreadable files are recorded in Program.Skipped; only context
// cancellation fails the load.
func (l *Loader) Load(ctx context.Context, roots []string) (*Program, error) {
	st := &loadState{
		loader: l,
		seen:   make(map[string]bool),
		prog: &Program{
			Files:   []*syntax.File{},
			Imports: graph.New(graph.StringHash, graph.Directed()),
		},
	}

	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			abs = filepath.Clean(root)
		}
		if err := st.visit(ctx, abs); err != nil {
			return nil, err
		}
	}

	return st.prog, nil
}

type loadState struct {
	loader *Loader
	seen   map[string]bool
	prog   *Program
}

func (st *loadState) visit(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if st.seen[path] {
		return nil
	}
	// Marked before descending so import cycles terminate.
	st.seen[path] = true

	l := st.loader
	if l.ignore.Match(path) {
		l.logger.Debug("ignoring file", "path", path)
		return nil
	}

	file, err := l.parse(ctx, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		l.logger.Warn("skipping file", "path", path, "error", err)
		st.prog.Skipped = append(st.prog.Skipped, Skipped{Path: path, Err: err})
		return nil
	}
	st.addVertex(path)

	if l.follow {
		dir := filepath.Dir(path)
		for _, dep := range dependencies(dir, file) {
			if l.ignore.Match(dep) {
				continue
			}
			st.addVertex(dep)
			if err := st.prog.Imports.AddEdge(path, dep); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return fmt.Errorf("failed to record import %s -> %s: %w", path, dep, err)
			}
			if err := st.visit(ctx, dep); err != nil {
				return err
			}
		}
	}

	st.prog.Files = append(st.prog.Files, file)
	return nil
}

// parse returns the file at path, from the cache when it is unchanged.
// Cached files are shared between loads and must not be mutated.
func (l *Loader) parse(ctx context.Context, path string) (*syntax.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	key := cacheKey(path, info)
	if f, ok := l.cache.get(key); ok {
		l.logger.Debug("parse cache hit", "path", path)
		return f, nil
	}

	f, err := l.parser.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	f.Path = path
	l.cache.set(key, f)
	return f, nil
}

func (st *loadState) addVertex(path string) {
	// Already present is the common case for shared dependencies.
	_ = st.prog.Imports.AddVertex(path)
}

// dependencies resolves references first, then module imports, matching
// the order TypeScript processes them.
func dependencies(dir string, file *syntax.File) []string {
	var deps []string
	for _, ref := range file.References {
		if p, ok := resolveReference(dir, ref); ok {
			deps = append(deps, p)
		}
	}
	for _, spec := range file.Imports {
		if p, ok := resolveModule(dir, spec); ok {
			deps = append(deps, p)
		}
	}
	return deps
}
