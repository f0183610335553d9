// # internal/engine/graph/traverser.go
package graph

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"comptree/internal/core/errors"
	"comptree/internal/engine/parser"
	"comptree/internal/shared/observability"
)

// ImportResolver maps a raw import specifier onto a file.
type ImportResolver interface {
	Resolve(importer, rawPath string) (string, bool)
	RelativePath(path string) string
}

// SourceReader returns the content and line count of a file.
type SourceReader interface {
	Read(path string) (parser.Source, error)
}

type Options struct {
	// MaxDepth is the number of levels below the root to report; must be >= 1.
	MaxDepth  int
	Extractor parser.Extractor
	Resolver  ImportResolver
	Reader    SourceReader
}

// TraversalStats counts the work done by one traverser.
type TraversalStats struct {
	FilesRead  int
	CacheHits  int
	Cycles     int
	Unresolved int
}

type cacheKey struct {
	path      string
	remaining int
}

// Traverser expands one root file into a ComponentNode tree. It owns the
// in-flight set and the node cache, so a traverser must not be shared between
// runs or goroutines.
type Traverser struct {
	opts     Options
	inFlight map[string]bool
	cache    map[cacheKey]*ComponentNode
	stats    TraversalStats
}

func NewTraverser(opts Options) (*Traverser, error) {
	if opts.MaxDepth < 1 {
		return nil, errors.New(errors.CodeValidationError, fmt.Sprintf("max depth must be >= 1, got %d", opts.MaxDepth))
	}
	if opts.Extractor == nil || opts.Resolver == nil || opts.Reader == nil {
		return nil, errors.New(errors.CodeValidationError, "traverser requires an extractor, a resolver and a reader")
	}
	return &Traverser{
		opts:     opts,
		inFlight: make(map[string]bool),
		cache:    make(map[cacheKey]*ComponentNode),
	}, nil
}

// Analyze builds the tree rooted at rootPath. In-tree problems become node
// states; the only error is a root that does not exist, in which case the
// not-found marker is returned alongside a NOT_FOUND error.
func (t *Traverser) Analyze(ctx context.Context, rootPath string) (*ComponentNode, error) {
	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "resolve root path"), errors.CtxPath, rootPath)
	}

	root, _ := t.expand(ctx, abs, 0)
	if root.State == StateNotFound {
		return root, errors.AddContext(errors.New(errors.CodeNotFound, "component file not found"), errors.CtxPath, abs)
	}
	return root, nil
}

func (t *Traverser) Stats() TraversalStats {
	return t.stats
}

// expand returns the node for path at depth and whether it may be cached.
// Subtrees holding a circular marker depend on the current call path and are
// never cached.
func (t *Traverser) expand(ctx context.Context, path string, depth int) (*ComponentNode, bool) {
	maxDepth := t.opts.MaxDepth
	if depth >= maxDepth {
		return markerNode(path, depth, StateTruncated, ReasonMaxDepth), true
	}

	if t.inFlight[path] {
		t.stats.Cycles++
		observability.CircularDependenciesTotal.Inc()
		slog.Debug("circular dependency", "error", traversalError(errors.CodeCircularDependency, "import cycle", path, depth))
		marker := markerNode(path, depth, StateCircular, ReasonCircular)
		marker.RelativePath = t.opts.Resolver.RelativePath(path)
		return marker, false
	}

	key := cacheKey{path: path, remaining: maxDepth - depth}
	if cached, ok := t.cache[key]; ok {
		t.stats.CacheHits++
		observability.NodeCacheHitsTotal.Inc()
		return cached, true
	}

	t.inFlight[path] = true
	defer delete(t.inFlight, path)

	if !fileExists(path) {
		marker := markerNode(path, depth, StateNotFound, ReasonNotFound)
		marker.RelativePath = t.opts.Resolver.RelativePath(path)
		return marker, true
	}

	src := t.read(path)
	refs := t.opts.Extractor.Extract(path, src.Text)

	node := &ComponentNode{
		Path:         path,
		RelativePath: t.opts.Resolver.RelativePath(path),
		LineCount:    src.Lines,
		ImportCount:  len(refs),
		Depth:        depth,
		State:        StateExpanded,
	}

	cacheable := true
	frontier := depth >= maxDepth-1
	for _, ref := range refs {
		if ctx.Err() != nil {
			cacheable = false
			break
		}
		target, ok := t.opts.Resolver.Resolve(path, ref.Path)
		if !ok {
			t.stats.Unresolved++
			observability.UnresolvedImportsTotal.Inc()
			node.Unresolved = append(node.Unresolved, ref.Path)
			slog.Debug("unresolved import", "error",
				errors.AddContext(traversalError(errors.CodeNotFound, "import target not found", path, depth), errors.CtxImport, ref.Path))
			continue
		}

		if frontier {
			node.Dependencies = append(node.Dependencies, t.shallowLeaf(target, ref.Name, depth+1))
			continue
		}

		child, ok := t.expand(ctx, target, depth+1)
		if !ok {
			cacheable = false
		}
		node.Dependencies = append(node.Dependencies, child.Attach(ref.Name))
	}

	if cacheable {
		t.cache[key] = node
	}
	return node, cacheable
}

// shallowLeaf records a resolved import at the expansion frontier: its own
// line count and display path, without reading its imports.
func (t *Traverser) shallowLeaf(path, componentName string, depth int) *ComponentNode {
	src := t.read(path)
	return &ComponentNode{
		Path:          path,
		RelativePath:  t.opts.Resolver.RelativePath(path),
		ComponentName: componentName,
		LineCount:     src.Lines,
		Depth:         depth,
		State:         StateTruncated,
		Reason:        ReasonMaxDepth,
	}
}

// read degrades unreadable files to empty content.
func (t *Traverser) read(path string) parser.Source {
	t.stats.FilesRead++
	src, err := t.opts.Reader.Read(path)
	if err != nil {
		slog.Debug("unreadable component file", "path", path, "error", errors.Wrap(err, errors.CodeUnreadable, "read component file"))
		return parser.Source{}
	}
	return src
}

func traversalError(code errors.ErrorCode, msg, path string, depth int) error {
	err := errors.AddContext(errors.New(code, msg), errors.CtxPath, path)
	return errors.AddContext(err, errors.CtxDepth, depth)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
