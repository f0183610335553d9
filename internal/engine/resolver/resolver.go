// # internal/engine/resolver/resolver.go
package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"comptree/internal/engine/parser"
	"comptree/internal/shared/util"

	"github.com/gobwas/glob"
)

// ProbeSuffixes are tried in order against the joined import path. The first
// regular file wins, so "./Button" prefers Button.tsx over Button/index.tsx.
var ProbeSuffixes = []string{
	".tsx",
	".jsx",
	".ts",
	".js",
	"/index.tsx",
	"/index.jsx",
	"/index.ts",
	"/index.js",
}

// PathResolver maps relative import specifiers onto files on disk.
type PathResolver struct {
	baseRoot string
	excludes []glob.Glob
}

// NewPathResolver returns a resolver whose exclude globs are matched against
// targets relative to baseRoot, using '/' as separator.
func NewPathResolver(baseRoot string, excludeFiles []string) (*PathResolver, error) {
	r := &PathResolver{baseRoot: filepath.Clean(baseRoot)}
	for _, pattern := range excludeFiles {
		g, err := glob.Compile(util.NormalizePatternPath(pattern), '/')
		if err != nil {
			return nil, fmt.Errorf("compile exclude pattern %q: %w", pattern, err)
		}
		r.excludes = append(r.excludes, g)
	}
	return r, nil
}

// Resolve returns the absolute file the import rawPath refers to when written
// inside importer. The bool is false for non-relative specifiers, missing
// targets and excluded targets.
func (r *PathResolver) Resolve(importer, rawPath string) (string, bool) {
	if !parser.IsRelativeSpecifier(rawPath) {
		return "", false
	}
	base := filepath.Clean(filepath.Join(filepath.Dir(importer), filepath.FromSlash(rawPath)))

	for _, suffix := range ProbeSuffixes {
		candidate := base + filepath.FromSlash(suffix)
		if !isRegularFile(candidate) {
			continue
		}
		if r.excluded(candidate) {
			return "", false
		}
		return candidate, true
	}
	return "", false
}

func (r *PathResolver) excluded(path string) bool {
	if len(r.excludes) == 0 {
		return false
	}
	rel, ok := util.RelativeTo(r.baseRoot, path)
	if !ok {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, g := range r.excludes {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// RelativePath renders path relative to the base root for display. Paths
// outside the root are returned unchanged.
func (r *PathResolver) RelativePath(path string) string {
	if rel, ok := util.RelativeTo(r.baseRoot, path); ok {
		return filepath.ToSlash(rel)
	}
	return path
}

func (r *PathResolver) BaseRoot() string {
	return r.baseRoot
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ComponentName derives a display name from a module path: the last
// meaningful segment without its extension. Index files take the name of
// their directory.
func ComponentName(modulePath string) string {
	modulePath = strings.TrimSpace(filepath.ToSlash(modulePath))
	modulePath = strings.Trim(modulePath, "\"'`")

	for strings.HasPrefix(modulePath, "./") {
		modulePath = strings.TrimPrefix(modulePath, "./")
	}
	for strings.HasPrefix(modulePath, "../") {
		modulePath = strings.TrimPrefix(modulePath, "../")
	}
	if modulePath == "" {
		return ""
	}

	parts := strings.Split(modulePath, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		part := strings.TrimSpace(parts[i])
		if part == "" || part == "." || part == ".." {
			continue
		}
		part = strings.TrimSuffix(part, filepath.Ext(part))
		if part == "index" && i > 0 {
			continue
		}
		if part != "" {
			return part
		}
	}
	return modulePath
}
