// # internal/engine/parser/types.go
package parser

import (
	"fmt"
	"strings"
)

// ImportRef is one local import found in a source file. Name is the local
// binding the importer uses; Path is the raw relative specifier.
type ImportRef struct {
	Name   string
	Path   string
	Offset int // byte offset of the import statement
}

// Extractor finds relative imports in source text. Implementations are pure:
// the same input always yields the same refs, in source order.
type Extractor interface {
	Extract(filePath string, source []byte) []ImportRef
}

const (
	KindRegex      = "regex"
	KindTreeSitter = "treesitter"
)

// NewExtractor builds the extractor registered under kind.
func NewExtractor(kind string) (Extractor, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindRegex:
		return NewRegexExtractor(), nil
	case KindTreeSitter:
		return NewTreeSitterExtractor(), nil
	default:
		return nil, fmt.Errorf("unknown import extractor %q", kind)
	}
}

// IsRelativeSpecifier reports whether path is a local "./" or "../" import.
func IsRelativeSpecifier(path string) bool {
	return strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../")
}
