// # internal/engine/parser/treesitter.go
package parser

import (
	"log/slog"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

const (
	dialectJavaScript = "javascript"
	dialectTypeScript = "typescript"
	dialectTSX        = "tsx"
)

// TreeSitterExtractor finds imports by walking import_statement nodes of the
// JavaScript, TypeScript or TSX syntax tree selected by file extension.
type TreeSitterExtractor struct {
	pools  map[string]*ParserPool
	engine *ExtractorEngine
}

func NewTreeSitterExtractor() *TreeSitterExtractor {
	e := &TreeSitterExtractor{
		pools: map[string]*ParserPool{
			dialectJavaScript: NewParserPool(sitter.NewLanguage(tree_sitter_javascript.Language())),
			dialectTypeScript: NewParserPool(sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())),
			dialectTSX:        NewParserPool(sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())),
		},
	}
	e.engine = NewExtractorEngine(map[string]NodeHandler{
		"import_statement": extractImportStatement,
	})
	return e
}

// dialectFor maps a file extension onto a grammar. Unknown extensions parse
// as JavaScript, which also covers .jsx.
func dialectFor(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".tsx":
		return dialectTSX
	case ".ts", ".mts", ".cts":
		return dialectTypeScript
	default:
		return dialectJavaScript
	}
}

func (e *TreeSitterExtractor) Extract(filePath string, source []byte) []ImportRef {
	if len(source) == 0 {
		return nil
	}
	pool := e.pools[dialectFor(filePath)]
	sp := pool.Get()
	defer pool.Put(sp)

	tree := sp.Parse(source, nil)
	if tree == nil {
		slog.Debug("tree-sitter returned no tree", "path", filePath)
		return nil
	}
	defer tree.Close()

	ctx := &ExtractionContext{Source: source}
	e.engine.Walk(ctx, tree.RootNode())
	return ctx.Refs
}

// extractImportStatement handles
//
//	import Name from './x'
//	import { A, B as C } from '../y'
//	import Name, { A } from './z'
func extractImportStatement(ctx *ExtractionContext, node *sitter.Node) bool {
	source := node.ChildByFieldName("source")
	path := unquote(ctx.Text(source))
	if !IsRelativeSpecifier(path) {
		return true
	}
	offset := int(node.StartByte())

	for i := uint(0); i < node.ChildCount(); i++ {
		clause := node.Child(i)
		if clause == nil || clause.Kind() != "import_clause" {
			continue
		}
		for j := uint(0); j < clause.ChildCount(); j++ {
			part := clause.Child(j)
			if part == nil {
				continue
			}
			switch part.Kind() {
			case "identifier":
				ctx.Refs = append(ctx.Refs, ImportRef{Name: ctx.Text(part), Path: path, Offset: offset})
			case "named_imports":
				for _, name := range namedImportNames(ctx, part) {
					ctx.Refs = append(ctx.Refs, ImportRef{Name: name, Path: path, Offset: offset})
				}
			}
		}
	}
	return true
}

func namedImportNames(ctx *ExtractionContext, list *sitter.Node) []string {
	var names []string
	for i := uint(0); i < list.ChildCount(); i++ {
		spec := list.Child(i)
		if spec == nil || spec.Kind() != "import_specifier" {
			continue
		}
		local := spec.ChildByFieldName("alias")
		if local == nil {
			local = spec.ChildByFieldName("name")
		}
		name := ctx.Text(local)
		if !identifierPattern.MatchString(name) {
			continue
		}
		names = append(names, name)
	}
	return names
}

func unquote(literal string) string {
	if len(literal) < 2 {
		return ""
	}
	first, last := literal[0], literal[len(literal)-1]
	if (first == '"' || first == '\'') && first == last {
		return literal[1 : len(literal)-1]
	}
	return ""
}
