// # internal/engine/parser/regex.go
package parser

import (
	"regexp"
	"strings"
)

// importPattern matches the default, named-list and mixed import forms whose
// source is a relative path. Groups: 1 default name, 2 named list after a
// default, 3 named list alone, 4 source path.
var importPattern = regexp.MustCompile(
	`import\s+(?:type\s+)?` +
		`(?:([A-Za-z_$][\w$]*)(?:\s*,\s*\{([^}]*)\})?\s+|\{([^}]*)\}\s*)` +
		`from\s*["'](\.{1,2}/[^"']+)["']`,
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

// commentPattern matches line and block comments inside a named list.
var commentPattern = regexp.MustCompile(`//[^\n]*|/\*[\s\S]*?\*/`)

// RegexExtractor scans source text with regular expressions. It does not
// understand comments or strings, so an import-looking line inside a template
// literal is reported like a real one.
type RegexExtractor struct{}

func NewRegexExtractor() *RegexExtractor { return &RegexExtractor{} }

func (e *RegexExtractor) Extract(_ string, source []byte) []ImportRef {
	matches := importPattern.FindAllSubmatchIndex(source, -1)
	if len(matches) == 0 {
		return nil
	}

	refs := make([]ImportRef, 0, len(matches))
	for _, m := range matches {
		path := string(source[m[8]:m[9]])
		if !IsRelativeSpecifier(path) {
			continue
		}
		offset := m[0]

		if m[2] >= 0 {
			refs = append(refs, ImportRef{Name: string(source[m[2]:m[3]]), Path: path, Offset: offset})
		}
		list := ""
		switch {
		case m[4] >= 0:
			list = string(source[m[4]:m[5]])
		case m[6] >= 0:
			list = string(source[m[6]:m[7]])
		}
		for _, name := range splitSpecifiers(list) {
			refs = append(refs, ImportRef{Name: name, Path: path, Offset: offset})
		}
	}
	return refs
}

// splitSpecifiers turns "A, type B, C as D" into [A B D].
func splitSpecifiers(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	list = commentPattern.ReplaceAllString(list, " ")
	var names []string
	for _, part := range strings.Split(list, ",") {
		if name, ok := localSpecifierName(part); ok {
			names = append(names, name)
		}
	}
	return names
}

func localSpecifierName(spec string) (string, bool) {
	fields := strings.Fields(spec)
	if len(fields) > 1 && fields[0] == "type" {
		fields = fields[1:]
	}
	var name string
	switch {
	case len(fields) == 1:
		name = fields[0]
	case len(fields) == 3 && fields[1] == "as":
		name = fields[2]
	default:
		return "", false
	}
	if !identifierPattern.MatchString(name) {
		return "", false
	}
	return name, true
}
