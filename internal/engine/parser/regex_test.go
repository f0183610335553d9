package parser

import (
	"reflect"
	"testing"
)

func refNames(refs []ImportRef) [][2]string {
	out := make([][2]string, 0, len(refs))
	for _, ref := range refs {
		out = append(out, [2]string{ref.Name, ref.Path})
	}
	return out
}

func TestRegexExtractor(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   [][2]string
	}{
		{
			name:   "default import",
			source: `import Button from './Button';`,
			want:   [][2]string{{"Button", "./Button"}},
		},
		{
			name:   "named list",
			source: `import { A, B } from "../shared/utils";`,
			want:   [][2]string{{"A", "../shared/utils"}, {"B", "../shared/utils"}},
		},
		{
			name:   "alias takes local name",
			source: `import { Header as PageHeader } from './Header'`,
			want:   [][2]string{{"PageHeader", "./Header"}},
		},
		{
			name:   "type modifiers ignored",
			source: "import type { Props } from './types'\nimport { type Theme, useTheme } from './theme'",
			want:   [][2]string{{"Props", "./types"}, {"Theme", "./theme"}, {"useTheme", "./theme"}},
		},
		{
			name:   "default plus named",
			source: `import Card, { CardBody } from './Card'`,
			want:   [][2]string{{"Card", "./Card"}, {"CardBody", "./Card"}},
		},
		{
			name:   "package imports ignored",
			source: "import React from 'react'\nimport { useState } from 'react'\nimport x from '@/alias/x'",
			want:   [][2]string{},
		},
		{
			name:   "multiline named list",
			source: "import {\n  Alpha,\n  Beta,\n} from './greek'",
			want:   [][2]string{{"Alpha", "./greek"}, {"Beta", "./greek"}},
		},
		{
			name:   "line comment inside named list",
			source: "import {\n  A, // primary\n  B,\n} from './x'",
			want:   [][2]string{{"A", "./x"}, {"B", "./x"}},
		},
		{
			name:   "block comment inside named list",
			source: "import {\n  A,\n  /* B */ C,\n} from './x'\nimport { /* legacy */ Foo } from './Foo'",
			want:   [][2]string{{"A", "./x"}, {"C", "./x"}, {"Foo", "./Foo"}},
		},
		{
			name:   "duplicates preserved",
			source: "import A from './a'\nimport A from './a'",
			want:   [][2]string{{"A", "./a"}, {"A", "./a"}},
		},
		{
			name:   "namespace and side effect imports skipped",
			source: "import * as all from './all'\nimport './styles.css'",
			want:   [][2]string{},
		},
		{
			name:   "malformed statement skipped",
			source: "import from './broken'\nimport Ok from './ok'",
			want:   [][2]string{{"Ok", "./ok"}},
		},
		{
			name:   "empty",
			source: "",
			want:   [][2]string{},
		},
	}

	e := NewRegexExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := refNames(e.Extract("Component.tsx", []byte(tt.source)))
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Extract() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegexExtractor_SourceOrder(t *testing.T) {
	// Named and default statements interleave; output must follow the text.
	source := "import { B } from './b'\nimport A from './a'\nimport { C, D } from './c'\nimport E from './e'\n"
	refs := NewRegexExtractor().Extract("x.js", []byte(source))

	want := []string{"B", "A", "C", "D", "E"}
	if len(refs) != len(want) {
		t.Fatalf("expected %d refs, got %d", len(want), len(refs))
	}
	for i, ref := range refs {
		if ref.Name != want[i] {
			t.Errorf("ref %d: expected %s, got %s", i, want[i], ref.Name)
		}
		if i > 0 && ref.Offset < refs[i-1].Offset {
			t.Errorf("offsets not ascending at %d", i)
		}
	}
}

func TestNewExtractor(t *testing.T) {
	if _, err := NewExtractor("regex"); err != nil {
		t.Fatalf("regex extractor: %v", err)
	}
	if _, err := NewExtractor(""); err != nil {
		t.Fatalf("default extractor: %v", err)
	}
	if _, err := NewExtractor("babel"); err == nil {
		t.Fatal("expected error for unknown extractor")
	}
}
