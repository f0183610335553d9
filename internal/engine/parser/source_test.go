package parser

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCountLines(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"a\n", 1},
		{"a\nb", 2},
		{"a\nb\n", 2},
		{"\n\n\n", 3},
	}
	for _, c := range cases {
		if got := CountLines([]byte(c.text)); got != c.want {
			t.Errorf("CountLines(%q) = %d, want %d", c.text, got, c.want)
		}
	}
}

func TestSourceReader_CachesAndRevalidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "A.tsx")
	if err := os.WriteFile(path, []byte("one\ntwo\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := NewSourceReader(8)
	if err != nil {
		t.Fatal(err)
	}

	src, err := r.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if src.Lines != 2 {
		t.Fatalf("expected 2 lines, got %d", src.Lines)
	}
	if _, err := r.Read(path); err != nil {
		t.Fatal(err)
	}
	if reads, hits := r.Stats(); reads != 1 || hits != 1 {
		t.Fatalf("expected 1 read and 1 hit, got %d/%d", reads, hits)
	}

	if err := os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	src, err = r.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if src.Lines != 3 {
		t.Fatalf("expected stale entry to be refreshed, got %d lines", src.Lines)
	}
}

func TestSourceReader_InvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bin.js")
	if err := os.WriteFile(path, []byte("import A from './a'\n\xff\xfe\nx\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r, _ := NewSourceReader(0)
	src, err := r.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if src.Lines != 3 {
		t.Fatalf("expected 3 lines, got %d", src.Lines)
	}
	if refs := NewRegexExtractor().Extract(path, src.Text); len(refs) != 1 {
		t.Fatalf("expected import to survive lenient decoding, got %v", refs)
	}
}

func TestSourceReader_Errors(t *testing.T) {
	r, _ := NewSourceReader(4)
	dir := t.TempDir()
	if _, err := r.Read(filepath.Join(dir, "missing.ts")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := r.Read(dir); err == nil {
		t.Fatal("expected error for directory")
	}
}
