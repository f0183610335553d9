// # internal/engine/parser/source.go
package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"comptree/internal/shared/observability"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultSourceCacheSize = 2048

// Source is the decoded content of one file.
type Source struct {
	Text  []byte
	Lines int
}

type sourceEntry struct {
	modTime time.Time
	size    int64
	source  Source
}

// SourceReader reads component files and counts their lines. Contents are kept
// in an LRU keyed by path and revalidated against modification time and size,
// so a long-lived reader (watch mode) never serves stale text.
type SourceReader struct {
	cache *lru.Cache[string, sourceEntry]

	mu    sync.Mutex
	reads int
	hits  int
}

func NewSourceReader(size int) (*SourceReader, error) {
	if size <= 0 {
		size = DefaultSourceCacheSize
	}
	cache, err := lru.New[string, sourceEntry](size)
	if err != nil {
		return nil, fmt.Errorf("create source cache: %w", err)
	}
	return &SourceReader{cache: cache}, nil
}

// Read returns the text and line count of path. Invalid UTF-8 sequences are
// dropped rather than failing the read.
func (r *SourceReader) Read(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Source{}, err
	}
	if info.IsDir() {
		return Source{}, fmt.Errorf("%s is a directory", path)
	}

	if entry, ok := r.cache.Get(path); ok && entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
		r.count(true)
		return entry.source, nil
	}

	data, err := readAll(path)
	if err != nil {
		return Source{}, err
	}
	text := bytes.ToValidUTF8(data, nil)
	src := Source{Text: text, Lines: CountLines(text)}

	r.cache.Add(path, sourceEntry{modTime: info.ModTime(), size: info.Size(), source: src})
	r.count(false)
	return src, nil
}

func readAll(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (r *SourceReader) count(hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if hit {
		r.hits++
		observability.SourceCacheHitsTotal.Inc()
		return
	}
	r.reads++
	observability.FilesReadTotal.Inc()
}

// Stats returns the number of disk reads and cache hits served so far.
func (r *SourceReader) Stats() (reads, hits int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads, r.hits
}

// Purge drops all cached contents.
func (r *SourceReader) Purge() {
	r.cache.Purge()
}

// CountLines counts lines the way an editor shows them: a trailing newline
// does not open a new line, and a final line without one still counts.
func CountLines(text []byte) int {
	if len(text) == 0 {
		return 0
	}
	n := bytes.Count(text, []byte{'\n'})
	if text[len(text)-1] != '\n' {
		n++
	}
	return n
}
