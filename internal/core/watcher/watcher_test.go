// # internal/core/watcher/watcher_test.go
package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewWatcher_RejectsNilCallback(t *testing.T) {
	w, err := NewWatcher(100*time.Millisecond, nil, nil, nil)
	if !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("expected os.ErrInvalid, got %v", err)
	}
	if w != nil {
		t.Fatal("expected nil watcher when callback is invalid")
	}
}

func TestNewWatcher_RejectsBadGlob(t *testing.T) {
	if _, err := NewWatcher(time.Millisecond, []string{"["}, nil, func([]string) {}); err == nil {
		t.Fatal("expected error for invalid dir pattern")
	}
}

func waitFor(t *testing.T, ch <-chan []string, want string) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case paths := <-ch:
			for _, p := range paths {
				if p == want {
					return
				}
			}
		case <-deadline:
			t.Fatalf("timed out waiting for change of %s", want)
		}
	}
}

func TestWatcher(t *testing.T) {
	tmpDir := t.TempDir()

	changed := make(chan []string, 8)
	w, err := NewWatcher(50*time.Millisecond, []string{"node_modules"}, []string{"*.stories.tsx"}, func(paths []string) {
		changed <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.MkdirAll(filepath.Join(tmpDir, "node_modules"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	component := filepath.Join(tmpDir, "Button.tsx")
	if err := os.WriteFile(component, []byte("export default 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changed, component)

	// Non-source, excluded and node_modules files stay silent.
	_ = os.WriteFile(filepath.Join(tmpDir, "notes.md"), []byte("x"), 0o644)
	_ = os.WriteFile(filepath.Join(tmpDir, "Button.stories.tsx"), []byte("x"), 0o644)
	_ = os.WriteFile(filepath.Join(tmpDir, "node_modules", "dep.js"), []byte("x"), 0o644)

	select {
	case paths := <-changed:
		t.Fatalf("unexpected change notification %v", paths)
	case <-time.After(400 * time.Millisecond):
	}

	// New directories are watched recursively after creation.
	subdir := filepath.Join(tmpDir, "widgets")
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	nested := filepath.Join(subdir, "Card.jsx")
	if err := os.WriteFile(nested, []byte("export default 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, changed, nested)
}

func TestShouldExcludeFile(t *testing.T) {
	w, err := NewWatcher(time.Millisecond, nil, []string{"*.test.ts"}, func([]string) {})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	cases := map[string]bool{
		"/p/App.tsx":      false,
		"/p/util.TS":      false,
		"/p/legacy.js":    false,
		"/p/style.css":    true,
		"/p/util.test.ts": true,
	}
	for path, want := range cases {
		if got := w.shouldExcludeFile(path); got != want {
			t.Errorf("shouldExcludeFile(%s) = %v, want %v", path, got, want)
		}
	}
}
