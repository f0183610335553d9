package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"comptree/internal/core/config"
	"comptree/internal/core/errors"
	"comptree/internal/core/ports"
	"comptree/internal/data/history"
	"comptree/internal/engine/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeComponent(t *testing.T, dir, name string, lines int, imports ...string) string {
	t.Helper()
	var b strings.Builder
	for _, imp := range imports {
		b.WriteString(imp + "\n")
	}
	for i := len(imports); i < lines; i++ {
		b.WriteString("// body\n")
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

// exampleProject lays out src/A.tsx -> {X, Y} from ./B and Z from ./C, with
// C importing ./B. B has 320 lines.
func exampleProject(t *testing.T) (src, root string) {
	t.Helper()
	src = filepath.Join(t.TempDir(), "src")
	root = writeComponent(t, src, "A.tsx", 50,
		`import { X, Y } from './B'`,
		`import Z from './C'`,
	)
	writeComponent(t, src, "B.ts", 320)
	writeComponent(t, src, "C.ts", 10, `import B from './B'`)
	return src, root
}

func testConfig(depth int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Analysis.Depth = depth
	cfg.Output.Color = config.ColorNever
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config, opts ...Option) *App {
	t.Helper()
	a, err := New(cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestAnalyze_ExampleTree(t *testing.T) {
	src, root := exampleProject(t)
	a := newTestApp(t, testConfig(2))

	result, err := a.Analyze(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, src, result.BasePath)
	assert.Equal(t, root, result.Path)
	require.NotNil(t, result.Root)
	assert.Equal(t, "A", result.Root.ComponentName)
	assert.Equal(t, "A.tsx", result.Stats.RootPath)
	assert.Equal(t, 50, result.Stats.RootLines)
	assert.Equal(t, 3, result.Stats.DirectDependencies)
	assert.Equal(t, 3, result.Stats.TotalFiles)
	assert.Equal(t, 380, result.Stats.TotalLines)
	assert.Equal(t, []graph.FileSize{{Path: "B.ts", Lines: 320}}, result.Stats.LargeFiles)
	assert.Empty(t, result.Stats.MediumFiles)
	assert.Nil(t, result.Trend)
}

func TestAnalyze_MissingRoot(t *testing.T) {
	a := newTestApp(t, testConfig(1))

	result, err := a.Analyze(context.Background(), filepath.Join(t.TempDir(), "Missing.tsx"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
	require.NotNil(t, result.Root)
	assert.Equal(t, graph.StateNotFound, result.Root.State)
	assert.Equal(t, err, result.Err)
}

func TestAnalyze_CancelledContext(t *testing.T) {
	_, root := exampleProject(t)
	a := newTestApp(t, testConfig(2))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Analyze(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeBatch_KeepsOrderAndReportsMissingRoot(t *testing.T) {
	src, root := exampleProject(t)
	other := writeComponent(t, src, "Other.jsx", 12, `import C from './C'`)
	missing := filepath.Join(src, "Gone.tsx")

	a := newTestApp(t, testConfig(2))
	results, err := a.AnalyzeBatch(context.Background(), []string{root, missing, other})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
	require.Len(t, results, 3)
	assert.Equal(t, "A.tsx", results[0].Stats.RootPath)
	assert.Equal(t, graph.StateNotFound, results[1].Root.State)
	assert.Equal(t, "Other.jsx", results[2].Stats.RootPath)
	assert.Equal(t, 2+1, results[2].Stats.TotalFiles)
	assert.Equal(t, 12+10+320, results[2].Stats.TotalLines)
}

func TestAnalyzeBatch_AllFound(t *testing.T) {
	src, root := exampleProject(t)
	a := newTestApp(t, testConfig(1))

	results, err := a.AnalyzeBatch(context.Background(), []string{root, filepath.Join(src, "C.ts")})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.NoError(t, r.Err)
	}
}

func TestRender_TreeFormat(t *testing.T) {
	_, root := exampleProject(t)
	a := newTestApp(t, testConfig(2))

	result, err := a.Analyze(context.Background(), root)
	require.NoError(t, err)

	out, err := a.Render(result)
	require.NoError(t, err)
	assert.Contains(t, out, "COMPONENT TREE ANALYZER")
	assert.Contains(t, out, "Total Files Analyzed: 3")
	assert.Contains(t, out, "Total Lines: 380")
	assert.NotContains(t, out, "\x1b[")
}

func TestRender_JSONFormat(t *testing.T) {
	_, root := exampleProject(t)
	cfg := testConfig(1)
	cfg.Output.Format = config.FormatJSON
	a := newTestApp(t, cfg)

	result, err := a.Analyze(context.Background(), root)
	require.NoError(t, err)

	out, err := a.Render(result)
	require.NoError(t, err)
	assert.Contains(t, out, `"total_lines": 380`)
}

func TestRender_NoTree(t *testing.T) {
	a := newTestApp(t, testConfig(1))
	_, err := a.Render(ports.AnalysisResult{Component: "x.tsx"})
	assert.Error(t, err)
}

func TestWriteResults_ToConfiguredPath(t *testing.T) {
	_, root := exampleProject(t)
	cfg := testConfig(1)
	cfg.Output.Format = config.FormatTSV
	cfg.Output.Path = filepath.Join(t.TempDir(), "out", "deps.tsv")
	a := newTestApp(t, cfg)

	results, err := a.AnalyzeBatch(context.Background(), []string{root})
	require.NoError(t, err)

	var stdout bytes.Buffer
	require.NoError(t, a.WriteResults(results, &stdout))
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "From\tTo\tImport\tDepth\tLines\tState\n"))
}

func TestWriteResults_ToWriter(t *testing.T) {
	src, root := exampleProject(t)
	a := newTestApp(t, testConfig(1))

	results, err := a.AnalyzeBatch(context.Background(), []string{root, filepath.Join(src, "C.ts")})
	require.NoError(t, err)

	var stdout bytes.Buffer
	require.NoError(t, a.WriteResults(results, &stdout))
	assert.Equal(t, 2, strings.Count(stdout.String(), "COMPONENT TREE ANALYZER"))
}

func TestAnalyze_RecordsHistoryTrend(t *testing.T) {
	src, root := exampleProject(t)
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)

	cfg := testConfig(2)
	cfg.History.ProjectKey = "web"
	a := newTestApp(t, cfg, WithHistoryStore(store))

	first, err := a.Analyze(context.Background(), root)
	require.NoError(t, err)
	require.NotNil(t, first.Trend)
	assert.Equal(t, 1, first.Trend.ScanCount)

	writeComponent(t, src, "C.ts", 40, `import B from './B'`)
	second, err := a.Analyze(context.Background(), root)
	require.NoError(t, err)
	require.NotNil(t, second.Trend)
	assert.Equal(t, 2, second.Trend.ScanCount)

	latest, ok := second.Trend.Latest()
	require.True(t, ok)
	assert.Equal(t, 30, latest.DeltaLines)
	assert.Equal(t, 410, latest.TotalLines)

	out, err := a.Render(second)
	require.NoError(t, err)
	assert.Contains(t, out, "Lines: 410 (+30")
}

func TestAnalyze_HistoryKeyedByAbsolutePath(t *testing.T) {
	base := t.TempDir()
	web := writeComponent(t, filepath.Join(base, "web", "src"), "App.tsx", 10)
	admin := writeComponent(t, filepath.Join(base, "admin", "src"), "App.tsx", 70)

	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	a := newTestApp(t, testConfig(1), WithHistoryStore(store))

	for _, root := range []string{web, admin, web} {
		_, err := a.Analyze(context.Background(), root)
		require.NoError(t, err)
	}

	webRun, err := a.Analyze(context.Background(), web)
	require.NoError(t, err)
	assert.Equal(t, "App.tsx", webRun.Stats.RootPath)
	require.NotNil(t, webRun.Trend)
	assert.Equal(t, 3, webRun.Trend.ScanCount)
	assert.Equal(t, "App.tsx", webRun.Trend.Root)
	latest, ok := webRun.Trend.Latest()
	require.True(t, ok)
	assert.Equal(t, 0, latest.DeltaLines)

	adminSnapshots, err := store.LoadSnapshots("", admin, time.Time{})
	require.NoError(t, err)
	require.Len(t, adminSnapshots, 1)
	assert.Equal(t, 70, adminSnapshots[0].TotalLines)
}

type failingHistoryStore struct{}

func (failingHistoryStore) SaveSnapshot(string, history.Snapshot) (history.Snapshot, error) {
	return history.Snapshot{}, fmt.Errorf("disk full")
}

func (failingHistoryStore) LoadSnapshots(string, string, time.Time) ([]history.Snapshot, error) {
	return nil, nil
}

func (failingHistoryStore) Close() error { return nil }

func TestRecordHistory_FailureIsInternal(t *testing.T) {
	_, root := exampleProject(t)
	cfg := testConfig(1)
	a := newTestApp(t, cfg, WithHistoryStore(failingHistoryStore{}))

	result, err := a.Analyze(context.Background(), root)
	require.NoError(t, err, "history failures must not fail the analysis")
	assert.Nil(t, result.Trend)

	_, err = a.recordHistory(cfg, result)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInternal))
	assert.Contains(t, err.Error(), "operation:save snapshot")
	assert.Contains(t, err.Error(), "disk full")
}

func TestApplyConfig_SwitchesExtractor(t *testing.T) {
	_, root := exampleProject(t)
	a := newTestApp(t, testConfig(1))

	next := testConfig(2)
	next.Analysis.Extractor = config.ExtractorTreeSitter
	require.NoError(t, a.ApplyConfig(next))

	result, err := a.Analyze(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Depth)
	assert.Equal(t, 380, result.Stats.TotalLines)

	assert.Error(t, a.ApplyConfig(nil))
}

func TestWatchRoots_DropsNested(t *testing.T) {
	base := t.TempDir()
	cfg := testConfig(1)
	a := newTestApp(t, cfg)

	roots := a.watchRoots(cfg, []string{
		filepath.Join(base, "src", "A.tsx"),
		filepath.Join(base, "src", "nested", "src", "B.tsx"),
		filepath.Join(base, "other", "C.tsx"),
	})
	assert.Equal(t, []string{filepath.Join(base, "other"), filepath.Join(base, "src")}, roots)
}

func TestHealthService(t *testing.T) {
	_, root := exampleProject(t)
	a := newTestApp(t, testConfig(1))
	svc := NewHealthService(a)

	status := svc.Check(context.Background())
	assert.Equal(t, "up", status.Status)
	assert.Equal(t, "never", status.Components["last_run"])

	_, err := a.Analyze(context.Background(), root)
	require.NoError(t, err)

	status = svc.Check(context.Background())
	assert.NotEqual(t, "never", status.Components["last_run"])
	assert.Contains(t, status.Components["extractor"], "regex")
}

func TestWatch_RerunsOnChange(t *testing.T) {
	src, root := exampleProject(t)
	cfg := testConfig(2)
	cfg.Watch.Debounce = 20 * time.Millisecond
	cfg.Watch.MaxRunsPerSecond = 50
	a := newTestApp(t, cfg)

	var mu sync.Mutex
	var updates []Update
	a.SetUpdateHandler(func(u Update) {
		mu.Lock()
		defer mu.Unlock()
		updates = append(updates, u)
	})
	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return len(updates)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Watch(ctx, []string{root}) }()

	require.Eventually(t, func() bool { return count() >= 1 }, 3*time.Second, 10*time.Millisecond)

	writeComponent(t, src, "C.ts", 60, `import B from './B'`)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		last := updates[len(updates)-1]
		return len(last.Results) == 1 && last.Results[0].Stats.TotalLines == 430
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
