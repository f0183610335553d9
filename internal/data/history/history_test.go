package history

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"comptree/internal/engine/graph"
)

func TestStore_OpenInitializesSchemaAndSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	first := Snapshot{Root: "App.tsx", Timestamp: base, Depth: 2, TotalFiles: 5, TotalLines: 400, LargeCount: 1}
	second := Snapshot{Root: "App.tsx", Timestamp: base.Add(2 * time.Hour), Depth: 2, TotalFiles: 6, TotalLines: 480, CircularCount: 1}
	other := Snapshot{Root: "Other.tsx", Timestamp: base, Depth: 1, TotalFiles: 1, TotalLines: 10}

	saved, err := store.SaveSnapshot("project-a", first)
	if err != nil {
		t.Fatalf("save first snapshot: %v", err)
	}
	if saved.RunID == "" || saved.ProjectKey != "project-a" || saved.SchemaVersion != SchemaVersion {
		t.Fatalf("expected generated metadata, got %+v", saved)
	}
	if _, err := store.SaveSnapshot("project-a", second); err != nil {
		t.Fatalf("save second snapshot: %v", err)
	}
	if _, err := store.SaveSnapshot("project-a", other); err != nil {
		t.Fatalf("save other snapshot: %v", err)
	}

	all, err := store.LoadSnapshots("project-a", "App.tsx", time.Time{})
	if err != nil {
		t.Fatalf("load snapshots: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 snapshots for App.tsx, got %d", len(all))
	}
	if all[0].RunID != saved.RunID || !all[0].Timestamp.Equal(base) || all[0].TotalLines != 400 {
		t.Fatalf("first snapshot did not roundtrip: %+v", all[0])
	}
	if all[1].CircularCount != 1 {
		t.Fatalf("expected circular count to roundtrip, got %+v", all[1])
	}

	recent, err := store.LoadSnapshots("project-a", "App.tsx", base.Add(time.Hour))
	if err != nil {
		t.Fatalf("load recent: %v", err)
	}
	if len(recent) != 1 || recent[0].TotalFiles != 6 {
		t.Fatalf("expected since filter to keep the second snapshot, got %+v", recent)
	}

	latest, ok, err := store.Latest("project-a", "App.tsx")
	if err != nil || !ok {
		t.Fatalf("latest: ok=%v err=%v", ok, err)
	}
	if latest.TotalFiles != 6 {
		t.Fatalf("expected latest to be the second snapshot, got %+v", latest)
	}

	if _, ok, err := store.Latest("project-b", "App.tsx"); err != nil || ok {
		t.Fatalf("expected no snapshots for another project, ok=%v err=%v", ok, err)
	}
}

func TestStore_RejectsInvalidSnapshots(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, err := store.SaveSnapshot("", Snapshot{Root: "A.tsx", SchemaVersion: 99}); err == nil {
		t.Fatal("expected schema version error")
	}
	if _, err := store.SaveSnapshot("", Snapshot{}); err == nil {
		t.Fatal("expected empty root error")
	}
}

func TestOpen_RejectsBadPaths(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
	if _, err := Open(t.TempDir()); err == nil {
		t.Fatal("expected error for directory path")
	}
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	store.Close()

	// Reopening must not re-apply migrations.
	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()

	db, err := sql.Open(driverName, path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != len(migrations) {
		t.Fatalf("expected %d migration rows, got %d", len(migrations), count)
	}
}

func TestWithRetry(t *testing.T) {
	s := &Store{}

	calls := 0
	err := s.withRetry("op", func() error {
		calls++
		if calls < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Fatalf("expected success after 3 attempts, got err=%v calls=%d", err, calls)
	}

	calls = 0
	err = s.withRetry("op", func() error {
		calls++
		return errors.New("syntax error")
	})
	if err == nil || calls != 1 {
		t.Fatalf("non-lock errors must not be retried, calls=%d", calls)
	}
}

func TestSnapshotFromStats(t *testing.T) {
	stats := graph.Stats{
		RootLines: 50, DirectDependencies: 3, TotalFiles: 3, TotalLines: 380,
		LargeFiles:  []graph.FileSize{{Path: "B.ts", Lines: 320}},
		MediumFiles: []graph.FileSize{},
	}
	snap := SnapshotFromStats("A.tsx", 2, stats)
	if snap.Root != "A.tsx" || snap.Depth != 2 || snap.TotalLines != 380 || snap.LargeCount != 1 || snap.MediumCount != 0 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestBuildTrendReport(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	snapshots := []Snapshot{
		{RunID: "a", Root: "A.tsx", Timestamp: base, Depth: 2, TotalFiles: 4, TotalLines: 400, LargeCount: 1},
		{RunID: "b", Root: "A.tsx", Timestamp: base.Add(time.Hour), Depth: 2, TotalFiles: 5, TotalLines: 500, LargeCount: 2, CircularCount: 1},
		{RunID: "c", Root: "A.tsx", Timestamp: base.Add(2 * time.Hour), Depth: 3, TotalFiles: 9, TotalLines: 450, LargeCount: 2, CircularCount: 1},
	}

	report, err := BuildTrendReport(snapshots)
	if err != nil {
		t.Fatal(err)
	}
	if report.ScanCount != 3 || report.Root != "A.tsx" || !report.Until.Equal(base.Add(2*time.Hour)) {
		t.Fatalf("unexpected report header %+v", report)
	}

	p1 := report.Points[1]
	if p1.DeltaFiles != 1 || p1.DeltaLines != 100 || p1.DeltaLarge != 1 || p1.DeltaCircular != 1 || p1.LineGrowthPct != 25 {
		t.Fatalf("unexpected second point %+v", p1)
	}
	if !p1.ComparableDepth || p1.DepthChanged {
		t.Fatal("same-depth runs should be comparable")
	}

	latest, ok := report.Latest()
	if !ok || latest.RunID != "c" || !latest.DepthChanged || latest.LineGrowthPct != -10 {
		t.Fatalf("unexpected latest point %+v", latest)
	}

	if _, err := BuildTrendReport(nil); err == nil {
		t.Fatal("expected error for empty history")
	}
}
