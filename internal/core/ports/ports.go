package ports

import (
	"context"
	"time"

	"comptree/internal/data/history"
	"comptree/internal/engine/graph"
)

// HistoryStore abstracts snapshot persistence for trend reporting.
type HistoryStore interface {
	SaveSnapshot(projectKey string, snapshot history.Snapshot) (history.Snapshot, error)
	LoadSnapshots(projectKey, root string, since time.Time) ([]history.Snapshot, error)
	Close() error
}

// AnalysisResult is the outcome of analyzing one root component file.
type AnalysisResult struct {
	// Component is the root file as given by the caller; Path is its absolute form.
	Component string
	Path      string
	BasePath  string
	Depth     int
	Root      *graph.ComponentNode
	Stats     graph.Stats
	Traversal graph.TraversalStats
	Duration  time.Duration
	Trend     *history.TrendReport
	// Err is set when the root itself could not be analyzed.
	Err error
}

// AnalysisService is the driving port used by the CLI and the TUI.
type AnalysisService interface {
	Analyze(ctx context.Context, componentFile string) (AnalysisResult, error)
	AnalyzeBatch(ctx context.Context, componentFiles []string) ([]AnalysisResult, error)
	Render(result AnalysisResult) (string, error)
	Close() error
}
