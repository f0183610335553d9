package history

import (
	"time"

	"comptree/internal/engine/graph"
)

const SchemaVersion = 1

// Snapshot is the persisted summary of one analysis of one root component.
type Snapshot struct {
	RunID              string
	ProjectKey         string
	Root               string
	SchemaVersion      int
	Timestamp          time.Time
	Depth              int
	RootLines          int
	DirectDependencies int
	TotalFiles         int
	TotalLines         int
	LargeCount         int
	MediumCount        int
	CircularCount      int
	UnresolvedCount    int
	MaxDepthReached    int
}

// SnapshotFromStats captures the figures of stats for root analyzed at depth.
func SnapshotFromStats(root string, depth int, stats graph.Stats) Snapshot {
	return Snapshot{
		Root:               root,
		Depth:              depth,
		RootLines:          stats.RootLines,
		DirectDependencies: stats.DirectDependencies,
		TotalFiles:         stats.TotalFiles,
		TotalLines:         stats.TotalLines,
		LargeCount:         len(stats.LargeFiles),
		MediumCount:        len(stats.MediumFiles),
		CircularCount:      stats.CircularCount,
		UnresolvedCount:    stats.UnresolvedCount,
		MaxDepthReached:    stats.MaxDepthReached,
	}
}

type TrendPoint struct {
	RunID           string    `json:"run_id"`
	Timestamp       time.Time `json:"timestamp"`
	Depth           int       `json:"depth"`
	TotalFiles      int       `json:"total_files"`
	TotalLines      int       `json:"total_lines"`
	LargeCount      int       `json:"large_count"`
	CircularCount   int       `json:"circular_count"`
	DeltaFiles      int       `json:"delta_files"`
	DeltaLines      int       `json:"delta_lines"`
	DeltaLarge      int       `json:"delta_large"`
	DeltaCircular   int       `json:"delta_circular"`
	LineGrowthPct   float64   `json:"line_growth_pct"`
	DepthChanged    bool      `json:"depth_changed,omitempty"`
	ComparableDepth bool      `json:"comparable_depth"`
}

type TrendReport struct {
	Root      string       `json:"root"`
	Since     time.Time    `json:"since"`
	Until     time.Time    `json:"until"`
	ScanCount int          `json:"scan_count"`
	Points    []TrendPoint `json:"points"`
}
