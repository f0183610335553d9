package history

import (
	"fmt"
	"math"
)

// BuildTrendReport turns chronologically ordered snapshots of one root into
// points carrying deltas against the previous snapshot. Deltas between runs
// at different depths are still reported but flagged, since a deeper run
// naturally reaches more files.
func BuildTrendReport(snapshots []Snapshot) (TrendReport, error) {
	if len(snapshots) == 0 {
		return TrendReport{}, fmt.Errorf("no snapshots available")
	}

	points := make([]TrendPoint, 0, len(snapshots))
	for i, current := range snapshots {
		point := TrendPoint{
			RunID:           current.RunID,
			Timestamp:       current.Timestamp,
			Depth:           current.Depth,
			TotalFiles:      current.TotalFiles,
			TotalLines:      current.TotalLines,
			LargeCount:      current.LargeCount,
			CircularCount:   current.CircularCount,
			ComparableDepth: true,
		}

		if i > 0 {
			prev := snapshots[i-1]
			point.DeltaFiles = current.TotalFiles - prev.TotalFiles
			point.DeltaLines = current.TotalLines - prev.TotalLines
			point.DeltaLarge = current.LargeCount - prev.LargeCount
			point.DeltaCircular = current.CircularCount - prev.CircularCount
			if prev.TotalLines > 0 {
				point.LineGrowthPct = round2(float64(point.DeltaLines) / float64(prev.TotalLines) * 100)
			}
			if prev.Depth != current.Depth {
				point.DepthChanged = true
				point.ComparableDepth = false
			}
		}
		points = append(points, point)
	}

	return TrendReport{
		Root:      snapshots[0].Root,
		Since:     snapshots[0].Timestamp,
		Until:     snapshots[len(snapshots)-1].Timestamp,
		ScanCount: len(points),
		Points:    points,
	}, nil
}

// Latest returns the newest point of the report.
func (r TrendReport) Latest() (TrendPoint, bool) {
	if len(r.Points) == 0 {
		return TrendPoint{}, false
	}
	return r.Points[len(r.Points)-1], true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
