package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"comptree/internal/data/history"
)

func RenderTrendTSV(report history.TrendReport) ([]byte, error) {
	var buf strings.Builder

	buf.WriteString("Timestamp\tRunID\tDepth\tFiles\tLines\tLarge\tCircular\tDeltaFiles\tDeltaLines\tDeltaLarge\tDeltaCircular\tLineGrowthPct\tComparable\n")
	for _, point := range report.Points {
		buf.WriteString(fmt.Sprintf(
			"%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%.2f\t%t\n",
			point.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			point.RunID,
			point.Depth,
			point.TotalFiles,
			point.TotalLines,
			point.LargeCount,
			point.CircularCount,
			point.DeltaFiles,
			point.DeltaLines,
			point.DeltaLarge,
			point.DeltaCircular,
			point.LineGrowthPct,
			point.ComparableDepth,
		))
	}

	return []byte(buf.String()), nil
}

func RenderTrendJSON(report history.TrendReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// RenderTrendSummary describes the latest run against the one before it, for
// appending to the text report. It is empty when there is nothing to compare.
func RenderTrendSummary(report history.TrendReport) string {
	if len(report.Points) < 2 {
		return ""
	}
	latest, _ := report.Latest()

	var b strings.Builder
	b.WriteString("\n📈 TREND (")
	b.WriteString(fmt.Sprintf("%d runs since %s)\n", report.ScanCount, report.Since.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("   Files: %d (%s)\n", latest.TotalFiles, signed(latest.DeltaFiles)))
	b.WriteString(fmt.Sprintf("   Lines: %d (%s, %+.2f%%)\n", latest.TotalLines, signed(latest.DeltaLines), latest.LineGrowthPct))
	b.WriteString(fmt.Sprintf("   Large files: %d (%s)\n", latest.LargeCount, signed(latest.DeltaLarge)))
	if latest.CircularCount > 0 || latest.DeltaCircular != 0 {
		b.WriteString(fmt.Sprintf("   Circular imports: %d (%s)\n", latest.CircularCount, signed(latest.DeltaCircular)))
	}
	if latest.DepthChanged {
		b.WriteString("   Note: depth changed since the previous run, deltas are not comparable\n")
	}
	return b.String()
}

func signed(n int) string {
	return fmt.Sprintf("%+d", n)
}
