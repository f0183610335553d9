// # internal/output/text.go
package output

import (
	"fmt"
	"strings"

	"comptree/internal/engine/graph"
)

const rule = "============================================================"

// TextGenerator produces the human report: header, legend, tree and summary.
type TextGenerator struct {
	opts    Options
	tree    *TreeRenderer
	palette palette
}

func NewTextGenerator(opts Options) *TextGenerator {
	return &TextGenerator{
		opts:    opts,
		tree:    NewTreeRenderer(opts),
		palette: newPalette(opts.Color),
	}
}

func (g *TextGenerator) Generate(report Report) (string, error) {
	var b strings.Builder
	g.writeHeader(&b, report)
	b.WriteString(g.tree.Render(report.Root))
	g.writeSummary(&b, report)
	return b.String(), nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func (g *TextGenerator) writeHeader(b *strings.Builder, report Report) {
	p := g.palette
	b.WriteString(rule + "\n")
	b.WriteString(p.paint(p.title, "COMPONENT TREE ANALYZER") + "\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(b, "Analyzing: %s\n", report.Component)
	if report.Root != nil && report.Root.ComponentName != "" {
		fmt.Fprintf(b, "Component: %s\n", report.Root.ComponentName)
	}
	fmt.Fprintf(b, "Base path: %s\n", report.BasePath)
	fmt.Fprintf(b, "Depth: %d level%s\n", report.Depth, plural(report.Depth))
	b.WriteString("\n")
	b.WriteString("Legend:\n")
	b.WriteString("  ⚛️  React components (.tsx/.jsx)\n")
	b.WriteString("  📘 TypeScript files (.ts)\n")
	b.WriteString("  📙 JavaScript files (.js)\n")
	fmt.Fprintf(b, "  ⚡ Medium files (%d-%d lines)\n", g.opts.Thresholds.Medium, g.opts.Thresholds.Large)
	fmt.Fprintf(b, "  ⚠️  Large files (>%d lines)\n", g.opts.Thresholds.Large)
	b.WriteString("  📁 Has more dependencies (use --depth to see more)\n")
	b.WriteString("\n")
}

// writeSummary renders the statistics block. Nothing is written for a root
// that could not be analyzed.
func (g *TextGenerator) writeSummary(b *strings.Builder, report Report) {
	if report.Root == nil || report.Root.IsMarker() {
		return
	}
	s := report.Stats
	p := g.palette

	b.WriteString("\n" + rule + "\n")
	b.WriteString(p.paint(p.title, "COMPONENT ANALYSIS SUMMARY") + "\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(b, "Root Component: %s\n", displayPath(report.Root))
	fmt.Fprintf(b, "Analysis Depth: %d level%s\n", report.Depth, plural(report.Depth))
	fmt.Fprintf(b, "Root Component Lines: %d\n", s.RootLines)
	fmt.Fprintf(b, "Direct Dependencies: %d\n", s.DirectDependencies)
	fmt.Fprintf(b, "Total Files Analyzed: %d\n", s.TotalFiles)
	fmt.Fprintf(b, "Total Lines: %d\n", s.TotalLines)
	if s.CircularCount > 0 {
		fmt.Fprintf(b, "Circular Imports: %d\n", s.CircularCount)
	}
	if s.UnresolvedCount > 0 {
		fmt.Fprintf(b, "Unresolved Imports: %d\n", s.UnresolvedCount)
	}

	if len(s.LargeFiles) > 0 {
		fmt.Fprintf(b, "\nLarge Files (>%d lines):\n", g.opts.Thresholds.Large)
		writeFileList(b, s.LargeFiles, g.opts.TopFiles, p.paint(p.large, largeGlyph))
	}
	if len(s.MediumFiles) > 0 {
		fmt.Fprintf(b, "\nMedium Files (%d-%d lines):\n", g.opts.Thresholds.Medium, g.opts.Thresholds.Large)
		writeFileList(b, s.MediumFiles, g.opts.TopFiles, p.paint(p.medium, mediumGlyph))
	}

	if report.Depth == 1 {
		b.WriteString("\n💡 Use --depth 2 or higher to see deeper dependencies\n")
	}
	b.WriteString(rule + "\n")
}

func writeFileList(b *strings.Builder, files []graph.FileSize, limit int, glyph string) {
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	for i, f := range files {
		fmt.Fprintf(b, "  %2d. %s [%d lines] %s\n", i+1, f.Path, f.Lines, glyph)
	}
}
