// # internal/output/dot.go
package output

import (
	"fmt"
	"strings"

	"comptree/internal/engine/graph"
)

type DOTGenerator struct {
	thresholds graph.Thresholds
}

func NewDOTGenerator(th graph.Thresholds) *DOTGenerator {
	return &DOTGenerator{thresholds: th}
}

func (d *DOTGenerator) Generate(report Report) (string, error) {
	var buf strings.Builder

	buf.WriteString("digraph components {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("  nodesep=0.5;\n\n")

	if report.Root == nil {
		buf.WriteString("}\n")
		return buf.String(), nil
	}

	declared := make(map[string]bool)
	declare := func(n *graph.ComponentNode) {
		id := dotNodeID(n)
		if declared[id] {
			return
		}
		declared[id] = true
		buf.WriteString(fmt.Sprintf("  %s [%s];\n", dotQuote(id), d.nodeAttrs(n)))
	}

	declare(report.Root)
	edges := collectEdges(report.Root)
	for _, e := range edges {
		declare(e.To)
	}
	buf.WriteString("\n")

	for _, e := range edges {
		from, to := dotQuote(dotNodeID(e.From)), dotQuote(dotNodeID(e.To))
		label := e.To.ComponentName
		switch e.To.State {
		case graph.StateCircular:
			buf.WriteString(fmt.Sprintf("  %s -> %s [color=\"red\", penwidth=3.0, label=%s];\n", from, to, dotQuote(label+" (CYCLE)")))
		case graph.StateTruncated:
			buf.WriteString(fmt.Sprintf("  %s -> %s [color=\"grey\", style=dashed, label=%s];\n", from, to, dotQuote(label)))
		default:
			buf.WriteString(fmt.Sprintf("  %s -> %s [color=\"forestgreen\", label=%s];\n", from, to, dotQuote(label)))
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// dotNodeID keys files by display path; circular and missing targets reuse
// the file's own node so the cycle edge closes the loop.
func dotNodeID(n *graph.ComponentNode) string {
	return displayPath(n)
}

func (d *DOTGenerator) nodeAttrs(n *graph.ComponentNode) string {
	switch {
	case n.State == graph.StateNotFound:
		return fmt.Sprintf("label=%s, color=\"red\", style=\"rounded,dashed\"", dotQuote(displayPath(n)+"\\n(not found)"))
	case n.IsMarker():
		return fmt.Sprintf("label=%s, color=\"grey\"", dotQuote(displayPath(n)))
	}
	label := dotQuote(fmt.Sprintf("%s\\n(%d lines)", displayPath(n), n.LineCount))
	switch {
	case n.LineCount > d.thresholds.Large:
		return fmt.Sprintf("label=%s, fillcolor=\"mistyrose\", style=\"rounded,filled\", color=\"red\"", label)
	case n.LineCount > d.thresholds.Medium:
		return fmt.Sprintf("label=%s, fillcolor=\"lightyellow\", style=\"rounded,filled\", color=\"orange\"", label)
	case n.IsShallow():
		return fmt.Sprintf("label=%s, color=\"grey\", style=\"rounded,dashed\"", label)
	default:
		return fmt.Sprintf("label=%s, color=\"darkslategrey\"", label)
	}
}

// dotQuote wraps s in double quotes, leaving DOT escapes such as \n intact.
func dotQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
