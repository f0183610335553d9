// # internal/output/tree.go
package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"comptree/internal/engine/graph"
)

var fileIcons = map[string]string{
	".tsx": "⚛️ ",
	".jsx": "⚛️ ",
	".ts":  "📘",
	".js":  "📙",
}

const (
	defaultIcon   = "📄"
	largeGlyph    = "⚠️"
	mediumGlyph   = "⚡"
	truncateGlyph = "📁"
	circularIcon  = "🔁"
	notFoundIcon  = "❌"
)

// TreeRenderer draws a ComponentNode tree with box-drawing connectors.
type TreeRenderer struct {
	opts    Options
	palette palette
}

func NewTreeRenderer(opts Options) *TreeRenderer {
	return &TreeRenderer{opts: opts, palette: newPalette(opts.Color)}
}

func (r *TreeRenderer) Render(root *graph.ComponentNode) string {
	var b strings.Builder
	if root == nil {
		return ""
	}
	r.renderNode(&b, root, "", true)
	return b.String()
}

func (r *TreeRenderer) renderNode(b *strings.Builder, n *graph.ComponentNode, prefix string, last bool) {
	connector := "├── "
	if last {
		connector = "└── "
	}
	b.WriteString(r.palette.paint(r.palette.muted, prefix+connector))
	b.WriteString(r.line(n))
	b.WriteString("\n")

	childPrefix := prefix + "│   "
	if last {
		childPrefix = prefix + "    "
	}
	for i, dep := range n.Dependencies {
		r.renderNode(b, dep, childPrefix, i == len(n.Dependencies)-1)
	}
}

func (r *TreeRenderer) line(n *graph.ComponentNode) string {
	p := r.palette
	switch {
	case n.State == graph.StateCircular:
		return fmt.Sprintf("%s %s %s", circularIcon, displayPath(n), p.paint(p.marker, "("+n.Reason+")"))
	case n.State == graph.StateNotFound:
		return fmt.Sprintf("%s %s %s", notFoundIcon, displayPath(n), p.paint(p.marker, "("+n.Reason+")"))
	case n.IsMarker():
		return fmt.Sprintf("%s %s %s", truncateGlyph, filepath.Base(n.Path), p.paint(p.truncated, "("+n.Reason+")"))
	}

	icon, ok := fileIcons[strings.ToLower(filepath.Ext(n.Path))]
	if !ok {
		icon = defaultIcon
	}

	lines := fmt.Sprintf("[%4d lines]", n.LineCount)
	switch {
	case n.LineCount > r.opts.Thresholds.Large:
		lines = p.paint(p.large, lines) + " " + largeGlyph
	case n.LineCount > r.opts.Thresholds.Medium:
		lines = p.paint(p.medium, lines) + " " + mediumGlyph
	}

	out := fmt.Sprintf("%s %s %s", icon, p.paint(p.path, displayPath(n)), lines)
	if n.IsShallow() && !r.opts.HideTruncated {
		out += " " + truncateGlyph
	}
	return out
}
