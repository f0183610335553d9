// # internal/output/types.go
package output

import (
	"fmt"
	"strings"

	"comptree/internal/engine/graph"
)

// Report is everything a generator needs to describe one analysis.
type Report struct {
	Root      *graph.ComponentNode
	Stats     graph.Stats
	Depth     int
	Component string // root file as given by the user
	BasePath  string
}

type Options struct {
	HideTruncated bool
	Color         bool
	Thresholds    graph.Thresholds
	TopFiles      int
}

func DefaultOptions() Options {
	return Options{
		Thresholds: graph.DefaultThresholds(),
		TopFiles:   10,
	}
}

type Generator interface {
	Generate(report Report) (string, error)
}

const (
	FormatTree    = "tree"
	FormatJSON    = "json"
	FormatDOT     = "dot"
	FormatMermaid = "mermaid"
	FormatTSV     = "tsv"
)

// NewGenerator returns the generator registered for format.
func NewGenerator(format string, opts Options) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatTree:
		return NewTextGenerator(opts), nil
	case FormatJSON:
		return NewJSONGenerator(), nil
	case FormatDOT:
		return NewDOTGenerator(opts.Thresholds), nil
	case FormatMermaid:
		return NewMermaidGenerator(opts.Thresholds), nil
	case FormatTSV:
		return NewTSVGenerator(), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// edge is one parent-to-child link in the rendered tree.
type edge struct {
	From *graph.ComponentNode
	To   *graph.ComponentNode
}

// collectEdges lists parent/child links depth-first in dependency order,
// deduplicated by (from, to, name). Marker children are included.
func collectEdges(root *graph.ComponentNode) []edge {
	var edges []edge
	seen := make(map[string]bool)
	var walk func(n *graph.ComponentNode)
	walk = func(n *graph.ComponentNode) {
		for _, dep := range n.Dependencies {
			key := n.Path + "\x00" + dep.Path + "\x00" + dep.ComponentName + "\x00" + string(dep.State)
			if seen[key] {
				continue
			}
			seen[key] = true
			edges = append(edges, edge{From: n, To: dep})
			walk(dep)
		}
	}
	if root != nil {
		walk(root)
	}
	return edges
}

// displayPath returns the path shown for a node.
func displayPath(n *graph.ComponentNode) string {
	if n.RelativePath != "" {
		return n.RelativePath
	}
	return n.Path
}
