// # internal/output/mermaid.go
package output

import (
	"fmt"
	"strings"
	"unicode"

	"comptree/internal/engine/graph"
)

type MermaidGenerator struct {
	thresholds graph.Thresholds
}

func NewMermaidGenerator(th graph.Thresholds) *MermaidGenerator {
	return &MermaidGenerator{thresholds: th}
}

func (m *MermaidGenerator) Generate(report Report) (string, error) {
	var b strings.Builder
	b.WriteString("flowchart LR\n")
	if report.Root == nil {
		return b.String(), nil
	}

	ids := make(map[string]string)
	used := make(map[string]bool)
	idFor := func(n *graph.ComponentNode) (string, bool) {
		key := displayPath(n)
		if id, ok := ids[key]; ok {
			return id, false
		}
		id := uniqueMermaidID(mermaidID(key), used)
		ids[key] = id
		return id, true
	}

	var classes [][2]string
	declare := func(n *graph.ComponentNode) {
		id, fresh := idFor(n)
		if !fresh {
			return
		}
		label := displayPath(n)
		if !n.IsMarker() {
			label = fmt.Sprintf("%s<br/>%d lines", label, n.LineCount)
		}
		b.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", id, escapeMermaidLabel(label)))
		if class := m.classFor(n); class != "" {
			classes = append(classes, [2]string{id, class})
		}
	}

	declare(report.Root)
	edges := collectEdges(report.Root)
	for _, e := range edges {
		declare(e.To)
	}

	for _, e := range edges {
		from, _ := idFor(e.From)
		to, _ := idFor(e.To)
		label := escapeMermaidLabel(e.To.ComponentName)
		switch e.To.State {
		case graph.StateCircular:
			b.WriteString(fmt.Sprintf("  %s -. \"%s (cycle)\" .-> %s\n", from, label, to))
		case graph.StateTruncated:
			b.WriteString(fmt.Sprintf("  %s -.->|\"%s\"| %s\n", from, label, to))
		default:
			b.WriteString(fmt.Sprintf("  %s -->|\"%s\"| %s\n", from, label, to))
		}
	}

	b.WriteString("  classDef large fill:#fee2e2,stroke:#ef4444,stroke-width:2px\n")
	b.WriteString("  classDef medium fill:#fef3c7,stroke:#f59e0b\n")
	b.WriteString("  classDef missing stroke:#ef4444,stroke-dasharray:4 2\n")
	for _, c := range classes {
		b.WriteString(fmt.Sprintf("  class %s %s\n", c[0], c[1]))
	}
	return b.String(), nil
}

func (m *MermaidGenerator) classFor(n *graph.ComponentNode) string {
	switch {
	case n.State == graph.StateNotFound:
		return "missing"
	case n.IsMarker():
		return ""
	case n.LineCount > m.thresholds.Large:
		return "large"
	case n.LineCount > m.thresholds.Medium:
		return "medium"
	}
	return ""
}

func mermaidID(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	id := b.String()
	if id == "" || unicode.IsDigit(rune(id[0])) {
		id = "n_" + id
	}
	return id
}

func uniqueMermaidID(base string, used map[string]bool) string {
	id := base
	for i := 2; used[id]; i++ {
		id = fmt.Sprintf("%s_%d", base, i)
	}
	used[id] = true
	return id
}

func escapeMermaidLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}
