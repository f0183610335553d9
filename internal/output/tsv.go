// # internal/output/tsv.go
package output

import (
	"fmt"
	"strings"
)

type TSVGenerator struct{}

func NewTSVGenerator() *TSVGenerator {
	return &TSVGenerator{}
}

// Generate writes the root row followed by one row per import edge.
func (t *TSVGenerator) Generate(report Report) (string, error) {
	var buf strings.Builder

	buf.WriteString("From\tTo\tImport\tDepth\tLines\tState\n")
	if report.Root == nil {
		return buf.String(), nil
	}

	root := report.Root
	buf.WriteString(fmt.Sprintf("\t%s\t\t%d\t%d\t%s\n", displayPath(root), root.Depth, root.LineCount, root.State))
	for _, e := range collectEdges(root) {
		buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%d\t%d\t%s\n",
			displayPath(e.From), displayPath(e.To), e.To.ComponentName, e.To.Depth, e.To.LineCount, e.To.State))
	}
	return buf.String(), nil
}
