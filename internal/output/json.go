// # internal/output/json.go
package output

import (
	"encoding/json"

	"comptree/internal/engine/graph"
)

type jsonDocument struct {
	Component string               `json:"component"`
	BasePath  string               `json:"base_path"`
	Depth     int                  `json:"depth"`
	Stats     graph.Stats          `json:"stats"`
	Tree      *graph.ComponentNode `json:"tree"`
}

type JSONGenerator struct{}

func NewJSONGenerator() *JSONGenerator { return &JSONGenerator{} }

func (g *JSONGenerator) Generate(report Report) (string, error) {
	data, err := json.MarshalIndent(jsonDocument{
		Component: report.Component,
		BasePath:  report.BasePath,
		Depth:     report.Depth,
		Stats:     report.Stats,
		Tree:      report.Root,
	}, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
