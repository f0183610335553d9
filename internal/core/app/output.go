package app

import (
	"fmt"
	"io"
	"strings"

	"comptree/internal/core/config"
	"comptree/internal/core/ports"
	"comptree/internal/output"
	"comptree/internal/shared/util"
)

// Render formats one result with the configured generator. The tree format
// also carries the trend summary when history is recorded.
func (a *App) Render(result ports.AnalysisResult) (string, error) {
	cfg, _, color := a.snapshot()
	if result.Root == nil {
		return "", fmt.Errorf("no tree to render for %s", result.Component)
	}

	gen, err := output.NewGenerator(cfg.Output.Format, a.outputOptions(cfg, color))
	if err != nil {
		return "", err
	}
	rendered, err := gen.Generate(output.Report{
		Root:      result.Root,
		Stats:     result.Stats,
		Depth:     result.Depth,
		Component: result.Component,
		BasePath:  result.BasePath,
	})
	if err != nil {
		return "", fmt.Errorf("generate %s output: %w", cfg.Output.Format, err)
	}

	if result.Trend != nil && strings.EqualFold(cfg.Output.Format, config.FormatTree) {
		rendered += output.RenderTrendSummary(*result.Trend)
	}
	return rendered, nil
}

// RenderAll renders every result that produced a tree, separated by a blank line.
func (a *App) RenderAll(results []ports.AnalysisResult) (string, error) {
	parts := make([]string, 0, len(results))
	for _, result := range results {
		if result.Root == nil {
			continue
		}
		rendered, err := a.Render(result)
		if err != nil {
			return "", err
		}
		parts = append(parts, strings.TrimRight(rendered, "\n")+"\n")
	}
	return strings.Join(parts, "\n"), nil
}

// WriteResults renders results to output.path when configured, else to w.
func (a *App) WriteResults(results []ports.AnalysisResult, w io.Writer) error {
	cfg, _, _ := a.snapshot()
	rendered, err := a.RenderAll(results)
	if err != nil {
		return err
	}
	if rendered == "" {
		return nil
	}

	if path := strings.TrimSpace(cfg.Output.Path); path != "" {
		target := config.ResolveRelative(a.cwd, path)
		if err := util.WriteStringWithDirs(target, rendered, 0o644); err != nil {
			return fmt.Errorf("write output %q: %w", target, err)
		}
		return nil
	}

	_, err = io.WriteString(w, rendered)
	return err
}
