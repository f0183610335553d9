package app

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"comptree/internal/core/config"
	"comptree/internal/core/watcher"
	"comptree/internal/shared/observability"
	"comptree/internal/shared/util"
)

// Watch analyzes componentFiles once, then again whenever a JS/TS file below
// their base paths changes, until ctx is done. Each run is reported through
// the update handler. Change bursts that arrive while a run is pending are
// folded into it, and runs are throttled to watch.max_runs_per_second.
func (a *App) Watch(ctx context.Context, componentFiles []string) error {
	cfg, _, _ := a.snapshot()

	trigger := make(chan []string, 1)
	w, err := watcher.NewWatcher(cfg.Watch.Debounce, cfg.Exclude.Dirs, nil, func(paths []string) {
		select {
		case trigger <- paths:
		default:
			observability.WatchRunsSkippedTotal.Inc()
			slog.Debug("re-analysis already pending", "changed", len(paths))
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()

	roots := a.watchRoots(cfg, componentFiles)
	if err := w.Watch(roots); err != nil {
		return err
	}
	slog.Info("watching for changes", "roots", roots, "debounce", cfg.Watch.Debounce)

	limiter := util.NewLimiter(cfg.Watch.MaxRunsPerSecond, 1)
	a.runOnce(ctx, componentFiles)

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-trigger:
			if err := limiter.Wait(ctx, 1); err != nil {
				return nil
			}
			slog.Info("detected changes", "count", len(paths))
			a.runOnce(ctx, componentFiles)
		}
	}
}

func (a *App) runOnce(ctx context.Context, componentFiles []string) {
	results, err := a.AnalyzeBatch(ctx, componentFiles)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		slog.Warn("analysis failed", "error", err)
	}
	rendered, renderErr := a.RenderAll(results)
	if renderErr != nil {
		slog.Error("failed to render results", "error", renderErr)
		if err == nil {
			err = renderErr
		}
	}
	a.emitUpdate(Update{
		Results:  results,
		Rendered: rendered,
		Err:      err,
		At:       time.Now(),
	})
}

// watchRoots returns the distinct base paths of componentFiles, dropping any
// nested inside another.
func (a *App) watchRoots(cfg *config.Config, componentFiles []string) []string {
	seen := make(map[string]bool, len(componentFiles))
	for _, file := range componentFiles {
		abs := config.ResolveRelative(a.cwd, file)
		seen[config.ResolveBasePath(cfg, a.cwd, abs)] = true
	}
	candidates := util.SortedStringKeys(seen)
	sort.Slice(candidates, func(i, j int) bool { return len(candidates[i]) < len(candidates[j]) })

	roots := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		nested := false
		for _, root := range roots {
			if _, ok := util.RelativeTo(root, candidate); ok {
				nested = true
				break
			}
		}
		if !nested {
			roots = append(roots, candidate)
		}
	}
	sort.Strings(roots)
	return roots
}

// WatchConfig reloads path on change and applies the result after adjust
// (typically re-applying command-line overrides). It returns a stop function.
func (a *App) WatchConfig(ctx context.Context, path string, adjust func(*config.Config) error) (func(), error) {
	if strings.TrimSpace(path) == "" {
		return func() {}, nil
	}
	cw := config.NewWatcher(config.ResolveRelative(a.cwd, path), func(cfg *config.Config) {
		if adjust != nil {
			if err := adjust(cfg); err != nil {
				slog.Error("reloaded configuration rejected", "error", err)
				return
			}
		}
		if err := a.ApplyConfig(cfg); err != nil {
			slog.Error("failed to apply reloaded configuration", "error", err)
		}
	})
	if err := cw.Start(ctx); err != nil {
		return nil, err
	}
	return cw.Stop, nil
}
