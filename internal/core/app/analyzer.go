package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"comptree/internal/core/config"
	"comptree/internal/core/errors"
	"comptree/internal/core/ports"
	"comptree/internal/engine/graph"
	"comptree/internal/engine/resolver"
	"comptree/internal/shared/observability"

	"golang.org/x/sync/errgroup"
)

// Analyze builds and summarizes the dependency tree of one component file.
// A missing root yields a result holding the not-found marker together with
// a NOT_FOUND error.
func (a *App) Analyze(ctx context.Context, componentFile string) (ports.AnalysisResult, error) {
	cfg, extractor, _ := a.snapshot()
	depth := cfg.Analysis.Depth

	ctx, span := observability.StartAnalysisSpan(ctx, componentFile, depth)
	defer span.End()

	result := ports.AnalysisResult{Component: componentFile, Depth: depth}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	abs, err := filepath.Abs(config.ResolveRelative(a.cwd, componentFile))
	if err != nil {
		err = errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "resolve component path"), errors.CtxPath, componentFile)
		observability.RecordError(span, err)
		result.Err = err
		return result, err
	}
	result.Path = abs
	result.BasePath = config.ResolveBasePath(cfg, a.cwd, abs)

	pathResolver, err := resolver.NewPathResolver(result.BasePath, cfg.Exclude.Files)
	if err != nil {
		err = errors.Wrap(err, errors.CodeValidationError, "compile exclude patterns")
		observability.RecordError(span, err)
		result.Err = err
		return result, err
	}

	traverser, err := graph.NewTraverser(graph.Options{
		MaxDepth:  depth,
		Extractor: extractor,
		Resolver:  pathResolver,
		Reader:    a.reader,
	})
	if err != nil {
		observability.RecordError(span, err)
		result.Err = err
		return result, err
	}

	start := time.Now()
	root, err := traverser.Analyze(ctx, abs)
	if root != nil && root.ComponentName == "" {
		root = root.Attach(resolver.ComponentName(abs))
	}
	result.Root = root
	result.Traversal = traverser.Stats()
	result.Duration = time.Since(start)
	if err != nil {
		observability.RecordError(span, err)
		result.Err = err
		return result, err
	}
	if err := ctx.Err(); err != nil {
		result.Err = err
		return result, err
	}

	result.Stats = graph.Aggregate(root, thresholds(cfg))

	observability.AnalysisDuration.WithLabelValues(cfg.Analysis.Extractor).Observe(result.Duration.Seconds())
	observability.TreeFiles.WithLabelValues(result.Stats.RootPath).Set(float64(result.Stats.TotalFiles))
	observability.TreeLines.WithLabelValues(result.Stats.RootPath).Set(float64(result.Stats.TotalLines))

	slog.Debug("analysis complete",
		"root", result.Stats.RootPath,
		"depth", depth,
		"files", result.Stats.TotalFiles,
		"lines", result.Stats.TotalLines,
		"files_read", result.Traversal.FilesRead,
		"cache_hits", result.Traversal.CacheHits,
		"duration", result.Duration,
	)

	if a.history != nil {
		trend, err := a.recordHistory(cfg, result)
		if err != nil {
			slog.Warn("failed to record history snapshot", "root", result.Stats.RootPath, "error", err)
		} else {
			result.Trend = trend
		}
	}

	a.runMu.Lock()
	a.lastRun = time.Now()
	a.runMu.Unlock()
	return result, nil
}

// AnalyzeBatch analyzes several roots concurrently, bounded by
// analysis.batch_concurrency. Results keep the order of componentFiles. A root
// that fails does not stop the others; the first such error is returned once
// all have finished.
func (a *App) AnalyzeBatch(ctx context.Context, componentFiles []string) ([]ports.AnalysisResult, error) {
	cfg, _, _ := a.snapshot()
	results := make([]ports.AnalysisResult, len(componentFiles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Analysis.BatchConcurrency)
	for i, file := range componentFiles {
		i, file := i, file
		g.Go(func() error {
			result, err := a.Analyze(gctx, file)
			results[i] = result
			if err != nil && errors.CodeOf(err) == "" {
				// Cancellation stops the batch.
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	for _, result := range results {
		if result.Err != nil {
			return results, result.Err
		}
	}
	return results, nil
}
