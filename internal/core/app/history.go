package app

import (
	"time"

	"comptree/internal/core/config"
	"comptree/internal/core/errors"
	"comptree/internal/core/ports"
	"comptree/internal/data/history"
)

// trendWindow bounds how far back the trend shown after a run looks.
const trendWindow = 30 * 24 * time.Hour

// recordHistory saves a snapshot keyed by the root's absolute path, so roots
// with the same display path under different base paths keep separate series.
func (a *App) recordHistory(cfg *config.Config, result ports.AnalysisResult) (*history.TrendReport, error) {
	key := result.Path

	snapshot := history.SnapshotFromStats(key, result.Depth, result.Stats)
	snapshot.Timestamp = time.Now().UTC()
	if _, err := a.history.SaveSnapshot(cfg.History.ProjectKey, snapshot); err != nil {
		return nil, historyError(err, "save snapshot", key)
	}

	snapshots, err := a.history.LoadSnapshots(cfg.History.ProjectKey, key, snapshot.Timestamp.Add(-trendWindow))
	if err != nil {
		return nil, historyError(err, "load snapshots", key)
	}
	trend, err := history.BuildTrendReport(snapshots)
	if err != nil {
		return nil, historyError(err, "build trend report", key)
	}
	if result.Stats.RootPath != "" {
		trend.Root = result.Stats.RootPath
	}
	return &trend, nil
}

func historyError(err error, operation, root string) error {
	wrapped := errors.AddContext(errors.Wrap(err, errors.CodeInternal, "history store"), errors.CtxOperation, operation)
	return errors.AddContext(wrapped, errors.CtxPath, root)
}
