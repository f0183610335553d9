package app

import (
	"context"
	"fmt"
	"time"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}
	if err := ctx.Err(); err != nil {
		status.Status = "down"
		return status
	}

	cfg, extractor, _ := s.app.snapshot()
	if extractor != nil {
		status.Components["extractor"] = "ok (" + cfg.Analysis.Extractor + ")"
	} else {
		status.Status = "degraded"
		status.Components["extractor"] = "missing"
	}

	if s.app.reader != nil {
		reads, hits := s.app.reader.Stats()
		status.Components["source_cache"] = fmt.Sprintf("ok (%d reads, %d hits)", reads, hits)
	} else {
		status.Status = "degraded"
		status.Components["source_cache"] = "missing"
	}

	if s.app.history != nil {
		status.Components["history"] = "ok"
	} else if cfg.History.Enabled {
		status.Status = "degraded"
		status.Components["history"] = "missing but enabled in config"
	}

	s.app.runMu.Lock()
	lastRun := s.app.lastRun
	s.app.runMu.Unlock()
	if lastRun.IsZero() {
		status.Components["last_run"] = "never"
	} else {
		status.Components["last_run"] = lastRun.UTC().Format(time.RFC3339)
	}
	return status
}
