package app

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"comptree/internal/core/config"
	"comptree/internal/core/ports"
	"comptree/internal/data/history"
	"comptree/internal/engine/graph"
	"comptree/internal/engine/parser"
	"comptree/internal/output"
)

// Update is delivered to the update handler after every watch-triggered run.
type Update struct {
	Results  []ports.AnalysisResult
	Rendered string
	Err      error
	At       time.Time
}

// App wires configuration, extraction, traversal, reporting and history
// together. Each analysis builds its own traverser; the extractor and the
// source cache are shared and safe for concurrent runs.
type App struct {
	cfgMu  sync.RWMutex
	Config *config.Config

	cwd       string
	extractor parser.Extractor
	reader    *parser.SourceReader
	history   ports.HistoryStore
	color     bool

	updateMu sync.RWMutex
	onUpdate func(Update)

	runMu   sync.Mutex
	lastRun time.Time
}

var _ ports.AnalysisService = (*App)(nil)

// Option customizes an App at construction.
type Option func(*App)

// WithHistoryStore records snapshots into store instead of opening the
// configured database.
func WithHistoryStore(store ports.HistoryStore) Option {
	return func(a *App) { a.history = store }
}

func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	extractor, err := parser.NewExtractor(cfg.Analysis.Extractor)
	if err != nil {
		return nil, err
	}
	reader, err := parser.NewSourceReader(cfg.Cache.FileContents)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:    cfg,
		cwd:       cwd,
		extractor: extractor,
		reader:    reader,
	}
	for _, opt := range opts {
		opt(a)
	}

	if cfg.History.Enabled && a.history == nil {
		path := config.ResolveRelative(cwd, cfg.History.Path)
		store, err := history.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open history store %q: %w", path, err)
		}
		a.history = store
	}
	return a, nil
}

func (a *App) Close() error {
	if a == nil || a.history == nil {
		return nil
	}
	return a.history.Close()
}

// SetColor toggles ANSI colour in the tree report.
func (a *App) SetColor(enabled bool) {
	a.cfgMu.Lock()
	defer a.cfgMu.Unlock()
	a.color = enabled
}

// ApplyConfig swaps in a reloaded configuration. The extractor is rebuilt when
// its kind changes; the history store keeps the settings it was opened with.
func (a *App) ApplyConfig(cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	a.cfgMu.Lock()
	defer a.cfgMu.Unlock()

	if !strings.EqualFold(cfg.Analysis.Extractor, a.Config.Analysis.Extractor) {
		extractor, err := parser.NewExtractor(cfg.Analysis.Extractor)
		if err != nil {
			return err
		}
		a.extractor = extractor
	}
	if cfg.History.Enabled != a.Config.History.Enabled || cfg.History.Path != a.Config.History.Path {
		slog.Warn("history settings changed; restart to apply", "path", cfg.History.Path)
	}
	a.Config = cfg
	slog.Info("configuration applied", "depth", cfg.Analysis.Depth, "extractor", cfg.Analysis.Extractor, "format", cfg.Output.Format)
	return nil
}

func (a *App) snapshot() (*config.Config, parser.Extractor, bool) {
	a.cfgMu.RLock()
	defer a.cfgMu.RUnlock()
	return a.Config, a.extractor, a.color
}

func (a *App) SetUpdateHandler(handler func(Update)) {
	a.updateMu.Lock()
	defer a.updateMu.Unlock()
	a.onUpdate = handler
}

func (a *App) emitUpdate(update Update) {
	a.updateMu.RLock()
	handler := a.onUpdate
	a.updateMu.RUnlock()
	if handler != nil {
		handler(update)
	}
}

func thresholds(cfg *config.Config) graph.Thresholds {
	return graph.Thresholds{
		Large:  cfg.Analysis.LargeThreshold,
		Medium: cfg.Analysis.MediumThreshold,
	}
}

func (a *App) outputOptions(cfg *config.Config, color bool) output.Options {
	return output.Options{
		HideTruncated: cfg.Output.HideTruncated,
		Color:         color,
		Thresholds:    thresholds(cfg),
		TopFiles:      cfg.Analysis.TopFiles,
	}
}
