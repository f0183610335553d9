package config

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if cfg.Analysis.Depth == 0 {
		cfg.Analysis.Depth = 1
	}
	if strings.TrimSpace(cfg.Analysis.Extractor) == "" {
		cfg.Analysis.Extractor = ExtractorRegex
	}
	if cfg.Analysis.LargeThreshold == 0 {
		cfg.Analysis.LargeThreshold = 300
	}
	if cfg.Analysis.MediumThreshold == 0 {
		cfg.Analysis.MediumThreshold = 150
	}
	if cfg.Analysis.TopFiles == 0 {
		cfg.Analysis.TopFiles = 10
	}
	if cfg.Analysis.BatchConcurrency <= 0 {
		cfg.Analysis.BatchConcurrency = 4
	}

	if cfg.Exclude.Dirs == nil {
		cfg.Exclude.Dirs = []string{"node_modules", ".git", ".next", "dist", "build"}
	}

	if cfg.Cache.FileContents <= 0 {
		cfg.Cache.FileContents = 2048
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.MaxRunsPerSecond <= 0 {
		cfg.Watch.MaxRunsPerSecond = 2
	}

	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = FormatTree
	}
	if strings.TrimSpace(cfg.Output.Color) == "" {
		cfg.Output.Color = ColorAuto
	}

	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = ".comptree/history.db"
	}

	if strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		cfg.Observability.ServiceName = "comptree"
	}
	if cfg.Observability.SampleRate == 0 {
		cfg.Observability.SampleRate = 1.0
	}
}
