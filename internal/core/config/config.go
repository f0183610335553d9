package config

import (
	"time"
)

const (
	ExtractorRegex      = "regex"
	ExtractorTreeSitter = "treesitter"

	FormatTree    = "tree"
	FormatJSON    = "json"
	FormatDOT     = "dot"
	FormatMermaid = "mermaid"
	FormatTSV     = "tsv"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Config struct {
	Version       int           `toml:"version"`
	Analysis      Analysis      `toml:"analysis"`
	Exclude       Exclude       `toml:"exclude"`
	Cache         Cache         `toml:"cache"`
	Watch         Watch         `toml:"watch"`
	Output        Output        `toml:"output"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
}

type Analysis struct {
	// Depth is the number of dependency levels to expand below the root.
	Depth           int    `toml:"depth"`
	BasePath        string `toml:"base_path"`
	Extractor       string `toml:"extractor"`
	LargeThreshold  int    `toml:"large_threshold"`
	MediumThreshold int    `toml:"medium_threshold"`
	// TopFiles caps the large/medium lists in the text report.
	TopFiles         int `toml:"top_files"`
	BatchConcurrency int `toml:"batch_concurrency"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`  // Directory globs skipped by the watcher
	Files []string `toml:"files"` // Globs on resolved targets (relative to base path) that are never attached
}

type Cache struct {
	FileContents int `toml:"file_contents"`
}

type Watch struct {
	Debounce         time.Duration `toml:"debounce"`
	MaxRunsPerSecond float64       `toml:"max_runs_per_second"`
}

type Output struct {
	Format        string `toml:"format"`
	Path          string `toml:"path"`
	HideTruncated bool   `toml:"hide_truncated"`
	Color         string `toml:"color"`
}

type History struct {
	Enabled    bool   `toml:"enabled"`
	Path       string `toml:"path"`
	ProjectKey string `toml:"project_key"`
}

type Observability struct {
	MetricsAddr  string  `toml:"metrics_addr"`
	OTLPEndpoint string  `toml:"otlp_endpoint"`
	ServiceName  string  `toml:"service_name"`
	SampleRate   float64 `toml:"sample_rate"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
