package config

import (
	"fmt"
	"strings"

	"comptree/internal/shared/util"

	"github.com/gobwas/glob"
)

// Validate checks a fully defaulted configuration.
func Validate(cfg *Config) error {
	if err := validateVersion(cfg); err != nil {
		return err
	}
	if err := validateAnalysis(cfg); err != nil {
		return err
	}
	if err := validateExclude(cfg); err != nil {
		return err
	}
	if err := validateWatch(cfg); err != nil {
		return err
	}
	if err := validateOutput(cfg); err != nil {
		return err
	}
	return validateObservability(cfg)
}

func validateVersion(cfg *Config) error {
	if cfg.Version < 1 {
		return fmt.Errorf("version must be >= 1, got %d", cfg.Version)
	}
	if cfg.Version > 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateAnalysis(cfg *Config) error {
	a := cfg.Analysis
	if a.Depth < 1 {
		return fmt.Errorf("analysis.depth must be >= 1, got %d", a.Depth)
	}
	switch strings.ToLower(strings.TrimSpace(a.Extractor)) {
	case ExtractorRegex, ExtractorTreeSitter:
	default:
		return fmt.Errorf("analysis.extractor must be one of: %s, %s", ExtractorRegex, ExtractorTreeSitter)
	}
	if a.MediumThreshold < 0 || a.LargeThreshold < 0 {
		return fmt.Errorf("analysis thresholds must not be negative")
	}
	if a.MediumThreshold >= a.LargeThreshold {
		return fmt.Errorf("analysis.medium_threshold (%d) must be below analysis.large_threshold (%d)", a.MediumThreshold, a.LargeThreshold)
	}
	if a.TopFiles < 0 {
		return fmt.Errorf("analysis.top_files must not be negative")
	}
	if a.BatchConcurrency < 1 {
		return fmt.Errorf("analysis.batch_concurrency must be >= 1, got %d", a.BatchConcurrency)
	}
	return nil
}

func validateExclude(cfg *Config) error {
	for i, pattern := range cfg.Exclude.Dirs {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("exclude.dirs[%d]: invalid pattern %q: %w", i, pattern, err)
		}
	}
	// File patterns are matched in normalized form; validate exactly that.
	for i, pattern := range cfg.Exclude.Files {
		if _, err := glob.Compile(util.NormalizePatternPath(pattern), '/'); err != nil {
			return fmt.Errorf("exclude.files[%d]: invalid pattern %q: %w", i, pattern, err)
		}
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

func validateOutput(cfg *Config) error {
	switch strings.ToLower(strings.TrimSpace(cfg.Output.Format)) {
	case FormatTree, FormatJSON, FormatDOT, FormatMermaid, FormatTSV:
	default:
		return fmt.Errorf("output.format must be one of: tree, json, dot, mermaid, tsv")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Output.Color)) {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("output.color must be one of: auto, always, never")
	}
	return nil
}

func validateObservability(cfg *Config) error {
	if cfg.Observability.SampleRate < 0 || cfg.Observability.SampleRate > 1 {
		return fmt.Errorf("observability.sample_rate must be within [0, 1]")
	}
	return nil
}
