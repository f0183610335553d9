package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads KEY=VALUE pairs from the given files (default ".env")
// into the process environment without overriding variables already set.
// Missing files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			slog.Warn("failed to load env file", "path", file, "error", err)
		}
	}
}

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: COMPTREE_[SECTION]_[KEY] (e.g., COMPTREE_ANALYSIS_DEPTH).
func ApplyEnvOverrides(cfg *Config) {
	// Analysis
	setEnvInt(&cfg.Analysis.Depth, "COMPTREE_ANALYSIS_DEPTH")
	setEnvString(&cfg.Analysis.BasePath, "COMPTREE_ANALYSIS_BASE_PATH")
	setEnvString(&cfg.Analysis.Extractor, "COMPTREE_ANALYSIS_EXTRACTOR")
	setEnvInt(&cfg.Analysis.LargeThreshold, "COMPTREE_ANALYSIS_LARGE_THRESHOLD")
	setEnvInt(&cfg.Analysis.MediumThreshold, "COMPTREE_ANALYSIS_MEDIUM_THRESHOLD")
	setEnvInt(&cfg.Analysis.TopFiles, "COMPTREE_ANALYSIS_TOP_FILES")
	setEnvInt(&cfg.Analysis.BatchConcurrency, "COMPTREE_ANALYSIS_BATCH_CONCURRENCY")

	// Cache
	setEnvInt(&cfg.Cache.FileContents, "COMPTREE_CACHE_FILE_CONTENTS")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "COMPTREE_WATCH_DEBOUNCE")
	setEnvFloat64(&cfg.Watch.MaxRunsPerSecond, "COMPTREE_WATCH_MAX_RUNS_PER_SECOND")

	// Output
	setEnvString(&cfg.Output.Format, "COMPTREE_OUTPUT_FORMAT")
	setEnvString(&cfg.Output.Path, "COMPTREE_OUTPUT_PATH")
	setEnvBool(&cfg.Output.HideTruncated, "COMPTREE_OUTPUT_HIDE_TRUNCATED")
	setEnvString(&cfg.Output.Color, "COMPTREE_OUTPUT_COLOR")

	// History
	setEnvBool(&cfg.History.Enabled, "COMPTREE_HISTORY_ENABLED")
	setEnvString(&cfg.History.Path, "COMPTREE_HISTORY_PATH")
	setEnvString(&cfg.History.ProjectKey, "COMPTREE_HISTORY_PROJECT_KEY")

	// Observability
	setEnvString(&cfg.Observability.MetricsAddr, "COMPTREE_OBSERVABILITY_METRICS_ADDR")
	setEnvString(&cfg.Observability.OTLPEndpoint, "COMPTREE_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvString(&cfg.Observability.ServiceName, "COMPTREE_OBSERVABILITY_SERVICE_NAME")
	setEnvFloat64(&cfg.Observability.SampleRate, "COMPTREE_OBSERVABILITY_SAMPLE_RATE")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(val)))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(val)); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
