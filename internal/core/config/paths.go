package config

import (
	"path/filepath"
	"strings"
)

// baseRootMarkers are directory names that conventionally hold a frontend's sources.
var baseRootMarkers = map[string]bool{
	"src":      true,
	"frontend": true,
}

func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(base, raw))
}

// DetectBaseRoot walks up from the component file's directory and returns the
// nearest ancestor named "src" or "frontend". When none exists the file's own
// directory is used. componentFile must be absolute.
func DetectBaseRoot(componentFile string) string {
	start := filepath.Dir(filepath.Clean(componentFile))
	current := start
	for {
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		if baseRootMarkers[filepath.Base(current)] {
			return current
		}
		current = parent
	}
	return start
}

// ResolveBasePath returns the absolute base root for display paths: the
// configured base path when set (relative to cwd), else DetectBaseRoot.
func ResolveBasePath(cfg *Config, cwd, componentFile string) string {
	if strings.TrimSpace(cfg.Analysis.BasePath) != "" {
		return ResolveRelative(cwd, cfg.Analysis.BasePath)
	}
	return DetectBaseRoot(componentFile)
}
