// # internal/engine/graph/stats.go
package graph

import "sort"

type visitKey struct {
	path  string
	depth int
}

type Thresholds struct {
	Large  int
	Medium int
}

func DefaultThresholds() Thresholds {
	return Thresholds{Large: 300, Medium: 150}
}

// FileSize pairs a display path with its line count.
type FileSize struct {
	Path  string `json:"path"`
	Lines int    `json:"lines"`
}

type Stats struct {
	RootPath           string     `json:"root_path"`
	RootLines          int        `json:"root_lines"`
	DirectDependencies int        `json:"direct_dependencies"`
	TotalFiles         int        `json:"total_files"`
	TotalLines         int        `json:"total_lines"`
	LargeFiles         []FileSize `json:"large_files"`
	MediumFiles        []FileSize `json:"medium_files"`
	CircularCount      int        `json:"circular_count"`
	UnresolvedCount    int        `json:"unresolved_count"`
	MaxDepthReached    int        `json:"max_depth_reached"`
}

// Aggregate summarizes the tree under root. Every distinct path is counted
// once, whether it appears as an analyzed file or a shallow leaf; markers
// contribute only to CircularCount and UnresolvedCount.
func Aggregate(root *ComponentNode, th Thresholds) Stats {
	stats := Stats{
		LargeFiles:  []FileSize{},
		MediumFiles: []FileSize{},
	}
	if root == nil {
		return stats
	}
	stats.RootPath = root.RelativePath
	if root.IsMarker() {
		if root.State == StateNotFound {
			stats.UnresolvedCount = 1
		}
		return stats
	}
	stats.RootLines = root.LineCount
	stats.DirectDependencies = len(root.Dependencies)

	counted := make(map[string]bool)
	// A path can be expanded at several depths with different subtrees.
	descended := make(map[visitKey]bool)
	scanned := make(map[string]bool)

	root.Walk(func(node *ComponentNode) bool {
		switch {
		case node.State == StateCircular:
			stats.CircularCount++
			return false
		case node.State == StateNotFound:
			stats.UnresolvedCount++
			return false
		case node.IsMarker():
			return false
		}

		if !counted[node.Path] {
			counted[node.Path] = true
			stats.TotalFiles++
			stats.TotalLines += node.LineCount
			switch {
			case node.LineCount > th.Large:
				stats.LargeFiles = append(stats.LargeFiles, FileSize{Path: node.RelativePath, Lines: node.LineCount})
			case node.LineCount > th.Medium:
				stats.MediumFiles = append(stats.MediumFiles, FileSize{Path: node.RelativePath, Lines: node.LineCount})
			}
		}

		if node.Depth > stats.MaxDepthReached {
			stats.MaxDepthReached = node.Depth
		}

		key := visitKey{path: node.Path, depth: node.Depth}
		if node.IsShallow() || descended[key] {
			return false
		}
		descended[key] = true
		if !scanned[node.Path] {
			scanned[node.Path] = true
			stats.UnresolvedCount += len(node.Unresolved)
		}
		return true
	})

	sortBySize(stats.LargeFiles)
	sortBySize(stats.MediumFiles)
	return stats
}

func sortBySize(files []FileSize) {
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Lines != files[j].Lines {
			return files[i].Lines > files[j].Lines
		}
		return files[i].Path < files[j].Path
	})
}
