// # internal/engine/graph/node.go
package graph

type NodeState string

const (
	StateExpanded  NodeState = "expanded"
	StateTruncated NodeState = "truncated"
	StateNotFound  NodeState = "not_found"
	StateCircular  NodeState = "circular"
)

const (
	ReasonMaxDepth = "max depth reached"
	ReasonNotFound = "file not found"
	ReasonCircular = "circular dependency"
)

// ComponentNode is one file in the dependency tree.
//
// Nodes come in three shapes:
//   - analyzed files (StateExpanded), possibly with Dependencies;
//   - shallow leaves (StateTruncated with RelativePath set): the file's own
//     line count is known but its imports were not followed;
//   - markers (StateCircular, StateNotFound, or StateTruncated without
//     RelativePath) standing in for a file that was not read.
type ComponentNode struct {
	Path          string           `json:"path"`
	RelativePath  string           `json:"relative_path,omitempty"`
	ComponentName string           `json:"component_name,omitempty"`
	LineCount     int              `json:"line_count"`
	ImportCount   int              `json:"import_count"`
	Depth         int              `json:"depth"`
	State         NodeState        `json:"state"`
	Reason        string           `json:"reason,omitempty"`
	Unresolved    []string         `json:"unresolved,omitempty"`
	Dependencies  []*ComponentNode `json:"dependencies,omitempty"`
}

// IsMarker reports whether the node stands in for a file that was not read.
func (n *ComponentNode) IsMarker() bool {
	switch n.State {
	case StateCircular, StateNotFound:
		return true
	case StateTruncated:
		return n.RelativePath == ""
	}
	return false
}

// IsShallow reports whether the node is a depth-limited leaf with its own line count.
func (n *ComponentNode) IsShallow() bool {
	return n.State == StateTruncated && n.RelativePath != ""
}

// Attach returns a shallow copy of n carrying the importer's name for it.
// Dependencies are shared with n, which is never modified.
func (n *ComponentNode) Attach(componentName string) *ComponentNode {
	cp := *n
	cp.ComponentName = componentName
	return &cp
}

// Walk visits n and its descendants depth-first in dependency order. When fn
// returns false the children of that node are skipped.
func (n *ComponentNode) Walk(fn func(node *ComponentNode) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, dep := range n.Dependencies {
		dep.Walk(fn)
	}
}

func markerNode(path string, depth int, state NodeState, reason string) *ComponentNode {
	return &ComponentNode{
		Path:   path,
		Depth:  depth,
		State:  state,
		Reason: reason,
	}
}
