package flags

import "github.com/google/uuid"

// Node is one resolved flag entry. Children carry the same flag and were
// assigned this node's content as parent.
type Node struct {
	ContentID uuid.UUID `json:"content_id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	NavLabel  *string   `json:"nav_label,omitempty"`
	Position  int       `json:"position"`
	Children  []*Node   `json:"children,omitempty"`
}

// Tree is the resolved hierarchy for one flag. Entries whose content could
// not be resolved in the requested app state are absent.
type Tree struct {
	Flag  string  `json:"flag"`
	Nodes []*Node `json:"nodes,omitempty"`
}

// HasEntries reports whether at least one entry resolved. Callers use this to
// decide whether to render the flag UI at all.
func (t *Tree) HasEntries() bool {
	return t != nil && len(t.Nodes) > 0
}

// Walk visits every resolved node depth first. Returning false stops the
// traversal.
func (t *Tree) Walk(fn func(*Node) bool) {
	if t == nil {
		return
	}
	walkNodes(t.Nodes, fn)
}

func walkNodes(nodes []*Node, fn func(*Node) bool) bool {
	for _, node := range nodes {
		if !fn(node) {
			return false
		}
		if !walkNodes(node.Children, fn) {
			return false
		}
	}
	return true
}
