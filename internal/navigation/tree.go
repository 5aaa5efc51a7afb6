package navigation

import "github.com/google/uuid"

// Node is one resolved navigation entry.
type Node struct {
	EntryID   uuid.UUID `json:"entry_id"`
	ContentID uuid.UUID `json:"content_id"`
	Label     string    `json:"label"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	URL       string    `json:"url"`
	Position  int       `json:"position"`
	Children  []*Node   `json:"children,omitempty"`
}

// Tree is the resolved hierarchy of one navigation for a language and app
// state. Entries whose content could not be resolved are absent.
type Tree struct {
	Type      string  `json:"type"`
	Name      string  `json:"name"`
	MaxLevels int     `json:"max_levels"`
	Offline   bool    `json:"offline"`
	Nodes     []*Node `json:"nodes,omitempty"`
}

// HasEntries reports whether at least one entry resolved. Callers use this to
// decide whether to render the navigation at all.
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
