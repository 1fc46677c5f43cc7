package thread

import "github.com/atomicstack/threadview/internal/annotation"

// Node is one entry of a built thread tree. The synthetic root carries no
// item and its children are the top-level threads.
type Node struct {
	ID            string
	Item          *annotation.Item
	ParentID      string
	Children      []*Node
	Collapsed     bool
	Visible       bool
	TotalChildren int
	ReplyCount    int
	Depth         int
}

// IsRoot reports whether n is the synthetic root.
func (n *Node) IsRoot() bool {
	return n != nil && n.Item == nil
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Find returns the node with the given id, or nil.
func (n *Node) Find(id string) *Node {
	var found *Node
	n.Walk(func(cur *Node) bool {
		if found != nil {
			return false
		}
		if cur.ID == id && !cur.IsRoot() {
			found = cur
			return false
		}
		return true
	})
	return found
}

// HasVisibleDescendant reports whether any node below n is visible.
func (n *Node) HasVisibleDescendant() bool {
	if n == nil {
		return false
	}
	for _, child := range n.Children {
		if child.Visible || child.HasVisibleDescendant() {
			return true
		}
	}
	return false
}

// Row is a node prepared for rendering inside its top-level block.
type Row struct {
	Node  *Node
	Depth int
}

// Rows flattens the thread headed by n into display rows. Collapsed nodes
// contribute only themselves; subtrees with nothing visible are skipped.
func Rows(n *Node) []Row {
	if n == nil {
		return nil
	}
	rows := make([]Row, 0, 1+n.ReplyCount)
	var visit func(node *Node, depth int)
	visit = func(node *Node, depth int) {
		if !node.Visible && !node.HasVisibleDescendant() {
			return
		}
		rows = append(rows, Row{Node: node, Depth: depth})
		if node.Collapsed {
			return
		}
		for _, child := range node.Children {
			visit(child, depth+1)
		}
	}
	visit(n, 0)
	return rows
}

// Equal reports whether two trees are structurally identical.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.ID != b.ID || a.ParentID != b.ParentID || a.Collapsed != b.Collapsed || a.Visible != b.Visible {
		return false
	}
	if a.TotalChildren != b.TotalChildren || a.ReplyCount != b.ReplyCount || a.Depth != b.Depth {
		return false
	}
	switch {
	case a.Item == nil && b.Item == nil:
	case a.Item == nil || b.Item == nil:
		return false
	case !a.Item.Equal(*b.Item):
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for idx := range a.Children {
		if !Equal(a.Children[idx], b.Children[idx]) {
			return false
		}
	}
	return true
}
