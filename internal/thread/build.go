// Package thread arranges a flat list of annotations into a tree of threads.
//
// Build is a pure function: it never mutates its inputs, never fails, and
// produces structurally equal trees for equal inputs. Parent links are
// resolved from each item's reference list, so malformed or cyclic data
// degrades to extra top-level threads instead of errors.
package thread

import (
	"slices"

	"github.com/atomicstack/threadview/internal/annotation"
)

// Options control filtering, expansion and ordering of a build.
type Options struct {
	// SelectedIDs restricts visibility to the listed items when non-empty.
	SelectedIDs map[string]bool
	// ForceVisibleIDs are shown regardless of selection or search.
	ForceVisibleIDs map[string]bool
	// SearchPredicate filters items when no selection is active.
	SearchPredicate annotation.Predicate
	// ExpandedOverrides pins the expansion state of individual threads.
	ExpandedOverrides map[string]bool
	// SiblingLess orders the top-level threads. Replies keep input order.
	SiblingLess annotation.Less
}

type set map[string]struct{}

func setOf(flags map[string]bool) set {
	out := make(set, len(flags))
	for id, on := range flags {
		if on {
			out[id] = struct{}{}
		}
	}
	return out
}

func (s set) has(id string) bool {
	_, ok := s[id]
	return ok
}

// Build turns items into a thread tree and returns its synthetic root.
func Build(items []annotation.Item, opts Options) *Node {
	index, order := indexItems(items)
	resolveParents(items, index)

	root := &Node{}
	for _, id := range order {
		node := index[id]
		if node.ParentID == "" {
			node.Collapsed = true
			root.Children = append(root.Children, node)
			continue
		}
		parent := index[node.ParentID]
		parent.Children = append(parent.Children, node)
	}

	selected := setOf(opts.SelectedIDs)
	forced := setOf(opts.ForceVisibleIDs)
	root.Walk(func(n *Node) bool {
		n.Visible = isVisible(n.Item, selected, forced, opts.SearchPredicate)
		return true
	})

	applyCollapse(root, selected, opts)

	root.TotalChildren = len(root.Children)
	root.Children = slices.DeleteFunc(root.Children, func(n *Node) bool {
		return !n.Visible && !n.HasVisibleDescendant()
	})

	if opts.SiblingLess != nil {
		less := opts.SiblingLess
		slices.SortStableFunc(root.Children, func(a, b *Node) int {
			switch {
			case less(a.Item, b.Item):
				return -1
			case less(b.Item, a.Item):
				return 1
			default:
				return 0
			}
		})
	}

	countReplies(root, 0)
	return root
}

// indexItems creates one node per distinct key. A repeated key keeps the
// position of its first occurrence and the content of its last.
func indexItems(items []annotation.Item) (map[string]*Node, []string) {
	index := make(map[string]*Node, len(items))
	order := make([]string, 0, len(items))
	for idx := range items {
		item := items[idx].Clone()
		key := item.Key()
		if existing, ok := index[key]; ok {
			existing.Item = &item
			continue
		}
		index[key] = &Node{ID: key, Item: &item}
		order = append(order, key)
	}
	return index, order
}

// resolveParents links each reply to its nearest resolvable ancestor,
// skipping candidates that would close a cycle.
func resolveParents(items []annotation.Item, index map[string]*Node) {
	resolved := make(set, len(index))
	for idx := range items {
		key := items[idx].Key()
		if resolved.has(key) {
			continue
		}
		resolved[key] = struct{}{}
		node := index[key]
		refs := node.Item.References
		for ref := len(refs) - 1; ref >= 0; ref-- {
			candidate := refs[ref]
			if _, ok := index[candidate]; !ok {
				continue
			}
			if reaches(index, candidate, key) {
				continue
			}
			node.ParentID = candidate
			break
		}
	}
}

// reaches walks the resolved parent chain from start and reports whether it
// arrives at target. The walk is bounded by the number of nodes; exhausting
// the bound is treated as reaching the target.
func reaches(index map[string]*Node, start, target string) bool {
	cur := start
	for steps := 0; steps <= len(index); steps++ {
		if cur == "" {
			return false
		}
		if cur == target {
			return true
		}
		cur = index[cur].ParentID
	}
	return true
}

func isVisible(item *annotation.Item, selected, forced set, predicate annotation.Predicate) bool {
	if item == nil {
		return false
	}
	id := item.Key()
	if forced.has(id) {
		return true
	}
	if len(selected) > 0 {
		return selected.has(id)
	}
	return predicate == nil || predicate(item)
}

// applyCollapse resolves the final collapsed state of every item node. A
// thread opens when an explicit override says so, when a search match sits
// below it, or when it contains a selected reply.
func applyCollapse(root *Node, selected set, opts Options) {
	var visit func(n *Node) (visibleBelow, selectedBelow bool)
	visit = func(n *Node) (bool, bool) {
		var visibleBelow, selectedBelow bool
		for _, child := range n.Children {
			v, s := visit(child)
			visibleBelow = visibleBelow || v || child.Visible
			selectedBelow = selectedBelow || s || selected.has(child.ID)
		}
		if n.IsRoot() {
			return visibleBelow, selectedBelow
		}
		if expanded, ok := opts.ExpandedOverrides[n.ID]; ok {
			n.Collapsed = !expanded
			return visibleBelow, selectedBelow
		}
		matchBelow := opts.SearchPredicate != nil && visibleBelow
		n.Collapsed = n.Collapsed && !matchBelow && !selectedBelow
		return visibleBelow, selectedBelow
	}
	visit(root)
}

func countReplies(n *Node, depth int) int {
	n.Depth = depth
	if !n.IsRoot() {
		n.TotalChildren = len(n.Children)
	}
	n.ReplyCount = 0
	for _, child := range n.Children {
		n.ReplyCount += 1 + countReplies(child, depth+1)
	}
	return n.ReplyCount
}
