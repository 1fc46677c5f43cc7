package thread

import (
	"testing"
	"time"

	"github.com/atomicstack/threadview/internal/annotation"
)

func item(id string, refs ...string) annotation.Item {
	return annotation.Item{ID: id, References: refs}
}

func childIDs(n *Node) []string {
	ids := make([]string, 0, len(n.Children))
	for _, child := range n.Children {
		ids = append(ids, child.ID)
	}
	return ids
}

func sameIDs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func scenarioItems() []annotation.Item {
	items := []annotation.Item{item("1"), item("2"), item("3", "2")}
	items[0].Updated = time.Unix(50, 0)
	items[1].Updated = time.Unix(200, 0)
	items[2].Updated = time.Unix(100, 0)
	return items
}

func TestBuildThreadsReplies(t *testing.T) {
	root := Build(scenarioItems(), Options{})
	if root.Item != nil {
		t.Fatalf("expected synthetic root without item")
	}
	if got := childIDs(root); !sameIDs(got, []string{"1", "2"}) {
		t.Fatalf("expected top-level [1 2], got %v", got)
	}
	two := root.Children[1]
	if got := childIDs(two); !sameIDs(got, []string{"3"}) {
		t.Fatalf("expected thread 2 to hold reply 3, got %v", got)
	}
	if two.ReplyCount != 1 {
		t.Fatalf("expected replyCount(2) == 1, got %d", two.ReplyCount)
	}
	if root.Children[0].ReplyCount != 0 {
		t.Fatalf("expected replyCount(1) == 0, got %d", root.Children[0].ReplyCount)
	}
	if reply := two.Children[0]; reply.ParentID != "2" || reply.Depth != 2 {
		t.Fatalf("expected reply parent 2 at depth 2, got parent %q depth %d", reply.ParentID, reply.Depth)
	}
}

func TestBuildSortsTopLevelNewestFirst(t *testing.T) {
	less, err := annotation.Comparator(annotation.SortNewest)
	if err != nil {
		t.Fatalf("unexpected comparator error: %v", err)
	}
	root := Build(scenarioItems(), Options{SiblingLess: less})
	if got := childIDs(root); !sameIDs(got, []string{"2", "1"}) {
		t.Fatalf("expected newest order [2 1], got %v", got)
	}
}

func TestBuildSortIsStableForTies(t *testing.T) {
	items := []annotation.Item{item("a"), item("b"), item("c")}
	less, _ := annotation.Comparator(annotation.SortOldest)
	root := Build(items, Options{SiblingLess: less})
	if got := childIDs(root); !sameIDs(got, []string{"a", "b", "c"}) {
		t.Fatalf("expected input order for equal timestamps, got %v", got)
	}
}

func TestBuildDoesNotSortReplies(t *testing.T) {
	items := []annotation.Item{item("root"), item("r1", "root"), item("r2", "root")}
	items[1].Updated = time.Unix(10, 0)
	items[2].Updated = time.Unix(20, 0)
	less, _ := annotation.Comparator(annotation.SortNewest)
	root := Build(items, Options{SiblingLess: less})
	if got := childIDs(root.Children[0]); !sameIDs(got, []string{"r1", "r2"}) {
		t.Fatalf("expected replies in insertion order, got %v", got)
	}
}

func TestBuildTrimsThreadsFailingSearch(t *testing.T) {
	predicate := func(it *annotation.Item) bool { return it.ID == "2" }
	root := Build(scenarioItems(), Options{SearchPredicate: predicate})
	if got := childIDs(root); !sameIDs(got, []string{"2"}) {
		t.Fatalf("expected only thread 2 to survive, got %v", got)
	}
	if root.TotalChildren != 2 {
		t.Fatalf("expected root to count trimmed threads, got %d", root.TotalChildren)
	}
	if root.Visible {
		t.Fatalf("expected root visibility to stay false")
	}
}

func TestBuildKeepsThreadWithMatchingReply(t *testing.T) {
	predicate := func(it *annotation.Item) bool { return it.ID == "3" }
	root := Build(scenarioItems(), Options{SearchPredicate: predicate})
	if got := childIDs(root); !sameIDs(got, []string{"2"}) {
		t.Fatalf("expected thread 2 kept for its reply, got %v", got)
	}
	head := root.Children[0]
	if head.Visible {
		t.Fatalf("expected thread head hidden by search")
	}
	if head.Collapsed {
		t.Fatalf("expected thread expanded to reveal matching reply")
	}
}

func TestBuildTopLevelThreadsStartCollapsed(t *testing.T) {
	root := Build(scenarioItems(), Options{})
	for _, child := range root.Children {
		if !child.Collapsed {
			t.Fatalf("expected top-level thread %s collapsed", child.ID)
		}
	}
	if reply := root.Children[1].Children[0]; reply.Collapsed {
		t.Fatalf("expected reply to start expanded")
	}
}

func TestBuildExpandedOverrides(t *testing.T) {
	root := Build(scenarioItems(), Options{ExpandedOverrides: map[string]bool{"2": true, "3": false}})
	two := root.Find("2")
	if two == nil || two.Collapsed {
		t.Fatalf("expected thread 2 expanded by override")
	}
	if three := root.Find("3"); three == nil || !three.Collapsed {
		t.Fatalf("expected reply 3 collapsed by override")
	}
}

func TestBuildSelectionRestrictsVisibility(t *testing.T) {
	root := Build(scenarioItems(), Options{SelectedIDs: map[string]bool{"3": true, "1": false}})
	if got := childIDs(root); !sameIDs(got, []string{"2"}) {
		t.Fatalf("expected only thread containing selection, got %v", got)
	}
	head := root.Children[0]
	if head.Visible {
		t.Fatalf("expected unselected head hidden")
	}
	if head.Collapsed {
		t.Fatalf("expected thread with selected reply expanded")
	}
	if !head.Children[0].Visible {
		t.Fatalf("expected selected reply visible")
	}
}

func TestBuildSelectionIgnoresSearch(t *testing.T) {
	never := func(*annotation.Item) bool { return false }
	root := Build(scenarioItems(), Options{
		SelectedIDs:     map[string]bool{"1": true},
		SearchPredicate: never,
	})
	if got := childIDs(root); !sameIDs(got, []string{"1"}) {
		t.Fatalf("expected selection to win over search, got %v", got)
	}
}

func TestBuildForceVisibleBeatsFilters(t *testing.T) {
	never := func(*annotation.Item) bool { return false }
	root := Build(scenarioItems(), Options{
		SearchPredicate: never,
		ForceVisibleIDs: map[string]bool{"1": true},
	})
	if got := childIDs(root); !sameIDs(got, []string{"1"}) {
		t.Fatalf("expected forced thread only, got %v", got)
	}
	if !root.Children[0].Visible {
		t.Fatalf("expected forced thread visible")
	}
}

func TestBuildNearestResolvableAncestorWins(t *testing.T) {
	items := []annotation.Item{
		item("a"),
		item("c", "a", "missing"),
		item("d", "a", "c", "gone"),
	}
	root := Build(items, Options{})
	if got := childIDs(root); !sameIDs(got, []string{"a"}) {
		t.Fatalf("expected single thread a, got %v", got)
	}
	c := root.Find("c")
	if c == nil || c.ParentID != "a" {
		t.Fatalf("expected c attached to a, got %#v", c)
	}
	d := root.Find("d")
	if d == nil || d.ParentID != "c" {
		t.Fatalf("expected d attached to c, got %#v", d)
	}
	if root.Children[0].ReplyCount != 2 {
		t.Fatalf("expected two replies under a, got %d", root.Children[0].ReplyCount)
	}
}

func TestBuildMalformedReferencesBecomeTopLevel(t *testing.T) {
	items := []annotation.Item{
		item("self", "self"),
		item("orphan", "unknown"),
		item("x", "y"),
		item("y", "x"),
	}
	root := Build(items, Options{})
	if got := childIDs(root); !sameIDs(got, []string{"self", "orphan", "y"}) {
		t.Fatalf("expected malformed items at top level, got %v", got)
	}
	if y := root.Find("y"); len(y.Children) != 1 || y.Children[0].ID != "x" {
		t.Fatalf("expected x to nest under y once, got %v", childIDs(y))
	}
}

func TestBuildCycleGuardFallsBackToDistantAncestor(t *testing.T) {
	items := []annotation.Item{
		item("a"),
		item("b", "a", "c"),
		item("c", "a", "b"),
	}
	root := Build(items, Options{})
	c := root.Find("c")
	if c == nil || c.ParentID != "a" {
		t.Fatalf("expected c to skip b and attach to a, got %#v", c)
	}
	b := root.Find("b")
	if b == nil || b.ParentID != "c" {
		t.Fatalf("expected b attached to c, got %#v", b)
	}
}

func TestBuildDuplicateKeysKeepFirstPosition(t *testing.T) {
	first := item("a")
	first.Text = "old"
	second := item("a")
	second.Text = "new"
	root := Build([]annotation.Item{first, item("b"), second}, Options{})
	if got := childIDs(root); !sameIDs(got, []string{"a", "b"}) {
		t.Fatalf("expected deduplicated threads, got %v", got)
	}
	if root.Children[0].Item.Text != "new" {
		t.Fatalf("expected latest content, got %q", root.Children[0].Item.Text)
	}
}

func TestBuildUsesTagWhenIDMissing(t *testing.T) {
	items := []annotation.Item{{Tag: "t1"}, {Tag: "t2", References: []string{"t1"}}}
	root := Build(items, Options{})
	if got := childIDs(root); !sameIDs(got, []string{"t1"}) {
		t.Fatalf("expected tag-keyed thread, got %v", got)
	}
	if root.Children[0].ReplyCount != 1 {
		t.Fatalf("expected tag-keyed reply to attach")
	}
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	items := scenarioItems()
	root := Build(items, Options{})
	root.Children[0].Item.Text = "changed"
	if items[0].Text != "" {
		t.Fatalf("expected input items untouched")
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	less, _ := annotation.Comparator(annotation.SortNewest)
	opts := Options{SiblingLess: less, ExpandedOverrides: map[string]bool{"2": true}}
	first := Build(scenarioItems(), opts)
	second := Build(scenarioItems(), opts)
	if !Equal(first, second) {
		t.Fatalf("expected identical trees for identical input")
	}
}

func TestBuildEmptyInput(t *testing.T) {
	root := Build(nil, Options{})
	if root == nil || len(root.Children) != 0 || root.ReplyCount != 0 {
		t.Fatalf("expected empty root, got %#v", root)
	}
}

func TestRowsSkipCollapsedReplies(t *testing.T) {
	root := Build(scenarioItems(), Options{})
	if rows := Rows(root.Children[1]); len(rows) != 1 {
		t.Fatalf("expected only the collapsed head, got %d rows", len(rows))
	}
	root = Build(scenarioItems(), Options{ExpandedOverrides: map[string]bool{"2": true}})
	rows := Rows(root.Children[1])
	if len(rows) != 2 || rows[1].Node.ID != "3" || rows[1].Depth != 1 {
		t.Fatalf("expected head plus indented reply, got %#v", rows)
	}
}
