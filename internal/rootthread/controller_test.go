package rootthread

import (
	"errors"
	"testing"
	"time"

	"github.com/atomicstack/threadview/internal/annotation"
	"github.com/atomicstack/threadview/internal/state"
	"github.com/atomicstack/threadview/internal/thread"
)

func scenarioItems() []annotation.Item {
	return []annotation.Item{
		{ID: "1", Updated: time.Unix(50, 0), Text: "first"},
		{ID: "2", Updated: time.Unix(200, 0), Text: "second"},
		{ID: "3", References: []string{"2"}, Updated: time.Unix(100, 0), Text: "reply"},
	}
}

func newTestController(t *testing.T, initial state.State, items []annotation.Item) (*Controller, state.Store) {
	t.Helper()
	store := state.NewStore(initial)
	store.AddAnnotations(items)
	c := New(store)
	t.Cleanup(c.Close)
	return c, store
}

func topLevelIDs(root *thread.Node) []string {
	ids := make([]string, 0, len(root.Children))
	for _, child := range root.Children {
		ids = append(ids, child.ID)
	}
	return ids
}

func equalIDs(got []string, want ...string) bool {
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

func TestNewBuildsInitialTree(t *testing.T) {
	c, _ := newTestController(t, state.State{SortMode: annotation.SortNewest}, scenarioItems())
	if got := topLevelIDs(c.Thread()); !equalIDs(got, "2", "1") {
		t.Fatalf("expected newest-first threads [2 1], got %v", got)
	}
	if c.SortMode() != annotation.SortNewest {
		t.Fatalf("expected sort mode from store, got %q", c.SortMode())
	}
}

func TestNewFallsBackOnUnknownSortMode(t *testing.T) {
	c, _ := newTestController(t, state.State{SortMode: "Bogus"}, nil)
	if c.SortMode() != annotation.SortLocation {
		t.Fatalf("expected location fallback, got %q", c.SortMode())
	}
}

func TestSortByRejectsUnknownMode(t *testing.T) {
	c, _ := newTestController(t, state.State{SortMode: annotation.SortOldest}, scenarioItems())
	before := c.Thread()
	err := c.SortBy("Random")
	if !errors.Is(err, ErrUnknownSortMode) {
		t.Fatalf("expected ErrUnknownSortMode, got %v", err)
	}
	if c.SortMode() != annotation.SortOldest || c.Thread() != before {
		t.Fatalf("expected rejected sort to leave state untouched")
	}
	if err := c.SortBy(annotation.SortNewest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := topLevelIDs(c.Thread()); !equalIDs(got, "2", "1") {
		t.Fatalf("expected newest order after SortBy, got %v", got)
	}
}

func TestStoreChangesTriggerRebuild(t *testing.T) {
	c, store := newTestController(t, state.State{}, scenarioItems())
	builds := 0
	c.Subscribe(func(*thread.Node) { builds++ })
	store.SetExpanded("2", true)
	if builds != 1 {
		t.Fatalf("expected one rebuild, got %d", builds)
	}
	if node := c.Thread().Find("2"); node == nil || node.Collapsed {
		t.Fatalf("expected thread 2 expanded after store change")
	}
}

func TestSetSearchQueryClearsForcedVisibility(t *testing.T) {
	c, store := newTestController(t, state.State{}, scenarioItems())
	store.SetForceVisible("1", true)
	builds := 0
	c.Subscribe(func(*thread.Node) { builds++ })

	c.SetSearchQuery("second")
	if len(store.State().ForceVisible) != 0 {
		t.Fatalf("expected force-visible overrides cleared")
	}
	if builds != 1 {
		t.Fatalf("expected a single rebuild, got %d", builds)
	}
	if got := topLevelIDs(c.Thread()); !equalIDs(got, "2") {
		t.Fatalf("expected only matching thread, got %v", got)
	}
	if c.SearchQuery() != "second" {
		t.Fatalf("expected query recorded, got %q", c.SearchQuery())
	}
}

func TestOnCreatedReplyExpandsAncestors(t *testing.T) {
	items := []annotation.Item{{ID: "a"}, {ID: "b", References: []string{"a"}}}
	c, store := newTestController(t, state.State{}, items)
	if root := c.Thread(); !root.Children[0].Collapsed {
		t.Fatalf("expected thread to start collapsed")
	}
	c.OnCreated(annotation.Item{Tag: "new", References: []string{"a", "b"}})
	expanded := store.State().Expanded
	if !expanded["a"] || !expanded["b"] {
		t.Fatalf("expected ancestors expanded, got %v", expanded)
	}
	root := c.Thread()
	if root.Children[0].Collapsed {
		t.Fatalf("expected thread expanded to show new reply")
	}
	if node := root.Find("new"); node == nil || node.ParentID != "b" {
		t.Fatalf("expected new reply under b, got %#v", node)
	}
}

func TestOnLoadedReplacesStaleCopies(t *testing.T) {
	c, store := newTestController(t, state.State{}, scenarioItems())
	builds := 0
	c.Subscribe(func(*thread.Node) { builds++ })
	c.OnLoaded([]annotation.Item{{ID: "1", Text: "edited"}, {ID: "4"}})
	if builds != 1 {
		t.Fatalf("expected lifecycle event to rebuild once, got %d", builds)
	}
	if node := c.Thread().Find("1"); node == nil || node.Item.Text != "edited" {
		t.Fatalf("expected fresh copy of 1, got %#v", node)
	}
	if got := len(store.Annotations()); got != 4 {
		t.Fatalf("expected 4 items, got %d", got)
	}
}

func TestOnDeletedAndUnloaded(t *testing.T) {
	c, _ := newTestController(t, state.State{}, scenarioItems())
	c.OnDeleted(annotation.Item{ID: "2"})
	root := c.Thread()
	if got := topLevelIDs(root); !equalIDs(got, "1", "3") {
		t.Fatalf("expected orphaned reply promoted, got %v", got)
	}
	c.OnUnloaded([]annotation.Item{{ID: "1"}, {ID: "3"}})
	if n := len(c.Thread().Children); n != 0 {
		t.Fatalf("expected empty tree, got %d threads", n)
	}
}

func TestRebuildIsIdempotent(t *testing.T) {
	c, _ := newTestController(t, state.State{}, scenarioItems())
	first := c.Thread()
	c.Rebuild()
	if !thread.Equal(first, c.Thread()) {
		t.Fatalf("expected rebuild with unchanged inputs to match")
	}
}

func TestCloseStopsFollowingStore(t *testing.T) {
	c, store := newTestController(t, state.State{}, scenarioItems())
	builds := 0
	unsubscribe := c.Subscribe(func(*thread.Node) { builds++ })
	c.Close()
	c.Close()
	store.SetExpanded("1", true)
	if builds != 0 {
		t.Fatalf("expected no rebuild after Close, got %d", builds)
	}
	c.Rebuild()
	unsubscribe()
	c.Rebuild()
	if builds != 1 {
		t.Fatalf("expected one publish before unsubscribe, got %d", builds)
	}
}

func TestStoreMirrorsSortAndQuery(t *testing.T) {
	c, store := newTestController(t, state.State{}, scenarioItems())
	if err := c.SortBy(annotation.SortNewest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.SetSearchQuery("second")
	st := store.State()
	if st.SortMode != annotation.SortNewest || st.SearchQuery != "second" {
		t.Fatalf("expected store to follow controller, got sort %q query %q", st.SortMode, st.SearchQuery)
	}

	fallback, fallbackStore := newTestController(t, state.State{SortMode: "Bogus"}, nil)
	if fallbackStore.State().SortMode != fallback.SortMode() {
		t.Fatalf("expected store sort mode %q, got %q", fallback.SortMode(), fallbackStore.State().SortMode)
	}
}

func TestRevealShowsHiddenReplyUntilNextSearch(t *testing.T) {
	c, store := newTestController(t, state.State{}, scenarioItems())
	c.SetSearchQuery("second")
	if node := c.Thread().Find("3"); node == nil || node.Visible {
		t.Fatalf("expected reply 3 hidden by the query")
	}

	builds := 0
	c.Subscribe(func(*thread.Node) { builds++ })
	c.Reveal([]string{"3"})
	if builds != 1 {
		t.Fatalf("expected one rebuild, got %d", builds)
	}
	if node := c.Thread().Find("3"); node == nil || !node.Visible {
		t.Fatalf("expected reply 3 revealed")
	}
	if !store.State().ForceVisible["3"] {
		t.Fatalf("expected force-visible override in store")
	}

	c.SetSearchQuery("second")
	if node := c.Thread().Find("3"); node == nil || node.Visible {
		t.Fatalf("expected new search to drop the override")
	}
}
