// Package rootthread keeps the current thread tree in sync with the state
// store, the item collection and the active sort mode and search query.
package rootthread

import (
	"fmt"

	"github.com/atomicstack/threadview/internal/annotation"
	"github.com/atomicstack/threadview/internal/logging/events"
	"github.com/atomicstack/threadview/internal/state"
	"github.com/atomicstack/threadview/internal/thread"
)

// ErrUnknownSortMode is returned by SortBy for modes it cannot order by.
var ErrUnknownSortMode = annotation.ErrUnknownSortMode

// Store is the part of the state store the controller reads from and the
// few actions it issues against it.
type Store interface {
	State() state.State
	Subscribe(fn func()) (unsubscribe func())
	Annotations() []annotation.Item
	AddAnnotations([]annotation.Item)
	RemoveAnnotations([]annotation.Item)
	SetExpanded(id string, expanded bool)
	SetForceVisible(id string, visible bool)
	ClearForceVisible()
	SetSortMode(annotation.SortMode)
	SetSearchQuery(string)
}

type subscriber struct {
	fn func(*thread.Node)
}

// Controller owns the latest built tree. It must be driven from a single
// goroutine.
type Controller struct {
	store       Store
	sortMode    annotation.SortMode
	less        annotation.Less
	searchQuery string
	root        *thread.Node

	unsubscribe func()
	subscribers []*subscriber
	batching    int
}

// New builds the initial tree and starts following store changes. The sort
// mode and search query start from the store's state; an unknown sort mode
// falls back to location order.
func New(store Store) *Controller {
	st := store.State()
	c := &Controller{store: store, searchQuery: st.SearchQuery}
	if err := c.setSort(st.SortMode); err != nil {
		_ = c.setSort(annotation.SortLocation)
		store.SetSortMode(annotation.SortLocation)
	}
	c.Rebuild()
	c.unsubscribe = store.Subscribe(c.onStoreChange)
	return c
}

func (c *Controller) onStoreChange() {
	if c.batching > 0 {
		return
	}
	c.Rebuild()
}

// batch runs fn with store notifications coalesced into a single rebuild.
func (c *Controller) batch(fn func()) {
	c.batching++
	defer func() {
		c.batching--
		if c.batching == 0 {
			c.Rebuild()
		}
	}()
	fn()
}

// Rebuild runs the thread builder over the current inputs and publishes the
// result.
func (c *Controller) Rebuild() {
	st := c.store.State()
	items := c.store.Annotations()
	root := thread.Build(items, thread.Options{
		SelectedIDs:       st.SelectedIDs,
		ForceVisibleIDs:   st.ForceVisible,
		SearchPredicate:   annotation.ParseQuery(c.searchQuery),
		ExpandedOverrides: st.Expanded,
		SiblingLess:       c.less,
	})
	c.root = root
	events.Thread.Rebuild(len(items), len(root.Children), string(c.sortMode), c.searchQuery)
	c.publish(root)
}

// Thread returns the latest tree. Callers must treat it as read-only.
func (c *Controller) Thread() *thread.Node {
	return c.root
}

func (c *Controller) SortMode() annotation.SortMode {
	return c.sortMode
}

func (c *Controller) SearchQuery() string {
	return c.searchQuery
}

// SortBy switches the ordering of top-level threads. Unknown modes are
// rejected without touching the current tree.
func (c *Controller) SortBy(mode annotation.SortMode) error {
	if err := c.setSort(mode); err != nil {
		events.Thread.SortRejected(string(mode))
		return fmt.Errorf("sort by %q: %w", string(mode), err)
	}
	events.Thread.Sort(string(mode))
	c.batch(func() {
		c.store.SetSortMode(mode)
	})
	return nil
}

func (c *Controller) setSort(mode annotation.SortMode) error {
	less, err := annotation.Comparator(mode)
	if err != nil {
		return err
	}
	c.sortMode = mode
	c.less = less
	return nil
}

// SetSearchQuery replaces the active query. Any "show anyway" overrides are
// dropped because they were chosen against the previous query.
func (c *Controller) SetSearchQuery(query string) {
	events.Thread.Search(query)
	c.batch(func() {
		c.searchQuery = query
		c.store.SetSearchQuery(query)
		c.store.ClearForceVisible()
	})
}

// Reveal shows the given items regardless of the active query or
// selection until the next SetSearchQuery.
func (c *Controller) Reveal(ids []string) {
	if len(ids) == 0 {
		return
	}
	events.Thread.Reveal(ids)
	c.batch(func() {
		for _, id := range ids {
			c.store.SetForceVisible(id, true)
		}
	})
}

// OnLoaded replaces any stale copies of items with the fresh ones.
func (c *Controller) OnLoaded(items []annotation.Item) {
	events.Thread.Lifecycle("loaded", annotation.Keys(items))
	c.batch(func() {
		c.store.RemoveAnnotations(items)
		c.store.AddAnnotations(items)
	})
}

// OnCreated adds a new item. A new reply also expands every ancestor it
// names so it is never hidden inside a collapsed thread.
func (c *Controller) OnCreated(item annotation.Item) {
	events.Thread.Lifecycle("created", []string{item.Key()})
	c.batch(func() {
		batch := []annotation.Item{item}
		c.store.RemoveAnnotations(batch)
		c.store.AddAnnotations(batch)
		if item.IsReply() {
			events.Thread.ExpandAncestors(item.Key(), item.References)
			for _, ancestor := range item.References {
				c.store.SetExpanded(ancestor, true)
			}
		}
	})
}

func (c *Controller) OnDeleted(item annotation.Item) {
	events.Thread.Lifecycle("deleted", []string{item.Key()})
	c.batch(func() {
		c.store.RemoveAnnotations([]annotation.Item{item})
	})
}

func (c *Controller) OnUnloaded(items []annotation.Item) {
	events.Thread.Lifecycle("unloaded", annotation.Keys(items))
	c.batch(func() {
		c.store.RemoveAnnotations(items)
	})
}

// Subscribe registers fn to receive every rebuilt tree.
func (c *Controller) Subscribe(fn func(*thread.Node)) (unsubscribe func()) {
	sub := &subscriber{fn: fn}
	c.subscribers = append(c.subscribers, sub)
	return func() {
		for idx, existing := range c.subscribers {
			if existing == sub {
				c.subscribers = append(c.subscribers[:idx], c.subscribers[idx+1:]...)
				return
			}
		}
	}
}

func (c *Controller) publish(root *thread.Node) {
	subs := make([]*subscriber, len(c.subscribers))
	copy(subs, c.subscribers)
	for _, sub := range subs {
		sub.fn(root)
	}
}

// Close stops following the store. It is safe to call more than once.
func (c *Controller) Close() {
	if c.unsubscribe == nil {
		return
	}
	c.unsubscribe()
	c.unsubscribe = nil
}
